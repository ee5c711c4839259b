// ABOUTME: Resume list synchronizer that mirrors the server's list for one user
// ABOUTME: Fetches, set-primary and delete results are applied only once confirmed

package client

import (
	"context"
	"sync"

	"github.com/harper/resumedeck/internal/logger"
)

// FetchErrorMessage is shown inline when the list cannot be loaded.
const FetchErrorMessage = "Failed to fetch resumes"

// DeletePrompt is the question put to the Confirmer before a delete.
const DeletePrompt = "Are you sure you want to delete this resume?"

// ListState is a copy of the synchronizer state safe to hand to the view.
type ListState struct {
	Items   []Resume
	Loading bool
	Error   string
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

type ResumeSync struct {
	svc     ResumeService
	confirm Confirmer
	log     logger.Logger

	mu       sync.Mutex
	items    []Resume
	inflight int
	errMsg   string
	closed   bool
	// gen is bumped by Reset so responses for a previous user are dropped
	gen uint64

	locksMu sync.Mutex
	locks   map[string]*keyLock
}

// NewResumeSync builds a synchronizer. A nil confirmer approves every delete.
func NewResumeSync(svc ResumeService, confirm Confirmer) *ResumeSync {
	if confirm == nil {
		confirm = ConfirmFunc(func(context.Context, string, string) bool { return true })
	}
	return &ResumeSync{
		svc:     svc,
		confirm: confirm,
		log:     logger.Named("sync"),
		items:   []Resume{},
		locks:   make(map[string]*keyLock),
	}
}

// Refresh reloads the list. Overlapping refreshes are not cancelled; whichever
// response arrives last is the one kept.
func (s *ResumeSync) Refresh(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.inflight++
	s.errMsg = ""
	gen := s.gen
	s.mu.Unlock()

	items, err := s.svc.ListResumes(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight > 0 {
		s.inflight--
	}
	if s.closed || gen != s.gen {
		return nil
	}
	if err != nil {
		s.log.Warn("list resumes for %s: %v", userID, err)
		s.errMsg = FetchErrorMessage
		return err
	}
	if items == nil {
		items = []Resume{}
	}
	s.items = append([]Resume(nil), items...)
	return nil
}

// SetPrimary marks resumeID as the user's primary resume once the service
// confirms it. On failure the list is left untouched.
func (s *ResumeSync) SetPrimary(ctx context.Context, resumeID, userID string) error {
	if resumeID == "" || userID == "" {
		return nil
	}
	unlock := s.lockID(resumeID)
	defer unlock()
	gen := s.generation()

	if err := s.svc.SetPrimary(ctx, resumeID, userID); err != nil {
		s.log.Error("set primary %s: %v", resumeID, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return nil
	}
	next := make([]Resume, len(s.items))
	for i, r := range s.items {
		r.IsPrimary = r.ID == resumeID
		next[i] = r
	}
	s.items = next
	return nil
}

// DeleteResume asks for confirmation, then removes the resume once the
// service confirms. It reports whether the delete went ahead.
func (s *ResumeSync) DeleteResume(ctx context.Context, resumeID, userID string) (bool, error) {
	if resumeID == "" || userID == "" {
		return false, nil
	}
	if !s.confirm.Confirm(ctx, DeletePrompt, resumeID) {
		return false, nil
	}

	unlock := s.lockID(resumeID)
	defer unlock()
	gen := s.generation()

	if err := s.svc.DeleteResume(ctx, resumeID, userID); err != nil {
		s.log.Error("delete %s: %v", resumeID, err)
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return true, nil
	}
	next := make([]Resume, 0, len(s.items))
	for _, r := range s.items {
		if r.ID != resumeID {
			next = append(next, r)
		}
	}
	s.items = next
	return true, nil
}

func (s *ResumeSync) Snapshot() ListState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ListState{
		Items:   append([]Resume{}, s.items...),
		Loading: s.inflight > 0,
		Error:   s.errMsg,
	}
}

// Reset drops everything known about the previous user.
func (s *ResumeSync) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []Resume{}
	s.errMsg = ""
	s.gen++
}

func (s *ResumeSync) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Close discards every response that arrives afterwards.
func (s *ResumeSync) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// lockID serializes mutations on one resume id.
func (s *ResumeSync) lockID(id string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &keyLock{}
		s.locks[id] = l
	}
	l.refs++
	s.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.locksMu.Unlock()
	}
}
