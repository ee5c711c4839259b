// ABOUTME: Resume manager coordinating the database, object store and event publisher
// ABOUTME: Implements list, set-primary, delete, upload and sign-in for the RPC layer

package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harper/resumedeck/internal/db"
	"github.com/harper/resumedeck/internal/documents"
	"github.com/harper/resumedeck/internal/events"
	"github.com/harper/resumedeck/internal/logger"
	"github.com/harper/resumedeck/internal/storage"
)

var (
	ErrNotFound        = errors.New("resume not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

var log = logger.Named("resumes")

// Resume is the client-facing view of a stored resume.
type Resume struct {
	ID        string
	Title     string
	CreatedAt time.Time
	FileURL   string
	IsPrimary bool
	FileName  string
	MimeType  string
	SizeBytes int64
}

type UploadRequest struct {
	UserID         string
	FileName       string
	JobDescription string
	Data           []byte
}

type ManagerConfig struct {
	PublicURL      string
	MaxUploadBytes int64
}

type Manager struct {
	config    ManagerConfig
	db        *db.DB
	store     storage.ObjectStore
	publisher events.Publisher
	now       func() time.Time
}

func NewManager(cfg ManagerConfig, database *db.DB, store storage.ObjectStore, publisher events.Publisher) *Manager {
	if publisher == nil {
		publisher = events.Nop{}
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	return &Manager{
		config:    cfg,
		db:        database,
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
}

// FileURL is where the management server serves the resume's file.
func (m *Manager) FileURL(resumeID string) string {
	return m.config.PublicURL + "/files/" + resumeID
}

func (m *Manager) toResume(r db.Resume) Resume {
	return Resume{
		ID:        r.ID,
		Title:     r.Title,
		CreatedAt: r.CreatedAt,
		FileURL:   m.FileURL(r.ID),
		IsPrimary: r.IsPrimary,
		FileName:  r.FileName,
		MimeType:  r.MimeType,
		SizeBytes: r.SizeBytes,
	}
}

func (m *Manager) publish(ctx context.Context, typ events.Type, userID, resumeID, title string) {
	ev := events.Event{Type: typ, UserID: userID, ResumeID: resumeID, Title: title, OccurredAt: m.now().UTC()}
	if err := m.publisher.Publish(ctx, ev); err != nil {
		log.Warn("failed to publish %s for resume %s: %v", typ, resumeID, err)
	}
}

func requireID(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidArgument, name)
	}
	return nil
}

// List returns the user's resumes, newest first.
func (m *Manager) List(ctx context.Context, userID string) ([]Resume, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	rows, err := m.db.ListResumes(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]Resume, 0, len(rows))
	for _, r := range rows {
		out = append(out, m.toResume(r))
	}
	return out, nil
}

func (m *Manager) SetPrimary(ctx context.Context, resumeID, userID string) error {
	if err := requireID("resumeId", resumeID); err != nil {
		return err
	}
	if err := requireID("userId", userID); err != nil {
		return err
	}
	if err := m.db.SetPrimary(ctx, resumeID, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, resumeID)
		}
		return err
	}
	log.Debug("resume %s is now primary for user %s", resumeID, userID)
	m.publish(ctx, events.ResumePrimaryChanged, userID, resumeID, "")
	return nil
}

// Delete removes the resume and its stored file. Deleting a missing resume succeeds.
func (m *Manager) Delete(ctx context.Context, resumeID, userID string) error {
	if err := requireID("resumeId", resumeID); err != nil {
		return err
	}
	if err := requireID("userId", userID); err != nil {
		return err
	}
	removed, ok, err := m.db.DeleteResume(ctx, resumeID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := m.store.Delete(ctx, removed.StorageKey); err != nil {
		// the row is gone; an orphaned object is only wasted space
		log.Warn("failed to delete object %s: %v", removed.StorageKey, err)
	}
	m.publish(ctx, events.ResumeDeleted, userID, resumeID, removed.Title)
	return nil
}

// Upload verifies, stores and records a new resume.
func (m *Manager) Upload(ctx context.Context, req UploadRequest) (Resume, error) {
	if err := requireID("userId", req.UserID); err != nil {
		return Resume{}, err
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return Resume{}, fmt.Errorf("%w: jobDescription is required", ErrInvalidArgument)
	}
	if _, err := m.db.GetUser(ctx, req.UserID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return Resume{}, fmt.Errorf("%w: %s", ErrUserNotFound, req.UserID)
		}
		return Resume{}, err
	}
	if err := documents.Verify(req.FileName, req.Data, m.config.MaxUploadBytes); err != nil {
		return Resume{}, err
	}

	key, size, err := m.store.Save(ctx, req.UserID, req.FileName, bytes.NewReader(req.Data))
	if err != nil {
		return Resume{}, fmt.Errorf("failed to store file: %w", err)
	}

	row := db.Resume{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		Title:          documents.Title(req.FileName),
		FileName:       req.FileName,
		StorageKey:     key,
		MimeType:       documents.MimeType(req.FileName),
		SizeBytes:      size,
		JobDescription: strings.TrimSpace(req.JobDescription),
		CreatedAt:      m.now(),
	}
	if err := m.db.CreateResume(ctx, row); err != nil {
		if derr := m.store.Delete(ctx, key); derr != nil {
			log.Warn("failed to clean up object %s: %v", key, derr)
		}
		return Resume{}, err
	}

	log.Info("stored resume %s (%d bytes) for user %s", row.ID, size, req.UserID)
	m.publish(ctx, events.ResumeUploaded, req.UserID, row.ID, row.Title)
	return m.toResume(row), nil
}

// OpenFile returns the stored file for a resume. The caller closes the reader.
func (m *Manager) OpenFile(ctx context.Context, resumeID string) (io.ReadCloser, Resume, error) {
	row, err := m.db.GetResume(ctx, resumeID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, Resume{}, fmt.Errorf("%w: %s", ErrNotFound, resumeID)
		}
		return nil, Resume{}, err
	}
	rc, err := m.store.Open(ctx, row.StorageKey)
	if err != nil {
		return nil, Resume{}, fmt.Errorf("failed to open file: %w", err)
	}
	return rc, m.toResume(row), nil
}

// SignIn returns the user for email, creating it on first sign-in.
func (m *Manager) SignIn(ctx context.Context, email, displayName, avatarURL string) (db.User, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return db.User{}, fmt.Errorf("%w: email %q", ErrInvalidArgument, email)
	}
	return m.db.UpsertUser(ctx, db.User{
		ID:          uuid.NewString(),
		Email:       strings.ToLower(addr.Address),
		DisplayName: strings.TrimSpace(displayName),
		AvatarURL:   strings.TrimSpace(avatarURL),
		CreatedAt:   m.now(),
	})
}

func (m *Manager) GetUser(ctx context.Context, userID string) (db.User, error) {
	u, err := m.db.GetUser(ctx, userID)
	if errors.Is(err, db.ErrNotFound) {
		return db.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	return u, err
}
