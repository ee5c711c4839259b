// ABOUTME: Auth context for the terminal client backed by the server's user directory
// ABOUTME: Holds the signed-in user and notifies a listener whenever the identity changes

package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/harper/resumedeck/internal/logger"
)

type AuthSession struct {
	dir Directory
	log logger.Logger

	mu       sync.RWMutex
	user     *User
	onChange func(*User)
}

func NewAuthSession(dir Directory) *AuthSession {
	return &AuthSession{dir: dir, log: logger.Named("auth")}
}

// OnChange registers the listener called after sign-in and sign-out.
func (a *AuthSession) OnChange(fn func(*User)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onChange = fn
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (a *AuthSession) CurrentUser() *User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.user == nil {
		return nil
	}
	u := *a.user
	return &u
}

func (a *AuthSession) SignIn(ctx context.Context, email, displayName, avatarURL string) (*User, error) {
	u, err := a.dir.SignIn(ctx, email, displayName, avatarURL)
	if err != nil {
		return nil, fmt.Errorf("sign in %s: %w", email, err)
	}
	a.log.Info("signed in as %s", u.ID)
	a.set(&u)
	return a.CurrentUser(), nil
}

// Restore re-resolves a remembered user id against the server.
func (a *AuthSession) Restore(ctx context.Context, userID string) (*User, error) {
	u, err := a.dir.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("restore %s: %w", userID, err)
	}
	a.set(&u)
	return a.CurrentUser(), nil
}

func (a *AuthSession) SignOut(ctx context.Context) error {
	a.mu.RLock()
	had := a.user != nil
	a.mu.RUnlock()
	if !had {
		return nil
	}
	a.log.Info("signed out")
	a.set(nil)
	return nil
}

func (a *AuthSession) set(u *User) {
	a.mu.Lock()
	a.user = u
	fn := a.onChange
	a.mu.Unlock()
	if fn != nil {
		fn(a.CurrentUser())
	}
}
