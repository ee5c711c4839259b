// ABOUTME: Sidebar resume panel controller combining layout state and list sync
// ABOUTME: Follows the signed-in identity and routes user actions to the synchronizer

package panel

import (
	"context"
	"sync"

	"github.com/harper/resumedeck/internal/logger"
	"github.com/harper/resumedeck/internal/tui/client"
)

type Controller struct {
	machine *Machine
	sync    *client.ResumeSync
	auth    client.Auth
	log     logger.Logger

	mu     sync.Mutex
	userID string
}

func NewController(machine *Machine, rs *client.ResumeSync, auth client.Auth) *Controller {
	return &Controller{
		machine: machine,
		sync:    rs,
		auth:    auth,
		log:     logger.Named("panel"),
	}
}

func (c *Controller) Machine() *Machine { return c.machine }

func (c *Controller) List() client.ListState { return c.sync.Snapshot() }

func (c *Controller) User() *client.User { return c.auth.CurrentUser() }

// Mount starts following the viewport.
func (c *Controller) Mount() { c.machine.Mount() }

// Close unmounts and discards any response still in flight.
func (c *Controller) Close() {
	c.machine.Unmount()
	c.sync.Close()
}

// SyncIdentity compares the auth context with the identity seen last time.
// On any change the list is cleared; a present identity is then fetched.
func (c *Controller) SyncIdentity(ctx context.Context) (bool, error) {
	id := ""
	if u := c.auth.CurrentUser(); u != nil {
		id = u.ID
	}

	c.mu.Lock()
	if id == c.userID {
		c.mu.Unlock()
		return false, nil
	}
	c.userID = id
	c.mu.Unlock()

	c.sync.Reset()
	if id == "" {
		c.log.Debug("identity cleared")
		return true, nil
	}
	c.log.Debug("identity now %s", id)
	return true, c.sync.Refresh(ctx, id)
}

func (c *Controller) currentUserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

func (c *Controller) Refresh(ctx context.Context) error {
	return c.sync.Refresh(ctx, c.currentUserID())
}

func (c *Controller) SetPrimary(ctx context.Context, resumeID string) error {
	return c.sync.SetPrimary(ctx, resumeID, c.currentUserID())
}

func (c *Controller) DeleteResume(ctx context.Context, resumeID string) (bool, error) {
	return c.sync.DeleteResume(ctx, resumeID, c.currentUserID())
}

// OnUploadSuccess opens the resume section and reloads the list.
func (c *Controller) OnUploadSuccess(ctx context.Context) error {
	c.machine.ExpandResumesSection()
	return c.Refresh(ctx)
}

func (c *Controller) SignOut(ctx context.Context) error {
	if err := c.auth.SignOut(ctx); err != nil {
		c.log.Error("sign out: %v", err)
		return err
	}
	_, err := c.SyncIdentity(ctx)
	return err
}
