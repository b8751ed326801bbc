// Package form holds the state behind the posts page and keeps it in sync
// with the remote posts resource.
//
// Every successful create, update or delete is followed by a full reload of
// the list; the controller never merges results into its local copy.
package form

import (
	"context"
	"errors"
	"fmt"
	"log"
	"posts-app/models"
	"posts-app/validation"
	"slices"
	"sync"
)

var (
	// ErrBusy is returned when an action arrives while a request is in flight.
	ErrBusy         = errors.New("form: a request is already in flight")
	ErrUnknownPost  = errors.New("form: no such post in the list")
	ErrUnknownField = errors.New("form: unknown field")
)

// Remote is the posts resource the controller synchronizes with.
type Remote interface {
	List(ctx context.Context) ([]models.Post, error)
	Create(ctx context.Context, fields models.PostFields) (models.Post, error)
	Update(ctx context.Context, id models.PostID, fields models.PostFields) (models.Post, error)
	Delete(ctx context.Context, id models.PostID) error
}

type Controller struct {
	remote Remote
	logger *log.Logger

	mu    sync.Mutex
	state State
}

func New(remote Remote, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		remote: remote,
		logger: logger,
		state:  State{Mode: ModeLoading, Posts: []models.Post{}},
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Posts = slices.Clone(c.state.Posts)
	return s
}

// Mount performs the initial load. The controller leaves Loading whether or
// not the fetch succeeds.
func (c *Controller) Mount(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	err := c.reload(ctx)

	c.mu.Lock()
	if c.state.Mode == ModeLoading {
		c.state.Mode = ModeIdleCreate
	}
	c.state.Busy = false
	c.mu.Unlock()
	return err
}

// Refresh discards the local list and replaces it with the remote one.
func (c *Controller) Refresh(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	return c.reload(ctx)
}

func (c *Controller) SetField(name, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch name {
	case "name":
		c.state.Form.Name = value
	case "email":
		c.state.Form.Email = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return nil
}

// Submit creates a post from the form, or updates the post being edited.
// Empty fields are rejected locally with a *validation.ValidationError.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state.Alert = ""
	fields := c.state.Form
	if err := validation.ValidatePost(fields); err != nil {
		c.state.Alert = validation.MissingFieldsMessage
		c.mu.Unlock()
		return err
	}
	editing := c.state.EditingID
	c.state.Busy = true
	c.mu.Unlock()
	defer c.end()

	if editing == "" {
		if _, err := c.remote.Create(ctx, fields); err != nil {
			c.logger.Printf("Error creating post: %v", err)
			return err
		}
	} else {
		if _, err := c.remote.Update(ctx, editing, fields); err != nil {
			c.logger.Printf("Error updating post %s: %v", editing, err)
			return err
		}
	}

	// The write went through; a failed reload is logged and leaves the list
	// as it was.
	_ = c.reload(ctx)

	c.mu.Lock()
	c.state.Form = models.PostFields{}
	c.state.EditingID = ""
	c.state.Mode = ModeIdleCreate
	c.mu.Unlock()
	return nil
}

// Edit loads a listed post into the form and remembers its id.
func (c *Controller) Edit(id models.PostID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Busy {
		return ErrBusy
	}
	i := slices.IndexFunc(c.state.Posts, func(p models.Post) bool { return p.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownPost, id)
	}

	c.state.Alert = ""
	c.state.Form = c.state.Posts[i].Fields()
	c.state.EditingID = id
	c.state.Mode = ModeIdleEdit
	return nil
}

// Delete removes a post and reloads the list. The mode is left unchanged.
func (c *Controller) Delete(ctx context.Context, id models.PostID) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	if err := c.remote.Delete(ctx, id); err != nil {
		c.logger.Printf("Error deleting post %s: %v", id, err)
		return err
	}

	_ = c.reload(ctx)
	return nil
}

// reload fetches the list; on failure the current list is kept.
// Callers must hold the busy flag.
func (c *Controller) reload(ctx context.Context) error {
	posts, err := c.remote.List(ctx)
	if err != nil {
		c.logger.Printf("Error fetching posts: %v", err)
		return err
	}
	if posts == nil {
		posts = []models.Post{}
	}

	c.mu.Lock()
	c.state.Posts = posts
	c.mu.Unlock()
	return nil
}

func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Busy {
		return ErrBusy
	}
	c.state.Busy = true
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	c.state.Busy = false
	c.mu.Unlock()
}
