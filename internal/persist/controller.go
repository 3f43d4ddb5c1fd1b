// Package persist is the auto-save boundary between in-memory list edits and
// the store. It is the only place generated ids are written back onto lists.
package persist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"time"

	"listkeeper/internal/model"
)

var (
	ErrSaveFailed   = errors.New("save failed")
	ErrDeleteFailed = errors.New("delete failed")
	ErrLoadFailed   = errors.New("load failed")
)

// Store is the subset of the object store the controller writes through.
type Store interface {
	Ready() <-chan struct{}
	All(ctx context.Context) iter.Seq2[model.List, error]
	Get(ctx context.Context, id int64) (model.List, error)
	Put(ctx context.Context, list model.List) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type Options struct {
	Logger *log.Logger
	Now    func() time.Time
	// ReadyTimeout bounds how long an operation waits for the store to
	// become ready. Zero waits until the context is done.
	ReadyTimeout time.Duration
}

type Controller struct {
	store        Store
	logger       *log.Logger
	now          func() time.Time
	readyTimeout time.Duration
}

func New(store Store, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		store:        store,
		logger:       logger,
		now:          now,
		readyTimeout: opts.ReadyTimeout,
	}
}

// WaitReady blocks until the store has been initialized. Callers never see
// an error for a store that is still starting, only a delay.
func (c *Controller) WaitReady(ctx context.Context) error {
	ready := c.store.Ready()
	select {
	case <-ready:
		return nil
	default:
	}

	c.logger.Printf("store is not ready yet, waiting")
	if c.readyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.readyTimeout)
		defer cancel()
	}
	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for store: %w", ctx.Err())
	}
}

// LoadAll forwards every stored list to fn in key order and returns nil at
// the end of the sequence. An error returned by fn stops the iteration and
// is returned as is.
func (c *Controller) LoadAll(ctx context.Context, fn func(model.List) error) error {
	if err := c.WaitReady(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	for list, err := range c.store.All(ctx) {
		if err != nil {
			return fmt.Errorf("%w: %w", ErrLoadFailed, err)
		}
		if err := fn(list); err != nil {
			return err
		}
	}
	return nil
}

// Lists collects LoadAll into a slice.
func (c *Controller) Lists(ctx context.Context) ([]model.List, error) {
	var lists []model.List
	err := c.LoadAll(ctx, func(l model.List) error {
		lists = append(lists, l)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// Get loads one list by id.
func (c *Controller) Get(ctx context.Context, id int64) (model.List, error) {
	if err := c.WaitReady(ctx); err != nil {
		return model.List{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	list, err := c.store.Get(ctx, id)
	if err != nil {
		return model.List{}, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	return list, nil
}

// Save stamps Modified, writes the list and threads the generated id back
// onto it. On failure the list's ID and Modified are left as they were.
func (c *Controller) Save(ctx context.Context, list *model.List) (int64, error) {
	if list == nil {
		return 0, fmt.Errorf("%w: nil list", ErrSaveFailed)
	}
	if err := c.WaitReady(ctx); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}

	prevID, prevModified := list.ID, list.Modified
	modified := model.Millis(c.now())
	if modified.Before(prevModified) {
		modified = prevModified
	}
	list.Modified = modified

	id, err := c.store.Put(ctx, *list)
	if err != nil {
		list.ID, list.Modified = prevID, prevModified
		c.logger.Printf("save list %d (%q) failed: %v", prevID, list.Title, err)
		return 0, fmt.Errorf("%w: %w", ErrSaveFailed, err)
	}
	list.ID = id
	return id, nil
}

// Remove deletes the list record. Removing a missing id is not an error.
func (c *Controller) Remove(ctx context.Context, id int64) error {
	if err := c.WaitReady(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	if err := c.store.Delete(ctx, id); err != nil {
		c.logger.Printf("delete list %d failed: %v", id, err)
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	return nil
}
