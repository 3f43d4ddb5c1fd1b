// Package reminder keeps an item's reminder fields consistent with an
// asynchronous notification service. It mutates items in memory only;
// persisting the result is the caller's job.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"listkeeper/internal/model"
)

var ErrScheduleFailed = errors.New("schedule failed")

// Handle is the opaque token the notification service returns for an
// accepted reminder.
type Handle string

// Payload travels with a scheduled reminder and comes back when it fires.
type Payload struct {
	ListID  int64  `json:"list_id"`
	ItemID  string `json:"item_id"`
	Index   int    `json:"index"`
	Content string `json:"content"`
}

// Notifier is the notification service.
type Notifier interface {
	Schedule(ctx context.Context, at time.Time, p Payload) (Handle, error)
	Cancel(ctx context.Context, h Handle) error
}

type Options struct {
	Logger *log.Logger
}

type Scheduler struct {
	notifier Notifier
	logger   *log.Logger

	mu    sync.Mutex
	items map[string]*itemLock
}

type itemLock struct {
	mu    sync.Mutex
	refs  int
	state model.ReminderState
}

func New(n Notifier, opts Options) *Scheduler {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Scheduler{
		notifier: n,
		logger:   logger,
		items:    make(map[string]*itemLock),
	}
}

// Set reconciles the reminder of list.Items[index] with the service.
//
// An existing handle is always cancelled before anything else, so at most
// one reminder is ever active for the item. When enabled the item is then
// scheduled at at; a rejection leaves the reminder cleared and returns
// ErrScheduleFailed. The list is not saved.
func (s *Scheduler) Set(ctx context.Context, list *model.List, index int, enabled bool, at time.Time) error {
	if list == nil {
		return fmt.Errorf("%w: nil list", ErrScheduleFailed)
	}
	item, err := list.Item(index)
	if err != nil {
		return err
	}
	item.EnsureID()

	l := s.acquire(item.ID)
	defer s.release(item.ID, l)

	if item.ReminderHandle != "" {
		s.setState(l, model.ReminderCancelling)
		s.cancel(ctx, Handle(item.ReminderHandle))
		item.ReminderHandle = ""
	}
	if !enabled {
		item.ClearReminder()
		return nil
	}

	if list.ID == 0 {
		item.ClearReminder()
		return fmt.Errorf("%w: list has not been saved", ErrScheduleFailed)
	}

	s.setState(l, model.ReminderScheduling)
	h, err := s.notifier.Schedule(ctx, at, Payload{
		ListID:  list.ID,
		ItemID:  item.ID,
		Index:   index,
		Content: item.Content,
	})
	if err == nil && h == "" {
		err = errors.New("service returned an empty handle")
	}
	if err != nil {
		item.ClearReminder()
		s.logger.Printf("schedule reminder for %q failed: %v", item.Content, err)
		return fmt.Errorf("%w: %w", ErrScheduleFailed, err)
	}

	at = model.Millis(at)
	item.ReminderEnabled = true
	item.ReminderAt = &at
	item.ReminderHandle = string(h)
	return nil
}

// Cancel drops the item's reminder, if any. Equivalent to Set with
// enabled=false.
func (s *Scheduler) Cancel(ctx context.Context, list *model.List, index int) error {
	return s.Set(ctx, list, index, false, time.Time{})
}

// State reports the in-flight state while a reconciliation for item is
// running and derives the settled state otherwise.
func (s *Scheduler) State(item model.Item) model.ReminderState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.items[item.ID]; ok && l.state != model.ReminderUnset {
		return l.state
	}
	return model.ReminderStateOf(item)
}

// Restore re-arms reminders after a restart, when the service no longer
// knows about handles recorded by an earlier process. Reminders whose time
// has passed are cleared. It returns the lists that changed and need a
// save; scheduling failures are joined into err.
func (s *Scheduler) Restore(ctx context.Context, lists []*model.List, now time.Time) ([]*model.List, error) {
	var (
		changed []*model.List
		errs    []error
	)
	for _, list := range lists {
		dirty := false
		for i := range list.Items {
			item := &list.Items[i]
			switch {
			case !item.ReminderEnabled:
				if item.ReminderHandle != "" || item.ReminderAt != nil {
					item.ClearReminder()
					dirty = true
				}
			case item.ReminderAt == nil || !item.ReminderAt.After(now):
				item.ClearReminder()
				dirty = true
			default:
				at := *item.ReminderAt
				// The old handle belongs to a service instance that is gone.
				item.ReminderHandle = ""
				if err := s.Set(ctx, list, i, true, at); err != nil {
					errs = append(errs, fmt.Errorf("list %d item %d: %w", list.ID, i, err))
				}
				dirty = true
			}
		}
		if dirty {
			changed = append(changed, list)
		}
	}
	return changed, errors.Join(errs...)
}

// Fired marks the reminder identified by h as delivered. The item is looked
// up by id, falling back to the payload index for items that predate ids.
// It reports whether the list changed.
func Fired(list *model.List, h Handle, p Payload) bool {
	if list == nil {
		return false
	}
	item, _, ok := list.ItemByID(p.ItemID)
	if !ok {
		var err error
		if item, err = list.Item(p.Index); err != nil {
			return false
		}
	}
	if item.ReminderHandle != string(h) {
		return false
	}
	item.ClearReminder()
	return true
}

func (s *Scheduler) cancel(ctx context.Context, h Handle) {
	if err := s.notifier.Cancel(ctx, h); err != nil {
		s.logger.Printf("cancel reminder %s failed: %v", h, err)
	}
}

func (s *Scheduler) acquire(id string) *itemLock {
	s.mu.Lock()
	l, ok := s.items[id]
	if !ok {
		l = &itemLock{}
		s.items[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()
	return l
}

func (s *Scheduler) release(id string, l *itemLock) {
	s.mu.Lock()
	l.state = model.ReminderUnset
	l.refs--
	if l.refs == 0 {
		delete(s.items, id)
	}
	s.mu.Unlock()
	l.mu.Unlock()
}

func (s *Scheduler) setState(l *itemLock, state model.ReminderState) {
	s.mu.Lock()
	l.state = state
	s.mu.Unlock()
}
