// Package app exposes the persistence and reminder core through
// asynchronous completion callbacks. All work runs on one event-loop
// goroutine, so callbacks never run concurrently and complete in the order
// their operations were issued.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"listkeeper/internal/model"
	"listkeeper/internal/persist"
	"listkeeper/internal/reminder"
)

var ErrClosed = errors.New("app closed")

type Options struct {
	Logger *log.Logger
}

type App struct {
	ctrl   *persist.Controller
	sched  *reminder.Scheduler
	logger *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func(context.Context)
	closed bool
	done   chan struct{}
}

func New(ctrl *persist.Controller, sched *reminder.Scheduler, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &App{
		ctrl:   ctrl,
		sched:  sched,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	a.cond = sync.NewCond(&a.mu)
	go a.run()
	return a
}

// Close waits for queued operations to complete and stops the loop. It
// must not be called from a callback.
func (a *App) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		a.cond.Broadcast()
	}
	a.mu.Unlock()
	<-a.done
	a.cancel()
}

// Do runs fn on the loop. On a closed app fn still runs, at once, with a
// context already canceled with cause ErrClosed.
func (a *App) Do(fn func(ctx context.Context)) {
	a.submit(fn, func(err error) {
		ctx, cancel := context.WithCancelCause(context.Background())
		cancel(err)
		fn(ctx)
	})
}

// LoadAll delivers each stored list to each, then calls done once.
func (a *App) LoadAll(each func(model.List), done func(error)) {
	a.submit(func(ctx context.Context) {
		done(a.ctrl.LoadAll(ctx, func(l model.List) error {
			each(l)
			return nil
		}))
	}, done)
}

// Save persists list and reports its id.
func (a *App) Save(list *model.List, done func(id int64, err error)) {
	a.submit(func(ctx context.Context) {
		done(a.ctrl.Save(ctx, list))
	}, func(err error) { done(0, err) })
}

// Remove deletes the stored list. Reminders of its items are left alone;
// use RemoveList to cancel them too.
func (a *App) Remove(id int64, done func(error)) {
	a.submit(func(ctx context.Context) {
		done(a.ctrl.Remove(ctx, id))
	}, done)
}

// RemoveList cancels every reminder of list and deletes it.
func (a *App) RemoveList(list *model.List, done func(error)) {
	a.submit(func(ctx context.Context) {
		for i := range list.Items {
			if list.Items[i].ReminderHandle != "" {
				_ = a.sched.Cancel(ctx, list, i)
			}
		}
		if list.ID == 0 {
			done(nil)
			return
		}
		done(a.ctrl.Remove(ctx, list.ID))
	}, done)
}

// RemoveItem cancels the item's reminder, drops it from list and saves.
func (a *App) RemoveItem(list *model.List, index int, done func(model.Item, error)) {
	a.submit(func(ctx context.Context) {
		if _, err := list.Item(index); err != nil {
			done(model.Item{}, err)
			return
		}
		if err := a.sched.Cancel(ctx, list, index); err != nil {
			done(model.Item{}, err)
			return
		}
		removed, err := list.RemoveItem(index)
		if err != nil {
			done(model.Item{}, err)
			return
		}
		if _, err := a.ctrl.Save(ctx, list); err != nil {
			done(removed, err)
			return
		}
		done(removed, nil)
	}, func(err error) { done(model.Item{}, err) })
}

// SetReminder reconciles the item's reminder and then saves the list. A
// scheduling failure is reported but the cleared reminder is still saved.
// An unsaved list is saved first so the reminder can reference its id.
func (a *App) SetReminder(list *model.List, index int, enabled bool, at time.Time, done func(error)) {
	a.submit(func(ctx context.Context) {
		if list == nil {
			done(fmt.Errorf("%w: nil list", reminder.ErrScheduleFailed))
			return
		}
		if _, err := list.Item(index); err != nil {
			done(err)
			return
		}
		if list.ID == 0 {
			if _, err := a.ctrl.Save(ctx, list); err != nil {
				done(err)
				return
			}
		}
		schedErr := a.sched.Set(ctx, list, index, enabled, at)
		_, saveErr := a.ctrl.Save(ctx, list)
		done(errors.Join(schedErr, saveErr))
	}, done)
}

// Fired records a delivered reminder: the item's reminder is cleared and
// the list saved. done receives the list as stored afterwards.
func (a *App) Fired(h reminder.Handle, p reminder.Payload, done func(model.List, error)) {
	a.submit(func(ctx context.Context) {
		list, err := a.ctrl.Get(ctx, p.ListID)
		if err != nil {
			done(model.List{}, err)
			return
		}
		if reminder.Fired(&list, h, p) {
			if _, err := a.ctrl.Save(ctx, &list); err != nil {
				done(list, err)
				return
			}
		}
		done(list, nil)
	}, func(err error) { done(model.List{}, err) })
}

// Restore re-arms the reminders of every stored list after a restart and
// saves the lists whose reminders changed.
func (a *App) Restore(now time.Time, done func(error)) {
	a.submit(func(ctx context.Context) {
		lists, err := a.ctrl.Lists(ctx)
		if err != nil {
			done(err)
			return
		}
		ptrs := make([]*model.List, len(lists))
		for i := range lists {
			ptrs[i] = &lists[i]
		}
		changed, restoreErr := a.sched.Restore(ctx, ptrs, now)
		errs := []error{restoreErr}
		for _, l := range changed {
			if _, err := a.ctrl.Save(ctx, l); err != nil {
				errs = append(errs, err)
			}
		}
		if len(changed) > 0 {
			a.logger.Printf("restored reminders on %d list(s)", len(changed))
		}
		done(errors.Join(errs...))
	}, done)
}

func (a *App) submit(fn func(context.Context), fail func(error)) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		fail(ErrClosed)
		return
	}
	a.queue = append(a.queue, fn)
	a.cond.Signal()
	a.mu.Unlock()
}

func (a *App) run() {
	defer close(a.done)
	for {
		a.mu.Lock()
		for len(a.queue) == 0 && !a.closed {
			a.cond.Wait()
		}
		if len(a.queue) == 0 {
			a.mu.Unlock()
			return
		}
		fn := a.queue[0]
		a.queue[0] = nil
		a.queue = a.queue[1:]
		a.mu.Unlock()

		fn(a.ctx)
	}
}
