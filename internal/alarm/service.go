// Package alarm is an in-process notification service. It accepts one-shot
// alarms, fires them on timers and hands the payload back through OnFire.
package alarm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"listkeeper/internal/reminder"
)

var (
	ErrPastDate = errors.New("alarm date is not in the future")
	ErrClosed   = errors.New("alarm service closed")
)

// Alarm is a scheduled (or just fired) alarm.
type Alarm struct {
	Handle  reminder.Handle
	At      time.Time
	Payload reminder.Payload
}

type Options struct {
	// OnFire runs on a timer goroutine. Callers that touch shared state
	// should hand the alarm off to their own loop.
	OnFire func(Alarm)
	Now    func() time.Time
	Logger *log.Logger
}

type Service struct {
	onFire func(Alarm)
	now    func() time.Time
	logger *log.Logger

	mu      sync.Mutex
	pending map[reminder.Handle]*entry
	closed  bool
}

type entry struct {
	alarm Alarm
	timer *time.Timer
}

var _ reminder.Notifier = (*Service)(nil)

func New(opts Options) *Service {
	s := &Service{
		onFire:  opts.OnFire,
		now:     opts.Now,
		logger:  opts.Logger,
		pending: make(map[reminder.Handle]*entry),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard, "", 0)
	}
	return s
}

// Schedule arms an alarm at at and returns its handle.
func (s *Service) Schedule(ctx context.Context, at time.Time, p reminder.Payload) (reminder.Handle, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	now := s.now()
	if !at.After(now) {
		return "", fmt.Errorf("%w: %s", ErrPastDate, at.Format(time.RFC3339))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return "", ErrClosed
	}

	h := reminder.Handle(uuid.NewString())
	e := &entry{alarm: Alarm{Handle: h, At: at, Payload: p}}
	e.timer = time.AfterFunc(at.Sub(now), func() { s.fire(h) })
	s.pending[h] = e
	return h, nil
}

// Cancel stops the alarm. Unknown or already fired handles are ignored.
func (s *Service) Cancel(_ context.Context, h reminder.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.pending[h]; ok {
		e.timer.Stop()
		delete(s.pending, h)
	}
	return nil
}

// Pending returns the armed alarms, earliest first.
func (s *Service) Pending() []Alarm {
	s.mu.Lock()
	out := make([]Alarm, 0, len(s.pending))
	for _, e := range s.pending {
		out = append(out, e.alarm)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].At.Equal(out[j].At) {
			return out[i].Handle < out[j].Handle
		}
		return out[i].At.Before(out[j].At)
	})
	return out
}

// Close stops every timer. Later Schedule calls fail with ErrClosed.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for h, e := range s.pending {
		e.timer.Stop()
		delete(s.pending, h)
	}
	return nil
}

func (s *Service) fire(h reminder.Handle) {
	s.mu.Lock()
	e, ok := s.pending[h]
	if ok {
		delete(s.pending, h)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	s.logger.Printf("alarm %s fired for %q", h, e.alarm.Payload.Content)
	if s.onFire != nil {
		s.onFire(e.alarm)
	}
}
