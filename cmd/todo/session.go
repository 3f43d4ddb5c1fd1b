package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/term"

	"listkeeper/internal/alarm"
	"listkeeper/internal/app"
	"listkeeper/internal/config"
	"listkeeper/internal/i18n"
	"listkeeper/internal/model"
	"listkeeper/internal/persist"
	"listkeeper/internal/reminder"
	"listkeeper/internal/render"
	"listkeeper/internal/storage"
)

var (
	errListNotFound  = errors.New("list not found")
	errListAmbiguous = errors.New("list name is ambiguous")
)

type session struct {
	cfg     config.Config
	tr      *i18n.I18n
	printer *render.Printer
	logger  *log.Logger
	stderr  io.Writer

	store  *storage.SQLiteStore
	alarms *alarm.Service
	app    *app.App
}

// openSession loads config and wires store, alarm service, scheduler and
// app loop together. onFire may be nil.
func (c *cli) openSession(ctx context.Context, onFire func(alarm.Alarm)) (*session, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if strings.TrimSpace(c.dbPath) != "" {
		abs, err := filepath.Abs(c.dbPath)
		if err != nil {
			return nil, fmt.Errorf("resolve --db: %w", err)
		}
		cfg.Storage.DBFile = abs
	}

	logger := log.New(io.Discard, "", 0)
	if c.verbose {
		logger = log.New(c.stderr, "todo: ", log.LstdFlags)
	}
	tr := i18n.New(cfg.UI.Locale)

	store, err := storage.OpenSQLite(ctx, cfg.DBPath(), storage.Options{
		BusyTimeout: cfg.BusyTimeout(),
		SkipSeed:    !cfg.Storage.SeedSample,
		Now:         c.now,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	alarms := alarm.New(alarm.Options{OnFire: onFire, Now: c.now, Logger: logger})
	ctrl := persist.New(store, persist.Options{Logger: logger, Now: c.now, ReadyTimeout: cfg.ReadyTimeout()})
	sched := reminder.New(alarms, reminder.Options{Logger: logger})

	return &session{
		cfg:     cfg,
		tr:      tr,
		printer: render.NewPrinter(render.ThemeFor(cfg.UI.Theme), cfg.UI.Width, !isTerminal(c.stdout), tr),
		logger:  logger,
		stderr:  c.stderr,
		store:   store,
		alarms:  alarms,
		app:     app.New(ctrl, sched, app.Options{Logger: logger}),
	}, nil
}

func (s *session) Close() error {
	s.app.Close()
	_ = s.alarms.Close()
	return s.store.Close()
}

// withSession runs fn with the shell's session, or with a fresh one that
// is closed afterwards.
func (c *cli) withSession(fn func(s *session) error) error {
	if c.sess != nil {
		return fn(c.sess)
	}
	s, err := c.openSession(context.Background(), nil)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func await(fn func(done func(error))) error {
	ch := make(chan error, 1)
	fn(func(err error) { ch <- err })
	return <-ch
}

func (s *session) lists() ([]model.List, error) {
	var lists []model.List
	err := await(func(done func(error)) {
		s.app.LoadAll(func(l model.List) { lists = append(lists, l) }, done)
	})
	return lists, err
}

func (s *session) save(list *model.List) error {
	return await(func(done func(error)) {
		s.app.Save(list, func(_ int64, err error) { done(err) })
	})
}

// findList resolves a list argument: a numeric id, or an exact title.
func (s *session) findList(arg string) (*model.List, error) {
	arg = strings.TrimSpace(arg)
	var (
		found []model.List
		err   error
	)
	if id, convErr := strconv.ParseInt(arg, 10, 64); convErr == nil {
		err = await(func(done func(error)) {
			s.app.Do(func(ctx context.Context) {
				list, getErr := s.store.Get(ctx, id)
				if getErr == nil {
					found = append(found, list)
				} else if !errors.Is(getErr, storage.ErrNotFound) {
					done(getErr)
					return
				}
				done(nil)
			})
		})
		if err != nil {
			return nil, err
		}
	}
	if len(found) == 0 {
		err = await(func(done func(error)) {
			s.app.Do(func(ctx context.Context) {
				var findErr error
				found, findErr = s.store.FindByTitle(ctx, arg)
				done(findErr)
			})
		})
		if err != nil {
			return nil, err
		}
	}

	switch len(found) {
	case 0:
		return nil, s.report(fmt.Errorf("%w: %q", errListNotFound, arg), "error.list_not_found", arg)
	case 1:
		return &found[0], nil
	default:
		return nil, s.report(fmt.Errorf("%w: %q", errListAmbiguous, arg), "error.list_ambiguous", arg)
	}
}

// itemIndex converts a 1-based item number to an index into list.Items.
func (s *session) itemIndex(list *model.List, arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 || n > len(list.Items) {
		return 0, s.report(fmt.Errorf("%w: %s", model.ErrItemIndex, arg), "error.bad_index", arg)
	}
	return n - 1, nil
}

// report prints a translated error line and returns err marked as reported.
func (s *session) report(err error, key string, args ...any) error {
	s.printer.Error(s.stderr, key, args...)
	return &reportedError{err: err}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
