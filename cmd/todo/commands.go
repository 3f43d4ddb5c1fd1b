package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"listkeeper/internal/model"
	"listkeeper/internal/render"
	"listkeeper/internal/reminder"
	"listkeeper/internal/storage"
)

func newListsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "lists",
		Aliases: []string{"ls"},
		Short:   "Show all lists",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(func(s *session) error {
				lists, err := s.lists()
				if err != nil {
					return s.report(err, "error.load", err)
				}
				s.printer.Lists(cmd.OutOrStdout(), lists)
				return nil
			})
		},
	}
}

func newShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show <list>",
		Short: "Show the items of a list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s *session) error {
				list, err := s.findList(args[0])
				if err != nil {
					return err
				}
				s.printer.List(cmd.OutOrStdout(), *list)
				return nil
			})
		},
	}
}

func newNewCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "new [title]",
		Short: "Create a list",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := ""
			if len(args) == 1 {
				title = args[0]
			}
			return c.withSession(func(s *session) error {
				list := model.NewList(title, c.now())
				if err := s.save(list); err != nil {
					return s.report(err, "error.save", err)
				}
				s.printer.Status(cmd.OutOrStdout(), "status.list_created")
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", list.ID, list.Title)
				return nil
			})
		},
	}
}

func newRenameCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <list> <title>",
		Short: "Rename a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s *session) error {
				list, err := s.findList(args[0])
				if err != nil {
					return err
				}
				list.Title = strings.TrimSpace(args[1])
				if list.Title == "" {
					list.Title = model.DefaultListTitle
				}
				if err := s.save(list); err != nil {
					return s.report(err, "error.save", err)
				}
				s.printer.Status(cmd.OutOrStdout(), "status.list_renamed", list.Title)
				return nil
			})
		},
	}
}

func newAddCmd(c *cli) *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   "add <list> <content>",
		Short: "Add an item to a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s *session) error {
				list, err := s.findList(args[0])
				if err != nil {
					return err
				}
				item := model.NewItem(args[1])
				item.Notes = notes
				idx := model.AddItem(list, item)
				if err := s.save(list); err != nil {
					return s.report(err, "error.save", err)
				}
				s.printer.Status(cmd.OutOrStdout(), "status.item_added", idx+1, list.Items[idx].Content)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "Notes for the item (markdown)")
	return cmd
}

func newEditCmd(c *cli) *cobra.Command {
	var content, notes string
	cmd := &cobra.Command{
		Use:   "edit <list> <n>",
		Short: "Change an item's content or notes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("content") && !cmd.Flags().Changed("notes") {
				return errors.New("nothing to change: pass --content and/or --notes")
			}
			return c.withSession(func(s *session) error {
				list, err := s.findList(args[0])
				if err != nil {
					return err
				}
				idx, err := s.itemIndex(list, args[1])
				if err != nil {
					return err
				}
				item := &list.Items[idx]
				if cmd.Flags().Changed("content") {
					item.Content = strings.TrimSpace(content)
					if item.Content == "" {
						item.Content = model.DefaultItemContent
					}
				}
				if cmd.Flags().Changed("notes") {
					item.Notes = notes
				}

				// The armed alarm carries the old content; replace it.
				if cmd.Flags().Changed("content") && item.ReminderEnabled &&
					item.ReminderAt != nil && item.ReminderAt.After(c.now()) {
					at := *item.ReminderAt
					err = await(func(done func(error)) {
						s.app.SetReminder(list, idx, true, at, done)
					})
					if errors.Is(err, reminder.ErrScheduleFailed) {
						return s.report(err, "error.schedule")
					}
				} else {
					err = s.save(list)
				}
				if err != nil {
					return s.report(err, "error.save", err)
				}
				s.printer.Status(cmd.OutOrStdout(), "status.item_updated", idx+1)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "New content")
	cmd.Flags().StringVar(&notes, "notes", "", "New notes (markdown)")
	return cmd
}

func newDoneCmd(c *cli) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "done <list> <n>",
		Short: "Mark an item as done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s *session) error {
				list, err := s.findList(args[0])
				if err != nil {
					return err
				}
				idx, err := s.itemIndex(list, args[1])
				if err != nil {
					return err
				}
				list.Items[idx].Completed = !undo
				if err := s.save(list); err != nil {
					return s.report(err, "error.save", err)
				}
				key := "status.item_completed"
				if undo {
					key = "status.item_reopened"
				}
				s.printer.Status(cmd.OutOrStdout(), key, idx+1)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the item as not done")
	return cmd
}

func newRemindCmd(c *cli) *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "remind <list> <n> [when]",
		Short: "Set or clear an item's reminder",
		Long: `Set or clear an item's reminder.

When is a local time ("2026-05-01 09:30", "18:00") or an offset from now
("+45m", "+2h"). Without it the configured default lead time is used.

Reminders fire only while "todo shell" is running. Outside the shell the
alarm ends with the command, so the stored reminder is provisional until
the next "todo shell" re-arms it on start.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s *session) error {
				list, err := s.findList(args[0])
				if err != nil {
					return err
				}
				idx, err := s.itemIndex(list, args[1])
				if err != nil {
					return err
				}

				enabled := !off
				var at time.Time
				if enabled {
					when := ""
					if len(args) == 3 {
						when = args[2]
					}
					at, err = parseWhen(when, c.now(), s.cfg.ReminderLead())
					if err != nil {
						return s.report(err, "error.bad_time", when)
					}
				}

				err = await(func(done func(error)) {
					s.app.SetReminder(list, idx, enabled, at, done)
				})
				if errors.Is(err, reminder.ErrScheduleFailed) {
					return s.report(err, "error.schedule")
				}
				if err != nil {
					return s.report(err, "error.save", err)
				}
				if enabled {
					s.printer.Status(cmd.OutOrStdout(), "status.reminder_set", at.Local().Format(render.TimeLayout))
				} else {
					s.printer.Status(cmd.OutOrStdout(), "status.reminder_off")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "Clear the reminder")
	return cmd
}

func newRmCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <list>",
		Short: "Delete a list and cancel its reminders",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s *session) error {
				list, err := s.findList(args[0])
				if err != nil {
					return err
				}
				err = await(func(done func(error)) { s.app.RemoveList(list, done) })
				if err != nil {
					return s.report(err, "error.delete", err)
				}
				s.printer.Status(cmd.OutOrStdout(), "status.list_removed", list.Title)
				return nil
			})
		},
	}
}

func newRmItemCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rm-item <list> <n>",
		Short: "Delete an item from a list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s *session) error {
				list, err := s.findList(args[0])
				if err != nil {
					return err
				}
				idx, err := s.itemIndex(list, args[1])
				if err != nil {
					return err
				}
				var removed model.Item
				err = await(func(done func(error)) {
					s.app.RemoveItem(list, idx, func(it model.Item, err error) {
						removed = it
						done(err)
					})
				})
				if err != nil {
					return s.report(err, "error.save", err)
				}
				s.printer.Status(cmd.OutOrStdout(), "status.item_removed", idx+1, removed.Content)
				return nil
			})
		},
	}
}

func newExportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write all lists to a JSON file (- for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s *session) error {
				out := cmd.OutOrStdout()
				var f *os.File
				if args[0] != "-" {
					var err error
					if f, err = os.Create(args[0]); err != nil {
						return err
					}
					defer f.Close()
					out = f
				}
				var n int
				err := await(func(done func(error)) {
					s.app.Do(func(ctx context.Context) {
						var exportErr error
						n, exportErr = storage.ExportJSON(ctx, s.store, out)
						done(exportErr)
					})
				})
				if err != nil {
					return err
				}
				if f != nil {
					if err := f.Close(); err != nil {
						return err
					}
					s.printer.Status(cmd.OutOrStdout(), "status.exported", n, args[0])
				}
				return nil
			})
		},
	}
}

func newImportCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add lists from a JSON export (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(func(s *session) error {
				in := cmd.InOrStdin()
				if args[0] != "-" {
					f, err := os.Open(args[0])
					if err != nil {
						return err
					}
					defer f.Close()
					in = f
				}
				var n int
				err := await(func(done func(error)) {
					s.app.Do(func(ctx context.Context) {
						var importErr error
						n, importErr = storage.ImportJSON(ctx, s.store, in, s.logger)
						done(importErr)
					})
				})
				if err != nil {
					return err
				}
				s.printer.Status(cmd.OutOrStdout(), "status.imported", n)
				return nil
			})
		},
	}
}
