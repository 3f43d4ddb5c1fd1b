package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"listkeeper/internal/alarm"
	"listkeeper/internal/model"
	"listkeeper/internal/render"
)

var shellCommands = []string{
	"lists", "show", "new", "rename", "add", "edit", "done", "remind",
	"rm", "rm-item", "export", "import", "config", "pending", "sleep",
	"help", "exit", "quit",
}

func newShellCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell; reminders fire while it runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runShell(cmd.Context())
		},
	}
}

func newPendingCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "pending",
		Short: "Show reminders waiting to fire",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSession(func(s *session) error {
				pending := s.alarms.Pending()
				s.printer.Status(cmd.OutOrStdout(), "status.reminders_active", len(pending))
				for _, a := range pending {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  (#%d)\n",
						a.At.Local().Format(render.TimeLayout), a.Payload.Content, a.Payload.ListID)
				}
				return nil
			})
		},
	}
}

func (c *cli) runShell(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var (
		sess  *session
		out   io.Writer
		ready = make(chan struct{})
	)
	onFire := func(a alarm.Alarm) {
		<-ready
		sess.app.Fired(a.Handle, a.Payload, func(_ model.List, err error) {
			sess.printer.Remember(out, a.Payload.Content, a.At)
			if err != nil {
				sess.logger.Printf("record fired reminder %s: %v", a.Handle, err)
			}
		})
	}

	s, err := c.openSession(ctx, onFire)
	if err != nil {
		return err
	}
	sess = s
	defer sess.Close()

	input, inputErr := newLineInput(c.stdin, c.stdout, filepath.Join(sess.cfg.Storage.BaseDir, "shell.history"))
	if inputErr != nil {
		fmt.Fprintf(c.stderr, "line editor unavailable, fallback to basic input: %v\n", inputErr)
	}
	defer input.Close()
	out = input.Writer()
	close(ready)

	restoreErr := await(func(done func(error)) { sess.app.Restore(c.now(), done) })
	if restoreErr != nil {
		sess.printer.Error(c.stderr, "error.schedule")
		sess.logger.Printf("restore reminders: %v", restoreErr)
	}

	prompt := ""
	if isTerminal(c.stdout) {
		prompt = "todo> "
		fmt.Fprintln(out, sess.tr.T("shell.welcome"))
	}
	if n := len(sess.alarms.Pending()); n > 0 {
		sess.printer.Status(out, "status.reminders_active", n)
	}

	sub := &cli{
		stdin:      c.stdin,
		stdout:     out,
		stderr:     c.stderr,
		now:        c.now,
		configPath: c.configPath,
		dbPath:     c.dbPath,
		verbose:    c.verbose,
		sess:       sess,
	}
	for {
		line, err := input.ReadLine(prompt)
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			break
		}
		args, err := splitArgs(line)
		if err != nil {
			fmt.Fprintf(c.stderr, "%v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "exit", "quit":
			fmt.Fprintln(out, sess.tr.T("shell.bye"))
			return nil
		case "help":
			fmt.Fprintln(out, sess.tr.T("shell.help"))
			continue
		case "sleep":
			shellSleep(ctx, args[1:], c.stderr)
			continue
		}
		if !slices.Contains(shellCommands, args[0]) {
			sess.printer.Error(c.stderr, "shell.unknown", args[0])
			continue
		}

		root := newRootCmd(sub)
		root.SetArgs(args)
		if err := root.ExecuteContext(ctx); err != nil {
			var reported *reportedError
			if !errors.As(err, &reported) {
				fmt.Fprintf(c.stderr, "%v\n", err)
			}
		}
	}
	return nil
}

// shellSleep pauses the shell so that scripted sessions can wait for
// reminders to fire.
func shellSleep(ctx context.Context, args []string, stderr io.Writer) {
	d := time.Second
	if len(args) > 0 {
		parsed, err := time.ParseDuration(args[0])
		if err != nil || parsed < 0 {
			fmt.Fprintf(stderr, "invalid duration %q\n", args[0])
			return
		}
		d = parsed
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// splitArgs splits a shell line into words. Single and double quotes group
// words; a backslash escapes the next character outside single quotes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				args = append(args, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inWord {
		args = append(args, cur.String())
	}
	return args, nil
}
