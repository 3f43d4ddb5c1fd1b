// Command todo manages to-do lists stored in a local SQLite database and
// fires reminders while the interactive shell is running.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// cli carries what every command needs. In the shell one session is shared
// by all commands; otherwise each command opens and closes its own.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	configPath string
	dbPath     string
	verbose    bool

	sess *session
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr, now: time.Now}
	root := newRootCmd(c)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(stderr, "todo: %v\n", err)
		}
		return 1
	}
	return 0
}

// reportedError marks an error whose user-facing message was already printed.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "todo",
		Short:         "Keep to-do lists with reminders",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(c.stdin)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	root.PersistentFlags().StringVar(&c.configPath, "config", c.configPath, "Path to a config file (JSON, JSONC or TOML)")
	root.PersistentFlags().StringVar(&c.dbPath, "db", c.dbPath, "Database file override")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", c.verbose, "Log store and reminder activity to stderr")

	root.AddCommand(
		newListsCmd(c),
		newShowCmd(c),
		newNewCmd(c),
		newRenameCmd(c),
		newAddCmd(c),
		newEditCmd(c),
		newDoneCmd(c),
		newRemindCmd(c),
		newRmCmd(c),
		newRmItemCmd(c),
		newExportCmd(c),
		newImportCmd(c),
		newConfigCmd(c),
	)
	if c.sess == nil {
		root.AddCommand(newShellCmd(c))
	} else {
		root.AddCommand(newPendingCmd(c))
	}
	return root
}
