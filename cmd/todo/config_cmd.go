package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"listkeeper/internal/config"
	"listkeeper/internal/i18n"
)

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the project config file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Write .listkeeper/config.json in the current directory",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				path, err := config.InitProjectConfig(wd)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), c.translator().T("status.config_written", path))
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set one value in the project config (e.g. ui.locale zh-CN)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				if err := config.SetProjectValue(wd, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
				return nil
			},
		},
	)
	return cmd
}

// translator picks the configured locale; a broken config falls back to
// detection so that "config set" can still repair it.
func (c *cli) translator() *i18n.I18n {
	if c.sess != nil {
		return c.sess.tr
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return i18n.New(os.Getenv("LISTKEEPER_LANG"))
	}
	return i18n.New(cfg.UI.Locale)
}
