// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config [<var> <value>]",
	Short: "Print or change the configuration",
	Long: `Without arguments, print the configuration.

With a variable and a value, set a configuration variable. Known variables are:
  default_local_repo        the default local repository (see setrepo)
  default_server            the default server (see setserver)
  <format>_<action>_command the command run on downloaded files with this format and action,
                            e.g. tgz_open_command

Variables may be overridden by the environment, e.g. AUTODATAMAN_DEFAULT_SERVER.`,
	Example: `% autodataman config zip_open_command unzip
% autodataman config
Configuration: /home/user/.autodataman
default_server      https://data.example.com/repo
tgz_open_command    tar -xzf
zip_open_command    unzip`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != 2 {
			return fmt.Errorf("expected no argument or <var> <value>, got %d arguments", len(args))
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		if settings == nil {
			wrapFatalln("configuration", errNoConfig)
			return
		}
		if len(args) == 2 {
			if err := saveSetting(context.Background(), args[0], args[1]); err != nil {
				wrapFatalln("set configuration", err)
				return
			}
			infoLogger.Printf("%s set to %q", args[0], args[1])
			return
		}

		printHeader("Configuration: %s", settings.Location())
		table := newTable()
		for _, setting := range settings.Settings() {
			if setting.Effective != setting.Value {
				table.AddRow(setting.Key, setting.Effective, fmtMuted.Sprintf("(overrides %q)", setting.Value))
				continue
			}
			table.AddRow(setting.Key, setting.Value)
		}
		printTable(table)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
