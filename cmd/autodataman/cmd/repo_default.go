// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/oneconcern/autodataman/pkg/config"
	"github.com/oneconcern/autodataman/pkg/core"
	"github.com/oneconcern/autodataman/pkg/storage/httpstore"
	"github.com/spf13/cobra"
)

var setRepoCmd = &cobra.Command{
	Use:   "setrepo <dir>",
	Short: "Set the default local repository",
	Long:  `Set the default local repository. The directory must hold a repository, see initrepo.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if settings == nil {
			wrapFatalln("set default repository", errNoConfig)
			return
		}
		local, err := core.OpenLocalRepo(ctx, args[0])
		if err != nil {
			wrapFatalln("set default repository", err)
			return
		}
		if err = saveSetting(ctx, config.KeyLocalRepo, local.Root()); err != nil {
			wrapFatalln("set default repository", err)
			return
		}
		infoLogger.Printf("Default autodataman repo set to %s", local.Root())
	},
}

var getRepoCmd = &cobra.Command{
	Use:   "getrepo",
	Short: "Print the default local repository",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if settings == nil {
			wrapFatalln("get default repository", errNoConfig)
			return
		}
		if dir := settings.LocalRepo(); dir != "" {
			infoLogger.Printf("Default autodataman repo set to %s", dir)
			return
		}
		infoLogger.Println("No default autodataman repo")
	},
}

var setServerCmd = &cobra.Command{
	Use:   "setserver <url>",
	Short: "Set the default server",
	Long: `Set the default server: an http(s) URL or a directory holding a remote repository.

The server is checked by loading its repository descriptor.`,
	Example: `% autodataman setserver https://data.example.com/repo
Connecting to server https://data.example.com/repo
Remote server contains 3 datasets
Default autodataman server set to https://data.example.com/repo`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if settings == nil {
			wrapFatalln("set default server", errNoConfig)
			return
		}
		server := args[0]
		if !httpstore.IsURL(server) && !strings.HasPrefix(server, "file://") {
			abs, err := filepath.Abs(server)
			if err != nil {
				wrapFatalln("set default server", err)
				return
			}
			server = abs
		}

		infoLogger.Printf("Connecting to server %s", server)
		remote, err := core.OpenRemote(server)
		if err != nil {
			wrapFatalln("set default server", err)
			return
		}
		datasets, err := core.Avail(ctx, remote)
		if err != nil {
			wrapFatalln("set default server", err)
			return
		}
		infoLogger.Printf("Remote server contains %d datasets", len(datasets))

		if err = saveSetting(ctx, config.KeyServer, server); err != nil {
			wrapFatalln("set default server", err)
			return
		}
		infoLogger.Printf("Default autodataman server set to %s", server)
	},
}

var getServerCmd = &cobra.Command{
	Use:   "getserver",
	Short: "Print the default server",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if settings == nil {
			wrapFatalln("get default server", errNoConfig)
			return
		}
		if server := settings.Server(); server != "" {
			infoLogger.Printf("Default autodataman server set to %s", server)
			return
		}
		infoLogger.Println("No default autodataman server")
	},
}

func saveSetting(ctx context.Context, key, value string) error {
	if err := settings.Set(key, value); err != nil {
		return err
	}
	return settings.Save(ctx)
}

func init() {
	rootCmd.AddCommand(setRepoCmd)
	rootCmd.AddCommand(getRepoCmd)
	rootCmd.AddCommand(setServerCmd)
	rootCmd.AddCommand(getServerCmd)
}
