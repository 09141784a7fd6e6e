// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"github.com/oneconcern/autodataman/pkg/core"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var availCmd = &cobra.Command{
	Use:   "avail",
	Short: "List the datasets available on the server",
	Long: `List the datasets available on the server.

With --verbose, the versions of every dataset are listed as well.`,
	Example: `% autodataman avail -s https://data.example.com/repo
Server https://data.example.com/repo contains 2 datasets
    era5
    gfs`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		l := newLogger()
		remote, err := openRemote(l)
		if err != nil {
			wrapFatalln("open server", err)
			return
		}
		datasets, err := core.Avail(ctx, remote)
		if err != nil {
			wrapFatalln("list datasets", err)
			return
		}
		if len(datasets) == 0 {
			infoLogger.Printf("Server %s contains no datasets", remote)
			return
		}
		infoLogger.Printf("Server %s contains %d datasets", remote, len(datasets))

		table := newTable()
		for _, name := range datasets {
			if !admFlags.root.verbose {
				table.AddRow("   ", name)
				continue
			}
			ds, err := remote.Dataset(ctx, name)
			if err != nil {
				l.Warn("cannot load dataset", zap.String("dataset", name), zap.Error(err))
				table.AddRow("   ", name, fmtWarning.Sprint("(unavailable)"))
				continue
			}
			table.AddRow("   ", name, ds.LongName, versionsOf(ds))
		}
		printTable(table)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the datasets of the local repository",
	Long: `List the datasets and versions held by the local repository.

With --verbose, the long name of every dataset is printed as well.`,
	Example: `% autodataman list -l ~/data
Local repo /home/user/data contains 2 dataset(s)
    era5/2018
    era5/2019
    gfs (0 versions)`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		l := newLogger()
		local, err := openLocal(ctx, l)
		if err != nil {
			wrapFatalln("open local repository", err)
			return
		}
		listing, err := core.List(ctx, local)
		if err != nil {
			wrapFatalln("list datasets", err)
			return
		}
		if len(listing) == 0 {
			infoLogger.Printf("Local repo %s contains no datasets", local)
			return
		}
		infoLogger.Printf("Local repo %s contains %d dataset(s)", local, len(listing))

		var failed bool
		table := newTable()
		for _, entry := range listing {
			if entry.Err != nil {
				failed = true
				table.AddRow("   ", entry.Name, fmtWarning.Sprint(entry.Err.Error()))
				continue
			}
			ds := entry.Dataset
			if len(ds.Versions) == 0 {
				table.AddRow("   ", entry.Name+" (0 versions)")
				continue
			}
			for _, version := range ds.Versions {
				row := []interface{}{"   ", entry.Name + "/" + version}
				if admFlags.root.verbose {
					row = append(row, ds.LongName)
				}
				table.AddRow(row...)
			}
		}
		printTable(table)
		if failed {
			osExit(1)
		}
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <dataset>",
	Short: "Describe a dataset on the server and in the local repository",
	Long: `Describe a dataset on the server and in the local repository.

The server and the local repository are inspected independently: a failure on one side
does not prevent the other side from being described.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		l := newLogger()
		dataset := args[0]

		remote, errRemote := openRemote(l)
		local, errLocal := openLocal(ctx, l)

		info, err := core.Info(ctx, remote, local, dataset)
		if err != nil && info.RemoteErr == nil && info.LocalErr == nil {
			wrapFatalln("dataset info", err)
			return
		}

		printHeader("== SERVER COPY ==============================")
		switch {
		case errRemote != nil:
			printWarning("%v", errRemote)
		case info.RemoteErr != nil:
			infoLogger.Printf("Server %s", remote)
			printWarning("The following error occurred while attempting to access server repository information:\n%v", info.RemoteErr)
		case info.Remote == nil:
			infoLogger.Printf("Server %s", remote)
			infoLogger.Printf("Dataset %s not found on remote server", dataset)
		default:
			infoLogger.Printf("Server %s", remote)
			printTable(describeDataset(info.Remote))
		}

		printHeader("\n== LOCAL COPY ===============================")
		switch {
		case errLocal != nil:
			printWarning("%v", errLocal)
		case info.LocalErr != nil:
			infoLogger.Printf("Local repo %s", local)
			printWarning("The following error occurred while attempting to access local repository information:\n%v", info.LocalErr)
		case info.Local == nil:
			infoLogger.Printf("Local repo %s", local)
			infoLogger.Printf("Dataset %s not found in local repo", dataset)
		default:
			infoLogger.Printf("Local repo %s", local)
			printTable(describeDataset(info.Local))
		}
		printHeader("=============================================")

		if err = multierr.Combine(errRemote, errLocal, err); err != nil {
			l.Debug("info failed", zap.Error(err))
			osExit(1)
		}
	},
}

func init() {
	addServerFlag(availCmd)
	rootCmd.AddCommand(availCmd)

	addLocalRepoFlag(listCmd)
	rootCmd.AddCommand(listCmd)

	addLocalRepoFlag(infoCmd)
	addServerFlag(infoCmd)
	rootCmd.AddCommand(infoCmd)
}
