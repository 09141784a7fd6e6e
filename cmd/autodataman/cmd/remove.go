// Copyright © 2018 One Concern

package cmd

import (
	"strings"

	"github.com/oneconcern/autodataman/pkg/core"
	"github.com/oneconcern/autodataman/pkg/core/status"
	"github.com/oneconcern/autodataman/pkg/errors"
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <dataset>[/<version>]",
	Short: "Remove a version or a dataset from the local repository",
	Long: `Remove a version, or a whole dataset, from the local repository.

Without a version, a dataset holding at most one version is removed. A dataset holding
several versions is only removed with --all.`,
	Example: `% autodataman remove era5/2018
Dataset era5/2018 removed successfully
% autodataman remove era5 --all
Dataset era5 removed successfully (versions: 2019)`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := interruptibleContext()
		defer cancel()
		l := newLogger()

		local, err := openLocal(ctx, l)
		if err != nil {
			wrapFatalln("open local repository", err)
			return
		}

		res, err := core.Remove(ctx, local, args[0],
			core.WithRemoveAll(admFlags.remove.all),
			core.WithRemoveLogger(l),
		)
		if err != nil {
			switch {
			case errors.Is(err, status.ErrRepositoryMayBeInconsistent):
				printWarning("DANGER: the local repository %s may be inconsistent. Run validate to check.", local)
			case errors.Is(err, status.ErrAmbiguousRemoval):
				printWarning("To remove the entire dataset, rerun with --all.")
			}
			wrapFatalln("remove "+args[0], err)
			return
		}

		if res.WholeDataset {
			infoLogger.Printf("Dataset %s removed successfully (versions: %s)", res.Dataset, strings.Join(res.Versions, ", "))
			return
		}
		infoLogger.Printf("Dataset %s removed successfully", args[0])
	},
}

func init() {
	addRemoveAllFlag(removeCmd)
	addLocalRepoFlag(removeCmd)
	rootCmd.AddCommand(removeCmd)
}
