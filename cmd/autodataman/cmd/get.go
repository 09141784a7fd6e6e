// Copyright © 2018 One Concern

package cmd

import (
	units "github.com/docker/go-units"
	"github.com/oneconcern/autodataman/pkg/core"
	"github.com/oneconcern/autodataman/pkg/core/status"
	"github.com/oneconcern/autodataman/pkg/errors"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <dataset>[/<version>]",
	Short: "Retrieve a version of a dataset from the server",
	Long: `Retrieve a version of a dataset from the server into the local repository.

Without a version, the default version of the dataset is retrieved.

Every file is verified against its SHA-256 digest before the local repository is updated:
on failure, the local repository is left as it was.

A version already present in the local repository is left alone. A local version which
does not match the server is only replaced with --force.

Files with a post-download action are processed by the command configured for their format
and action (e.g. tgz_open_command), then removed.`,
	Example: `% autodataman get era5/2019 -l ~/data -s https://data.example.com/repo
Dataset era5/2019 retrieved successfully (2 files, 1.2GB)`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := interruptibleContext()
		defer cancel()
		l := newLogger()

		remote, err := openRemote(l)
		if err != nil {
			wrapFatalln("open server", err)
			return
		}
		local, err := openLocal(ctx, l)
		if err != nil {
			wrapFatalln("open local repository", err)
			return
		}

		opts := []core.GetOption{
			core.WithForce(admFlags.get.force),
			core.WithGetLogger(l),
		}
		if settings != nil {
			opts = append(opts, core.WithCommands(settings))
		}

		res, err := core.Get(ctx, remote, local, args[0], opts...)
		if err != nil {
			switch {
			case errors.Is(err, status.ErrRepositoryMayBeInconsistent):
				printWarning("DANGER: the local repository %s may be inconsistent. Run validate to check.", local)
			case errors.Is(err, status.ErrVersionConflict):
				printWarning("WARNING: %s exists in the local repository but does not match the server. Rerun with --force to overwrite.", args[0])
			}
			wrapFatalln("get "+args[0], err)
			return
		}

		if res.UpToDate {
			infoLogger.Printf("Dataset %s/%s already exists in the local repository. Rerun with --force to overwrite.", res.Dataset, res.Version)
			return
		}
		infoLogger.Printf("Dataset %s/%s retrieved successfully (%d files, %s)",
			res.Dataset, res.Version, res.Files, units.HumanSize(float64(res.Bytes)))
	},
}

func init() {
	addForceFlag(getCmd)
	addLocalRepoFlag(getCmd)
	addServerFlag(getCmd)
	rootCmd.AddCommand(getCmd)
}
