// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"github.com/oneconcern/autodataman/pkg/core"
	"github.com/spf13/cobra"
)

var initRepoCmd = &cobra.Command{
	Use:   "initrepo <dir>",
	Short: "Create a new local repository",
	Long: `Create a new, empty local repository.

The directory must not exist, and its parent directory must exist.`,
	Example: `% autodataman initrepo ~/data
New autodataman repo "/home/user/data" created successfully`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		local, err := core.InitRepo(context.Background(), args[0])
		if err != nil {
			wrapFatalln("repository creation unsuccessful", err)
			return
		}
		infoLogger.Printf("New autodataman repo %q created successfully", local.Root())
	},
}

func init() {
	rootCmd.AddCommand(initRepoCmd)
}
