// Copyright © 2018 One Concern

package cmd

import (
	"context"

	"github.com/oneconcern/autodataman/pkg/core"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the local repository",
	Long: `Check that the directories of the local repository match its metadata.

Reports datasets and versions which are referenced but missing, directories which are not
referenced, directories left over by an interrupted download and descriptors which cannot
be loaded. With --digests, the SHA-256 digest of every file is verified as well.

The repository is never modified.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		l := newLogger()
		local, err := openLocal(ctx, l)
		if err != nil {
			wrapFatalln("open local repository", err)
			return
		}

		report, err := core.Validate(ctx, local,
			core.WithVerifyDigests(admFlags.validate.digests),
			core.WithValidateLogger(l),
		)
		if err != nil {
			wrapFatalln("validate", err)
			return
		}

		infoLogger.Printf("Local repo %s: %d dataset(s), %d version(s), %d file(s)",
			local, report.Datasets, report.Versions, report.Files)
		if report.OK() {
			infoLogger.Println("No issue found")
			return
		}

		printWarning("%d issue(s) found", len(report.Issues))
		table := newTable()
		for _, issue := range report.Issues {
			table.AddRow(issue.Path, issue.Problem)
		}
		printTable(table)
		osExit(1)
	},
}

func init() {
	addLocalRepoFlag(validateCmd)
	addVerifyDigestsFlag(validateCmd)
	rootCmd.AddCommand(validateCmd)
}
