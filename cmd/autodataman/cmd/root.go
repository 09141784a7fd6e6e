// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"github.com/oneconcern/autodataman/pkg/config"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "autodataman",
	Short: "Autodataman mirrors versioned datasets from a remote repository",
	Long: `Autodataman keeps a local repository of datasets in sync with a remote repository.

A repository holds named datasets. Each dataset holds named, immutable versions, and each
version is a fixed set of files with known SHA-256 digests.

Datasets are designated as <dataset> (the default version of the dataset) or <dataset>/<version>.

The default local repository and server are kept in the configuration file $HOME/.autodataman
(or the file designated by $AUTODATAMAN_CONFIG).
`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if admFlags.root.cpuProf {
			f, err := os.Create("cpu.prof")
			if err != nil {
				wrapFatalln("create cpu profile", err)
				return
			}
			_ = pprof.StartCPUProfile(f)
		}
	},
	// upstream api note:  *PostRun functions aren't called in case of a panic() in Run
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if admFlags.root.cpuProf {
			pprof.StopCPUProfile()
		}
	},
}

// settings loaded from the configuration file of the user
var settings *config.Config

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addLogLevel(rootCmd)
	addVerboseFlag(rootCmd)
	addCPUProfFlag(rootCmd)
}

// initConfig reads in the config file and ENV variables if set.
func initConfig() {
	var err error
	settings, err = config.LoadDefault(context.Background())
	if err != nil {
		wrapFatalln("load configuration", err)
	}
}
