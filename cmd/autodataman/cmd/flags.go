// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"strings"

	"github.com/oneconcern/autodataman/pkg/dlogger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type flagsT struct {
	root struct {
		logLevel logLevelValue
		verbose  bool
		cpuProf  bool
	}
	repo struct {
		local  string
		server string
	}
	get struct {
		force bool
	}
	remove struct {
		all bool
	}
	validate struct {
		digests bool
	}
	doc struct {
		docTarget string
	}
}

var admFlags = flagsT{}

var logLevels = []string{dlogger.LogLevelNone, "error", dlogger.LogLevelWarn, dlogger.LogLevelInfo, dlogger.LogLevelDebug}

// logLevelValue is a pflag.Value accepting known log levels only
type logLevelValue string

var _ pflag.Value = new(logLevelValue)

func (l *logLevelValue) String() string {
	return string(*l)
}

func (l *logLevelValue) Set(value string) error {
	value = strings.ToLower(value)
	for _, level := range logLevels {
		if value == level {
			*l = logLevelValue(value)
			return nil
		}
	}
	if value == "" {
		*l = ""
		return nil
	}
	return fmt.Errorf("invalid log level %q: expected one of %s", value, strings.Join(logLevels, ", "))
}

func (l *logLevelValue) Type() string {
	return "level"
}

func addLogLevel(cmd *cobra.Command) string {
	loglevel := "loglevel"
	cmd.PersistentFlags().Var(&admFlags.root.logLevel, loglevel,
		"The logging level, overriding --verbose. Levels by increasing order of verbosity: none, error, warn, info, debug")
	return loglevel
}

func addVerboseFlag(cmd *cobra.Command) string {
	verbose := "verbose"
	cmd.PersistentFlags().BoolVarP(&admFlags.root.verbose, verbose, "v", false, "Verbose output")
	return verbose
}

func addCPUProfFlag(cmd *cobra.Command) string {
	cpuProf := "cpuprof"
	cmd.PersistentFlags().BoolVar(&admFlags.root.cpuProf, cpuProf, false, "Writes a CPU profile to cpu.prof")
	_ = cmd.PersistentFlags().MarkHidden(cpuProf)
	return cpuProf
}

func addLocalRepoFlag(cmd *cobra.Command) string {
	local := "local"
	cmd.Flags().StringVarP(&admFlags.repo.local, local, "l", "",
		"The local repository. Defaults to the repository set with setrepo")
	return local
}

func addServerFlag(cmd *cobra.Command) string {
	server := "server"
	cmd.Flags().StringVarP(&admFlags.repo.server, server, "s", "",
		"The remote repository: an http(s) URL or a directory. Defaults to the server set with setserver")
	return server
}

func addForceFlag(cmd *cobra.Command) string {
	force := "force"
	cmd.Flags().BoolVarP(&admFlags.get.force, force, "f", false,
		"Overwrite the local copy of the version, even if it matches the server")
	return force
}

func addRemoveAllFlag(cmd *cobra.Command) string {
	all := "all"
	cmd.Flags().BoolVarP(&admFlags.remove.all, all, "a", false,
		"Remove the entire dataset, even when it holds several versions")
	return all
}

func addVerifyDigestsFlag(cmd *cobra.Command) string {
	digests := "digests"
	cmd.Flags().BoolVar(&admFlags.validate.digests, digests, false,
		"Recompute the SHA-256 digest of every file")
	return digests
}

func addTargetFlag(cmd *cobra.Command) string {
	target := "target"
	cmd.Flags().StringVar(&admFlags.doc.docTarget, target, ".", "The target directory to generate the documentation")
	return target
}
