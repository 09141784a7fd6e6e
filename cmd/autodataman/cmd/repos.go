// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/oneconcern/autodataman/pkg/core"
	"github.com/oneconcern/autodataman/pkg/dlogger"
	"github.com/oneconcern/autodataman/pkg/errors"
	"github.com/oneconcern/autodataman/pkg/storage/httpstore"
	"go.uber.org/zap"
)

var (
	errNoConfig    = errors.New("no configuration loaded")
	errNoLocalRepo = errors.New("no local repository specified: use --local or set a default with setrepo")
	errNoServer    = errors.New("no server specified: use --server or set a default with setserver")
)

func newLogger() *zap.Logger {
	return dlogger.MustGetLogger(dlogger.LevelForVerbosity(admFlags.root.logLevel.String(), admFlags.root.verbose))
}

// interruptibleContext is canceled on SIGINT or SIGTERM, so an interrupted download is rolled back
func interruptibleContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// localRepoPath yields the local repository from the --local flag, or the configuration
func localRepoPath(l *zap.Logger) (string, error) {
	if admFlags.repo.local != "" {
		return admFlags.repo.local, nil
	}
	if settings == nil {
		return "", errNoConfig
	}
	dir := settings.LocalRepo()
	if dir == "" {
		return "", errNoLocalRepo
	}
	l.Info("using default local repository", zap.String("local", dir))
	return dir, nil
}

// serverLocation yields the remote repository from the --server flag, or the configuration
func serverLocation(l *zap.Logger) (string, error) {
	if admFlags.repo.server != "" {
		return admFlags.repo.server, nil
	}
	if settings == nil {
		return "", errNoConfig
	}
	server := settings.Server()
	if server == "" {
		return "", errNoServer
	}
	l.Info("using default server", zap.String("server", server))
	return server, nil
}

func openLocal(ctx context.Context, l *zap.Logger) (*core.LocalRepo, error) {
	dir, err := localRepoPath(l)
	if err != nil {
		return nil, err
	}
	return core.OpenLocalRepo(ctx, dir)
}

func openRemote(l *zap.Logger) (*core.Remote, error) {
	server, err := serverLocation(l)
	if err != nil {
		return nil, err
	}
	remote, err := core.OpenRemote(server, httpstore.Logger(l))
	if err != nil {
		return nil, err
	}
	return remote.Instrument(l), nil
}
