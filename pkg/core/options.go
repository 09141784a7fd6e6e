package core

import "go.uber.org/zap"

// CommandSource provides the command templates used by post-download actions
type CommandSource interface {
	ActionCommand(format, action string) (string, bool)
}

type (
	// GetOption sets options to retrieve a version
	GetOption func(*getOptions)

	getOptions struct {
		force    bool
		l        *zap.Logger
		commands CommandSource
		runner   ActionRunner
	}
)

func getOptionsWithDefaults(opts []GetOption) *getOptions {
	o := &getOptions{
		l:      zap.NewNop(),
		runner: ShellActions{},
	}

	for _, apply := range opts {
		apply(o)
	}

	return o
}

// WithForce overwrites a local version, even when it is identical to the remote one
func WithForce(force bool) GetOption {
	return func(o *getOptions) {
		o.force = force
	}
}

// WithGetLogger sets a logger to report progress
func WithGetLogger(l *zap.Logger) GetOption {
	return func(o *getOptions) {
		if l != nil {
			o.l = l
		}
	}
}

// WithCommands sets the source of command templates for post-download actions
func WithCommands(commands CommandSource) GetOption {
	return func(o *getOptions) {
		o.commands = commands
	}
}

// WithActionRunner sets the runner executing post-download actions. It defaults to ShellActions.
func WithActionRunner(runner ActionRunner) GetOption {
	return func(o *getOptions) {
		if runner != nil {
			o.runner = runner
		}
	}
}
