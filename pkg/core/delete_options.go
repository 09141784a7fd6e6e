package core

import "go.uber.org/zap"

type (
	// RemoveOption sets options to remove a dataset or a version
	RemoveOption func(*removeOptions)

	removeOptions struct {
		all bool
		l   *zap.Logger
	}
)

func removeOptionsWithDefaults(opts []RemoveOption) *removeOptions {
	o := &removeOptions{
		l: zap.NewNop(),
	}

	for _, apply := range opts {
		apply(o)
	}

	return o
}

// WithRemoveAll allows the removal of a whole dataset holding several versions
func WithRemoveAll(all bool) RemoveOption {
	return func(o *removeOptions) {
		o.all = all
	}
}

// WithRemoveLogger sets a logger to report progress
func WithRemoveLogger(l *zap.Logger) RemoveOption {
	return func(o *removeOptions) {
		if l != nil {
			o.l = l
		}
	}
}
