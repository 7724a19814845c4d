package repository

import "github.com/okian/namerank/pkg/logger"

// Option applies a configuration option to a provider.
type Option func(*options)

type options struct {
	logger logger.Logger
}

// WithLogger sets the logger used for dataset reads.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
