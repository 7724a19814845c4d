package stats

import "github.com/okian/namerank/pkg/logger"

// Option applies a configuration option to NameStatistics.
type Option func(*NameStatistics)

// WithLogger sets the logger used for skipped years in range scans.
func WithLogger(l logger.Logger) Option {
	return func(s *NameStatistics) {
		if l != nil {
			s.logger = l
		}
	}
}
