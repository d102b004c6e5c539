package simplex

import "q.log/lpsolve/model"

const (
	DefaultAccuracy      = 1e-6
	DefaultMaxIterations = 10000
)

type Option func(*config)

type config struct {
	accuracy float64
	maxIter  int
	logger   model.Logger
}

func defaultConfig() *config {
	return &config{
		accuracy: DefaultAccuracy,
		maxIter:  DefaultMaxIterations,
		logger:   model.NopLogger(),
	}
}

// WithAccuracy sets the zero band: any value v with |v| <= accuracy is
// treated as zero.
func WithAccuracy(accuracy float64) Option {
	return func(c *config) {
		c.accuracy = accuracy
	}
}

// WithMaxIterations bounds the number of pivots. Zero or less disables the
// bound.
func WithMaxIterations(n int) Option {
	return func(c *config) {
		c.maxIter = n
	}
}

func WithLogger(logger model.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
