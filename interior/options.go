package interior

import "q.log/lpsolve/model"

const (
	DefaultAccuracy      = 1e-6
	DefaultAlpha         = 0.5
	DefaultMaxIterations = 10000
)

type Option func(*config)

type config struct {
	accuracy float64
	alpha    float64
	maxIter  int
	logger   model.Logger
	hook     func(iter int, x []float64)
}

func defaultConfig() *config {
	return &config{
		accuracy: DefaultAccuracy,
		alpha:    DefaultAlpha,
		maxIter:  DefaultMaxIterations,
		logger:   model.NopLogger(),
	}
}

// WithAccuracy sets the stopping threshold on the Euclidean length of a step,
// relative to max(1, ‖x‖). It also bounds |A x - b| relative to max(1, |b|),
// down to a floor of about 1.5e-8.
func WithAccuracy(accuracy float64) Option {
	return func(c *config) {
		c.accuracy = accuracy
	}
}

// WithAlpha sets the step fraction. It must lie in (0, 1) for iterates to
// stay strictly positive.
func WithAlpha(alpha float64) Option {
	return func(c *config) {
		c.alpha = alpha
	}
}

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

// WithIterationHook registers fn to be called with every accepted iterate.
// fn must not retain x.
func WithIterationHook(fn func(iter int, x []float64)) Option {
	return func(c *config) {
		c.hook = fn
	}
}
