package drag

import (
	"log/slog"
	"math/rand/v2"
)

// Defaults.
const (
	// DefaultDivisor converts pointer pixels to path fraction: a drag of
	// 500 pixels moves a piece the whole way.
	DefaultDivisor = 500.0

	// DefaultThreshold is the per-axis distance at which a piece counts
	// as arrived.
	DefaultThreshold = 0.01
)

type options struct {
	logger    *slog.Logger
	divisor   float64
	threshold float64
	policy    ReleasePolicy
	rng       *rand.Rand
}

func defaultOptions() options {
	return options{
		logger:    slog.New(slog.DiscardHandler),
		divisor:   DefaultDivisor,
		threshold: DefaultThreshold,
		policy:    ReleaseStrand,
	}
}

// Option configures a Controller.
type Option func(*options)

// WithLogger sets the logger. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDivisor sets the pixels-per-path divisor. Non-positive values are
// ignored.
func WithDivisor(d float64) Option {
	return func(o *options) {
		if d > 0 {
			o.divisor = d
		}
	}
}

// WithThreshold sets the arrival threshold. Non-positive values are
// ignored.
func WithThreshold(t float64) Option {
	return func(o *options) {
		if t > 0 {
			o.threshold = t
		}
	}
}

// WithReleasePolicy sets the mid-drag release behaviour.
func WithReleasePolicy(p ReleasePolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithRand sets the source for committed piece colors.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}
