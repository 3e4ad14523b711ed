package conflict

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/katalvlaran/conflictcover/lp"
)

// Rounding selects how half-integral LP nodes enter the cover.
type Rounding uint8

const (
	// RoundExcludeMajorityColor drops the ½-nodes of the color class holding
	// the most ½-nodes (ties go to the smaller color).
	RoundExcludeMajorityColor Rounding = iota
	// RoundAllHalves keeps every ½-node (plain threshold rounding).
	RoundAllHalves
)

// String returns the configuration name of r.
func (r Rounding) String() string {
	switch r {
	case RoundExcludeMajorityColor:
		return "exclude_majority_color"
	case RoundAllHalves:
		return "all_halves"
	}

	return "unknown"
}

// options carries the construction-time settings of a Graph.
type options struct {
	seed     int64
	seeded   bool
	logger   zerolog.Logger
	workers  int
	solver   lp.Solver
	rounding Rounding
}

// Option configures New.
type Option func(*options) error

func defaultOptions() options {
	return options{
		logger:   zerolog.Nop(),
		workers:  1,
		solver:   lp.DoubleCover{},
		rounding: RoundExcludeMajorityColor,
	}
}

// WithSeed fixes the seed of the edge ranks and of every sampling stream.
// Without it the seed is taken from the clock.
func WithSeed(seed int64) Option {
	return func(o *options) error {
		o.seed, o.seeded = seed, true
		return nil
	}
}

// WithLogger sets the logger for debug events. Default: zerolog.Nop().
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = l
		return nil
	}
}

// WithWorkers sets the number of goroutines sampling in InconsistencyDegree.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return errors.Wrapf(ErrInvalidOption, "workers %d", n)
		}
		o.workers = n
		return nil
	}
}

// WithLPSolver replaces the LP solver (default lp.DoubleCover).
func WithLPSolver(s lp.Solver) Option {
	return func(o *options) error {
		if s == nil {
			return errors.Wrap(ErrInvalidOption, "nil lp solver")
		}
		o.solver = s
		return nil
	}
}

// WithRounding selects the rounding of half-integral LP values.
func WithRounding(r Rounding) Option {
	return func(o *options) error {
		if r != RoundExcludeMajorityColor && r != RoundAllHalves {
			return errors.Wrapf(ErrInvalidOption, "rounding %d", r)
		}
		o.rounding = r
		return nil
	}
}

func (o *options) apply(opts []Option) error {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return err
		}
	}
	if !o.seeded {
		o.seed = time.Now().UnixNano()
	}

	return nil
}
