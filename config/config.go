// Package config loads the YAML run configuration of the conflictcover CLI
// and turns it into a row source plus conflict.Graph options.
package config

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/conflictcover/conflict"
	"github.com/katalvlaran/conflictcover/lp"
	"github.com/katalvlaran/conflictcover/table"
	"github.com/katalvlaran/conflictcover/table/memtable"
	"github.com/katalvlaran/conflictcover/table/sqltable"
)

// Driver names accepted in source.driver.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// LP solver names accepted in lp_solver.
const (
	SolverDoubleCover = "double_cover"
	SolverSimplex     = "simplex"
)

// ErrInvalidConfig indicates a configuration that fails validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config captures all runtime options of a run.
type Config struct {
	Source                 Source                       `yaml:"source"`
	FunctionalDependencies []table.FunctionalDependency `yaml:"functional_dependencies"`
	Seed                   *int64                       `yaml:"seed"`
	Workers                int                          `yaml:"workers"`
	Epsilon                float64                      `yaml:"epsilon"`
	LPSolver               string                       `yaml:"lp_solver"`
	Rounding               string                       `yaml:"rounding"`
	Logging                Logging                      `yaml:"logging"`
	Metrics                Metrics                      `yaml:"metrics"`
}

// Source selects where rows come from.
type Source struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"` // CSV file for the memory driver
	DSN    string `yaml:"dsn"`
	Table  string `yaml:"table"`
	Key    string `yaml:"key"`
}

// Logging controls the console logger.
type Logging struct {
	Level string `yaml:"level"`
}

// Metrics controls the Prometheus endpoint. An empty Listen disables it.
type Metrics struct {
	Listen string `yaml:"listen"`
}

// DefaultConfig returns the settings used for keys absent from the file.
func DefaultConfig() Config {
	return Config{
		Source:   Source{Driver: DriverMemory},
		Workers:  1,
		Epsilon:  0.1,
		LPSolver: SolverDoubleCover,
		Rounding: conflict.RoundExcludeMajorityColor.String(),
		Logging:  Logging{Level: "info"},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "config: read")
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: %s", path)
	}

	return cfg, nil
}

// Parse decodes YAML over DefaultConfig. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "config: decode")
	}
	normalize(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func normalize(cfg *Config) {
	cfg.Source.Driver = strings.ToLower(strings.TrimSpace(cfg.Source.Driver))
	if cfg.Source.Driver == "" {
		cfg.Source.Driver = DriverMemory
	}
	cfg.LPSolver = strings.ToLower(strings.TrimSpace(cfg.LPSolver))
	if cfg.LPSolver == "" {
		cfg.LPSolver = SolverDoubleCover
	}
	cfg.Rounding = strings.ToLower(strings.TrimSpace(cfg.Rounding))
	if cfg.Rounding == "" {
		cfg.Rounding = conflict.RoundExcludeMajorityColor.String()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	for i := range cfg.FunctionalDependencies {
		fd := &cfg.FunctionalDependencies[i]
		for j := range fd.LHS {
			fd.LHS[j] = strings.TrimSpace(fd.LHS[j])
		}
		for j := range fd.RHS {
			fd.RHS[j] = strings.TrimSpace(fd.RHS[j])
		}
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	switch c.Source.Driver {
	case DriverMemory:
		if c.Source.Path == "" {
			return errors.Wrap(ErrInvalidConfig, "source.path is required for the memory driver")
		}
	case DriverSQLite, DriverMySQL:
		if c.Source.DSN == "" {
			return errors.Wrapf(ErrInvalidConfig, "source.dsn is required for the %s driver", c.Source.Driver)
		}
		if c.Source.Table == "" {
			return errors.Wrapf(ErrInvalidConfig, "source.table is required for the %s driver", c.Source.Driver)
		}
		if c.Source.Driver == DriverMySQL && c.Source.Key == "" {
			return errors.Wrap(ErrInvalidConfig, "source.key is required for the mysql driver")
		}
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown source.driver %q", c.Source.Driver)
	}
	if len(c.FunctionalDependencies) == 0 {
		return errors.Wrap(ErrInvalidConfig, "at least one functional dependency is required")
	}
	for i, fd := range c.FunctionalDependencies {
		if err := fd.Validate(); err != nil {
			return errors.Wrapf(ErrInvalidConfig, "functional_dependencies[%d]: %v", i, err)
		}
	}
	if _, err := conflict.SampleCount(c.Epsilon); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "epsilon: %v", err)
	}
	if _, err := c.solver(); err != nil {
		return err
	}
	if _, err := c.rounding(); err != nil {
		return err
	}
	if _, err := c.Logging.ZerologLevel(); err != nil {
		return err
	}

	return nil
}

// ZerologLevel parses Level.
func (l Logging) ZerologLevel() (zerolog.Level, error) {
	lvl, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		return zerolog.NoLevel, errors.Wrapf(ErrInvalidConfig, "logging.level %q", l.Level)
	}

	return lvl, nil
}

func (c Config) solver() (lp.Solver, error) {
	switch c.LPSolver {
	case SolverDoubleCover:
		return lp.DoubleCover{}, nil
	case SolverSimplex:
		return lp.Simplex{}, nil
	}

	return nil, errors.Wrapf(ErrInvalidConfig, "unknown lp_solver %q", c.LPSolver)
}

func (c Config) rounding() (conflict.Rounding, error) {
	for _, r := range []conflict.Rounding{conflict.RoundExcludeMajorityColor, conflict.RoundAllHalves} {
		if r.String() == c.Rounding {
			return r, nil
		}
	}

	return 0, errors.Wrapf(ErrInvalidConfig, "unknown rounding %q", c.Rounding)
}

// Options translates the run settings into conflict.New options. The logger
// is attached when log is non-nil.
func (c Config) Options(log *zerolog.Logger) ([]conflict.Option, error) {
	s, err := c.solver()
	if err != nil {
		return nil, err
	}
	r, err := c.rounding()
	if err != nil {
		return nil, err
	}
	opts := []conflict.Option{
		conflict.WithWorkers(c.Workers),
		conflict.WithLPSolver(s),
		conflict.WithRounding(r),
	}
	if c.Seed != nil {
		opts = append(opts, conflict.WithSeed(*c.Seed))
	}
	if log != nil {
		opts = append(opts, conflict.WithLogger(*log))
	}

	return opts, nil
}

// RowSource is a conflict.Source that may hold a connection.
type RowSource interface {
	conflict.Source
	io.Closer
}

// OpenSource opens the configured row source.
func (c Config) OpenSource() (RowSource, error) {
	switch c.Source.Driver {
	case DriverMemory:
		t, err := memtable.LoadCSVFile(c.Source.Path, c.FunctionalDependencies)
		if err != nil {
			return nil, err
		}

		return nopCloser{t}, nil
	case DriverSQLite, DriverMySQL:
		t, err := sqltable.Open(c.Source.Driver, c.Source.DSN, sqltable.Config{
			Table:        c.Source.Table,
			Key:          c.Source.Key,
			Dependencies: c.FunctionalDependencies,
		})
		if err != nil {
			return nil, err
		}

		return t, nil
	}

	return nil, errors.Wrapf(ErrInvalidConfig, "unknown source.driver %q", c.Source.Driver)
}

type nopCloser struct{ *memtable.Table }

func (nopCloser) Close() error { return nil }
