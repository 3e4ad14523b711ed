package main

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/conflictcover/config"
	"github.com/katalvlaran/conflictcover/conflict"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	configPath string
	logLevel   string

	cfg     config.Config
	log     zerolog.Logger
	metrics *http.Server
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "conflictcover",
		Short:         "Vertex covers and inconsistency estimates of FD conflict graphs",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.teardown()
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "conflictcover.yaml", "YAML run configuration")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override logging.level")

	root.AddCommand(newCoverCmd(a), newDegreeCmd(a), newCheckCmd(a))

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	lvl, err := cfg.Logging.ZerologLevel()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = zerolog.New(zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		TimeFormat: "15:04:05.06",
	}).Level(lvl).With().Timestamp().Logger()

	if cfg.Metrics.Listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		a.metrics = &http.Server{Addr: cfg.Metrics.Listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := a.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Error().Err(err).Str("listen", cfg.Metrics.Listen).Msg("metrics endpoint stopped")
			}
		}()
		a.log.Info().Str("listen", cfg.Metrics.Listen).Msg("serving metrics")
	}

	return nil
}

func (a *app) teardown() error {
	if a.metrics == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return a.metrics.Shutdown(ctx)
}

// graph opens the configured source and builds its conflict graph. The
// returned release closes the source.
func (a *app) graph() (*conflict.Graph, func(), error) {
	src, err := a.cfg.OpenSource()
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := src.Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing row source")
		}
	}
	opts, err := a.cfg.Options(&a.log)
	if err != nil {
		release()
		return nil, nil, err
	}
	g, err := conflict.New(src, opts...)
	if err != nil {
		release()
		return nil, nil, err
	}
	a.log.Info().Int("nodes", g.NodeCount()).Int("edges", g.EdgeCount()).Int64("seed", g.Seed()).Msg("conflict graph built")

	return g, release, nil
}
