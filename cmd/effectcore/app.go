package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nathoo/effectcore/config"
	"github.com/nathoo/effectcore/engine"
	"github.com/nathoo/effectcore/loader"
	"github.com/nathoo/effectcore/scenario"
)

// app is a configured engine over the loaded content and scenario.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	engine   *engine.Engine
	scenario *scenario.Scenario
	metrics  *http.Server
}

// setup loads config, content and scenario and builds the engine. Logs go
// to stderr.
func setup(ctx context.Context, opts *options) (*app, error) {
	return setupWithLog(ctx, opts, os.Stderr)
}

func setupWithLog(ctx context.Context, opts *options, logOut io.Writer) (*app, error) {
	cfg, err := opts.load()
	if err != nil {
		return nil, err
	}
	logger := cfg.NewLogger(logOut)
	slog.SetDefault(logger)

	reg, err := loader.Load(cfg.Content.Dir)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	sc, err := scenario.Load(cfg.Content.Scenario)
	if err != nil {
		return nil, err
	}
	if err := sc.CheckRecords(reg); err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Content.Scenario, err)
	}

	e := engine.New(reg, sc.Universe, sc.Unlocks)
	e.Logger = logger
	e.Workers = cfg.Engine.Workers
	e.Verify = cfg.Engine.Verify
	e.Turn = sc.Turn
	if cfg.Engine.ShuffleSeed != nil {
		e.RNG = engine.NewRNG(*cfg.Engine.ShuffleSeed)
	}

	a := &app{cfg: cfg, logger: logger, engine: e, scenario: sc}
	if cfg.Metrics.Addr != "" {
		a.serveMetrics(ctx)
	}

	logger.Info("effectcore ready",
		"version", version,
		"content", cfg.Content.Dir,
		"records", reg.Len(),
		"scenario", sc.Name,
		"objects", len(sc.Universe.Objects()),
	)
	return a, nil
}

// serveMetrics exposes the engine's collectors on cfg.Metrics.Addr until
// ctx is done or close is called.
func (a *app) serveMetrics(ctx context.Context) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.engine.Metrics = engine.NewMetrics(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	a.metrics = &http.Server{
		Addr:              a.cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.logger.Info("serving metrics", "addr", a.cfg.Metrics.Addr)
		if err := a.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		a.close()
	}()
}

func (a *app) close() {
	if a.metrics == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = a.metrics.Shutdown(ctx)
}
