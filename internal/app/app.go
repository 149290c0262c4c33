// Package app wires the store, engine, and HTTP server together with an
// explicit lifecycle: open on startup, close on shutdown.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"callsheet/internal/config"
	"callsheet/internal/engine"
	"callsheet/internal/httpapi"
	"callsheet/internal/metrics"
	"callsheet/internal/store"
)

type App struct {
	cfg     config.Config
	log     zerolog.Logger
	store   *store.Store
	engine  *engine.Engine
	handler http.Handler
}

func New(cfg config.Config, log zerolog.Logger) (*App, error) {
	st, err := store.Open(cfg.DBPath, cfg.WriteWait())
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.New(reg)

	eng := engine.New(st, log, m)
	router := httpapi.NewRouter(eng, st, log, m)
	mux := router.Routes()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &App{cfg: cfg, log: log, store: st, engine: eng, handler: mux}, nil
}

// Engine exposes the operation boundary for embedding callers and tests.
func (a *App) Engine() *engine.Engine { return a.engine }

// Run serves HTTP until ctx is done, then shuts down and closes the store.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{Addr: a.cfg.Addr(), Handler: a.handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	a.log.Info().Str("addr", a.cfg.Addr()).Str("db", a.cfg.DBPath).Msg("listening")
	err := srv.ListenAndServe()
	if cerr := a.store.Close(); cerr != nil {
		a.log.Error().Err(cerr).Msg("closing store")
	}
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
