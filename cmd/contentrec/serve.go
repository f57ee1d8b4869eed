package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/thejerf/suture/v4"

	"github.com/rushteam/contentrec/corpus"
	"github.com/rushteam/contentrec/metrics"
	"github.com/rushteam/contentrec/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Build the index and serve recommendations over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	log := a.logger

	engine, cleanup, err := newEngine(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	// 首次构建失败不阻止启动：/readyz 返回 503，等待文件变更或 /api/v1/reload 重试
	if _, err := engine.Reload(ctx, metrics.TriggerStartup); err != nil {
		log.Error().Err(err).Msg("initial index build failed, serving without generation")
	}

	sup := suture.New("contentrec", suture.Spec{
		EventHook:        eventHook(log),
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		Timeout:          cfg.Server.ShutdownTimeout,
	})

	sup.Add(server.New(engine, server.Config{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		RateLimit:       cfg.Server.RateLimit,
		MaxK:            cfg.Server.MaxK,
	}, log))

	if cfg.Corpus.Watch {
		sup.Add(corpus.NewWatcher(cfg.Corpus.Path, cfg.Corpus.Debounce, func(ctx context.Context) {
			_, _ = engine.Reload(ctx, metrics.TriggerWatch)
		}, log))
	}

	err = sup.Serve(ctx)
	if err == nil || errors.Is(err, context.Canceled) {
		log.Info().Msg("shutdown complete")
		return nil
	}
	return err
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func eventHook(log zerolog.Logger) suture.EventHook {
	l := log.With().Str("component", "supervisor").Logger()
	return func(e suture.Event) {
		switch e.Type() {
		case suture.EventTypeServicePanic, suture.EventTypeServiceTerminate:
			l.Error().Fields(e.Map()).Msg(e.String())
		default:
			l.Warn().Fields(e.Map()).Msg(e.String())
		}
	}
}
