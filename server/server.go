// Package server 通过 HTTP 暴露推荐查询、类别列表与索引重建。
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rushteam/contentrec/core"
	"github.com/rushteam/contentrec/index"
	"github.com/rushteam/contentrec/recommend"
)

// Recommender 是 HTTP 层依赖的推荐能力。
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) ([]core.Recommendation, error)
	ResolveK(k int) int
	DistinctCategories() ([]string, error)
	Titles() ([]string, error)
	Reload(ctx context.Context, trigger string) (*index.Generation, error)
	Generation() (*index.Generation, error)
	Ready() bool
}

// Config 是 HTTP 服务配置。
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// RateLimit 是每个 IP 每分钟的请求上限，0 表示不限流
	RateLimit int
	// MaxK 是单次请求允许的最大 k，0 表示不限制
	MaxK int
}

// Server 是推荐 HTTP 服务，满足 suture.Service 接口。
type Server struct {
	cfg    Config
	rec    Recommender
	logger zerolog.Logger
	router chi.Router
}

// New 创建 HTTP 服务并注册路由。
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(rec Recommender, cfg Config, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		rec:    rec,
		logger: logger.With().Str("component", "http").Logger(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(accessLog(s.logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(httprate.LimitByIP(s.cfg.RateLimit, time.Minute))
		}
		r.Get("/recommendations", s.handleRecommend)
		r.Get("/categories", s.handleCategories)
		r.Get("/titles", s.handleTitles)
		r.Post("/reload", s.handleReload)
	})
	return r
}

// Handler 返回根 http.Handler。
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve 监听并服务直到 ctx 结束，然后优雅关闭。
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	s.logger.Info().Msg("http server stopped")
	return ctx.Err()
}

func (s *Server) String() string {
	return "http-server"
}
