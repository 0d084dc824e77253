package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/caaatisgood/expo/config"
	"github.com/caaatisgood/expo/core"
)

const Name = "web"

func Engine(c core.Container) *gin.Engine {
	return core.Get[*gin.Engine](c)
}

// Service exposes the registered modules over HTTP. See RegisterModuleRoutes
// for the routes.
func Service(opts ...Option) core.Service {
	var options Options
	for _, o := range opts {
		o(&options)
	}
	return &service{opts: options}
}

type service struct {
	opts    Options
	enabled bool
	server  *http.Server
}

func (s *service) Name() string        { return Name }
func (s *service) DependsOn() []string { return nil }

func (s *service) Configure(c core.Container) error {
	cfg := core.Get[config.Root](c)
	l := core.Get[*slog.Logger](c)
	app := core.Get[*core.AppContext](c)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(RequestID(), RecoveryProblem(l), AccessLog(l), RequestLogger(l))
	r.Use(s.opts.Middlewares...)

	root := r.Group(cfg.Server.BasePath)
	RegisterModuleRoutes(root, app)
	for _, reg := range s.opts.Routes {
		reg(root)
	}

	core.Put[*gin.Engine](c, r)

	s.enabled = cfg.Server.Enabled
	if !s.enabled {
		return nil
	}
	s.server = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	core.Put[*http.Server](c, s.server)
	return nil
}

func (s *service) Start(_ context.Context, c core.Container) error {
	if !s.enabled {
		return nil
	}
	l := core.Get[*slog.Logger](c)
	go func() {
		l.Info("http server starting", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("http server error", "error", err)
		}
	}()
	return nil
}

func (s *service) Stop(ctx context.Context, _ core.Container) error {
	if !s.enabled {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
