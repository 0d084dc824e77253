package actuator

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/caaatisgood/expo/config"
	"github.com/caaatisgood/expo/core"
	"github.com/caaatisgood/expo/web"
)

const Name = "actuator"

type service struct {
	started time.Time
}

// Service mounts health, info and metrics endpoints on the web engine and
// installs a Metrics observer on the app context when metrics are enabled.
func Service() core.Service { return &service{} }

func (s *service) Name() string        { return Name }
func (s *service) DependsOn() []string { return []string{web.Name} }

func (s *service) Configure(c core.Container) error {
	engine := web.Engine(c)
	cfg := core.Get[config.Root](c)
	app := core.Get[*core.AppContext](c)

	group := engine.Group(cfg.Actuator.BasePath)

	group.GET("/health", func(ctx *gin.Context) {
		status, code := "UP", http.StatusOK
		if app.Destroyed() {
			status, code = "DOWN", http.StatusServiceUnavailable
		}
		ctx.JSON(code, gin.H{
			"status": status,
			"checks": []gin.H{
				{"name": "appContext", "status": status},
			},
		})
	})

	group.GET("/info", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"app": gin.H{
				"name":    cfg.App.Name,
				"version": cfg.App.Version,
			},
			"appContext": gin.H{
				"id":      app.ID,
				"modules": len(app.Modules()),
			},
			"runtime": gin.H{
				"go":           runtime.Version(),
				"numGoroutine": runtime.NumGoroutine(),
				"time":         time.Now().UTC().Format(time.RFC3339),
				"uptime":       time.Since(s.started).Round(time.Second).String(),
				"pid":          os.Getpid(),
			},
		})
	})

	if cfg.Observability.Metrics.Enabled {
		metrics := NewMetrics()
		app.SetObserver(metrics)
		core.Put[*Metrics](c, metrics)

		path := cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		group.GET(path, gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	}

	s.started = time.Now()
	return nil
}

func (s *service) Start(context.Context, core.Container) error { return nil }
func (s *service) Stop(context.Context, core.Container) error  { return nil }
