package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/caaatisgood/expo/actuator"
	"github.com/caaatisgood/expo/config"
	"github.com/caaatisgood/expo/config/source"
	"github.com/caaatisgood/expo/core"
	"github.com/caaatisgood/expo/dispatch"
	"github.com/caaatisgood/expo/logging"
	"github.com/caaatisgood/expo/luabridge"
	"github.com/caaatisgood/expo/web"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("modulehost failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// 1) config: defaults < configs/application.yaml < EXPO_* env < --flags
	var cfg config.Root
	mgr, err := config.NewManager(&cfg, config.Options{},
		config.StaticSource{Label: "defaults", Values: config.Defaults()},
		&source.FileSource{BasePath: envOr("EXPO_CONFIG_DIR", "configs"), Profile: os.Getenv("EXPO_PROFILE"), Optional: true},
		&source.EnvSource{},
		&source.CLISource{},
	)
	if err != nil {
		return err
	}
	defer mgr.Close()

	// 2) logging
	logger := logging.New(cfg.Logging, os.Stdout).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
	)
	slog.SetDefault(logger)

	// 3) queues
	mainQueue := dispatch.NewSerialQueue("main", dispatch.WithLogger(logger))
	mainQueue.Start()
	defer mainQueue.Shutdown()

	opts := []core.Option{
		core.WithServices(web.Service(), actuator.Service()),
		core.WithCallTimeout(cfg.Bridge.CallTimeout),
	}
	if n := cfg.Bridge.DefaultQueueWorkers; n > 0 {
		pool := dispatch.NewQueue("default", n, dispatch.WithLogger(logger))
		pool.Start()
		defer pool.Shutdown()
		opts = append(opts, core.WithDefaultQueue(pool))
	}

	// 4) compose the app context
	app := core.NewAppContext(logger, opts...)
	core.Put[config.Root](app.Container, cfg)
	core.Put[*config.Manager](app.Container, mgr)

	if err := app.Register(Calculator(mainQueue), NewDevice(logger)); err != nil {
		return err
	}

	if cfg.Bridge.DumpManifest {
		return dumpManifests(app)
	}

	if cfg.Bridge.Script != "" {
		if err := app.Start(ctx); err != nil {
			return err
		}
		if err := luabridge.RunFile(ctx, app, cfg.Bridge.Script); err != nil {
			logger.Error("script failed", "script", cfg.Bridge.Script, "error", err)
		}
	}

	// 5) run until signalled
	return app.Run(ctx)
}

func dumpManifests(app *core.AppContext) error {
	mods := app.Modules()
	manifests := make([]core.Manifest, 0, len(mods))
	for _, m := range mods {
		manifests = append(manifests, m.Manifest())
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(manifests); err != nil {
		return fmt.Errorf("encode manifests: %w", err)
	}
	return enc.Close()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
