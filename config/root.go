package config

import "time"

type AppInfo struct {
	Name    string `config:"name" validate:"required"`
	Version string `config:"version" validate:"required"`
}

type ServerConfig struct {
	Enabled      bool          `config:"enabled"`
	Addr         string        `config:"addr" validate:"required_if=Enabled true"`
	ReadTimeout  time.Duration `config:"readTimeout"`
	WriteTimeout time.Duration `config:"writeTimeout"`
	IdleTimeout  time.Duration `config:"idleTimeout"`
	// BasePath prefixes the module routes, e.g. "/bridge".
	BasePath string `config:"basePath"`
}

// BridgeConfig controls how method calls from the runtime are executed.
type BridgeConfig struct {
	// DefaultQueueWorkers sizes the queue used by methods without a queue
	// of their own. Zero runs them on the calling goroutine.
	DefaultQueueWorkers int           `config:"defaultQueueWorkers" validate:"min=0,max=256"`
	CallTimeout         time.Duration `config:"callTimeout"`
	// Script is an optional Lua file run against the modules at startup.
	Script string `config:"script"`
	// DumpManifest prints the module manifests as YAML and exits.
	DumpManifest bool `config:"dumpManifest"`
}

type LoggingConfig struct {
	Level  string `config:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `config:"format" validate:"omitempty,oneof=text json"`
}

type MetricsConfig struct {
	Enabled bool   `config:"enabled"`
	Path    string `config:"path"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `config:"metrics"`
}

type ActuatorConfig struct {
	BasePath string `config:"basePath"`
}

type Root struct {
	App           AppInfo             `config:"app"`
	Server        ServerConfig        `config:"server"`
	Bridge        BridgeConfig        `config:"bridge"`
	Logging       LoggingConfig       `config:"logging"`
	Observability ObservabilityConfig `config:"observability"`
	Actuator      ActuatorConfig      `config:"actuator"`
}

// Defaults returns the values used for anything the sources leave out.
// Pass it as the first source so every other source overrides it.
func Defaults() map[string]any {
	return map[string]any{
		"app": map[string]any{
			"name":    "modulehost",
			"version": "dev",
		},
		"server": map[string]any{
			"enabled":      true,
			"addr":         ":8080",
			"readTimeout":  "10s",
			"writeTimeout": "10s",
			"idleTimeout":  "60s",
			"basePath":     "/",
		},
		"bridge": map[string]any{
			"defaultQueueWorkers": 4,
			"callTimeout":         "30s",
		},
		"logging": map[string]any{
			"level":  "info",
			"format": "text",
		},
		"observability": map[string]any{
			"metrics": map[string]any{
				"enabled": true,
				"path":    "/metrics",
			},
		},
		"actuator": map[string]any{
			"basePath": "/actuator",
		},
	}
}
