package config

import "context"

// ConfigSource is a source of configuration data.
//
// Load must be safe for concurrent use and return a map the caller may
// modify. Sources that cannot be watched return nil from Watch right away.
type ConfigSource interface {
	Load(ctx context.Context) (map[string]any, error)
	Watch(ctx context.Context, ch chan<- Event) error
	// Name identifies the source in errors and logs, e.g. "file" or "env".
	Name() string
}

// Event is sent to subscribers when a reload changes the configuration.
type Event struct {
	// ChangedKeys lists top-level struct field names whose value changed,
	// e.g. ["Bridge"] when only bridge.callTimeout moved.
	ChangedKeys []string
	OldConfig   any
	NewConfig   any
}

// StaticSource serves a fixed map. It is typically the first source so
// that every other source overrides it.
type StaticSource struct {
	Label  string
	Values map[string]any
}

func (s StaticSource) Name() string {
	if s.Label == "" {
		return "static"
	}
	return s.Label
}

func (s StaticSource) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := map[string]any{}
	MergeMaps(out, s.Values)
	return out, nil
}

func (s StaticSource) Watch(context.Context, chan<- Event) error { return nil }
