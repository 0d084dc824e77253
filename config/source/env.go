package source

import (
	"context"
	"os"
	"strings"

	"github.com/caaatisgood/expo/config"
)

// DefaultEnvPrefix is used when EnvSource.Prefix is empty.
const DefaultEnvPrefix = "EXPO_"

// EnvSource loads prefixed environment variables, splitting the rest of
// the name on underscores:
//
//	EXPO_BRIDGE_CALLTIMEOUT=5s -> {bridge: {calltimeout: "5s"}}
//	EXPO_SERVER_ADDR=:9090     -> {server: {addr: ":9090"}}
//
// Keys are lower-cased; the binder matches them to fields regardless of
// case. When a variable names both a leaf and a parent, as in EXPO_APP and
// EXPO_APP_NAME, the first one seen wins.
type EnvSource struct {
	Prefix string
}

func (e *EnvSource) Name() string { return "env" }

func (e *EnvSource) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := e.Prefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	return loadEnvVars(prefix, os.Environ()), nil
}

func (e *EnvSource) Watch(context.Context, chan<- config.Event) error {
	return nil
}

func loadEnvVars(prefix string, environ []string) map[string]any {
	result := make(map[string]any)
	for _, env := range environ {
		key, value, found := strings.Cut(env, "=")
		if !found || !strings.HasPrefix(key, prefix) {
			continue
		}

		key = strings.ToLower(strings.TrimPrefix(key, prefix))
		setNestedValue(result, strings.Split(key, "_"), value)
	}
	return result
}

func setNestedValue(m map[string]any, segments []string, value string) {
	current := m
	for i, segment := range segments {
		if segment == "" {
			continue
		}

		if i == len(segments)-1 {
			current[segment] = value
			return
		}

		existing, exists := current[segment]
		if !exists {
			nested := make(map[string]any)
			current[segment] = nested
			current = nested
			continue
		}
		nested, ok := existing.(map[string]any)
		if !ok {
			// a leaf already lives here
			return
		}
		current = nested
	}
}
