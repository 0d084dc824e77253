package source

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvSource_Load(t *testing.T) {
	t.Setenv("EXPO_SERVER_ADDR", ":9090")
	t.Setenv("EXPO_BRIDGE_CALLTIMEOUT", "5s")
	t.Setenv("OTHER_SERVER_ADDR", ":1")

	got, err := (&EnvSource{}).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"addr": ":9090"}, got["server"])
	assert.Equal(t, map[string]any{"calltimeout": "5s"}, got["bridge"])
}

func TestEnvSource_CustomPrefix(t *testing.T) {
	t.Setenv("CALC_APP_NAME", "calc")

	got, err := (&EnvSource{Prefix: "CALC_"}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "calc"}, got["app"])
}

func TestLoadEnvVars(t *testing.T) {
	got := loadEnvVars("EXPO_", []string{
		"EXPO_APP=leaf",
		"EXPO_APP_NAME=ignored",
		"EXPO_LOGGING__LEVEL=debug",
		"EXPO_BROKEN",
		"PATH=/bin",
	})

	assert.Equal(t, map[string]any{
		"app":     "leaf",
		"logging": map[string]any{"level": "debug"},
	}, got)
}

func TestSetNestedValue(t *testing.T) {
	m := map[string]any{}
	setNestedValue(m, []string{"a", "b", "c"}, "1")
	setNestedValue(m, []string{"a", "d"}, "2")
	setNestedValue(m, []string{"a", "d", "e"}, "3")

	assert.Equal(t, map[string]any{
		"a": map[string]any{
			"b": map[string]any{"c": "1"},
			"d": "2",
		},
	}, m)
}
