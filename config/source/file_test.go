package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestFileSource_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "application.yaml", `
server:
  addr: ":8080"
  readTimeout: 5s
bridge:
  defaultQueueWorkers: 2
`)
	writeFile(t, dir, "application.dev.yml", `
server:
  addr: ":9090"
`)

	got, err := (&FileSource{BasePath: dir, Profile: "dev"}).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"server": map[string]any{"addr": ":9090", "readTimeout": "5s"},
		"bridge": map[string]any{"defaultQueueWorkers": 2},
	}, got, "profile overlays are merged key by key")
}

func TestFileSource_CustomFileName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "modulehost.yml", "app:\n  name: calc\n")

	got, err := (&FileSource{BasePath: dir, File: "modulehost"}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"app": map[string]any{"name": "calc"}}, got)
}

func TestFileSource_Missing(t *testing.T) {
	dir := t.TempDir()

	_, err := (&FileSource{BasePath: dir}).Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)

	got, err := (&FileSource{BasePath: dir, Optional: true}).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFileSource_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "application.yaml", "server: [unterminated\n")

	_, err := (&FileSource{BasePath: dir}).Load(context.Background())
	assert.ErrorContains(t, err, "parse")
}
