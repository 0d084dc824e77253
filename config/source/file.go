package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/caaatisgood/expo/config"
)

// FileSource loads {File}.yaml (or .yml) from BasePath and, when Profile is
// set, deep merges {File}.{Profile}.yaml over it:
//
//	configs/
//	  application.yaml
//	  application.dev.yaml
type FileSource struct {
	BasePath string
	// File is the base name without extension. Defaults to "application".
	File    string
	Profile string
	// Optional makes a missing base file load as empty instead of failing.
	Optional bool
}

func (f *FileSource) Name() string { return "file" }

func (f *FileSource) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := f.File
	if name == "" {
		name = "application"
	}

	data := map[string]any{}
	baseFile := findYAMLFile(f.BasePath, name)
	if baseFile == "" {
		if f.Optional {
			return data, nil
		}
		return nil, fmt.Errorf("%s in %s: %w", name, f.BasePath, os.ErrNotExist)
	}
	if err := readYAML(baseFile, data); err != nil {
		return nil, err
	}

	if f.Profile != "" {
		if profileFile := findYAMLFile(f.BasePath, name+"."+f.Profile); profileFile != "" {
			overlay := map[string]any{}
			if err := readYAML(profileFile, overlay); err != nil {
				return nil, err
			}
			config.MergeMaps(data, overlay)
		}
	}
	return data, nil
}

func (f *FileSource) Watch(context.Context, chan<- config.Event) error { return nil }

func findYAMLFile(dir, basename string) string {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, basename+ext)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func readYAML(path string, out map[string]any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
