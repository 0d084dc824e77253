package config

import "strings"

// MergeMaps deep merges src into dst. Nested maps are merged key by key and
// every other value in src replaces the one in dst. Nested maps from src are
// copied, so later merges never write into src.
func MergeMaps(dst, src map[string]any) {
	for k, v := range src {
		mv, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		existing, ok := dst[k].(map[string]any)
		if !ok {
			existing = map[string]any{}
			dst[k] = existing
		}
		MergeMaps(existing, mv)
	}
}

// normalizeKeys lower-cases every key so sources that cannot preserve case,
// like environment variables, land on the same entry as YAML or flag keys.
func normalizeKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = normalizeKeys(nested)
		}
		key := strings.ToLower(k)
		if prev, ok := out[key].(map[string]any); ok {
			if nested, ok := v.(map[string]any); ok {
				MergeMaps(prev, nested)
				continue
			}
		}
		out[key] = v
	}
	return out
}
