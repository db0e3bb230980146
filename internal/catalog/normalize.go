package catalog

import "strings"

func normalizeSize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeSizes trims, lowercases and drops empty labels. Returns nil if no
// usable label remains.
func NormalizeSizes(sizes []string) []string {
	out := make([]string, 0, len(sizes))
	for _, s := range sizes {
		if n := normalizeSize(s); n != "" {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
