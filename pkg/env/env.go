// Package env parses environment variable declarations of the form
// KEY=VALUE, as accepted by container engines for per-container
// environments.
package env

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Parse splits a whitespace- or comma-separated string of KEY=VALUE pairs
// into a slice suitable for handing to a container engine. Quoted values
// are unwrapped, e.g. `DISPLAY=":1" LANG=en_US.UTF-8`.
//
// An empty input yields a nil slice. A pair without '=' or with an empty
// key is rejected.
func Parse(s string) ([]string, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	var vars []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		key, value, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid environment entry %q: expected KEY=VALUE", f)
		}
		value = unquote(value)
		vars = append(vars, key+"="+value)
	}
	return vars, nil
}

// FromMap converts a map of environment variables to a sorted KEY=VALUE
// slice. Sorting keeps the output deterministic to ease diffing and testing.
func FromMap(vars map[string]string) []string {
	if len(vars) == 0 {
		return nil
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+vars[k])
	}
	return out
}

// unquote strips a single level of matching double or single quotes.
func unquote(v string) string {
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}
