package plugins

import (
	"os"
	"strings"
)

var truthy = map[string]struct{}{
	"t": {}, "true": {}, "y": {}, "yes": {}, "on": {}, "1": {},
}

// asBool reports whether the case-lowered, trimmed value of s is a truthy
// token (t, true, y, yes, on, 1). Anything else is false.
func asBool(s string) bool {
	_, ok := truthy[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// envBool resolves a boolean-like environment variable, returning fallback
// when the variable is unset.
func envBool(name string, fallback bool) bool {
	value, ok := os.LookupEnv(name)
	if !ok {
		return fallback
	}
	return asBool(value)
}
