package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/hvv-tools/departureboard/internal/geofox"
)

// ParseIntParam retrieves an int value from the provided URL query parameters.
// If the key is not present it returns 0; an invalid value is recorded in fieldErrors.
func ParseIntParam(params url.Values, key string, fieldErrors map[string][]string) (int, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return 0, fieldErrors
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
	}
	return n, fieldErrors
}

// ParseModeFlags collects transport mode flags from the query. Both
// "?bus=true&subway=1" and "?modes=bus,subway" are accepted; unknown names are
// recorded in fieldErrors.
func ParseModeFlags(params url.Values, fieldErrors map[string][]string) (map[string]bool, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	flags := make(map[string]bool)
	for key, values := range params {
		if _, ok := geofox.ModeFromFlag(key); !ok || len(values) == 0 {
			continue
		}
		enabled, err := strconv.ParseBool(values[0])
		if err != nil {
			fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
			continue
		}
		flags[key] = enabled
	}

	if list := params.Get("modes"); list != "" {
		for _, name := range strings.Split(list, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, ok := geofox.ModeFromFlag(name); !ok {
				fieldErrors["modes"] = append(fieldErrors["modes"], fmt.Sprintf("Unknown transport mode %q.", name))
				continue
			}
			flags[name] = true
		}
	}

	return flags, fieldErrors
}
