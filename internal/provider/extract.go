package provider

import (
	"strconv"
	"strings"
)

// ExtractMinute normalizes a goal time from the shapes FotMob has used.
//
// Most payloads carry a plain number with stoppage time in a sibling field,
// some carry a preformatted "90+3" string. This handles both, returning
// ok=false when nothing usable is present.
func ExtractMinute(val interface{}, added int) (Minute, bool) {
	if val == nil {
		return "", false
	}

	switch v := val.(type) {
	case float64:
		return NewMinute(int(v), added), true
	case int:
		return NewMinute(v, added), true
	case int64:
		return NewMinute(int(v), added), true
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "'"))
		if s == "" {
			return "", false
		}
		if strings.Contains(s, "+") {
			return Minute(s), true
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return "", false
		}
		return NewMinute(n, added), true
	case map[string]interface{}:
		// Nested objects: try "time", "minute", "value"
		for _, key := range []string{"time", "minute", "value"} {
			if inner, exists := v[key]; exists && inner != nil {
				return ExtractMinute(inner, added)
			}
		}
		return "", false
	default:
		return "", false
	}
}
