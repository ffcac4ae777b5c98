package intake

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// coerceBool converts an untyped payload value to a boolean.
//
// Native booleans pass through, numbers are true unless zero, and anything
// else is stringified, trimmed, lower-cased, and matched against the truthy
// set {"1", "true", "yes", "on"}. Devices in the field send all of these.
func coerceBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case string:
		return isTruthy(t)
	default:
		return isTruthy(fmt.Sprint(v))
	}
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// asString converts a decoded JSON value to its string form.
// Absent values (nil) become the empty string.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(v)
	}
}
