// Package jsonutil coerces the loosely typed values found in schemaless
// records, where a field that is usually numeric may arrive as a JSON
// string, an int, or junk like "n/a".
package jsonutil

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexibleNumber converts a record value to a float64. Handles float64
// (the JSON decoder default), integer types, and numeric strings with
// optional thousands separators. Returns false when the value has no
// usable numeric interpretation.
func FlexibleNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// FlexibleString converts a record value to a display string. Numbers
// render without a trailing ".0" when they are whole, so formatted output
// matches what was in the source document.
func FlexibleString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}
