package provider

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// SafeInt parses a CSV-style numeric cell. Values are parsed as floats and
// truncated ("12.0" → 12); empty, unparseable or out-of-range input yields 0.
func SafeInt(s string) int {
	f, ok := parseFinite(s)
	if !ok {
		return 0
	}
	n, _ := truncInt(f)
	return n
}

// truncInt truncates f toward zero, reporting false when it does not fit an int.
func truncInt(f float64) (int, bool) {
	// float64(math.MaxInt) rounds up to 2^63, so the upper bound is exclusive.
	if f >= float64(math.MaxInt) || f < float64(math.MinInt) {
		return 0, false
	}
	return int(f), true
}

// SafeFloat parses a numeric cell, returning nil for empty or unparseable input.
func SafeFloat(s string) *float64 {
	f, ok := parseFinite(s)
	if !ok {
		return nil
	}
	return &f
}

// SafeFloatOr parses a numeric cell, returning def for empty or unparseable input.
func SafeFloatOr(s string, def float64) float64 {
	if f, ok := parseFinite(s); ok {
		return f
	}
	return def
}

func parseFinite(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseDollars parses amounts such as "$1,500,000", "$1.5M" or "$750K".
// A trailing M multiplies by one million and a trailing K by one thousand.
// Empty or unparseable input yields 0.
func ParseDollars(s string) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return 0
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "M"):
		multiplier = 1_000_000
		s = strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "K"):
		multiplier = 1_000
		s = strings.TrimSuffix(s, "K")
	}

	f, ok := parseFinite(s)
	if !ok {
		return 0
	}
	f = math.Round(f * multiplier)
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	return int64(f)
}

// ExtractValue normalizes a stat value decoded from a JSON payload.
//
// The stats REST API returns plain numbers, but some fields arrive as strings
// or as localized objects like {"default": 12}. Returns ok=false when nothing
// numeric can be extracted.
func ExtractValue(val interface{}) (float64, bool) {
	if val == nil {
		return 0, false
	}

	switch v := val.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		return parseFinite(v)
	case map[string]interface{}:
		for _, key := range []string{"default", "total", "value"} {
			if inner, exists := v[key]; exists && inner != nil {
				return ExtractValue(inner)
			}
		}
		return 0, false
	default:
		return 0, false
	}
}

// IntValue returns ExtractValue truncated to an int, or 0.
func IntValue(val interface{}) int {
	f, _ := ExtractValue(val)
	n, _ := truncInt(f)
	return n
}

// FloatPtr returns ExtractValue as a pointer, nil when absent.
func FloatPtr(val interface{}) *float64 {
	if f, ok := ExtractValue(val); ok {
		return &f
	}
	return nil
}

// IntPtr returns ExtractValue truncated to an int pointer, nil when absent.
func IntPtr(val interface{}) *int {
	if f, ok := ExtractValue(val); ok {
		if n, fits := truncInt(f); fits {
			return &n
		}
	}
	return nil
}
