package utils

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToInt converts a decoded JSON value to int using explicit type switching.
// It handles integer and float types, numeric strings and byte slices.
// Fractional floats, nil and non-numeric strings are rejected.
func ToInt(val any) (int, error) {
	switch v := val.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case int32:
		return int(v), nil
	case uint:
		return int(v), nil
	case uint64:
		return int(v), nil
	case uint32:
		return int(v), nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("non-integer value %v", v)
		}
		return int(v), nil
	case float32:
		return ToInt(float64(v))
	case json.Number:
		return ToInt(string(v))
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("invalid integer %q: %w", v, err)
		}
		return i, nil
	case []byte:
		return ToInt(string(v))
	case nil:
		return 0, fmt.Errorf("missing value")
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

// ToFloat converts a decoded JSON value to float64.
func ToFloat(val any) (float64, error) {
	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return ToFloat(string(v))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q: %w", v, err)
		}
		return f, nil
	case []byte:
		return ToFloat(string(v))
	case nil:
		return 0, fmt.Errorf("missing value")
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

// ToString converts various types to string. nil becomes the empty string.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// IsTruthy reports whether a decoded JSON value counts as present:
// nil, false, empty strings and numeric zero are absent.
func IsTruthy(val any) bool {
	switch v := val.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		if strings.TrimSpace(v) == "" {
			return false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return err != nil || f != 0
	case float64:
		return v != 0
	case int:
		return v != 0
	case json.Number:
		return IsTruthy(string(v))
	default:
		return true
	}
}

// StripChars removes every rune of chars from s.
func StripChars(s, chars string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(chars, r) {
			return -1
		}
		return r
	}, s)
}
