package dice

import (
	"regexp"
	"strconv"
	"strings"
)

var refPattern = regexp.MustCompile(`@([a-zA-Z0-9_.\-]+)`)

// ReplaceFormulaData substitutes @path references with values from data. Unresolved
// references are replaced with missing when it is non-nil, otherwise left untouched.
func ReplaceFormulaData(formula string, data map[string]any, missing *string) string {
	if !strings.Contains(formula, "@") {
		return formula
	}
	return refPattern.ReplaceAllStringFunc(formula, func(match string) string {
		value, ok := Lookup(data, match[1:])
		if ok {
			if s, ok := formatValue(value); ok {
				return s
			}
		}
		if missing != nil {
			return *missing
		}
		return match
	})
}

// Lookup walks a dotted path through nested maps
func Lookup(data map[string]any, path string) (any, bool) {
	var current any = data
	for _, part := range strings.Split(path, ".") {
		m, ok := asMap(current)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, current != nil
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	}
	return nil, false
}

func formatValue(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case bool:
		if x {
			return "1", true
		}
		return "0", true
	}
	return "", false
}
