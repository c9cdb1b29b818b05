package testkit

import (
	"fmt"
	"strconv"
	"strings"
)

// Diff lists where actual fails to contain expected. Objects match when
// every expected key matches; extra keys in actual are ignored. Arrays must
// have the same length.
func Diff(path string, expected, actual any) []string {
	var diffs []string
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return []string{fmt.Sprintf("%s: expected object, got %T", keyPath(path), actual)}
		}
		for k, ev := range exp {
			p := k
			if path != "" {
				p = path + "." + k
			}
			av, exists := act[k]
			if !exists {
				diffs = append(diffs, p+": missing")
				continue
			}
			diffs = append(diffs, Diff(p, ev, av)...)
		}
	case []any:
		act, ok := actual.([]any)
		if !ok {
			return []string{fmt.Sprintf("%s: expected array, got %T", keyPath(path), actual)}
		}
		if len(exp) != len(act) {
			return []string{fmt.Sprintf("%s: length %d, want %d", keyPath(path), len(act), len(exp))}
		}
		for i := range exp {
			diffs = append(diffs, Diff(fmt.Sprintf("%s[%d]", path, i), exp[i], act[i])...)
		}
	default:
		if fmt.Sprint(expected) != fmt.Sprint(actual) {
			diffs = append(diffs, fmt.Sprintf("%s: got %v, want %v", keyPath(path), actual, expected))
		}
	}
	return diffs
}

func keyPath(path string) string {
	if path == "" {
		return "root"
	}
	return path
}

// lookupPath walks a decoded JSON value along a dotted path. Numeric
// segments index arrays.
func lookupPath(v any, path string) (any, bool) {
	for _, seg := range strings.Split(path, ".") {
		switch node := v.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			v = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			v = node[i]
		default:
			return nil, false
		}
	}
	return v, true
}

// scalar renders a captured value for substitution. Whole JSON numbers lose
// their decimal point so ids stay ids.
func scalar(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
