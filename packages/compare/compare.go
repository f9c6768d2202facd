package compare

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Kind classifies how an expected value should be compared against an
// observed one. It is decided once per assertion from the expected
// value's shape.
type Kind int

const (
	KindPrimitive Kind = iota
	KindPattern
	KindComposite
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindPattern:
		return "pattern"
	case KindComposite:
		return "composite"
	default:
		return "unknown"
	}
}

// KindOf inspects an expected value and picks the comparison kind.
// A *regexp.Regexp or a /delimited/ string is a pattern; maps and map
// slices are composite; everything else compares as a primitive.
func KindOf(expected any) Kind {
	switch v := expected.(type) {
	case *regexp.Regexp:
		return KindPattern
	case string:
		if len(v) >= 2 && strings.HasPrefix(v, "/") && strings.HasSuffix(v, "/") {
			return KindPattern
		}
		return KindPrimitive
	case map[string]any:
		return KindComposite
	case []any:
		return KindComposite
	default:
		return KindPrimitive
	}
}

// Options controls the composite walk.
type Options struct {
	// Strict fails on fields named by the expected shape but absent from
	// the actual value.
	Strict bool
	// AllowExtraFields permits actual fields not named by the expected
	// shape. Only consulted when Strict is true.
	AllowExtraFields bool
}

// Compare dispatches on KindOf(expected) and reports whether actual
// satisfies expected, with a human-readable mismatch message on failure.
func Compare(actual, expected any, opts Options) (bool, string) {
	switch KindOf(expected) {
	case KindPattern:
		return Pattern(actual, expected)
	case KindComposite:
		return Composite(actual, expected, opts)
	default:
		return Primitive(actual, expected)
	}
}

// Primitive compares scalar values. Numeric values equal across Go types
// (an int 3 equals a float64 3 from decoded JSON), and a final string
// render comparison catches stringly-typed inputs.
func Primitive(actual, expected any) (bool, string) {
	if reflect.DeepEqual(actual, expected) {
		return true, ""
	}

	actualNum, aOk := toFloat64(actual)
	expectedNum, eOk := toFloat64(expected)
	if aOk && eOk && actualNum == expectedNum {
		return true, ""
	}

	if fmt.Sprintf("%v", actual) == fmt.Sprintf("%v", expected) {
		return true, ""
	}

	return false, fmt.Sprintf("expected %v, got %v", expected, actual)
}

// Pattern matches the string rendering of actual against expected, which
// is either a compiled *regexp.Regexp or a /delimited/ pattern string.
func Pattern(actual, expected any) (bool, string) {
	actualStr := fmt.Sprintf("%v", actual)

	var re *regexp.Regexp
	switch p := expected.(type) {
	case *regexp.Regexp:
		re = p
	default:
		pattern := fmt.Sprintf("%v", expected)
		pattern = strings.TrimPrefix(pattern, "/")
		pattern = strings.TrimSuffix(pattern, "/")
		var err error
		re, err = regexp.Compile(pattern)
		if err != nil {
			return false, fmt.Sprintf("invalid regex pattern: %v", err)
		}
	}

	if re.MatchString(actualStr) {
		return true, ""
	}
	return false, fmt.Sprintf("expected '%v' to match /%v/", actual, re.String())
}

// Composite recursively walks an expected shape against the actual value.
// Expected map values may be concrete values, nested shapes, or type-name
// strings ("string", "number", "boolean", "array", "object", "null").
//
// Absence and explicit null are distinct: a key present with a nil value
// satisfies presence but fails a non-null type expectation.
func Composite(actual, expected any, opts Options) (bool, string) {
	return compositeAt(actual, expected, opts, "")
}

func compositeAt(actual, expected any, opts Options, path string) (bool, string) {
	switch exp := expected.(type) {
	case map[string]any:
		actMap, ok := actual.(map[string]any)
		if !ok {
			return false, fmt.Sprintf("type mismatch for %s: expected object, got %s", orRoot(path), typeName(actual))
		}
		return compositeMap(actMap, exp, opts, path)
	case []any:
		actArr, ok := actual.([]any)
		if !ok {
			return false, fmt.Sprintf("type mismatch for %s: expected array, got %s", orRoot(path), typeName(actual))
		}
		if len(exp) == 1 {
			// Single-element expected array is an element shape applied to
			// every actual element.
			for i, item := range actArr {
				if passed, msg := compositeAt(item, exp[0], opts, fmt.Sprintf("%s[%d]", path, i)); !passed {
					return false, msg
				}
			}
			return true, ""
		}
		if len(actArr) != len(exp) {
			return false, fmt.Sprintf("length mismatch for %s: expected %d elements, got %d", orRoot(path), len(exp), len(actArr))
		}
		for i := range exp {
			if passed, msg := compositeAt(actArr[i], exp[i], opts, fmt.Sprintf("%s[%d]", path, i)); !passed {
				return false, msg
			}
		}
		return true, ""
	default:
		return leafCompare(actual, expected, path)
	}
}

func compositeMap(actual, expected map[string]any, opts Options, path string) (bool, string) {
	for key, expVal := range expected {
		actVal, present := actual[key]
		if !present {
			if opts.Strict {
				return false, fmt.Sprintf("missing field: %s", joinPath(path, key))
			}
			continue
		}
		if passed, msg := compositeAt(actVal, expVal, opts, joinPath(path, key)); !passed {
			return false, msg
		}
	}

	if opts.Strict && !opts.AllowExtraFields {
		for key := range actual {
			if _, known := expected[key]; !known {
				return false, fmt.Sprintf("unexpected field: %s", joinPath(path, key))
			}
		}
	}

	return true, ""
}

// leafCompare handles a non-composite expected value inside a walk. Type
// names assert the actual value's JSON type; anything else is a concrete
// value comparison (pattern strings included).
func leafCompare(actual, expected any, path string) (bool, string) {
	if typ, ok := expected.(string); ok && isTypeName(typ) {
		actualType := typeName(actual)
		if actualType == typ {
			return true, ""
		}
		return false, fmt.Sprintf("type mismatch for %s: expected %s, got %s", orRoot(path), typ, actualType)
	}

	passed, msg := Compare(actual, expected, Options{})
	if passed {
		return true, ""
	}
	if path != "" {
		return false, fmt.Sprintf("%s: %s", path, msg)
	}
	return false, msg
}

func isTypeName(s string) bool {
	switch s {
	case "string", "number", "boolean", "array", "object", "null":
		return true
	}
	return false
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, float32, int, int64, int32:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return reflect.TypeOf(v).String()
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func orRoot(path string) string {
	if path == "" {
		return "value"
	}
	return path
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Length returns the length of a value, or -1 if length cannot be computed.
func Length(v any) int {
	switch val := v.(type) {
	case string:
		return len(val)
	case []any:
		return len(val)
	case map[string]any:
		return len(val)
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
			return rv.Len()
		default:
			return -1
		}
	}
}

// Contains reports whether the string rendering of actual contains that
// of expected.
func Contains(actual, expected any) (bool, string) {
	actualStr := fmt.Sprintf("%v", actual)
	expectedStr := fmt.Sprintf("%v", expected)
	if strings.Contains(actualStr, expectedStr) {
		return true, ""
	}
	return false, fmt.Sprintf("expected '%v' to contain '%v'", actual, expected)
}
