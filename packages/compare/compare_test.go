package compare

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name     string
		expected any
		kind     Kind
	}{
		{"int", 3, KindPrimitive},
		{"string", "hello", KindPrimitive},
		{"bool", true, KindPrimitive},
		{"regexp", regexp.MustCompile(`^a`), KindPattern},
		{"delimited pattern", "/^user-\\d+$/", KindPattern},
		{"map", map[string]any{"id": 1}, KindComposite},
		{"slice", []any{1, 2}, KindComposite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, KindOf(tt.expected))
		})
	}
}

func TestPrimitive(t *testing.T) {
	tests := []struct {
		name     string
		actual   any
		expected any
		passed   bool
	}{
		{"equal strings", "Home", "Home", true},
		{"unequal strings", "Away", "Home", false},
		{"numeric coercion int vs float", float64(3), 3, true},
		{"string number vs int", "42", 42, true},
		{"unequal numbers", 2, 3, false},
		{"bool equal", true, true, true},
		{"nil vs value", nil, "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			passed, _ := Primitive(tt.actual, tt.expected)
			assert.Equal(t, tt.passed, passed)
		})
	}
}

func TestPrimitive_Message(t *testing.T) {
	passed, msg := Primitive(2, 3)
	assert.False(t, passed)
	assert.Equal(t, "expected 3, got 2", msg)
}

func TestPattern(t *testing.T) {
	passed, _ := Pattern("user-42", "/^user-\\d+$/")
	assert.True(t, passed)

	passed, msg := Pattern("guest", "/^user-\\d+$/")
	assert.False(t, passed)
	assert.Contains(t, msg, "to match")

	passed, _ = Pattern("abc", regexp.MustCompile(`b`))
	assert.True(t, passed)

	passed, msg = Pattern("x", "/[invalid/")
	assert.False(t, passed)
	assert.Contains(t, msg, "invalid regex")
}

func TestComposite_StrictShape(t *testing.T) {
	shape := map[string]any{"id": "number", "name": "string"}
	opts := Options{Strict: true, AllowExtraFields: false}

	t.Run("missing field", func(t *testing.T) {
		passed, msg := Composite(map[string]any{"id": float64(1)}, shape, opts)
		assert.False(t, passed)
		assert.Equal(t, "missing field: name", msg)
	})

	t.Run("unexpected field", func(t *testing.T) {
		actual := map[string]any{"id": float64(1), "name": "x", "extra": true}
		passed, msg := Composite(actual, shape, opts)
		assert.False(t, passed)
		assert.Equal(t, "unexpected field: extra", msg)
	})

	t.Run("exact match passes", func(t *testing.T) {
		actual := map[string]any{"id": float64(1), "name": "x"}
		passed, msg := Composite(actual, shape, opts)
		assert.True(t, passed, msg)
	})

	t.Run("type mismatch", func(t *testing.T) {
		actual := map[string]any{"id": "one", "name": "x"}
		passed, msg := Composite(actual, shape, opts)
		assert.False(t, passed)
		assert.Contains(t, msg, "type mismatch for id")
	})
}

func TestComposite_NullVsAbsent(t *testing.T) {
	shape := map[string]any{"name": "string"}
	opts := Options{Strict: true}

	// Absent key is a missing field.
	passed, msg := Composite(map[string]any{}, shape, opts)
	assert.False(t, passed)
	assert.Equal(t, "missing field: name", msg)

	// Present-but-null satisfies presence and fails the type check instead.
	passed, msg = Composite(map[string]any{"name": nil}, shape, opts)
	assert.False(t, passed)
	assert.Contains(t, msg, "type mismatch for name")
	assert.Contains(t, msg, "got null")
}

func TestComposite_Nested(t *testing.T) {
	shape := map[string]any{
		"user": map[string]any{
			"id":   "number",
			"tags": []any{"string"},
		},
	}
	actual := map[string]any{
		"user": map[string]any{
			"id":   float64(7),
			"tags": []any{"a", "b"},
		},
	}

	passed, msg := Composite(actual, shape, Options{Strict: true})
	assert.True(t, passed, msg)

	actual["user"].(map[string]any)["tags"] = []any{"a", float64(2)}
	passed, msg = Composite(actual, shape, Options{Strict: true})
	assert.False(t, passed)
	assert.Contains(t, msg, "user.tags[1]")
}

func TestComposite_NonStrictIgnoresMissing(t *testing.T) {
	shape := map[string]any{"id": "number", "name": "string"}
	passed, msg := Composite(map[string]any{"id": float64(1)}, shape, Options{})
	assert.True(t, passed, msg)
}

func TestComposite_ConcreteValues(t *testing.T) {
	shape := map[string]any{"status": "ok", "count": 3}
	actual := map[string]any{"status": "ok", "count": float64(3)}
	passed, msg := Composite(actual, shape, Options{})
	assert.True(t, passed, msg)

	actual["count"] = float64(2)
	passed, msg = Composite(actual, shape, Options{})
	assert.False(t, passed)
	assert.Contains(t, msg, "count")
}

func TestLength(t *testing.T) {
	assert.Equal(t, 3, Length("abc"))
	assert.Equal(t, 2, Length([]any{1, 2}))
	assert.Equal(t, 1, Length(map[string]any{"a": 1}))
	assert.Equal(t, -1, Length(42))
}

func TestContains(t *testing.T) {
	passed, _ := Contains("hello world", "world")
	assert.True(t, passed)

	passed, msg := Contains("hello", "bye")
	assert.False(t, passed)
	assert.Contains(t, msg, "to contain")
}
