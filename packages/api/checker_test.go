package api

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/softcheck/packages/assertions"
	"github.com/abdul-hamid-achik/softcheck/packages/compare"
)

func jsonResponse(statusCode int, body string) *Response {
	return &Response{
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       []byte(body),
		Duration:   100 * time.Millisecond,
	}
}

func TestChecker_Status(t *testing.T) {
	e := assertions.New()
	c := NewChecker(e)
	resp := jsonResponse(200, `{}`)

	require.NoError(t, c.Status(context.Background(), resp, 200))

	err := c.Status(context.Background(), resp, 404)
	require.Error(t, err)

	var aerr *assertions.AssertionError
	require.True(t, errors.As(err, &aerr))
	assert.Contains(t, aerr.Record.Context, "status 200")
}

func TestChecker_Header(t *testing.T) {
	e := assertions.New()
	c := NewChecker(e)
	resp := jsonResponse(200, `{}`)

	// Case-insensitive lookup.
	require.NoError(t, c.Header(context.Background(), resp, "content-type", "application/json"))
	require.Error(t, c.Header(context.Background(), resp, "X-Missing", "yes"))
}

func TestChecker_JSONPath(t *testing.T) {
	e := assertions.New()
	c := NewChecker(e)
	ctx := context.Background()
	resp := jsonResponse(200, `{"user":{"name":"John","age":30},"items":[{"id":7}]}`)

	require.NoError(t, c.JSONPath(ctx, resp, "user.name", "John"))
	require.NoError(t, c.JSONPath(ctx, resp, "user.age", 30))
	require.NoError(t, c.JSONPath(ctx, resp, "items[0].id", 7))
	require.Error(t, c.JSONPath(ctx, resp, "user.name", "Jane"))
}

func TestChecker_JSONPath_NotJSON(t *testing.T) {
	e := assertions.New()
	c := NewChecker(e).Soft()
	resp := &Response{StatusCode: 200, Body: []byte("plain text")}

	require.NoError(t, c.JSONPath(context.Background(), resp, "a.b", 1))

	failures := e.Failures()
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Message, "not JSON")
}

func TestChecker_BodyContains(t *testing.T) {
	e := assertions.New()
	c := NewChecker(e)
	resp := jsonResponse(200, `{"status":"ok"}`)

	require.NoError(t, c.BodyContains(context.Background(), resp, `"ok"`))
	require.Error(t, c.BodyContains(context.Background(), resp, "error"))
}

func TestChecker_Shape(t *testing.T) {
	e := assertions.New()
	c := NewChecker(e).Soft()
	ctx := context.Background()
	shape := map[string]any{"id": "number", "name": "string"}
	opts := compare.Options{Strict: true, AllowExtraFields: false}

	require.NoError(t, c.Shape(ctx, jsonResponse(200, `{"id":1}`), shape, opts))
	require.NoError(t, c.Shape(ctx, jsonResponse(200, `{"id":1,"name":"x","extra":true}`), shape, opts))
	require.NoError(t, c.Shape(ctx, jsonResponse(200, `{"id":1,"name":"x"}`), shape, opts))

	failures := e.Failures()
	require.Len(t, failures, 2)
	assert.Contains(t, failures[0].Message, "missing field: name")
	assert.Contains(t, failures[1].Message, "unexpected field: extra")
}

func TestChecker_Schema(t *testing.T) {
	dir := t.TempDir()
	schema := `{
		"type": "object",
		"properties": {
			"id": {"type": "number"},
			"name": {"type": "string"}
		},
		"required": ["id", "name"]
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "user.json"), []byte(schema), 0o644))

	e := assertions.New()
	c := NewChecker(e, WithBaseDir(dir))
	ctx := context.Background()

	require.NoError(t, c.Schema(ctx, jsonResponse(200, `{"id":1,"name":"x"}`), "user.json"))

	err := c.Schema(ctx, jsonResponse(200, `{"id":"one"}`), "user.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema validation failed")
}

func TestChecker_Schema_PathTraversal(t *testing.T) {
	dir := t.TempDir()
	e := assertions.New()
	c := NewChecker(e, WithBaseDir(dir))

	err := c.Schema(context.Background(), jsonResponse(200, `{}`), "../outside.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path traversal")
}

func TestChecker_DurationUnder(t *testing.T) {
	e := assertions.New()
	c := NewChecker(e)
	resp := jsonResponse(200, `{}`)

	require.NoError(t, c.DurationUnder(context.Background(), resp, time.Second))
	require.Error(t, c.DurationUnder(context.Background(), resp, 50*time.Millisecond))
}

func TestConvertBracketNotation(t *testing.T) {
	assert.Equal(t, "items.0.tags.1", convertBracketNotation("items[0].tags[1]"))
	assert.Equal(t, "0.id", convertBracketNotation("[0].id"))
	assert.Equal(t, "plain.path", convertBracketNotation("plain.path"))
}

func TestDescribe_TruncatesBody(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	resp := &Response{StatusCode: 500, Body: long}
	desc := describe(resp)
	assert.Less(t, len(desc), 300)
	assert.Contains(t, desc, "...")
}
