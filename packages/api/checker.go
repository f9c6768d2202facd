package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"

	"github.com/abdul-hamid-achik/softcheck/packages/assertions"
	"github.com/abdul-hamid-achik/softcheck/packages/compare"
)

// maxBodyLen bounds the body snippet carried in failure context.
const maxBodyLen = 200

// Checker issues HTTP response assertions against one engine.
type Checker struct {
	engine  *assertions.Engine
	mode    assertions.Mode
	baseDir string // resolves relative schema file paths
}

// CheckerOption configures a Checker.
type CheckerOption func(*Checker)

// WithBaseDir sets the directory schema file paths resolve against.
func WithBaseDir(dir string) CheckerOption {
	return func(c *Checker) {
		c.baseDir = dir
	}
}

// NewChecker creates a hard-mode checker bound to the engine.
func NewChecker(e *assertions.Engine, opts ...CheckerOption) *Checker {
	c := &Checker{engine: e, mode: assertions.Hard}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Soft returns a checker issuing soft assertions into the same session.
func (c *Checker) Soft() *Checker {
	dup := *c
	dup.mode = assertions.Soft
	return &dup
}

// Status asserts the response status code.
func (c *Checker) Status(ctx context.Context, resp *Response, expected int) error {
	return c.engine.Check(ctx, assertions.Assertion{
		Description: fmt.Sprintf("status equals %d", expected),
		Expected:    expected,
		Mode:        c.mode,
		Context:     describe(resp),
		Actual:      assertions.Value(resp.StatusCode),
	})
}

// Header asserts a header value (case-insensitive name).
func (c *Checker) Header(ctx context.Context, resp *Response, name, expected string) error {
	return c.engine.Check(ctx, assertions.Assertion{
		Description: fmt.Sprintf("header %q equals %q", name, expected),
		Expected:    expected,
		Mode:        c.mode,
		Context:     describe(resp),
		Actual:      assertions.Value(resp.Header(name)),
	})
}

// BodyContains asserts the body contains a substring.
func (c *Checker) BodyContains(ctx context.Context, resp *Response, substring string) error {
	return c.engine.Check(ctx, assertions.Assertion{
		Description: fmt.Sprintf("body contains %q", substring),
		Expected:    true,
		Mode:        c.mode,
		Context:     describe(resp),
		Actual: assertions.Value(
			strings.Contains(resp.BodyString(), substring),
		),
	})
}

// JSONPath asserts the value at a gjson path in the response body.
// Bracket notation ("items[0].id") is converted to gjson dot notation.
func (c *Checker) JSONPath(ctx context.Context, resp *Response, path string, expected any) error {
	return c.engine.Check(ctx, assertions.Assertion{
		Description: fmt.Sprintf("body.%s equals %v", path, expected),
		Expected:    expected,
		Mode:        c.mode,
		Context:     describe(resp),
		Actual: func(context.Context) (any, error) {
			if !resp.IsJSON() {
				return nil, fmt.Errorf("response body is not JSON")
			}
			result := gjson.ParseBytes(resp.Body).Get(convertBracketNotation(path))
			if !result.Exists() {
				return nil, nil
			}
			return result.Value(), nil
		},
	})
}

// Shape asserts the decoded body against a composite expected shape
// using the minimal structural walk.
func (c *Checker) Shape(ctx context.Context, resp *Response, shape map[string]any, opts compare.Options) error {
	return c.engine.Check(ctx, assertions.Assertion{
		Description: "body matches shape",
		Expected:    shape,
		Mode:        c.mode,
		Compare:     opts,
		Context:     describe(resp),
		Actual: func(context.Context) (any, error) {
			return resp.BodyJSON()
		},
	})
}

// Schema validates the body against a JSON Schema file. This is the
// full validator for callers that need more than Shape's structural
// walk. The path resolves relative to the checker's base directory and
// may not escape it.
func (c *Checker) Schema(ctx context.Context, resp *Response, schemaPath string) error {
	return c.engine.Check(ctx, assertions.Assertion{
		Description: fmt.Sprintf("body matches schema %s", schemaPath),
		Expected:    true,
		Mode:        c.mode,
		Context:     describe(resp),
		Actual: func(context.Context) (any, error) {
			return c.validateSchema(resp, schemaPath)
		},
	})
}

// DurationUnder asserts the response completed within the limit.
func (c *Checker) DurationUnder(ctx context.Context, resp *Response, limit time.Duration) error {
	return c.engine.Check(ctx, assertions.Assertion{
		Description: fmt.Sprintf("duration under %v", limit),
		Expected:    true,
		Mode:        c.mode,
		Context:     fmt.Sprintf("duration: %dms", resp.DurationMs()),
		Actual:      assertions.Value(resp.Duration < limit),
	})
}

func (c *Checker) validateSchema(resp *Response, schemaPath string) (any, error) {
	if !filepath.IsAbs(schemaPath) && c.baseDir != "" {
		schemaPath = filepath.Join(c.baseDir, schemaPath)
	}
	if err := validatePathWithinBase(schemaPath, c.baseDir); err != nil {
		return nil, err
	}

	schemaData, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("reading schema file: %w", err)
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaData)
	documentLoader := gojsonschema.NewBytesLoader(resp.Body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return true, nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		errs = append(errs, desc.String())
	}
	return nil, fmt.Errorf("schema validation failed: %s", strings.Join(errs, "; "))
}

// validatePathWithinBase rejects schema paths that escape the base
// directory.
func validatePathWithinBase(path, baseDir string) error {
	if baseDir == "" {
		return nil
	}

	cleanBase, err := filepath.Abs(baseDir)
	if err != nil {
		return fmt.Errorf("resolving base directory: %w", err)
	}
	cleanPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	if !strings.HasPrefix(cleanPath, cleanBase+string(filepath.Separator)) && cleanPath != cleanBase {
		return fmt.Errorf("path traversal detected: %s is outside %s", path, baseDir)
	}
	return nil
}

// convertBracketNotation converts array bracket notation to gjson dot
// notation, e.g. "items[0].tags[1]" -> "items.0.tags.1".
func convertBracketNotation(path string) string {
	result := regexp.MustCompile(`\[(\d+)\]`).ReplaceAllString(path, ".$1")
	return strings.TrimPrefix(result, ".")
}

// describe builds the failure context for a response: status plus a
// truncated body snippet.
func describe(resp *Response) string {
	body := resp.BodyString()
	if len(body) > maxBodyLen {
		body = body[:maxBodyLen] + "..."
	}
	if body == "" {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
	return fmt.Sprintf("status %d, body: %s", resp.StatusCode, body)
}
