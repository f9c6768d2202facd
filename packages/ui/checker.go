package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/softcheck/packages/assertions"
)

// maxTextLen bounds the element text carried in a failure descriptor.
const maxTextLen = 50

// Element is the read-only view of a page element consumed by checks.
// Browser drivers adapt their node handles to this interface. All
// methods observe only; none may mutate the page.
type Element interface {
	Tag(ctx context.Context) (string, error)
	ID(ctx context.Context) (string, error)
	Classes(ctx context.Context) ([]string, error)
	Text(ctx context.Context) (string, error)
	Visible(ctx context.Context) (bool, error)
	Enabled(ctx context.Context) (bool, error)
	Attribute(ctx context.Context, name string) (string, error)
}

// Locator resolves a selector to the number of matching elements.
// Used by Count checks.
type Locator interface {
	Count(ctx context.Context, selector string) (int, error)
}

// Checker issues element assertions against one engine.
type Checker struct {
	engine *assertions.Engine
	mode   assertions.Mode
}

// NewChecker creates a hard-mode checker bound to the engine.
func NewChecker(e *assertions.Engine) *Checker {
	return &Checker{engine: e, mode: assertions.Hard}
}

// Soft returns a checker issuing soft assertions into the same session.
func (c *Checker) Soft() *Checker {
	return &Checker{engine: c.engine, mode: assertions.Soft}
}

// Visible asserts the element is visible.
func (c *Checker) Visible(ctx context.Context, el Element, label string) error {
	return c.check(ctx, el, fmt.Sprintf("%s is visible", label), true, func(ctx context.Context) (any, error) {
		return el.Visible(ctx)
	})
}

// Hidden asserts the element is not visible.
func (c *Checker) Hidden(ctx context.Context, el Element, label string) error {
	return c.check(ctx, el, fmt.Sprintf("%s is hidden", label), false, func(ctx context.Context) (any, error) {
		return el.Visible(ctx)
	})
}

// Enabled asserts the element is enabled.
func (c *Checker) Enabled(ctx context.Context, el Element, label string) error {
	return c.check(ctx, el, fmt.Sprintf("%s is enabled", label), true, func(ctx context.Context) (any, error) {
		return el.Enabled(ctx)
	})
}

// Text asserts the element's text equals expected.
func (c *Checker) Text(ctx context.Context, el Element, label, expected string) error {
	return c.check(ctx, el, fmt.Sprintf("%s text equals %q", label, expected), expected, func(ctx context.Context) (any, error) {
		return el.Text(ctx)
	})
}

// TextContains asserts the element's text contains the substring.
func (c *Checker) TextContains(ctx context.Context, el Element, label, substring string) error {
	desc := fmt.Sprintf("%s text contains %q", label, substring)
	return c.check(ctx, el, desc, true, func(ctx context.Context) (any, error) {
		text, err := el.Text(ctx)
		if err != nil {
			return nil, err
		}
		return strings.Contains(text, substring), nil
	})
}

// TextMatches asserts the element's text matches a /pattern/.
func (c *Checker) TextMatches(ctx context.Context, el Element, label, pattern string) error {
	if !strings.HasPrefix(pattern, "/") {
		pattern = "/" + pattern + "/"
	}
	desc := fmt.Sprintf("%s text matches %s", label, pattern)
	return c.check(ctx, el, desc, pattern, func(ctx context.Context) (any, error) {
		return el.Text(ctx)
	})
}

// Attribute asserts an attribute value on the element.
func (c *Checker) Attribute(ctx context.Context, el Element, label, name, expected string) error {
	desc := fmt.Sprintf("%s attribute %q equals %q", label, name, expected)
	return c.check(ctx, el, desc, expected, func(ctx context.Context) (any, error) {
		return el.Attribute(ctx, name)
	})
}

// Count asserts how many elements a selector matches.
func (c *Checker) Count(ctx context.Context, loc Locator, selector string, expected int) error {
	return c.engine.Check(ctx, assertions.Assertion{
		Description: fmt.Sprintf("count of %q equals %d", selector, expected),
		Expected:    expected,
		Mode:        c.mode,
		Context:     "selector: " + selector,
		Actual: func(ctx context.Context) (any, error) {
			return loc.Count(ctx, selector)
		},
	})
}

func (c *Checker) check(ctx context.Context, el Element, desc string, expected any, provider assertions.Provider) error {
	return c.engine.Check(ctx, assertions.Assertion{
		Description: desc,
		Expected:    expected,
		Mode:        c.mode,
		Context:     Describe(ctx, el),
		Actual:      provider,
	})
}

// Describe builds a short element descriptor for failure context: tag,
// id, classes, and truncated text. Descriptor reads are best-effort;
// whatever cannot be read is simply omitted.
func Describe(ctx context.Context, el Element) string {
	var parts []string

	if tag, err := el.Tag(ctx); err == nil && tag != "" {
		parts = append(parts, "<"+tag+">")
	}
	if id, err := el.ID(ctx); err == nil && id != "" {
		parts = append(parts, "#"+id)
	}
	if classes, err := el.Classes(ctx); err == nil && len(classes) > 0 {
		parts = append(parts, "."+strings.Join(classes, "."))
	}
	if text, err := el.Text(ctx); err == nil && text != "" {
		parts = append(parts, fmt.Sprintf("%q", truncate(text, maxTextLen)))
	}

	if len(parts) == 0 {
		return "unavailable"
	}
	return strings.Join(parts, " ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
