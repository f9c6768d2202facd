package capture

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"
)

// DefaultSoftRate is the default ceiling on soft-failure captures per
// second. A batch of failing soft assertions should not turn into a batch
// of screenshots.
const DefaultSoftRate = 2

// Result is the two-outcome value of a capture attempt. Failure to
// capture is a normal data value, never an error to the caller.
type Result struct {
	Ok       bool
	Artifact string // file path, set when Ok
	Reason   string // set when not Ok
}

// OkResult returns a successful capture result pointing at an artifact
// file.
func OkResult(artifact string) Result {
	return Result{Ok: true, Artifact: artifact}
}

// Unavailable returns a failed capture result with a reason.
func Unavailable(reason string) Result {
	return Result{Reason: reason}
}

// ScreenshotFunc is the caller-supplied screenshot capability. It returns
// the image bytes; any error is folded into an Unavailable result.
type ScreenshotFunc func(ctx context.Context) ([]byte, error)

// Capturer writes diagnostic artifacts into a directory, throttling
// soft-mode captures so a batch of soft failures stays cheap.
type Capturer struct {
	dir      string
	shoot    ScreenshotFunc
	softWait *rate.Limiter
}

// Option configures a Capturer.
type Option func(*Capturer)

// WithScreenshot installs the screenshot capability.
func WithScreenshot(fn ScreenshotFunc) Option {
	return func(c *Capturer) {
		c.shoot = fn
	}
}

// WithSoftRate overrides the soft-capture rate limit (captures/second).
func WithSoftRate(perSecond float64) Option {
	return func(c *Capturer) {
		c.softWait = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// New creates a Capturer writing artifacts under dir.
func New(dir string, opts ...Option) *Capturer {
	c := &Capturer{
		dir:      dir,
		softWait: rate.NewLimiter(rate.Limit(DefaultSoftRate), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Screenshot captures a screenshot artifact. When throttled is true the
// soft-capture limiter must have a token available, otherwise the capture
// is skipped with a throttled reason rather than blocking the test.
func (c *Capturer) Screenshot(ctx context.Context, name string, throttled bool) Result {
	if c.shoot == nil {
		return Unavailable("no screenshot capability configured")
	}
	if throttled && !c.softWait.Allow() {
		return Unavailable("capture throttled")
	}

	data, err := c.shoot(ctx)
	if err != nil {
		return Unavailable(fmt.Sprintf("screenshot failed: %v", err))
	}

	path, err := c.write(name, "png", data)
	if err != nil {
		return Unavailable(fmt.Sprintf("writing artifact: %v", err))
	}
	return OkResult(path)
}

// Dump writes an arbitrary diagnostic dump (response body, element state)
// as a text artifact.
func (c *Capturer) Dump(name string, data []byte) Result {
	path, err := c.write(name, "txt", data)
	if err != nil {
		return Unavailable(fmt.Sprintf("writing artifact: %v", err))
	}
	return OkResult(path)
}

func (c *Capturer) write(name, ext string, data []byte) (string, error) {
	if c.dir == "" {
		return "", fmt.Errorf("no artifact directory configured")
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s-%d.%s", sanitize(name), time.Now().UnixNano(), ext)
	path := filepath.Join(c.dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// sanitize keeps artifact filenames portable.
func sanitize(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		case r == ' ', r == '.', r == '/':
			out = append(out, '-')
		}
	}
	if len(out) == 0 {
		return "artifact"
	}
	if len(out) > 64 {
		out = out[:64]
	}
	return string(out)
}
