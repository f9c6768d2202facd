package capture

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapturer_Screenshot(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, WithScreenshot(func(ctx context.Context) ([]byte, error) {
		return []byte("png-bytes"), nil
	}))

	result := c.Screenshot(context.Background(), "login failed", false)
	require.True(t, result.Ok, result.Reason)
	assert.FileExists(t, result.Artifact)

	data, err := os.ReadFile(result.Artifact)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestCapturer_NoCapability(t *testing.T) {
	c := New(t.TempDir())
	result := c.Screenshot(context.Background(), "x", false)
	assert.False(t, result.Ok)
	assert.Contains(t, result.Reason, "no screenshot capability")
}

func TestCapturer_ErrorBecomesUnavailable(t *testing.T) {
	c := New(t.TempDir(), WithScreenshot(func(ctx context.Context) ([]byte, error) {
		return nil, fmt.Errorf("element detached")
	}))

	result := c.Screenshot(context.Background(), "x", false)
	assert.False(t, result.Ok)
	assert.Contains(t, result.Reason, "element detached")
}

func TestCapturer_SoftThrottle(t *testing.T) {
	c := New(t.TempDir(),
		WithScreenshot(func(ctx context.Context) ([]byte, error) {
			return []byte{1}, nil
		}),
		WithSoftRate(0.001)) // effectively one token, then dry

	first := c.Screenshot(context.Background(), "a", true)
	assert.True(t, first.Ok, first.Reason)

	second := c.Screenshot(context.Background(), "b", true)
	assert.False(t, second.Ok)
	assert.Equal(t, "capture throttled", second.Reason)

	// Hard captures ignore the limiter.
	third := c.Screenshot(context.Background(), "c", false)
	assert.True(t, third.Ok, third.Reason)
}

func TestCapturer_Dump(t *testing.T) {
	c := New(t.TempDir())
	result := c.Dump("response", []byte(`{"status":500}`))
	require.True(t, result.Ok, result.Reason)
	assert.FileExists(t, result.Artifact)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "login-failed", sanitize("login failed"))
	assert.Equal(t, "artifact", sanitize("???"))
}
