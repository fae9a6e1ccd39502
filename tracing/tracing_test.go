package tracing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracingFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "span_test.txt")
	require.NoError(t, Init("stride", "0.0.1", fname))

	ctx, span := StartSpan(context.Background(), "syscall.yield")
	span.WithAttributes(map[string]string{"task.name": "init"}).WithInt("syscall.num", 124)
	current, ok := SpanFromContext(ctx)
	assert.True(t, ok)
	assert.NotNil(t, current)
	EndSpan(span, errors.New("bad pointer"))

	data, err := os.ReadFile(fname)
	require.NoError(t, err)
	assert.Contains(t, string(data), "syscall.yield")
}

func TestSpanFromContext_Empty(t *testing.T) {
	_, ok := SpanFromContext(context.Background())
	assert.False(t, ok)
	EndSpan(nil, nil)
}
