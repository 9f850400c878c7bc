package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storage "lrukv/internal/storage/cache"
)

// syncBuffer — bytes.Buffer, безопасный для записи из горутины Run.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := strings.TrimSpace(b.buf.String())
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestReport(t *testing.T) {
	c := storage.New[string](2)
	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3")
	c.Get("c")
	c.Get("a")

	var out syncBuffer
	r := New(c, 0, zerolog.New(&out))
	r.Report()

	lines := out.Lines()
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "cache stats", rec["message"])
	assert.EqualValues(t, 2, rec["keys"])
	assert.EqualValues(t, 2, rec["max_size"])
	assert.EqualValues(t, 1, rec["hits"])
	assert.EqualValues(t, 1, rec["misses"])
	assert.EqualValues(t, 3, rec["sets"])
	assert.EqualValues(t, 1, rec["evictions"])
	assert.InDelta(t, 0.5, rec["hit_ratio"], 1e-9)
}

func TestRunDisabledWaitsForContext(t *testing.T) {
	var out syncBuffer
	r := New(storage.New[string](1), 0, zerolog.New(&out))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case <-done:
		t.Fatal("Run returned before cancel")
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
	assert.Empty(t, out.Lines())
}

func TestRunReportsPeriodically(t *testing.T) {
	var out syncBuffer
	r := New(storage.New[string](1), 10*time.Millisecond, zerolog.New(&out))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool {
		return len(out.Lines()) >= 2
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
