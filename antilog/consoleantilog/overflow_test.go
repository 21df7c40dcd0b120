package consoleantilog

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/napier/antilog"
	"github.com/philipp01105/napier/core"
)

// gateWriter blocks every Write until release is closed
type gateWriter struct {
	release chan struct{}
	once    sync.Once
}

func newGateWriter() *gateWriter { return &gateWriter{release: make(chan struct{})} }

func (g *gateWriter) Write(p []byte) (int, error) {
	<-g.release
	return len(p), nil
}

func (g *gateWriter) open() { g.once.Do(func() { close(g.release) }) }

func TestOverflowPolicy_DropNewest(t *testing.T) {
	w := newGateWriter()
	c := New(ConsoleConfig{
		Writer: w,
		Async:  true,
		Queue: antilog.QueueConfig{
			BufferSize:     2,
			OverflowPolicy: map[core.Level]antilog.OverflowPolicy{core.InfoLevel: antilog.DropNewest},
		},
	})

	for i := 0; i < 10; i++ {
		require.NoError(t, c.Log(newEntry(core.InfoLevel, "", "test")))
	}

	// One entry is stuck in the writer, two are queued, the rest are dropped
	dropped := c.Stats().DroppedTotal[core.InfoLevel]
	assert.GreaterOrEqual(t, dropped, uint64(7))

	w.open()
	require.NoError(t, c.Close())
	assert.Equal(t, uint64(10), c.Stats().ProcessedTotal+dropped)
}

func TestOverflowPolicy_DropOldest(t *testing.T) {
	w := newGateWriter()
	c := New(ConsoleConfig{
		Writer: w,
		Async:  true,
		Queue: antilog.QueueConfig{
			BufferSize:     2,
			OverflowPolicy: map[core.Level]antilog.OverflowPolicy{core.WarningLevel: antilog.DropOldest},
		},
	})

	for i := 0; i < 10; i++ {
		require.NoError(t, c.Log(newEntry(core.WarningLevel, "", "warn")))
	}
	assert.NotZero(t, c.Stats().DroppedTotal[core.WarningLevel])

	w.open()
	require.NoError(t, c.Close())
}

func TestOverflowPolicy_BlockFallsBackToSyncWrite(t *testing.T) {
	w := newGateWriter()
	c := New(ConsoleConfig{
		Writer: w,
		Async:  true,
		Queue: antilog.QueueConfig{
			BufferSize:     1,
			BlockTimeout:   10 * time.Millisecond,
			OverflowPolicy: map[core.Level]antilog.OverflowPolicy{core.ErrorLevel: antilog.Block},
		},
	})

	// Fill the worker and the queue
	require.NoError(t, c.Log(newEntry(core.ErrorLevel, "", "first")))
	require.Eventually(t, func() bool { return c.(*AsyncConsole).queue.Len() == 0 }, time.Second, time.Millisecond)
	require.NoError(t, c.Log(newEntry(core.ErrorLevel, "", "second")))

	done := make(chan error, 1)
	go func() { done <- c.Log(newEntry(core.ErrorLevel, "", "third")) }()

	require.Eventually(t, func() bool { return c.Stats().BlockedTotal == 1 }, time.Second, time.Millisecond)
	w.open()
	require.NoError(t, <-done)
	require.NoError(t, c.Close())

	snap := c.Stats()
	assert.Equal(t, uint64(3), snap.ProcessedTotal)
	assert.Zero(t, snap.DroppedTotal[core.ErrorLevel])
}

func TestAntilog_CloseIdempotent(t *testing.T) {
	c := New(ConsoleConfig{Writer: io.Discard, Async: true})

	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestAntilog_DrainTimeout(t *testing.T) {
	c := New(ConsoleConfig{
		Writer: io.Discard,
		Async:  true,
		Queue:  antilog.QueueConfig{BufferSize: 1000, DrainTimeout: 100 * time.Millisecond},
	})

	for i := 0; i < 100; i++ {
		_ = c.Log(newEntry(core.InfoLevel, "", "test"))
	}

	start := time.Now()
	require.NoError(t, c.Close())
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func BenchmarkAsyncConsole_DropNewest(b *testing.B) {
	c := New(ConsoleConfig{
		Writer: io.Discard,
		Async:  true,
		Queue: antilog.QueueConfig{
			BufferSize:     1000,
			OverflowPolicy: map[core.Level]antilog.OverflowPolicy{core.InfoLevel: antilog.DropNewest},
		},
	})
	defer c.Close()

	entry := newEntry(core.InfoLevel, "", "benchmark")

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = c.Log(entry)
	}
}
