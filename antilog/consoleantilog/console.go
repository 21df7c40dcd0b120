package consoleantilog

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/philipp01105/napier/antilog"
	"github.com/philipp01105/napier/core"
	"github.com/philipp01105/napier/formatter"
)

// lockedWriter wraps an io.Writer with a mutex, acquiring the lock only
// for Write calls. Formatters prepare data in their own pooled buffers
// and call Write once, so the lock is held only during the actual I/O.
type lockedWriter struct {
	mu *sync.Mutex // points to the antilog's mu
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (n int, err error) {
	lw.mu.Lock()
	n, err = lw.w.Write(p)
	lw.mu.Unlock()
	return
}

// isConcurrentSafeWriter returns true if the writer is known to be safe for
// concurrent Write calls, allowing the antilog to skip write-level locking.
func isConcurrentSafeWriter(w io.Writer) bool {
	if w == io.Discard {
		return true
	}
	_, ok := w.(*os.File)
	return ok
}

// consoleBase contains shared fields and methods for console antilogs.
type consoleBase struct {
	filter          antilog.Filter
	writer          io.Writer
	formatter       formatter.Formatter
	writerFormatter formatter.WriterFormatter
	bufferFormatter formatter.BufferFormatter
	concurrentSafe  bool // true if writer is safe for concurrent Write calls
	stats           *antilog.Stats
	mu              sync.Mutex // protects syncBuf and writer
	lw              lockedWriter
	syncBuf         bytes.Buffer
	parBufPool      sync.Pool // *bytes.Buffer for contended writes
}

func (b *consoleBase) init(cfg ConsoleConfig) {
	b.filter = cfg.Filter
	b.writer = cfg.Writer
	b.formatter = cfg.Formatter
	b.concurrentSafe = cfg.ConcurrentWriter || isConcurrentSafeWriter(cfg.Writer)
	b.stats = antilog.NewStats()
	b.lw = lockedWriter{mu: &b.mu, w: b.writer}

	b.writerFormatter, _ = cfg.Formatter.(formatter.WriterFormatter)
	b.bufferFormatter, _ = cfg.Formatter.(formatter.BufferFormatter)

	if b.bufferFormatter != nil {
		b.syncBuf.Grow(256)
		b.parBufPool.New = func() interface{} {
			buf := new(bytes.Buffer)
			buf.Grow(256)
			return buf
		}
	}
}

// IsEnabled implements antilog.Antilog
func (b *consoleBase) IsEnabled(level core.Level, tag string) bool {
	return b.filter.Enabled(level, tag)
}

// write formats and writes an entry.
// Uses TryLock on mu to reuse the antilog-owned buffer when uncontended.
// When contended, formats into a pooled buffer outside the lock and only
// takes mu for the write itself.
func (b *consoleBase) write(entry *core.Entry) error {
	if b.bufferFormatter != nil {
		if b.mu.TryLock() {
			b.syncBuf.Reset()
			b.bufferFormatter.FormatEntry(entry, &b.syncBuf)
			_, err := b.writer.Write(b.syncBuf.Bytes())
			b.mu.Unlock()
			if err == nil {
				b.stats.IncrementProcessed()
			}
			return err
		}

		pb := b.parBufPool.Get().(*bytes.Buffer)
		pb.Reset()
		b.bufferFormatter.FormatEntry(entry, pb)
		var err error
		if b.concurrentSafe {
			_, err = b.writer.Write(pb.Bytes())
		} else {
			_, err = b.lw.Write(pb.Bytes())
		}
		b.parBufPool.Put(pb)
		if err == nil {
			b.stats.IncrementProcessed()
		}
		return err
	}

	var err error
	switch {
	case b.writerFormatter != nil && b.concurrentSafe:
		err = b.writerFormatter.FormatTo(entry, b.writer)
	case b.writerFormatter != nil:
		err = b.writerFormatter.FormatTo(entry, &b.lw)
	default:
		var data []byte
		data, err = b.formatter.Format(entry)
		if err != nil {
			return err
		}
		if b.concurrentSafe {
			_, err = b.writer.Write(data)
		} else {
			_, err = b.lw.Write(data)
		}
	}
	if err == nil {
		b.stats.IncrementProcessed()
	}
	return err
}

// Stats returns a snapshot of the current statistics
func (b *consoleBase) Stats() antilog.Snapshot {
	return b.stats.GetSnapshot()
}

// ConsoleConfig holds configuration for the console antilog
type ConsoleConfig struct {
	// Filter selects the levels and tags this antilog records
	Filter antilog.Filter
	// Writer to write to (default: os.Stdout)
	Writer io.Writer
	// Formatter to use (default: TextFormatter)
	Formatter formatter.Formatter
	// Async enables asynchronous logging
	Async bool
	// Queue configures the async queue; ignored when Async is false
	Queue antilog.QueueConfig
	// ConcurrentWriter indicates the Writer supports concurrent Write calls.
	// When true, the antilog skips write-level locking for parallel log calls.
	// Automatically detected for io.Discard and *os.File; set true for other
	// goroutine-safe writers.
	ConcurrentWriter bool
}

// applyConsoleDefaults fills in zero-value fields with defaults.
func applyConsoleDefaults(cfg *ConsoleConfig) {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{})
	}
	cfg.Queue.ApplyDefaults()
}

// New creates a console antilog.
// Returns a *SyncConsole when Async is false, or an *AsyncConsole when
// Async is true.
func New(cfg ConsoleConfig) antilog.Backend {
	applyConsoleDefaults(&cfg)
	if cfg.Async {
		return newAsyncConsole(cfg)
	}
	return newSyncConsole(cfg)
}
