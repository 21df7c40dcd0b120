package fileantilog

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/philipp01105/napier/antilog"
	"github.com/philipp01105/napier/core"
	"github.com/philipp01105/napier/formatter"
)

// ErrNoFilename is returned by New when FileConfig.Filename is empty
var ErrNoFilename = errors.New("fileantilog: filename is required")

// sizeTrackingWriter wraps an io.Writer and tracks total bytes written
type sizeTrackingWriter struct {
	w       io.Writer
	written int64
}

func (s *sizeTrackingWriter) Write(p []byte) (n int, err error) {
	n, err = s.w.Write(p)
	s.written += int64(n)
	return
}

func (s *sizeTrackingWriter) reset(w io.Writer) {
	s.w = w
	s.written = 0
}

// fileBase contains shared fields and methods for file antilogs.
type fileBase struct {
	filter          antilog.Filter
	filename        string
	file            *os.File
	bufWriter       *bufio.Writer
	sizeWriter      *sizeTrackingWriter
	formatter       formatter.Formatter
	writerFormatter formatter.WriterFormatter
	bufferFormatter formatter.BufferFormatter
	mu              sync.Mutex // protects everything below
	syncBuf         bytes.Buffer
	maxSize         int64
	maxAge          time.Duration
	maxBackups      int
	rotateInterval  time.Duration
	compress        bool
	currentSize     int64
	lastRotateTime  time.Time
	hasRotation     bool
	closed          bool
	stats           *antilog.Stats
	maint           sync.Mutex     // serializes backup compression and cleanup
	maintWG         sync.WaitGroup // tracks background backup maintenance
	onError         func(error)
}

// IsEnabled implements antilog.Antilog
func (b *fileBase) IsEnabled(level core.Level, tag string) bool {
	return b.filter.Enabled(level, tag)
}

// write formats and writes an entry
func (b *fileBase) write(entry *core.Entry) error {
	// Formatters without a buffer path format outside the lock
	var data []byte
	if b.bufferFormatter == nil && b.writerFormatter == nil {
		var err error
		if data, err = b.formatter.Format(entry); err != nil {
			return err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return os.ErrClosed
	}
	if err := b.rotateIfNeeded(); err != nil {
		return err
	}

	switch {
	case b.bufferFormatter != nil:
		b.syncBuf.Reset()
		b.bufferFormatter.FormatEntry(entry, &b.syncBuf)
		n, err := b.bufWriter.Write(b.syncBuf.Bytes())
		b.currentSize += int64(n)
		if err != nil {
			return err
		}
	case b.writerFormatter != nil:
		prevFlushed := b.sizeWriter.written
		prevBuffered := b.bufWriter.Buffered()
		err := b.writerFormatter.FormatTo(entry, b.bufWriter)
		b.currentSize += (b.sizeWriter.written - prevFlushed) + int64(b.bufWriter.Buffered()-prevBuffered)
		if err != nil {
			return err
		}
	default:
		n, err := b.bufWriter.Write(data)
		b.currentSize += int64(n)
		if err != nil {
			return err
		}
	}

	b.stats.IncrementProcessed()
	return nil
}

// Flush writes buffered data to the file
func (b *fileBase) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	return b.bufWriter.Flush()
}

// rotateIfNeeded checks and performs rotation if needed
func (b *fileBase) rotateIfNeeded() error {
	if !b.hasRotation {
		return nil
	}

	needRotate := b.maxSize > 0 && b.currentSize >= b.maxSize
	if b.rotateInterval > 0 && time.Since(b.lastRotateTime) >= b.rotateInterval {
		needRotate = true
	}
	if !needRotate {
		return nil
	}
	return b.rotate()
}

// rotate renames the current file to a timestamped backup and reopens
// the original name. Compression and cleanup of backups run in the
// background.
func (b *fileBase) rotate() error {
	if err := b.bufWriter.Flush(); err != nil {
		return err
	}
	if err := b.file.Sync(); err != nil {
		return err
	}
	if err := b.file.Close(); err != nil {
		return err
	}

	rotatedName := backupName(b.filename, time.Now())
	renameErr := os.Rename(b.filename, rotatedName)

	file, err := openFile(b.filename)
	if err != nil {
		if renameErr != nil {
			return fmt.Errorf("rotation failed: %w, reopen failed: %w", renameErr, err)
		}
		return err
	}

	b.file = file
	b.sizeWriter.reset(file)
	b.bufWriter.Reset(b.sizeWriter)
	b.lastRotateTime = time.Now()
	if renameErr != nil {
		// Still writing to the old file, which was not renamed
		return renameErr
	}
	b.currentSize = 0

	if b.compress || b.maxBackups > 0 || b.maxAge > 0 {
		b.maintWG.Add(1)
		go b.maintainBackups(rotatedName)
	}
	return nil
}

// maintainBackups compresses a freshly rotated file and removes backups
// beyond MaxBackups or older than MaxAge
func (b *fileBase) maintainBackups(rotatedName string) {
	defer b.maintWG.Done()
	b.maint.Lock()
	defer b.maint.Unlock()

	if b.compress {
		if err := compressFile(rotatedName); err != nil {
			b.onError(err)
		}
	}
	if err := cleanupBackups(b.filename, b.maxBackups, b.maxAge, time.Now()); err != nil {
		b.onError(err)
	}
}

// Stats returns a snapshot of the current statistics
func (b *fileBase) Stats() antilog.Snapshot {
	return b.stats.GetSnapshot()
}

// closeFile flushes, syncs and closes the underlying file, then waits
// for backup maintenance to finish.
func (b *fileBase) closeFile() error {
	b.mu.Lock()
	var err error
	if !b.closed {
		b.closed = true
		if err = b.bufWriter.Flush(); err == nil {
			err = b.file.Sync()
		}
		if closeErr := b.file.Close(); err == nil {
			err = closeErr
		}
	}
	b.mu.Unlock()

	b.maintWG.Wait()
	return err
}

// FileConfig holds configuration for the file antilog
type FileConfig struct {
	// Filter selects the levels and tags this antilog records
	Filter antilog.Filter
	// Filename is the path to the log file
	Filename string
	// Formatter to use (default: TextFormatter)
	Formatter formatter.Formatter
	// Async enables asynchronous logging
	Async bool
	// Queue configures the async queue; ignored when Async is false
	Queue antilog.QueueConfig
	// MaxSize is the maximum size in bytes before rotation (0 = no size rotation)
	MaxSize int64
	// RotateInterval rotates the file after this much time (0 = no interval rotation)
	RotateInterval time.Duration
	// MaxAge removes backups older than this (0 = keep regardless of age)
	MaxAge time.Duration
	// MaxBackups is the maximum number of old log files to retain (0 = keep all)
	MaxBackups int
	// Compress gzips rotated backups
	Compress bool
}

// applyFileDefaults fills in zero-value fields with defaults.
func applyFileDefaults(cfg *FileConfig) {
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewTextFormatter(formatter.Config{})
	}
	if cfg.Async {
		// The file is buffered, so flush whenever the queue drains
		cfg.Queue.FlushOnIdle = true
	}
	cfg.Queue.ApplyDefaults()
}

func openFile(name string) (*os.File, error) {
	return os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

// initFileBase initializes a fileBase in place with the given config and opened file.
func initFileBase(b *fileBase, cfg FileConfig, file *os.File, fileSize int64) {
	sw := &sizeTrackingWriter{w: file}
	b.filter = cfg.Filter
	b.filename = cfg.Filename
	b.file = file
	b.sizeWriter = sw
	b.bufWriter = bufio.NewWriterSize(sw, 4096)
	b.formatter = cfg.Formatter
	b.maxSize = cfg.MaxSize
	b.maxAge = cfg.MaxAge
	b.maxBackups = cfg.MaxBackups
	b.rotateInterval = cfg.RotateInterval
	b.compress = cfg.Compress
	b.currentSize = fileSize
	b.lastRotateTime = time.Now()
	b.hasRotation = cfg.MaxSize > 0 || cfg.RotateInterval > 0
	b.stats = antilog.NewStats()
	b.onError = cfg.Queue.OnError

	b.writerFormatter, _ = cfg.Formatter.(formatter.WriterFormatter)
	b.bufferFormatter, _ = cfg.Formatter.(formatter.BufferFormatter)
	if b.bufferFormatter != nil {
		b.syncBuf.Grow(256)
	}
}

// New opens (or creates) the log file and returns a file antilog.
// Returns a *SyncFile when Async is false, or an *AsyncFile when Async
// is true.
func New(cfg FileConfig) (antilog.Backend, error) {
	if cfg.Filename == "" {
		return nil, ErrNoFilename
	}
	applyFileDefaults(&cfg)

	if err := os.MkdirAll(filepath.Dir(cfg.Filename), 0755); err != nil {
		return nil, fmt.Errorf("fileantilog: create directory: %w", err)
	}

	file, err := openFile(cfg.Filename)
	if err != nil {
		return nil, fmt.Errorf("fileantilog: open: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("fileantilog: stat: %w", err)
	}

	if cfg.Async {
		return newAsyncFile(cfg, file, info.Size()), nil
	}
	return newSyncFile(cfg, file, info.Size()), nil
}
