package formatter

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/philipp01105/napier/core"
)

// Formatter defines the interface for log formatters
type Formatter interface {
	// Format formats a log entry into bytes
	Format(entry *core.Entry) ([]byte, error)
}

// WriterFormatter is an optional interface that formatters can implement
// to write directly to a writer without intermediate byte slice allocation.
type WriterFormatter interface {
	// FormatTo formats a log entry and writes it directly to the writer
	FormatTo(entry *core.Entry, w io.Writer) error
}

// BufferFormatter is an optional interface that formatters can implement
// to format directly into a caller-provided buffer, avoiding internal
// buffer pool overhead.
type BufferFormatter interface {
	// FormatEntry formats a log entry into the given buffer.
	FormatEntry(entry *core.Entry, buf *bytes.Buffer)
}

// Config holds common formatter configuration
type Config struct {
	// IncludeCaller enables caller information in log output
	IncludeCaller bool
	// TimestampFormat specifies the time format (empty for RFC3339)
	TimestampFormat string
	// ShortLevel renders levels as a single letter followed by the tag,
	// e.g. "I/net: message" (text formatter only)
	ShortLevel bool
	// CallerTag uses the caller's function name as the tag when the log
	// call carried none. Requires callers to be captured by the logger.
	CallerTag bool
	// ErrorDetail renders errors with %+v instead of Error()
	ErrorDetail bool
	// JSONKeys renames the JSON fields (JSON formatter only)
	JSONKeys JSONKeys
}

// tagFor returns the tag to render for an entry
func (c *Config) tagFor(entry *core.Entry) string {
	if entry.Tag != "" || !c.CallerTag || !entry.Caller.Defined {
		return entry.Tag
	}
	return entry.Caller.ShortFunction()
}

// errorText returns the rendered error, or "" when the entry has none
func (c *Config) errorText(entry *core.Entry) string {
	if entry.Err == nil {
		return ""
	}
	if c.ErrorDetail {
		return fmt.Sprintf("%+v", entry.Err)
	}
	return entry.Err.Error()
}

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

func getBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}
