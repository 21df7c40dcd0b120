package antilog

import (
	"io"
	"time"

	"github.com/philipp01105/napier/core"
)

// Antilog is a pluggable logging backend registered with a logger.
// Implementations must be safe for concurrent use.
type Antilog interface {
	// IsEnabled reports whether the antilog records calls at the given
	// level and tag. It is called on every log call and must be cheap
	// and free of side effects.
	IsEnabled(level core.Level, tag string) bool

	// Log records the entry. The entry is owned by the caller and is
	// recycled once Log returns, so implementations that keep it must
	// copy it first.
	Log(entry *core.Entry) error
}

// StatsProvider is implemented by antilogs that track queue statistics
type StatsProvider interface {
	Stats() Snapshot
}

// Func adapts a plain function into an Antilog enabled by a Filter.
type Func struct {
	Filter
	Fn func(entry *core.Entry) error
}

// IsEnabled implements Antilog
func (f *Func) IsEnabled(level core.Level, tag string) bool {
	return f.Enabled(level, tag)
}

// Log implements Antilog
func (f *Func) Log(entry *core.Entry) error {
	if f.Fn == nil {
		return nil
	}
	return f.Fn(entry)
}

// NewStoppedTimer returns a timer that is stopped and drained, ready to
// be Reset by a blocking enqueue.
func NewStoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		<-t.C
	}
	return t
}

// Backend is an Antilog that owns resources and reports statistics.
// The console and file constructors return it.
type Backend interface {
	Antilog
	StatsProvider
	io.Closer
}
