package logger

import (
	"sync"
	"sync/atomic"

	"github.com/philipp01105/napier/antilog"
	"github.com/philipp01105/napier/core"
)

// recordingAntilog records every call it receives
type recordingAntilog struct {
	antilog.Filter
	name     string
	enabled  func(core.Level, string) bool
	logErr   error
	panicVal interface{}

	enabledCalls atomic.Int64
	mu           sync.Mutex
	entries      []core.Entry
}

func (r *recordingAntilog) IsEnabled(level core.Level, tag string) bool {
	r.enabledCalls.Add(1)
	if r.enabled != nil {
		return r.enabled(level, tag)
	}
	return r.Enabled(level, tag)
}

func (r *recordingAntilog) Log(entry *core.Entry) error {
	if r.panicVal != nil {
		panic(r.panicVal)
	}
	r.mu.Lock()
	r.entries = append(r.entries, *entry)
	r.mu.Unlock()
	return r.logErr
}

func (r *recordingAntilog) logged() []core.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Entry(nil), r.entries...)
}

func (r *recordingAntilog) messages() []string {
	var out []string
	for _, e := range r.logged() {
		out = append(out, e.Message)
	}
	return out
}

func never(core.Level, string) bool { return false }

// failureRecorder is an ErrorHandler that keeps what it receives
type failureRecorder struct {
	mu       sync.Mutex
	antilogs []antilog.Antilog
	errs     []error
}

func (f *failureRecorder) handle(a antilog.Antilog, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.antilogs = append(f.antilogs, a)
	f.errs = append(f.errs, err)
}

func (f *failureRecorder) errors() []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]error(nil), f.errs...)
}

// newTestLogger builds a logger whose failures are recorded instead of
// printed
func newTestLogger(antilogs ...antilog.Antilog) (*Logger, *failureRecorder) {
	f := &failureRecorder{}
	l := NewBuilder().WithAntilog(antilogs...).WithErrorHandler(f.handle).Build()
	return l, f
}
