package logger

import (
	"fmt"
	"io"
	"runtime/debug"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"

	"github.com/philipp01105/napier/antilog"
	"github.com/philipp01105/napier/core"
)

// callerSkip is the GetCaller skip from dispatch to the code calling a
// logging method: dispatch, log, the method, then the caller.
const callerSkip = 3

// dispatchStats counts calls on a Logger and its children
type dispatchStats struct {
	calls      atomic.Uint64
	suppressed atomic.Uint64
	emitted    atomic.Uint64
	failures   atomic.Uint64
}

// DispatchStats is a snapshot of a Logger's dispatch counters
type DispatchStats struct {
	// Calls counts every log call
	Calls uint64
	// Suppressed counts calls no antilog was enabled for
	Suppressed uint64
	// Emitted counts calls delivered to at least one antilog
	Emitted uint64
	// Failures counts antilog Log calls that returned an error or panicked
	Failures uint64
}

// Logger dispatches log calls to the antilogs of its Registry.
// Its configuration is immutable after Build; the registry is shared
// with every child created by With.
type Logger struct {
	registry      *Registry
	tag           string
	includeCaller bool
	now           func() time.Time
	onError       ErrorHandler
	stats         *dispatchStats
}

// Builder provides a fluent API for building Logger instances
type Builder struct {
	registry      *Registry
	antilogs      []antilog.Antilog
	tag           string
	includeCaller bool
	coarseClock   bool
	onError       ErrorHandler
}

// NewBuilder creates a new logger builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithAntilog registers antilogs with the built logger
func (b *Builder) WithAntilog(antilogs ...antilog.Antilog) *Builder {
	b.antilogs = append(b.antilogs, antilogs...)
	return b
}

// WithRegistry makes the logger dispatch to an existing registry
func (b *Builder) WithRegistry(r *Registry) *Builder {
	b.registry = r
	return b
}

// WithTag sets the default tag of calls that carry none
func (b *Builder) WithTag(tag string) *Builder {
	b.tag = tag
	return b
}

// WithCaller enables caller information
func (b *Builder) WithCaller(enabled bool) *Builder {
	b.includeCaller = enabled
	return b
}

// WithCoarseClock timestamps entries from a clock cached every 500µs
// instead of calling time.Now for each entry
func (b *Builder) WithCoarseClock(enabled bool) *Builder {
	b.coarseClock = enabled
	return b
}

// WithErrorHandler sets the handler for antilog failures
// (default: StderrErrorHandler)
func (b *Builder) WithErrorHandler(h ErrorHandler) *Builder {
	b.onError = h
	return b
}

// Build creates the Logger instance
func (b *Builder) Build() *Logger {
	r := b.registry
	if r == nil {
		r = NewRegistry()
	}
	for _, a := range b.antilogs {
		r.Add(a)
	}

	l := &Logger{
		registry:      r,
		tag:           b.tag,
		includeCaller: b.includeCaller,
		onError:       b.onError,
		stats:         &dispatchStats{},
	}
	if l.onError == nil {
		l.onError = StderrErrorHandler
	}
	if b.coarseClock {
		core.StartCoarseClock()
		l.now = core.CoarseNow
	}
	return l
}

// New creates a Logger with the given antilogs and default settings
func New(antilogs ...antilog.Antilog) *Logger {
	return NewBuilder().WithAntilog(antilogs...).Build()
}

// With returns a child logger that shares the registry and uses tag for
// calls that carry none
func (l *Logger) With(tag string) *Logger {
	child := *l
	child.tag = tag
	return &child
}

// Registry returns the registry the logger dispatches to
func (l *Logger) Registry() *Registry {
	return l.registry
}

// Add registers an antilog. A nil antilog is ignored.
func (l *Logger) Add(a antilog.Antilog) {
	l.registry.Add(a)
}

// Remove unregisters the first occurrence of a and reports whether one
// was found
func (l *Logger) Remove(a antilog.Antilog) bool {
	return l.registry.Remove(a)
}

// RemoveAll unregisters every antilog
func (l *Logger) RemoveAll() {
	l.registry.RemoveAll()
}

// Antilogs returns the registered antilogs in insertion order
func (l *Logger) Antilogs() []antilog.Antilog {
	return l.registry.Snapshot()
}

// IsEnabled reports whether any registered antilog is enabled for level
// and tag
func (l *Logger) IsEnabled(level core.Level, tag string) bool {
	for _, a := range l.registry.load() {
		if a.IsEnabled(level, tag) {
			return true
		}
	}
	return false
}

// Stats returns a snapshot of the dispatch counters
func (l *Logger) Stats() DispatchStats {
	return DispatchStats{
		Calls:      l.stats.calls.Load(),
		Suppressed: l.stats.suppressed.Load(),
		Emitted:    l.stats.emitted.Load(),
		Failures:   l.stats.failures.Load(),
	}
}

// Close closes every registered antilog that implements io.Closer.
// The antilogs stay registered.
func (l *Logger) Close() error {
	var err error
	for _, a := range l.registry.load() {
		if c, ok := a.(io.Closer); ok {
			err = multierr.Append(err, c.Close())
		}
	}
	return err
}

// log resolves the tag and error of a call and dispatches it
func (l *Logger) log(level core.Level, tag string, err error, opts []Option, msg message) {
	for i := range opts {
		if opts[i].hasTag {
			tag = opts[i].tag
		}
		if opts[i].err != nil {
			err = opts[i].err
		}
	}
	if tag == "" {
		tag = l.tag
	}
	l.dispatch(level, tag, err, msg, time.Time{}, nil)
}

// dispatch is the single fan-out path. The message is only resolved
// when at least one antilog is enabled. A zero at and a nil caller are
// filled in from the logger's clock and the call stack.
func (l *Logger) dispatch(level core.Level, tag string, err error, msg message, at time.Time, caller *core.CallerInfo) {
	l.stats.calls.Add(1)
	antilogs := l.registry.load()
	first := -1
	for i, a := range antilogs {
		if a.IsEnabled(level, tag) {
			first = i
			break
		}
	}
	if first < 0 {
		l.stats.suppressed.Add(1)
		return
	}

	text := msg.resolve()

	entry := core.GetEntry()
	switch {
	case !at.IsZero():
		entry.Time = at
	case l.now != nil:
		entry.Time = l.now()
	}
	entry.Level = level
	entry.Tag = tag
	entry.Err = err
	entry.Message = text
	if l.includeCaller {
		if caller != nil {
			entry.Caller = *caller
		} else {
			entry.Caller = core.GetCaller(callerSkip)
		}
	}

	l.stats.emitted.Add(1)
	l.emit(antilogs[first], entry)
	for _, a := range antilogs[first+1:] {
		if a.IsEnabled(level, tag) {
			l.emit(a, entry)
		}
	}
	core.PutEntry(entry)
}

// emit hands the entry to one antilog, isolating its errors and panics
func (l *Logger) emit(a antilog.Antilog, entry *core.Entry) {
	defer func() {
		if r := recover(); r != nil {
			l.fail(a, &PanicError{Antilog: a, Value: r, Stack: debug.Stack()})
		}
	}()
	if err := a.Log(entry); err != nil {
		l.fail(a, fmt.Errorf("antilog %T: %w", a, err))
	}
}

func (l *Logger) fail(a antilog.Antilog, err error) {
	l.stats.failures.Add(1)
	defer func() {
		// A panicking ErrorHandler must not reach the caller
		_ = recover()
	}()
	l.onError(a, err)
}

// Log logs msg at level. An empty tag falls back to the logger's tag.
func (l *Logger) Log(level core.Level, tag string, err error, msg string) {
	l.log(level, tag, err, nil, literal(msg))
}

// LogFunc logs the result of fn at level. fn is called at most once, and
// only when an antilog is enabled.
func (l *Logger) LogFunc(level core.Level, tag string, err error, fn func() string) {
	l.log(level, tag, err, nil, lazy(fn))
}

// Logf logs a formatted message at level. Sprintf only runs when an
// antilog is enabled.
func (l *Logger) Logf(level core.Level, tag string, err error, format string, args ...interface{}) {
	l.log(level, tag, err, nil, formatted(format, args))
}

// Verbose logs a verbose message
func (l *Logger) Verbose(msg string, opts ...Option) {
	l.log(core.VerboseLevel, "", nil, opts, literal(msg))
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, opts ...Option) {
	l.log(core.DebugLevel, "", nil, opts, literal(msg))
}

// Info logs an info message
func (l *Logger) Info(msg string, opts ...Option) {
	l.log(core.InfoLevel, "", nil, opts, literal(msg))
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, opts ...Option) {
	l.log(core.WarningLevel, "", nil, opts, literal(msg))
}

// Error logs an error message
func (l *Logger) Error(msg string, opts ...Option) {
	l.log(core.ErrorLevel, "", nil, opts, literal(msg))
}

// Assert logs a message for a condition that should never happen.
// It does not panic or exit.
func (l *Logger) Assert(msg string, opts ...Option) {
	l.log(core.AssertLevel, "", nil, opts, literal(msg))
}

// VerboseFunc logs the result of fn at VERBOSE when enabled
func (l *Logger) VerboseFunc(fn func() string, opts ...Option) {
	l.log(core.VerboseLevel, "", nil, opts, lazy(fn))
}

// DebugFunc logs the result of fn at DEBUG when enabled
func (l *Logger) DebugFunc(fn func() string, opts ...Option) {
	l.log(core.DebugLevel, "", nil, opts, lazy(fn))
}

// InfoFunc logs the result of fn at INFO when enabled
func (l *Logger) InfoFunc(fn func() string, opts ...Option) {
	l.log(core.InfoLevel, "", nil, opts, lazy(fn))
}

// WarnFunc logs the result of fn at WARNING when enabled
func (l *Logger) WarnFunc(fn func() string, opts ...Option) {
	l.log(core.WarningLevel, "", nil, opts, lazy(fn))
}

// ErrorFunc logs the result of fn at ERROR when enabled
func (l *Logger) ErrorFunc(fn func() string, opts ...Option) {
	l.log(core.ErrorLevel, "", nil, opts, lazy(fn))
}

// AssertFunc logs the result of fn at ASSERT when enabled
func (l *Logger) AssertFunc(fn func() string, opts ...Option) {
	l.log(core.AssertLevel, "", nil, opts, lazy(fn))
}

// Verbosef logs a formatted verbose message
func (l *Logger) Verbosef(format string, args ...interface{}) {
	l.log(core.VerboseLevel, "", nil, nil, formatted(format, args))
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(core.DebugLevel, "", nil, nil, formatted(format, args))
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(core.InfoLevel, "", nil, nil, formatted(format, args))
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(core.WarningLevel, "", nil, nil, formatted(format, args))
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(core.ErrorLevel, "", nil, nil, formatted(format, args))
}

// Assertf logs a formatted assert message
func (l *Logger) Assertf(format string, args ...interface{}) {
	l.log(core.AssertLevel, "", nil, nil, formatted(format, args))
}
