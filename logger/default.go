package logger

import (
	"sync/atomic"

	"github.com/philipp01105/napier/antilog"
	"github.com/philipp01105/napier/core"
)

// defaultLogger starts with an empty registry, so nothing is logged
// until an antilog is added.
var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(New())
}

// Default returns the default logger
func Default() *Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the default logger. A nil logger is ignored.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger.Store(l)
	}
}

// Package-level functions using the default logger

// Add registers an antilog with the default logger
func Add(a antilog.Antilog) {
	Default().Add(a)
}

// Remove unregisters the first occurrence of a from the default logger
func Remove(a antilog.Antilog) bool {
	return Default().Remove(a)
}

// RemoveAll unregisters every antilog from the default logger
func RemoveAll() {
	Default().RemoveAll()
}

// Antilogs returns the antilogs registered with the default logger
func Antilogs() []antilog.Antilog {
	return Default().Antilogs()
}

// IsEnabled reports whether the default logger would record a call
func IsEnabled(level core.Level, tag string) bool {
	return Default().IsEnabled(level, tag)
}

// With returns a child of the default logger with a default tag
func With(tag string) *Logger {
	return Default().With(tag)
}

// Log logs msg at level using the default logger
func Log(level core.Level, tag string, err error, msg string) {
	Default().log(level, tag, err, nil, literal(msg))
}

// LogFunc logs the result of fn at level using the default logger
func LogFunc(level core.Level, tag string, err error, fn func() string) {
	Default().log(level, tag, err, nil, lazy(fn))
}

// Logf logs a formatted message at level using the default logger
func Logf(level core.Level, tag string, err error, format string, args ...interface{}) {
	Default().log(level, tag, err, nil, formatted(format, args))
}

// Verbose logs a verbose message using the default logger
func Verbose(msg string, opts ...Option) {
	Default().log(core.VerboseLevel, "", nil, opts, literal(msg))
}

// Debug logs a debug message using the default logger
func Debug(msg string, opts ...Option) {
	Default().log(core.DebugLevel, "", nil, opts, literal(msg))
}

// Info logs an info message using the default logger
func Info(msg string, opts ...Option) {
	Default().log(core.InfoLevel, "", nil, opts, literal(msg))
}

// Warn logs a warning message using the default logger
func Warn(msg string, opts ...Option) {
	Default().log(core.WarningLevel, "", nil, opts, literal(msg))
}

// Error logs an error message using the default logger
func Error(msg string, opts ...Option) {
	Default().log(core.ErrorLevel, "", nil, opts, literal(msg))
}

// Assert logs an assert message using the default logger
func Assert(msg string, opts ...Option) {
	Default().log(core.AssertLevel, "", nil, opts, literal(msg))
}

// VerboseFunc logs the result of fn at VERBOSE using the default logger
func VerboseFunc(fn func() string, opts ...Option) {
	Default().log(core.VerboseLevel, "", nil, opts, lazy(fn))
}

// DebugFunc logs the result of fn at DEBUG using the default logger
func DebugFunc(fn func() string, opts ...Option) {
	Default().log(core.DebugLevel, "", nil, opts, lazy(fn))
}

// InfoFunc logs the result of fn at INFO using the default logger
func InfoFunc(fn func() string, opts ...Option) {
	Default().log(core.InfoLevel, "", nil, opts, lazy(fn))
}

// WarnFunc logs the result of fn at WARNING using the default logger
func WarnFunc(fn func() string, opts ...Option) {
	Default().log(core.WarningLevel, "", nil, opts, lazy(fn))
}

// ErrorFunc logs the result of fn at ERROR using the default logger
func ErrorFunc(fn func() string, opts ...Option) {
	Default().log(core.ErrorLevel, "", nil, opts, lazy(fn))
}

// AssertFunc logs the result of fn at ASSERT using the default logger
func AssertFunc(fn func() string, opts ...Option) {
	Default().log(core.AssertLevel, "", nil, opts, lazy(fn))
}

// Verbosef logs a formatted verbose message using the default logger
func Verbosef(format string, args ...interface{}) {
	Default().log(core.VerboseLevel, "", nil, nil, formatted(format, args))
}

// Debugf logs a formatted debug message using the default logger
func Debugf(format string, args ...interface{}) {
	Default().log(core.DebugLevel, "", nil, nil, formatted(format, args))
}

// Infof logs a formatted info message using the default logger
func Infof(format string, args ...interface{}) {
	Default().log(core.InfoLevel, "", nil, nil, formatted(format, args))
}

// Warnf logs a formatted warning message using the default logger
func Warnf(format string, args ...interface{}) {
	Default().log(core.WarningLevel, "", nil, nil, formatted(format, args))
}

// Errorf logs a formatted error message using the default logger
func Errorf(format string, args ...interface{}) {
	Default().log(core.ErrorLevel, "", nil, nil, formatted(format, args))
}

// Assertf logs a formatted assert message using the default logger
func Assertf(format string, args ...interface{}) {
	Default().log(core.AssertLevel, "", nil, nil, formatted(format, args))
}
