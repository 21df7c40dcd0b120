// Package slogantilog provides an antilog that forwards entries to a
// log/slog Handler.
//
// VERBOSE is logged at slog.LevelDebug-4 and ASSERT at slog.LevelError+4;
// the other levels map to their slog namesakes.
package slogantilog

import (
	"context"
	"log/slog"

	"github.com/philipp01105/napier/antilog"
	"github.com/philipp01105/napier/core"
)

// Attribute keys added to records
const (
	TagKey   = "tag"
	ErrorKey = "error"
)

// Level values used for the levels slog does not define
const (
	LevelVerbose = slog.LevelDebug - 4
	LevelAssert  = slog.LevelError + 4
)

// Slog forwards entries to a slog.Handler
type Slog struct {
	filter  antilog.Filter
	handler slog.Handler
}

// New returns an antilog that writes to h
func New(h slog.Handler, filter antilog.Filter) *Slog {
	return &Slog{filter: filter, handler: h}
}

// Level converts a napier level to a slog level
func Level(l core.Level) slog.Level {
	switch l {
	case core.VerboseLevel:
		return LevelVerbose
	case core.DebugLevel:
		return slog.LevelDebug
	case core.InfoLevel:
		return slog.LevelInfo
	case core.WarningLevel:
		return slog.LevelWarn
	case core.ErrorLevel:
		return slog.LevelError
	default:
		return LevelAssert
	}
}

// IsEnabled implements antilog.Antilog
func (s *Slog) IsEnabled(level core.Level, tag string) bool {
	return s.filter.Enabled(level, tag) && s.handler.Enabled(context.Background(), Level(level))
}

// Log implements antilog.Antilog
func (s *Slog) Log(entry *core.Entry) error {
	r := slog.NewRecord(entry.Time, Level(entry.Level), entry.Message, 0)
	if entry.Tag != "" {
		r.AddAttrs(slog.String(TagKey, entry.Tag))
	}
	if entry.Err != nil {
		r.AddAttrs(slog.Any(ErrorKey, entry.Err))
	}
	return s.handler.Handle(context.Background(), r)
}
