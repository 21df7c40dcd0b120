// Package zerologantilog provides an antilog that forwards entries to a
// zerolog.Logger.
//
// VERBOSE maps to Trace and WARNING to Warn. ASSERT is written at
// PanicLevel through WithLevel, which does not panic. The entry time is
// written under zerolog.TimestampFieldName, so the logger should not add
// its own timestamp.
package zerologantilog

import (
	"github.com/rs/zerolog"

	"github.com/philipp01105/napier/antilog"
	"github.com/philipp01105/napier/core"
)

// TagKey is the field name the tag is logged under
const TagKey = "tag"

// Zerolog forwards entries to a zerolog logger
type Zerolog struct {
	filter antilog.Filter
	logger zerolog.Logger
}

// New returns an antilog that writes to l
func New(l zerolog.Logger, filter antilog.Filter) *Zerolog {
	return &Zerolog{filter: filter, logger: l}
}

func zerologLevel(l core.Level) zerolog.Level {
	switch l {
	case core.VerboseLevel:
		return zerolog.TraceLevel
	case core.DebugLevel:
		return zerolog.DebugLevel
	case core.InfoLevel:
		return zerolog.InfoLevel
	case core.WarningLevel:
		return zerolog.WarnLevel
	case core.ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.PanicLevel
	}
}

// IsEnabled implements antilog.Antilog
func (z *Zerolog) IsEnabled(level core.Level, tag string) bool {
	if !z.filter.Enabled(level, tag) {
		return false
	}
	zl := zerologLevel(level)
	return zl >= z.logger.GetLevel() && zl >= zerolog.GlobalLevel()
}

// Log implements antilog.Antilog
func (z *Zerolog) Log(entry *core.Entry) error {
	ev := z.logger.WithLevel(zerologLevel(entry.Level))
	if ev == nil {
		return nil
	}
	if !entry.Time.IsZero() {
		ev = ev.Time(zerolog.TimestampFieldName, entry.Time)
	}
	if entry.Tag != "" {
		ev = ev.Str(TagKey, entry.Tag)
	}
	if entry.Err != nil {
		ev = ev.Err(entry.Err)
	}
	ev.Msg(entry.Message)
	return nil
}
