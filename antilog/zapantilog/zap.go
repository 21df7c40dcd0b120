// Package zapantilog provides an antilog that forwards entries to a
// *zap.Logger.
//
// Levels map as VERBOSE and DEBUG to Debug, WARNING to Warn and ASSERT
// to DPanic, so a development zap logger panics on ASSERT. The tag is
// added as the field "tag" and the error with zap.Error.
package zapantilog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/napier/antilog"
	"github.com/philipp01105/napier/core"
)

// TagKey is the field name the tag is logged under
const TagKey = "tag"

// Zap forwards entries to a zap logger
type Zap struct {
	filter antilog.Filter
	logger *zap.Logger
}

// New returns an antilog that writes to l. Calls must pass both the
// filter and the level enabled on l.
func New(l *zap.Logger, filter antilog.Filter) *Zap {
	return &Zap{filter: filter, logger: l}
}

func zapLevel(l core.Level) zapcore.Level {
	switch l {
	case core.VerboseLevel, core.DebugLevel:
		return zapcore.DebugLevel
	case core.InfoLevel:
		return zapcore.InfoLevel
	case core.WarningLevel:
		return zapcore.WarnLevel
	case core.ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.DPanicLevel
	}
}

// IsEnabled implements antilog.Antilog
func (z *Zap) IsEnabled(level core.Level, tag string) bool {
	return z.filter.Enabled(level, tag) && z.logger.Core().Enabled(zapLevel(level))
}

// Log implements antilog.Antilog
func (z *Zap) Log(entry *core.Entry) error {
	ce := z.logger.Check(zapLevel(entry.Level), entry.Message)
	if ce == nil {
		return nil
	}
	if !entry.Time.IsZero() {
		ce.Time = entry.Time
	}
	if entry.Caller.Defined {
		ce.Caller = zapcore.EntryCaller{
			Defined:  true,
			File:     entry.Caller.File,
			Line:     entry.Caller.Line,
			Function: entry.Caller.Function,
		}
	}

	var fields [2]zap.Field
	n := 0
	if entry.Tag != "" {
		fields[n] = zap.String(TagKey, entry.Tag)
		n++
	}
	if entry.Err != nil {
		fields[n] = zap.Error(entry.Err)
		n++
	}
	ce.Write(fields[:n]...)
	return nil
}

// Close flushes the zap logger
func (z *Zap) Close() error {
	return z.logger.Sync()
}
