// Package logrusantilog provides an antilog that forwards entries to a
// *logrus.Logger.
//
// VERBOSE maps to Trace and WARNING to Warn. ASSERT is logged at Error
// with the field assert=true, because logrus panics at PanicLevel.
package logrusantilog

import (
	"github.com/sirupsen/logrus"

	"github.com/philipp01105/napier/antilog"
	"github.com/philipp01105/napier/core"
)

// Field names added to logrus entries
const (
	TagKey    = "tag"
	AssertKey = "assert"
)

// Logrus forwards entries to a logrus logger
type Logrus struct {
	filter antilog.Filter
	logger *logrus.Logger
}

// New returns an antilog that writes to l. Calls must pass both the
// filter and the level set on l.
func New(l *logrus.Logger, filter antilog.Filter) *Logrus {
	return &Logrus{filter: filter, logger: l}
}

func logrusLevel(l core.Level) logrus.Level {
	switch l {
	case core.VerboseLevel:
		return logrus.TraceLevel
	case core.DebugLevel:
		return logrus.DebugLevel
	case core.InfoLevel:
		return logrus.InfoLevel
	case core.WarningLevel:
		return logrus.WarnLevel
	default:
		return logrus.ErrorLevel
	}
}

// IsEnabled implements antilog.Antilog
func (l *Logrus) IsEnabled(level core.Level, tag string) bool {
	return l.filter.Enabled(level, tag) && l.logger.IsLevelEnabled(logrusLevel(level))
}

// Log implements antilog.Antilog
func (l *Logrus) Log(entry *core.Entry) error {
	e := logrus.NewEntry(l.logger)
	if !entry.Time.IsZero() {
		e = e.WithTime(entry.Time)
	}
	if entry.Tag != "" {
		e = e.WithField(TagKey, entry.Tag)
	}
	if entry.Err != nil {
		e = e.WithError(entry.Err)
	}
	if entry.Level == core.AssertLevel {
		e = e.WithField(AssertKey, true)
	}
	e.Log(logrusLevel(entry.Level), entry.Message)
	return nil
}
