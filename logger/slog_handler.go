package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/philipp01105/napier/core"
)

// SlogTagKey is the attribute key the slog bridge reads the tag from
const SlogTagKey = "tag"

// SlogHandler is an adapter that implements slog.Handler on top of a
// Logger, so code written against log/slog reaches the registered
// antilogs.
//
// An attribute named "tag" becomes the entry tag and an error attribute
// named "error" or "err" becomes the entry error. Every other attribute
// is appended to the message as key=value, prefixed by its groups.
type SlogHandler struct {
	logger *Logger
	tag    string
	err    error
	attrs  string // preformatted " key=value" pairs from WithAttrs
	group  string
}

// NewSlogHandler creates a slog.Handler that dispatches to l
func NewSlogHandler(l *Logger) *SlogHandler {
	return &SlogHandler{logger: l}
}

// Enabled reports whether any antilog is enabled for the level. The tag
// is the one set through WithAttrs, or else the logger's default tag.
func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return s.logger.IsEnabled(slogLevelToCore(level), s.defaultTag())
}

func (s *SlogHandler) defaultTag() string {
	if s.tag != "" {
		return s.tag
	}
	return s.logger.tag
}

// Handle converts the record and dispatches it
func (s *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	tag, err := s.tag, s.err
	var b strings.Builder
	b.WriteString(record.Message)
	b.WriteString(s.attrs)

	record.Attrs(func(a slog.Attr) bool {
		s.appendAttr(&b, s.group, a, &tag, &err)
		return true
	})
	if tag == "" {
		tag = s.logger.tag
	}

	// The stack here belongs to slog, so only the record PC is used
	var caller *core.CallerInfo
	if s.logger.includeCaller {
		var c core.CallerInfo
		if record.PC != 0 {
			c = callerFromPC(record.PC)
		}
		caller = &c
	}
	s.logger.dispatch(slogLevelToCore(record.Level), tag, err, literal(b.String()), record.Time, caller)
	return nil
}

// WithAttrs returns a new SlogHandler with additional attributes.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return s
	}
	h := *s
	var b strings.Builder
	b.WriteString(s.attrs)
	for _, a := range attrs {
		h.appendAttr(&b, h.group, a, &h.tag, &h.err)
	}
	h.attrs = b.String()
	return &h
}

// WithGroup returns a new SlogHandler with the given group name.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	h := *s
	if h.group != "" {
		h.group += "." + name
	} else {
		h.group = name
	}
	return &h
}

// appendAttr writes " key=value" for a, or captures it as tag or error
func (s *SlogHandler) appendAttr(b *strings.Builder, group string, a slog.Attr, tag *string, err *error) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if group == "" {
		switch a.Key {
		case SlogTagKey:
			if a.Value.Kind() == slog.KindString {
				*tag = a.Value.String()
				return
			}
		case "error", "err":
			if v, ok := a.Value.Any().(error); ok && v != nil {
				*err = v
				return
			}
		}
	}

	key := a.Key
	if group != "" {
		key = group + "." + a.Key
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key == "" {
			key = group
		}
		for _, ga := range a.Value.Group() {
			s.appendAttr(b, key, ga, tag, err)
		}
		return
	}

	b.WriteByte(' ')
	b.WriteString(key)
	b.WriteByte('=')
	b.WriteString(a.Value.String())
}

// slogLevelToCore converts a slog.Level to a core.Level.
func slogLevelToCore(level slog.Level) core.Level {
	switch {
	case level > slog.LevelError:
		return core.AssertLevel
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarningLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	case level >= slog.LevelDebug:
		return core.DebugLevel
	default:
		return core.VerboseLevel
	}
}

func callerFromPC(pc uintptr) core.CallerInfo {
	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()
	if frame.File == "" {
		return core.CallerInfo{}
	}
	return core.CallerInfo{
		File:      frame.File,
		ShortFile: filepath.Base(frame.File),
		Line:      frame.Line,
		Function:  frame.Function,
		Defined:   true,
	}
}
