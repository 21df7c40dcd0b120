package formatter

import (
	"bytes"
	"io"
	"strconv"
	"time"

	"github.com/philipp01105/napier/core"
)

// TextFormatter formats log entries as human-readable text
type TextFormatter struct {
	Config
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(cfg Config) *TextFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339
	}
	return &TextFormatter{Config: cfg}
}

// Format formats an entry as text
func (f *TextFormatter) Format(entry *core.Entry) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	f.FormatEntry(entry, buf)
	return bytes.Clone(buf.Bytes()), nil
}

// FormatTo formats an entry and writes it with a single Write
func (f *TextFormatter) FormatTo(entry *core.Entry, w io.Writer) error {
	buf := getBuffer()
	f.FormatEntry(entry, buf)
	_, err := w.Write(buf.Bytes())
	putBuffer(buf)
	return err
}

// pre-formatted level strings to avoid multiple WriteString calls
var levelBrackets = [...]string{
	core.VerboseLevel: " [VERBOSE] ",
	core.DebugLevel:   " [DEBUG] ",
	core.InfoLevel:    " [INFO] ",
	core.WarningLevel: " [WARNING] ",
	core.ErrorLevel:   " [ERROR] ",
	core.AssertLevel:  " [ASSERT] ",
}

var levelLetters = [...]string{
	core.VerboseLevel: " V/",
	core.DebugLevel:   " D/",
	core.InfoLevel:    " I/",
	core.WarningLevel: " W/",
	core.ErrorLevel:   " E/",
	core.AssertLevel:  " A/",
}

// FormatEntry appends the text line of an entry to buf
func (f *TextFormatter) FormatEntry(entry *core.Entry, buf *bytes.Buffer) {
	buf.Write(entry.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))

	tag := f.tagFor(entry)
	if f.ShortLevel {
		// "I/tag: " mirrors the Android logcat layout
		if entry.Level.Valid() {
			buf.WriteString(levelLetters[entry.Level])
		} else {
			buf.WriteString(" ?/")
		}
		buf.WriteString(tag)
		buf.WriteString(": ")
	} else {
		if entry.Level.Valid() {
			buf.WriteString(levelBrackets[entry.Level])
		} else {
			buf.WriteString(" [UNKNOWN] ")
		}
		if tag != "" {
			buf.WriteByte('[')
			buf.WriteString(tag)
			buf.WriteString("] ")
		}
	}

	if f.IncludeCaller && entry.Caller.Defined {
		buf.WriteByte('[')
		buf.WriteString(entry.Caller.ShortFile)
		buf.WriteByte(':')
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(entry.Caller.Line), 10))
		buf.WriteString("] ")
	}

	buf.WriteString(entry.Message)

	if entry.Err != nil {
		if f.ErrorDetail {
			buf.WriteByte('\n')
			buf.WriteString(f.errorText(entry))
		} else {
			buf.WriteString(" error=")
			buf.Write(strconv.AppendQuote(buf.AvailableBuffer(), entry.Err.Error()))
		}
	}

	buf.WriteByte('\n')
}
