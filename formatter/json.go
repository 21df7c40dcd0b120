package formatter

import (
	"bytes"
	"io"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/philipp01105/napier/core"
)

// JSONKeys names the fields written by JSONFormatter. Empty names keep
// the defaults: time, level, tag, message, error and caller.
type JSONKeys struct {
	Time    string
	Level   string
	Tag     string
	Message string
	Error   string
	Caller  string
}

func (k *JSONKeys) applyDefaults() {
	set := func(s *string, def string) {
		if *s == "" {
			*s = def
		}
	}
	set(&k.Time, "time")
	set(&k.Level, "level")
	set(&k.Tag, "tag")
	set(&k.Message, "message")
	set(&k.Error, "error")
	set(&k.Caller, "caller")
}

// JSONFormatter formats log entries as JSON, one object per line
type JSONFormatter struct {
	Config

	// Prerendered `"key":` prefixes
	timeKey, levelKey, tagKey, messageKey, errorKey, callerKey string
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(cfg Config) *JSONFormatter {
	if cfg.TimestampFormat == "" {
		cfg.TimestampFormat = time.RFC3339Nano
	}
	cfg.JSONKeys.applyDefaults()
	k := cfg.JSONKeys
	return &JSONFormatter{
		Config:     cfg,
		timeKey:    "{" + jsonKey(k.Time),
		levelKey:   "," + jsonKey(k.Level),
		tagKey:     "," + jsonKey(k.Tag),
		messageKey: "," + jsonKey(k.Message),
		errorKey:   "," + jsonKey(k.Error),
		callerKey:  "," + jsonKey(k.Caller),
	}
}

// jsonKey renders `"name":`
func jsonKey(name string) string {
	var b bytes.Buffer
	b.WriteByte('"')
	appendJSONString(&b, name)
	b.WriteString(`":`)
	return b.String()
}

// Format formats an entry as JSON
func (f *JSONFormatter) Format(entry *core.Entry) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	f.FormatEntry(entry, buf)
	return bytes.Clone(buf.Bytes()), nil
}

// FormatTo formats an entry as JSON and writes it with a single Write
func (f *JSONFormatter) FormatTo(entry *core.Entry, w io.Writer) error {
	buf := getBuffer()
	f.FormatEntry(entry, buf)
	_, err := w.Write(buf.Bytes())
	putBuffer(buf)
	return err
}

// FormatEntry appends the JSON object of an entry and a newline to buf
func (f *JSONFormatter) FormatEntry(entry *core.Entry, buf *bytes.Buffer) {
	buf.WriteString(f.timeKey)
	buf.WriteByte('"')
	buf.Write(entry.Time.AppendFormat(buf.AvailableBuffer(), f.TimestampFormat))
	buf.WriteByte('"')

	buf.WriteString(f.levelKey)
	writeJSONString(buf, entry.Level.String())

	if tag := f.tagFor(entry); tag != "" {
		buf.WriteString(f.tagKey)
		writeJSONString(buf, tag)
	}

	buf.WriteString(f.messageKey)
	writeJSONString(buf, entry.Message)

	if entry.Err != nil {
		buf.WriteString(f.errorKey)
		writeJSONString(buf, f.errorText(entry))
	}

	if f.IncludeCaller && entry.Caller.Defined {
		buf.WriteString(f.callerKey)
		buf.WriteString(`{"file":`)
		writeJSONString(buf, entry.Caller.ShortFile)
		buf.WriteString(`,"line":`)
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(entry.Caller.Line), 10))
		if entry.Caller.Function != "" {
			buf.WriteString(`,"function":`)
			writeJSONString(buf, entry.Caller.Function)
		}
		buf.WriteByte('}')
	}

	buf.WriteString("}\n")
}

func writeJSONString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	appendJSONString(buf, s)
	buf.WriteByte('"')
}

// appendJSONString writes s escaped for a JSON string, without quotes.
// Invalid UTF-8 becomes U+FFFD; U+2028 and U+2029 are escaped so the
// output is safe to embed in JavaScript.
func appendJSONString(buf *bytes.Buffer, s string) {
	start := 0
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			if c >= 0x20 && c != '"' && c != '\\' {
				i++
				continue
			}
			buf.WriteString(s[start:i])
			switch c {
			case '"', '\\':
				buf.WriteByte('\\')
				buf.WriteByte(c)
			case '\n':
				buf.WriteString(`\n`)
			case '\r':
				buf.WriteString(`\r`)
			case '\t':
				buf.WriteString(`\t`)
			default:
				buf.WriteString(`\u00`)
				buf.WriteByte(hexChars[c>>4])
				buf.WriteByte(hexChars[c&0x0f])
			}
			i++
			start = i
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			buf.WriteString(s[start:i])
			buf.WriteString(`\ufffd`)
		case r == '\u2028' || r == '\u2029':
			buf.WriteString(s[start:i])
			buf.WriteString(`\u202`)
			buf.WriteByte(hexChars[r&0x0f])
		default:
			i += size
			continue
		}
		i += size
		start = i
	}
	buf.WriteString(s[start:])
}

var hexChars = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}
