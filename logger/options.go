package logger

import "fmt"

// Option attaches a tag or an error to a single log call
type Option struct {
	tag    string
	err    error
	hasTag bool
}

// Tag sets the tag of a call, overriding the logger's default tag
func Tag(tag string) Option {
	return Option{tag: tag, hasTag: true}
}

// Err attaches an error to a call
func Err(err error) Option {
	return Option{err: err}
}

type messageKind uint8

const (
	literalMessage messageKind = iota
	funcMessage
	formatMessage
)

// message is the not yet rendered text of a call
type message struct {
	kind   messageKind
	text   string
	fn     func() string
	format string
	args   []interface{}
}

func (m *message) resolve() string {
	switch m.kind {
	case funcMessage:
		if m.fn == nil {
			return ""
		}
		return m.fn()
	case formatMessage:
		return fmt.Sprintf(m.format, m.args...)
	default:
		return m.text
	}
}

func literal(msg string) message { return message{text: msg} }

func lazy(fn func() string) message { return message{kind: funcMessage, fn: fn} }

func formatted(format string, args []interface{}) message {
	return message{kind: formatMessage, format: format, args: args}
}
