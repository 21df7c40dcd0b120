package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLevel is returned by ParseLevel for unrecognised input
var ErrUnknownLevel = errors.New("unknown level")

// Level represents the severity of a log call.
// Levels are ordered by increasing criticality.
type Level int8

const (
	// VerboseLevel for the most detailed tracing output
	VerboseLevel Level = iota
	// DebugLevel for detailed debugging information
	DebugLevel
	// InfoLevel for general informational messages
	InfoLevel
	// WarningLevel for recoverable problems
	WarningLevel
	// ErrorLevel for failures
	ErrorLevel
	// AssertLevel for conditions that should never happen
	AssertLevel
)

// Levels lists every level in ascending order
var Levels = [...]Level{VerboseLevel, DebugLevel, InfoLevel, WarningLevel, ErrorLevel, AssertLevel}

var levelNames = [...]string{
	VerboseLevel: "VERBOSE",
	DebugLevel:   "DEBUG",
	InfoLevel:    "INFO",
	WarningLevel: "WARNING",
	ErrorLevel:   "ERROR",
	AssertLevel:  "ASSERT",
}

var levelLetters = [...]string{
	VerboseLevel: "V",
	DebugLevel:   "D",
	InfoLevel:    "I",
	WarningLevel: "W",
	ErrorLevel:   "E",
	AssertLevel:  "A",
}

// Valid reports whether l is one of the defined levels
func (l Level) Valid() bool {
	return l >= VerboseLevel && l <= AssertLevel
}

// String returns the string representation of the level
func (l Level) String() string {
	if !l.Valid() {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ShortString returns the single letter form (V, D, I, W, E, A)
func (l Level) ShortString() string {
	if !l.Valid() {
		return "?"
	}
	return levelLetters[l]
}

// MarshalText implements encoding.TextMarshaler
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, int8(l))
	}
	return []byte(levelNames[l]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so levels can be
// decoded from YAML and JSON configuration
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel converts a level name to a Level. Matching is case-insensitive
// and accepts the full names, WARN, WTF and the single letter forms.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "VERBOSE", "V", "TRACE":
		return VerboseLevel, nil
	case "DEBUG", "D":
		return DebugLevel, nil
	case "INFO", "I":
		return InfoLevel, nil
	case "WARNING", "WARN", "W":
		return WarningLevel, nil
	case "ERROR", "E":
		return ErrorLevel, nil
	case "ASSERT", "WTF", "A":
		return AssertLevel, nil
	default:
		return InfoLevel, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}
