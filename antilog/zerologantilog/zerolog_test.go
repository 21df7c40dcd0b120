package zerologantilog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/napier/antilog"
	"github.com/philipp01105/napier/core"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestZerolog_Log(t *testing.T) {
	var buf bytes.Buffer
	z := New(zerolog.New(&buf), antilog.Filter{})

	ts := time.Date(2026, 2, 18, 13, 0, 0, 0, time.UTC)
	require.NoError(t, z.Log(&core.Entry{Time: ts, Level: core.ErrorLevel, Tag: "db", Err: errors.New("disk full"), Message: "write failed"}))

	got := decode(t, &buf)
	assert.Equal(t, "error", got[zerolog.LevelFieldName])
	assert.Equal(t, "write failed", got[zerolog.MessageFieldName])
	assert.Equal(t, "db", got[TagKey])
	assert.Equal(t, "disk full", got[zerolog.ErrorFieldName])
	assert.Equal(t, "2026-02-18T13:00:00Z", got[zerolog.TimestampFieldName])
}

func TestZerolog_AssertDoesNotPanic(t *testing.T) {
	var buf bytes.Buffer
	z := New(zerolog.New(&buf), antilog.Filter{})

	assert.NotPanics(t, func() {
		_ = z.Log(&core.Entry{Level: core.AssertLevel, Message: "impossible"})
	})
	assert.Equal(t, "panic", decode(t, &buf)[zerolog.LevelFieldName])
}

func TestZerolog_Levels(t *testing.T) {
	want := []zerolog.Level{zerolog.TraceLevel, zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel, zerolog.ErrorLevel, zerolog.PanicLevel}
	for i, level := range core.Levels {
		assert.Equal(t, want[i], zerologLevel(level), level.String())
	}
}

func TestZerolog_IsEnabled(t *testing.T) {
	var buf bytes.Buffer
	z := New(zerolog.New(&buf).Level(zerolog.WarnLevel), antilog.Filter{ExcludeTags: []string{"noisy"}})

	assert.False(t, z.IsEnabled(core.InfoLevel, ""))
	assert.True(t, z.IsEnabled(core.WarningLevel, ""))
	assert.True(t, z.IsEnabled(core.AssertLevel, ""))
	assert.False(t, z.IsEnabled(core.ErrorLevel, "noisy"))

	require.NoError(t, z.Log(&core.Entry{Level: core.DebugLevel, Message: "below level"}))
	assert.Zero(t, buf.Len())
}
