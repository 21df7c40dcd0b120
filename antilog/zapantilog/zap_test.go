package zapantilog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/philipp01105/napier/antilog"
	"github.com/philipp01105/napier/core"
)

func TestZapLevel(t *testing.T) {
	want := map[core.Level]zapcore.Level{
		core.VerboseLevel: zapcore.DebugLevel,
		core.DebugLevel:   zapcore.DebugLevel,
		core.InfoLevel:    zapcore.InfoLevel,
		core.WarningLevel: zapcore.WarnLevel,
		core.ErrorLevel:   zapcore.ErrorLevel,
		core.AssertLevel:  zapcore.DPanicLevel,
	}
	for l, zl := range want {
		assert.Equal(t, zl, zapLevel(l), l.String())
	}
}

func TestZap_Log(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	z := New(zap.New(obsCore), antilog.Filter{})

	ts := time.Date(2026, 2, 18, 13, 0, 0, 0, time.UTC)
	require.NoError(t, z.Log(&core.Entry{
		Time:    ts,
		Level:   core.WarningLevel,
		Tag:     "db",
		Err:     errors.New("timeout"),
		Message: "slow query",
		Caller:  core.CallerInfo{File: "/src/db.go", Line: 42, Function: "db.Query", Defined: true},
	}))

	require.Equal(t, 1, logs.Len())
	got := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, got.Level)
	assert.Equal(t, "slow query", got.Message)
	assert.Equal(t, ts, got.Time)
	assert.Equal(t, 42, got.Caller.Line)
	assert.Equal(t, map[string]interface{}{"tag": "db", "error": "timeout"}, got.ContextMap())
}

func TestZap_LogWithoutTagOrError(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	z := New(zap.New(obsCore), antilog.Filter{})

	require.NoError(t, z.Log(&core.Entry{Level: core.InfoLevel, Message: "plain"}))
	require.Equal(t, 1, logs.Len())
	assert.Empty(t, logs.All()[0].Context)
}

func TestZap_IsEnabled(t *testing.T) {
	obsCore, logs := observer.New(zapcore.InfoLevel)
	z := New(zap.New(obsCore), antilog.Filter{ExcludeTags: []string{"noisy"}})

	assert.False(t, z.IsEnabled(core.DebugLevel, ""), "zap core level applies")
	assert.False(t, z.IsEnabled(core.VerboseLevel, ""))
	assert.True(t, z.IsEnabled(core.InfoLevel, ""))
	assert.False(t, z.IsEnabled(core.ErrorLevel, "noisy"), "filter applies")

	require.NoError(t, z.Log(&core.Entry{Level: core.DebugLevel, Message: "dropped by zap"}))
	assert.Zero(t, logs.Len())
}

func TestZap_AssertDoesNotPanicInProduction(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	z := New(zap.New(obsCore), antilog.Filter{})

	assert.NotPanics(t, func() {
		_ = z.Log(&core.Entry{Level: core.AssertLevel, Message: "impossible"})
	})
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.DPanicLevel, logs.All()[0].Level)
}
