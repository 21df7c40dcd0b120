package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryPool(t *testing.T) {
	e1 := GetEntry()
	require.NotNil(t, e1)
	assert.False(t, e1.Time.IsZero(), "GetEntry should stamp the time")

	e1.Level = ErrorLevel
	e1.Tag = "net"
	e1.Err = errors.New("boom")
	e1.Message = "test"
	PutEntry(e1)

	e2 := GetEntry()
	require.NotNil(t, e2)
	assert.Empty(t, e2.Message)
	assert.Empty(t, e2.Tag)
	assert.NoError(t, e2.Err)
	assert.False(t, e2.Caller.Defined)
}

func TestPutEntryNil(t *testing.T) {
	assert.NotPanics(t, func() { PutEntry(nil) })
}

func TestEntryCopyFrom(t *testing.T) {
	src := &Entry{Level: WarningLevel, Tag: "db", Message: "slow query", Err: errors.New("timeout")}
	dst := GetEntry()
	dst.CopyFrom(src)

	assert.Equal(t, *src, *dst)

	src.Message = "changed"
	assert.Equal(t, "slow query", dst.Message, "copy must not alias the source")
}

func TestGetCaller(t *testing.T) {
	caller := GetCaller(0)
	require.True(t, caller.Defined)

	assert.NotEmpty(t, caller.File)
	assert.Equal(t, "entry_test.go", caller.ShortFile)
	assert.NotZero(t, caller.Line)
	assert.Contains(t, caller.Function, "TestGetCaller")
	assert.Equal(t, "TestGetCaller", caller.ShortFunction())
}

func TestCallerInfo_ShortFunction(t *testing.T) {
	tests := []struct {
		function string
		want     string
	}{
		{"main.main", "main"},
		{"github.com/philipp01105/napier/logger.(*Logger).Info", "Logger.Info"},
		{"github.com/acme/app/server.Handler.ServeHTTP", "Handler.ServeHTTP"},
		{"github.com/acme/app/server.Run.func1", "Run"},
		{"github.com/acme/app/server.start", "start"},
	}

	for _, tt := range tests {
		t.Run(tt.function, func(t *testing.T) {
			assert.Equal(t, tt.want, CallerInfo{Function: tt.function}.ShortFunction())
		})
	}
}

func BenchmarkGetEntry(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		e := GetEntry()
		PutEntry(e)
	}
}

func BenchmarkGetCaller(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = GetCaller(0)
	}
}
