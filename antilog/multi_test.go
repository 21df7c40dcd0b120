package antilog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/philipp01105/napier/core"
)

type closingAntilog struct {
	Func
	closed   bool
	closeErr error
}

func (c *closingAntilog) Close() error {
	c.closed = true
	return c.closeErr
}

func TestMulti_FanOutToEnabledChildren(t *testing.T) {
	var got1, got2 []string
	a1 := &Func{Fn: func(e *core.Entry) error { got1 = append(got1, e.Message); return nil }}
	a2 := &Func{Filter: Filter{MinLevel: core.ErrorLevel}, Fn: func(e *core.Entry) error { got2 = append(got2, e.Message); return nil }}

	m := NewMulti(a1, nil, a2)

	require.NoError(t, m.Log(&core.Entry{Level: core.InfoLevel, Message: "info"}))
	require.NoError(t, m.Log(&core.Entry{Level: core.ErrorLevel, Message: "error"}))

	assert.Equal(t, []string{"info", "error"}, got1)
	assert.Equal(t, []string{"error"}, got2)
}

func TestMulti_IsEnabled(t *testing.T) {
	m := NewMulti(
		&Func{Filter: Filter{MinLevel: core.ErrorLevel}},
		&Func{Filter: Filter{Tags: []string{"net"}}},
	)

	assert.True(t, m.IsEnabled(core.ErrorLevel, "db"))
	assert.True(t, m.IsEnabled(core.DebugLevel, "net"))
	assert.False(t, m.IsEnabled(core.DebugLevel, "db"))
	assert.False(t, NewMulti().IsEnabled(core.AssertLevel, ""))
}

func TestMulti_ErrorsDoNotStopOtherChildren(t *testing.T) {
	errA := errors.New("a failed")
	errC := errors.New("c failed")
	var reachedB bool

	m := NewMulti(
		&Func{Fn: func(*core.Entry) error { return errA }},
		&Func{Fn: func(*core.Entry) error { reachedB = true; return nil }},
		&Func{Fn: func(*core.Entry) error { return errC }},
	)

	err := m.Log(&core.Entry{Level: core.InfoLevel})
	assert.True(t, reachedB)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errC)
	assert.Len(t, multierr.Errors(err), 2)
}

func TestMulti_Close(t *testing.T) {
	closeErr := errors.New("close failed")
	c1 := &closingAntilog{}
	c2 := &closingAntilog{closeErr: closeErr}

	m := NewMulti(c1, &Func{}, c2)

	assert.ErrorIs(t, m.Close(), closeErr)
	assert.True(t, c1.closed)
	assert.True(t, c2.closed)
}

type statsAntilog struct {
	Func
	stats *Stats
}

func (s *statsAntilog) Stats() Snapshot { return s.stats.GetSnapshot() }

func TestMulti_Stats(t *testing.T) {
	s1, s2 := NewStats(), NewStats()
	s1.IncrementProcessed()
	s1.IncrementDropped(core.InfoLevel)
	s2.IncrementProcessed()
	s2.IncrementBlocked()
	s2.IncrementDropped(core.InfoLevel)

	m := NewMulti(&statsAntilog{stats: s1}, &Func{}, &statsAntilog{stats: s2})
	snap := m.Stats()

	assert.Equal(t, uint64(2), snap.ProcessedTotal)
	assert.Equal(t, uint64(1), snap.BlockedTotal)
	assert.Equal(t, uint64(2), snap.DroppedTotal[core.InfoLevel])
}

func TestFunc_NilFn(t *testing.T) {
	f := &Func{}
	assert.True(t, f.IsEnabled(core.VerboseLevel, ""))
	assert.NoError(t, f.Log(&core.Entry{}))
}
