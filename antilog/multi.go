package antilog

import (
	"io"

	"go.uber.org/multierr"

	"github.com/philipp01105/napier/core"
)

// Multi groups several antilogs so they can be registered and removed
// as one unit. It is enabled when any child is enabled and forwards each
// entry to the enabled children in order.
type Multi struct {
	antilogs []Antilog
}

// NewMulti creates a new composite antilog. Nil children are skipped.
func NewMulti(antilogs ...Antilog) *Multi {
	m := &Multi{antilogs: make([]Antilog, 0, len(antilogs))}
	for _, a := range antilogs {
		if a != nil {
			m.antilogs = append(m.antilogs, a)
		}
	}
	return m
}

// IsEnabled reports whether any child is enabled
func (m *Multi) IsEnabled(level core.Level, tag string) bool {
	for _, a := range m.antilogs {
		if a.IsEnabled(level, tag) {
			return true
		}
	}
	return false
}

// Log sends the entry to every enabled child. A failing child does not
// stop the others; all errors are combined.
func (m *Multi) Log(entry *core.Entry) error {
	var err error
	for _, a := range m.antilogs {
		if a.IsEnabled(entry.Level, entry.Tag) {
			err = multierr.Append(err, a.Log(entry))
		}
	}
	return err
}

// Stats sums the statistics of every child that provides them
func (m *Multi) Stats() Snapshot {
	total := Snapshot{DroppedTotal: make(map[core.Level]uint64, len(core.Levels))}
	for _, a := range m.antilogs {
		sp, ok := a.(StatsProvider)
		if !ok {
			continue
		}
		s := sp.Stats()
		for l, n := range s.DroppedTotal {
			total.DroppedTotal[l] += n
		}
		total.BlockedTotal += s.BlockedTotal
		total.ProcessedTotal += s.ProcessedTotal
	}
	return total
}

// Close closes every child that implements io.Closer
func (m *Multi) Close() error {
	var err error
	for _, a := range m.antilogs {
		if c, ok := a.(io.Closer); ok {
			err = multierr.Append(err, c.Close())
		}
	}
	return err
}
