package benchmark

import (
	"github.com/philipp01105/napier/antilog"
	"github.com/philipp01105/napier/core"
)

// noopAntilog accepts everything and writes nothing, so benchmarks using
// it measure the dispatch path alone
type noopAntilog struct {
	antilog.Filter
}

func newNoopAntilog() *noopAntilog {
	return &noopAntilog{}
}

func (a *noopAntilog) IsEnabled(level core.Level, tag string) bool {
	return a.Enabled(level, tag)
}

func (a *noopAntilog) Log(e *core.Entry) error {
	_ = len(e.Message)
	return nil
}
