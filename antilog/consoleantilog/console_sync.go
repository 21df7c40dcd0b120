package consoleantilog

import "github.com/philipp01105/napier/core"

// SyncConsole writes each entry before Log returns.
type SyncConsole struct {
	consoleBase
}

func newSyncConsole(cfg ConsoleConfig) *SyncConsole {
	c := &SyncConsole{}
	c.init(cfg)
	return c
}

// Log implements antilog.Antilog
func (c *SyncConsole) Log(entry *core.Entry) error {
	return c.write(entry)
}

// Close implements io.Closer. The writer is left open.
func (c *SyncConsole) Close() error {
	return nil
}
