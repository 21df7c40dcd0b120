package consoleantilog

import (
	"github.com/philipp01105/napier/antilog"
	"github.com/philipp01105/napier/core"
)

// AsyncConsole queues entries for a background goroutine. Overflow is
// handled per level as configured in ConsoleConfig.Queue.
type AsyncConsole struct {
	consoleBase
	queue *antilog.Queue
}

func newAsyncConsole(cfg ConsoleConfig) *AsyncConsole {
	c := &AsyncConsole{}
	c.init(cfg)
	c.queue = antilog.NewQueue(cfg.Queue, c.stats, c.write, nil)
	return c
}

// Log implements antilog.Antilog. The entry is copied before it is queued.
func (c *AsyncConsole) Log(entry *core.Entry) error {
	return c.queue.Enqueue(entry)
}

// Close drains the queue with a timeout and stops the background goroutine.
func (c *AsyncConsole) Close() error {
	return c.queue.Close()
}
