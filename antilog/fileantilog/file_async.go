package fileantilog

import (
	"os"

	"go.uber.org/multierr"

	"github.com/philipp01105/napier/antilog"
	"github.com/philipp01105/napier/core"
)

// AsyncFile queues entries for a background goroutine that writes them
// and flushes the file whenever the queue runs empty.
type AsyncFile struct {
	fileBase
	queue *antilog.Queue
}

func newAsyncFile(cfg FileConfig, file *os.File, fileSize int64) *AsyncFile {
	f := &AsyncFile{}
	initFileBase(&f.fileBase, cfg, file, fileSize)
	f.queue = antilog.NewQueue(cfg.Queue, f.stats, f.write, f.Flush)
	return f
}

// Log implements antilog.Antilog. The entry is copied before it is queued.
func (f *AsyncFile) Log(entry *core.Entry) error {
	return f.queue.Enqueue(entry)
}

// Close drains the queue with a timeout, then flushes and closes the
// file. The file is closed even when the final flush fails.
func (f *AsyncFile) Close() error {
	return multierr.Append(f.queue.Close(), f.closeFile())
}
