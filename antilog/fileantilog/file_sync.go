package fileantilog

import (
	"os"

	"github.com/philipp01105/napier/core"
)

// SyncFile writes each entry before Log returns. Writes are buffered
// and reach the file on Flush, rotation or Close.
type SyncFile struct {
	fileBase
}

func newSyncFile(cfg FileConfig, file *os.File, fileSize int64) *SyncFile {
	f := &SyncFile{}
	initFileBase(&f.fileBase, cfg, file, fileSize)
	return f
}

// Log implements antilog.Antilog
func (f *SyncFile) Log(entry *core.Entry) error {
	return f.write(entry)
}

// Close flushes and closes the file.
func (f *SyncFile) Close() error {
	return f.closeFile()
}
