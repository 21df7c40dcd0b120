package core

import (
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Entry represents a single log call with all its metadata.
// An empty Tag means the call carried no tag, a nil Err means no error.
type Entry struct {
	Time    time.Time
	Level   Level
	Tag     string
	Err     error
	Message string
	Caller  CallerInfo
}

// CallerInfo contains information about the caller
type CallerInfo struct {
	File      string
	ShortFile string
	Line      int
	Function  string
	Defined   bool
}

// ShortFunction strips the package path from Function, leaving
// "Type.method" or "function". Closures keep their enclosing name.
func (c CallerInfo) ShortFunction() string {
	name := c.Function
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, ".func"); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimPrefix(name, "(*")
	return strings.Replace(name, ").", ".", 1)
}

// entryPool is a pool of Entry objects to reduce allocations
var entryPool = sync.Pool{
	New: func() interface{} {
		return &Entry{}
	},
}

// GetEntry retrieves a reset Entry from the pool
func GetEntry() *Entry {
	e := entryPool.Get().(*Entry)
	e.Time = time.Now()
	return e
}

// PutEntry returns an Entry to the pool
func PutEntry(e *Entry) {
	if e == nil {
		return
	}
	*e = Entry{}
	entryPool.Put(e)
}

// CopyFrom overwrites e with the contents of src. Async antilogs use it
// to keep an entry past the Log call that handed it over.
func (e *Entry) CopyFrom(src *Entry) {
	*e = *src
}

// GetCaller retrieves caller information. A skip of 0 identifies the
// function that called GetCaller.
func GetCaller(skip int) CallerInfo {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return CallerInfo{}
	}

	fn := runtime.FuncForPC(pc)
	var funcName string
	if fn != nil {
		funcName = fn.Name()
	}

	return CallerInfo{
		File:      file,
		ShortFile: filepath.Base(file),
		Line:      line,
		Function:  funcName,
		Defined:   true,
	}
}
