package logger

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/philipp01105/napier/antilog"
)

// Registry is the ordered set of antilogs a Logger dispatches to.
// Insertion order is preserved and the same antilog may be added more
// than once.
//
// Writers serialize on a mutex and publish a fresh slice; readers load
// the current slice without locking, so a dispatch in progress keeps
// the view it started with.
type Registry struct {
	mu       sync.Mutex // serializes writers
	antilogs atomic.Pointer[[]antilog.Antilog]
}

// NewRegistry creates an empty registry
func NewRegistry(antilogs ...antilog.Antilog) *Registry {
	r := &Registry{}
	for _, a := range antilogs {
		r.Add(a)
	}
	return r
}

// load returns the published slice. It must not be modified.
func (r *Registry) load() []antilog.Antilog {
	if r == nil {
		return nil
	}
	if p := r.antilogs.Load(); p != nil {
		return *p
	}
	return nil
}

// Add appends an antilog. A nil antilog is ignored.
func (r *Registry) Add(a antilog.Antilog) {
	if a == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.load()
	next := make([]antilog.Antilog, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, a)
	r.antilogs.Store(&next)
}

// Remove removes the first occurrence of a and reports whether one was
// found. Antilogs are matched by ==, so a nil antilog or one whose
// value is not comparable never matches.
func (r *Registry) Remove(a antilog.Antilog) bool {
	if a == nil || !reflect.TypeOf(a).Comparable() {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := r.load()
	for i, existing := range cur {
		if !sameAntilog(existing, a) {
			continue
		}
		next := make([]antilog.Antilog, 0, len(cur)-1)
		next = append(next, cur[:i]...)
		next = append(next, cur[i+1:]...)
		r.antilogs.Store(&next)
		return true
	}
	return false
}

// sameAntilog compares with ==. A comparable struct type can still hold
// an uncomparable value in an interface field, which makes == panic.
func sameAntilog(x, y antilog.Antilog) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return x == y
}

// RemoveAll empties the registry
func (r *Registry) RemoveAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.antilogs.Store(nil)
}

// Snapshot returns a copy of the registered antilogs in insertion order
func (r *Registry) Snapshot() []antilog.Antilog {
	cur := r.load()
	out := make([]antilog.Antilog, len(cur))
	copy(out, cur)
	return out
}

// Len returns the number of registered antilogs
func (r *Registry) Len() int {
	return len(r.load())
}
