package antilog

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/philipp01105/napier/core"
)

// QueueConfig holds the settings shared by asynchronous antilogs
type QueueConfig struct {
	// BufferSize is the size of the async queue (default: 1000)
	BufferSize int
	// OverflowPolicy defines per-level overflow behavior (default: uses DefaultLevelPolicy)
	OverflowPolicy map[core.Level]OverflowPolicy
	// BlockTimeout is the timeout for blocking overflow policy (default: 100ms)
	BlockTimeout time.Duration
	// DrainTimeout is the timeout for draining queue on Close (default: 5s)
	DrainTimeout time.Duration
	// FlushInterval calls the flush function periodically (0 = never)
	FlushInterval time.Duration
	// FlushOnIdle calls the flush function each time the queue runs empty
	FlushOnIdle bool
	// OnError receives errors from the background goroutine
	// (default: one line on stderr)
	OnError func(error)
}

// ApplyDefaults fills in zero-value fields with defaults
func (c *QueueConfig) ApplyDefaults() {
	if c.BufferSize <= 0 {
		c.BufferSize = 1000
	}
	if c.OverflowPolicy == nil {
		c.OverflowPolicy = DefaultLevelPolicy()
	}
	if c.BlockTimeout == 0 {
		c.BlockTimeout = 100 * time.Millisecond
	}
	if c.DrainTimeout == 0 {
		c.DrainTimeout = 5 * time.Second
	}
	if c.OnError == nil {
		c.OnError = stderrError
	}
}

func stderrError(err error) {
	fmt.Fprintf(os.Stderr, "napier: async antilog: %v\n", err)
}

// Queue is the bounded queue and background goroutine behind every
// asynchronous antilog. Entries are copied on Enqueue, so the caller
// keeps ownership of the entry it passes in.
type Queue struct {
	queue          chan *core.Entry
	overflowPolicy map[core.Level]OverflowPolicy
	blockTimeout   time.Duration
	drainTimeout   time.Duration
	flushInterval  time.Duration
	flushOnIdle    bool
	onError        func(error)
	write          func(*core.Entry) error
	flush          func() error
	stats          *Stats
	timers         sync.Pool

	// mu is held for reading while Enqueue sends and for writing while
	// Close marks the queue closing, so no send lands after the drain
	mu        sync.RWMutex
	closing   bool
	closed    chan struct{} // aborts blocked sends
	stop      chan struct{} // tells process to drain and exit
	closeOnce sync.Once
	closeErr  error
	wg        sync.WaitGroup
}

// NewQueue starts a queue that hands entries to write from a single
// background goroutine. write is also called from Enqueue when a Block
// policy times out or the queue is closed, so it must be safe for
// concurrent use. flush may be nil.
func NewQueue(cfg QueueConfig, stats *Stats, write func(*core.Entry) error, flush func() error) *Queue {
	cfg.ApplyDefaults()
	q := &Queue{
		queue:          make(chan *core.Entry, cfg.BufferSize),
		overflowPolicy: cfg.OverflowPolicy,
		blockTimeout:   cfg.BlockTimeout,
		drainTimeout:   cfg.DrainTimeout,
		flushInterval:  cfg.FlushInterval,
		flushOnIdle:    cfg.FlushOnIdle,
		onError:        cfg.OnError,
		write:          write,
		flush:          flush,
		stats:          stats,
		closed:         make(chan struct{}),
		stop:           make(chan struct{}),
	}
	q.timers.New = func() interface{} { return NewStoppedTimer() }

	q.wg.Add(1)
	go q.process()
	return q
}

// Enqueue copies the entry onto the queue, applying the overflow policy
// of its level when the queue is full. After Close the entry is written
// synchronously.
func (q *Queue) Enqueue(entry *core.Entry) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closing {
		return q.write(entry)
	}

	e := core.GetEntry()
	e.CopyFrom(entry)

	policy, ok := q.overflowPolicy[e.Level]
	if !ok {
		policy = DropNewest
	}

	switch policy {
	case Block:
		select {
		case q.queue <- e:
			return nil
		default:
		}

		// Queue full, wait up to blockTimeout
		timer := q.timers.Get().(*time.Timer)
		timer.Reset(q.blockTimeout)
		defer func() {
			timer.Stop()
			q.timers.Put(timer)
		}()

		select {
		case q.queue <- e:
			return nil
		case <-timer.C:
			// Timeout - fall back to synchronous write
			q.stats.IncrementBlocked()
		case <-q.closed:
		}
		err := q.write(e)
		core.PutEntry(e)
		return err

	case DropOldest:
		select {
		case q.queue <- e:
			return nil
		default:
		}
		select {
		case old := <-q.queue:
			q.stats.IncrementDropped(old.Level)
			core.PutEntry(old)
		default:
		}
		select {
		case q.queue <- e:
		default:
			// Still full, drop this one
			q.stats.IncrementDropped(e.Level)
			core.PutEntry(e)
		}
		return nil

	default:
		select {
		case q.queue <- e:
		default:
			q.stats.IncrementDropped(e.Level)
			core.PutEntry(e)
		}
		return nil
	}
}

// Len returns the number of queued entries
func (q *Queue) Len() int {
	return len(q.queue)
}

func (q *Queue) process() {
	defer q.wg.Done()

	var tick <-chan time.Time
	if q.flushInterval > 0 {
		ticker := time.NewTicker(q.flushInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		// Close takes priority over queued work so the drain timeout holds
		select {
		case <-q.stop:
			q.drain()
			if q.flush != nil {
				q.closeErr = q.flush()
			}
			return
		default:
		}

		select {
		case entry := <-q.queue:
			q.deliver(entry)
			// Batch drain: process additional queued entries without blocking
		batchDrain:
			for {
				select {
				case <-q.stop:
					break batchDrain
				default:
				}
				select {
				case entry := <-q.queue:
					q.deliver(entry)
				default:
					break batchDrain
				}
			}
			if q.flushOnIdle {
				q.doFlush()
			}
		case <-tick:
			q.doFlush()
		case <-q.stop:
		}
	}
}

// drain writes what is left in the queue until it is empty. Entries
// still queued when the drain timeout passes are counted as dropped.
func (q *Queue) drain() {
	deadline := time.Now().Add(q.drainTimeout)
	for {
		select {
		case entry := <-q.queue:
			if time.Now().After(deadline) {
				q.stats.IncrementDropped(entry.Level)
				core.PutEntry(entry)
				continue
			}
			q.deliver(entry)
		default:
			return
		}
	}
}

func (q *Queue) deliver(entry *core.Entry) {
	if err := q.write(entry); err != nil {
		q.onError(err)
	}
	core.PutEntry(entry)
}

func (q *Queue) doFlush() {
	if q.flush == nil {
		return
	}
	if err := q.flush(); err != nil {
		q.onError(err)
	}
}

// Close stops the background goroutine after draining the queue and
// returns the error of the final flush. Entries enqueued afterwards are
// written synchronously. It is safe to call more than once.
func (q *Queue) Close() error {
	q.closeOnce.Do(func() {
		close(q.closed)
		q.mu.Lock()
		q.closing = true
		q.mu.Unlock()
		close(q.stop)
		q.wg.Wait()
	})
	return q.closeErr
}
