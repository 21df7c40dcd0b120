package remoteantilog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/philipp01105/napier/antilog"
	"github.com/philipp01105/napier/core"
	"github.com/philipp01105/napier/formatter"
)

// ErrNoURL is returned by New when RemoteConfig.URL is empty
var ErrNoURL = errors.New("remoteantilog: URL is required")

// ContentType is the media type of a batch body: one JSON entry per line
const ContentType = "application/x-ndjson"

// RemoteConfig holds configuration for the remote antilog
type RemoteConfig struct {
	// Filter selects the levels and tags this antilog records
	Filter antilog.Filter
	// URL receives batches as POST requests
	URL string
	// APIKey is sent as a bearer token when set
	APIKey string
	// Service is sent in the X-Service header when set
	Service string
	// InstanceID identifies this process (default: a random UUID, or the
	// one stored in InstanceIDFile)
	InstanceID string
	// InstanceIDFile keeps the instance ID across restarts. The file is
	// created with a new UUID when it does not exist.
	InstanceIDFile string
	// Client sends the requests (default: a client with a 5s timeout)
	Client *http.Client
	// Formatter encodes each entry (default: JSONFormatter)
	Formatter formatter.Formatter
	// BatchSize sends a batch once it holds this many entries (default: 100)
	BatchSize int
	// Queue configures the async queue. FlushInterval defaults to 1s and
	// bounds how long an incomplete batch waits.
	Queue antilog.QueueConfig
}

// applyRemoteDefaults fills in zero-value fields with defaults.
func applyRemoteDefaults(cfg *RemoteConfig) {
	if cfg.InstanceID == "" {
		cfg.InstanceID = loadInstanceID(cfg.InstanceIDFile)
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 5 * time.Second}
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.NewJSONFormatter(formatter.Config{})
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Queue.FlushInterval == 0 {
		cfg.Queue.FlushInterval = time.Second
	}
	cfg.Queue.ApplyDefaults()
}

// loadInstanceID reads the ID stored at path, creating it when missing.
// Without a usable path the ID is ephemeral.
func loadInstanceID(path string) string {
	if path == "" {
		return uuid.NewString()
	}
	if data, err := os.ReadFile(path); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id
		}
	}

	id := uuid.NewString()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
		_ = os.WriteFile(path, []byte(id), 0644)
	}
	return id
}

// Remote ships entries to an HTTP endpoint in batches. Entries are
// queued by Log and sent from a background goroutine once BatchSize is
// reached, every FlushInterval, and on Close.
type Remote struct {
	filter     antilog.Filter
	url        string
	apiKey     string
	service    string
	instanceID string
	client     *http.Client
	formatter  formatter.Formatter
	bufferFmt  formatter.BufferFormatter
	batchSize  int
	stats      *antilog.Stats
	queue      *antilog.Queue

	mu     sync.Mutex // protects batch, count and closed
	batch  bytes.Buffer
	count  int
	closed bool
}

// New creates a remote antilog and starts its background goroutine
func New(cfg RemoteConfig) (*Remote, error) {
	if cfg.URL == "" {
		return nil, ErrNoURL
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("remoteantilog: parse URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("remoteantilog: unsupported URL scheme %q", u.Scheme)
	}
	applyRemoteDefaults(&cfg)

	r := &Remote{
		filter:     cfg.Filter,
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		service:    cfg.Service,
		instanceID: cfg.InstanceID,
		client:     cfg.Client,
		formatter:  cfg.Formatter,
		batchSize:  cfg.BatchSize,
		stats:      antilog.NewStats(),
	}
	r.bufferFmt, _ = cfg.Formatter.(formatter.BufferFormatter)
	r.queue = antilog.NewQueue(cfg.Queue, r.stats, r.add, r.Flush)
	return r, nil
}

// InstanceID returns the ID sent in the X-Instance-ID header
func (r *Remote) InstanceID() string {
	return r.instanceID
}

// IsEnabled implements antilog.Antilog
func (r *Remote) IsEnabled(level core.Level, tag string) bool {
	return r.filter.Enabled(level, tag)
}

// Log implements antilog.Antilog. The entry is copied before it is
// queued. After Close it returns os.ErrClosed.
func (r *Remote) Log(entry *core.Entry) error {
	return r.queue.Enqueue(entry)
}

// add appends an entry to the current batch and sends the batch when full
func (r *Remote) add(entry *core.Entry) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return os.ErrClosed
	}
	if r.bufferFmt != nil {
		r.bufferFmt.FormatEntry(entry, &r.batch)
	} else {
		data, err := r.formatter.Format(entry)
		if err != nil {
			r.mu.Unlock()
			return err
		}
		r.batch.Write(data)
	}
	r.count++

	if r.count < r.batchSize {
		r.mu.Unlock()
		return nil
	}
	body, n := r.takeBatch()
	r.mu.Unlock()
	return r.send(body, n)
}

// takeBatch detaches the current batch. Callers hold mu.
func (r *Remote) takeBatch() ([]byte, int) {
	body := bytes.Clone(r.batch.Bytes())
	n := r.count
	r.batch.Reset()
	r.count = 0
	return body, n
}

// Flush sends the pending batch, if any
func (r *Remote) Flush() error {
	r.mu.Lock()
	if r.count == 0 {
		r.mu.Unlock()
		return nil
	}
	body, n := r.takeBatch()
	r.mu.Unlock()
	return r.send(body, n)
}

func (r *Remote) send(body []byte, n int) error {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("remoteantilog: %w", err)
	}
	req.Header.Set("Content-Type", ContentType)
	req.Header.Set("X-Instance-ID", r.instanceID)
	if r.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.apiKey)
	}
	if r.service != "" {
		req.Header.Set("X-Service", r.service)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("remoteantilog: send %d entries: %w", n, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("remoteantilog: send %d entries: HTTP %d", n, resp.StatusCode)
	}
	r.stats.AddProcessed(uint64(n))
	return nil
}

// Stats returns a snapshot of the current statistics
func (r *Remote) Stats() antilog.Snapshot {
	return r.stats.GetSnapshot()
}

// Close sends everything still queued and stops the background
// goroutine. It returns the error of the final send.
func (r *Remote) Close() error {
	err := r.queue.Close()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return err
	}
	r.closed = true
	if r.count == 0 {
		r.mu.Unlock()
		return err
	}
	// Entries that arrived between the queue's final flush and now
	body, n := r.takeBatch()
	r.mu.Unlock()
	return multierr.Append(err, r.send(body, n))
}
