// Package metrics exposes the dispatch counters of a Logger and the
// queue statistics of its antilogs as Prometheus metrics.
//
// Register the collector with a registry and serve it as usual:
//
//	prometheus.MustRegister(metrics.NewCollector(log))
//	http.Handle("/metrics", promhttp.Handler())
package metrics

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/philipp01105/napier/antilog"
	"github.com/philipp01105/napier/core"
	"github.com/philipp01105/napier/logger"
)

// Namespace prefixes every metric name
const Namespace = "napier"

// Collector reads its values from the Logger on every scrape, so it
// never goes stale when antilogs are added or removed.
//
// Per-antilog series carry an id label assigned the first time the
// collector sees an antilog, so removing another antilog does not move
// them. Antilogs that are not pointers have no identity and are labelled
// by their registry position instead.
type Collector struct {
	logger *logger.Logger

	mu     sync.Mutex // protects ids and nextID
	ids    map[antilog.Antilog]string
	nextID int

	calls      *prometheus.Desc
	suppressed *prometheus.Desc
	emitted    *prometheus.Desc
	failures   *prometheus.Desc
	antilogs   *prometheus.Desc
	processed  *prometheus.Desc
	dropped    *prometheus.Desc
	blocked    *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector for l. The dispatch counters are
// shared by l and every child created with With.
func NewCollector(l *logger.Logger) *Collector {
	antilogLabels := []string{"id", "type"}
	return &Collector{
		logger: l,
		ids:    make(map[antilog.Antilog]string),
		calls: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "calls_total"),
			"Log calls made.", nil, nil),
		suppressed: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "suppressed_total"),
			"Log calls no antilog was enabled for.", nil, nil),
		emitted: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "emitted_total"),
			"Log calls delivered to at least one antilog.", nil, nil),
		failures: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "antilog", "failures_total"),
			"Antilog Log calls that returned an error or panicked.", nil, nil),
		antilogs: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "", "antilogs"),
			"Registered antilogs.", nil, nil),
		processed: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "antilog", "processed_total"),
			"Entries written by an antilog.", antilogLabels, nil),
		dropped: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "antilog", "dropped_total"),
			"Entries dropped by a full antilog queue.", append(antilogLabels, "level"), nil),
		blocked: prometheus.NewDesc(
			prometheus.BuildFQName(Namespace, "antilog", "blocked_total"),
			"Blocking enqueues that timed out and fell back to a synchronous write.", antilogLabels, nil),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.calls
	ch <- c.suppressed
	ch <- c.emitted
	ch <- c.failures
	ch <- c.antilogs
	ch <- c.processed
	ch <- c.dropped
	ch <- c.blocked
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.logger.Stats()
	ch <- prometheus.MustNewConstMetric(c.calls, prometheus.CounterValue, float64(s.Calls))
	ch <- prometheus.MustNewConstMetric(c.suppressed, prometheus.CounterValue, float64(s.Suppressed))
	ch <- prometheus.MustNewConstMetric(c.emitted, prometheus.CounterValue, float64(s.Emitted))
	ch <- prometheus.MustNewConstMetric(c.failures, prometheus.CounterValue, float64(s.Failures))

	antilogs := c.logger.Antilogs()
	ch <- prometheus.MustNewConstMetric(c.antilogs, prometheus.GaugeValue, float64(len(antilogs)))

	ids := c.assignIDs(antilogs)
	seen := make(map[string]bool, len(antilogs))
	for i, a := range antilogs {
		sp, ok := a.(antilog.StatsProvider)
		if !ok || seen[ids[i]] {
			// The same antilog registered twice reports once
			continue
		}
		seen[ids[i]] = true
		snap := sp.Stats()
		id, typ := ids[i], fmt.Sprintf("%T", a)

		ch <- prometheus.MustNewConstMetric(c.processed, prometheus.CounterValue, float64(snap.ProcessedTotal), id, typ)
		ch <- prometheus.MustNewConstMetric(c.blocked, prometheus.CounterValue, float64(snap.BlockedTotal), id, typ)
		for _, level := range core.Levels {
			ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue,
				float64(snap.DroppedTotal[level]), id, typ, level.String())
		}
	}
}

// assignIDs returns the id label of each antilog. IDs of antilogs no
// longer registered are forgotten.
func (c *Collector) assignIDs(antilogs []antilog.Antilog) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]string, len(antilogs))
	live := make(map[antilog.Antilog]bool, len(antilogs))
	for i, a := range antilogs {
		if reflect.ValueOf(a).Kind() != reflect.Pointer {
			ids[i] = "pos" + strconv.Itoa(i)
			continue
		}
		id, ok := c.ids[a]
		if !ok {
			id = strconv.Itoa(c.nextID)
			c.nextID++
			c.ids[a] = id
		}
		ids[i] = id
		live[a] = true
	}
	for a := range c.ids {
		if !live[a] {
			delete(c.ids, a)
		}
	}
	return ids
}
