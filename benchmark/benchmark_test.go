package benchmark

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/philipp01105/napier/antilog"
	"github.com/philipp01105/napier/antilog/consoleantilog"
	"github.com/philipp01105/napier/antilog/fileantilog"
	"github.com/philipp01105/napier/core"
	"github.com/philipp01105/napier/formatter"
	"github.com/philipp01105/napier/logger"
)

// discardWriter is a no-op writer for benchmarking
type discardWriter struct{}

func (w discardWriter) Write(p []byte) (int, error) {
	return len(p), nil
}

func newConsoleLogger(cfg consoleantilog.ConsoleConfig) (*logger.Logger, func()) {
	if cfg.Writer == nil {
		cfg.Writer = discardWriter{}
	}
	c := consoleantilog.New(cfg)
	return logger.New(c), func() { _ = c.Close() }
}

// Benchmark logger creation
func BenchmarkLoggerCreation(b *testing.B) {
	a := newNoopAntilog()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = logger.NewBuilder().
			WithAntilog(a).
			WithTag("bench").
			Build()
	}
}

// Benchmark With() method (creating child loggers)
func BenchmarkWith(b *testing.B) {
	log := logger.New(newNoopAntilog())

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = log.With("child")
	}
}

// Benchmark registry changes
func BenchmarkRegistryAddRemove(b *testing.B) {
	log := logger.New(newNoopAntilog(), newNoopAntilog())
	a := newNoopAntilog()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		log.Add(a)
		log.Remove(a)
	}
}

// Benchmark basic Info logging through a text console antilog
func BenchmarkInfo(b *testing.B) {
	log, done := newConsoleLogger(consoleantilog.ConsoleConfig{})
	defer done()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		log.Info("test message")
	}
}

// Benchmark Info logging with a tag and an error
func BenchmarkInfoTagged(b *testing.B) {
	log, done := newConsoleLogger(consoleantilog.ConsoleConfig{})
	defer done()
	err := errors.New("connection reset")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		log.Info("test message", logger.Tag("net"), logger.Err(err))
	}
}

// Benchmark disabled level (testing early exit)
func BenchmarkDisabledLevel(b *testing.B) {
	log, done := newConsoleLogger(consoleantilog.ConsoleConfig{
		Filter: antilog.Filter{MinLevel: core.ErrorLevel},
	})
	defer done()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		log.Debug("debug message")
	}
}

// Benchmark the three message forms when the level is disabled
func BenchmarkDisabledMessageForms(b *testing.B) {
	log := logger.New(&noopAntilog{Filter: antilog.Filter{MinLevel: core.ErrorLevel}})
	state := []int{1, 2, 3}

	b.Run("Literal", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			log.Debug("state")
		}
	})
	b.Run("Func", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			log.DebugFunc(func() string { return fmt.Sprint(state) })
		}
	})
	b.Run("Formatted", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			log.Debugf("state %v", state)
		}
	})
}

// Benchmark disabled calls filtered by tag instead of level
func BenchmarkDisabledTag(b *testing.B) {
	log := logger.New(&noopAntilog{Filter: antilog.Filter{Tags: []string{"net"}}})

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		log.Info("filtered", logger.Tag("db"))
	}
}

// Benchmark Text vs JSON formatter
func BenchmarkFormatters(b *testing.B) {
	tests := []struct {
		name      string
		formatter formatter.Formatter
	}{
		{"Text", formatter.NewTextFormatter(formatter.Config{})},
		{"TextShort", formatter.NewTextFormatter(formatter.Config{ShortLevel: true})},
		{"JSON", formatter.NewJSONFormatter(formatter.Config{})},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			log, done := newConsoleLogger(consoleantilog.ConsoleConfig{Formatter: tt.formatter})
			defer done()

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				log.Info("test message", logger.Tag("bench"))
			}
		})
	}
}

// Benchmark sync vs async antilog
func BenchmarkSyncVsAsync(b *testing.B) {
	tests := []struct {
		name  string
		async bool
	}{
		{"Sync", false},
		{"Async", true},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			log, done := newConsoleLogger(consoleantilog.ConsoleConfig{
				Async: tt.async,
				Queue: antilog.QueueConfig{BufferSize: 10000},
			})
			defer done()

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				log.Infof("test message %d", i)
			}
		})
	}
}

// Benchmark logging with caller info
func BenchmarkWithCaller(b *testing.B) {
	tests := []struct {
		name   string
		caller bool
	}{
		{"WithoutCaller", false},
		{"WithCaller", true},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			c := consoleantilog.New(consoleantilog.ConsoleConfig{
				Writer:    discardWriter{},
				Formatter: formatter.NewTextFormatter(formatter.Config{IncludeCaller: tt.caller}),
			})
			defer c.Close()
			log := logger.NewBuilder().WithAntilog(c).WithCaller(tt.caller).Build()

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				log.Info("test message")
			}
		})
	}
}

// Benchmark different log levels
func BenchmarkLogLevels(b *testing.B) {
	log, done := newConsoleLogger(consoleantilog.ConsoleConfig{})
	defer done()

	for _, level := range core.Levels {
		b.Run(level.String(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				log.Log(level, "", nil, "test message")
			}
		})
	}
}

// Benchmark file antilog (writing to an actual file)
func BenchmarkFileAntilog(b *testing.B) {
	for _, async := range []bool{false, true} {
		b.Run(fmt.Sprintf("Async=%t", async), func(b *testing.B) {
			f, err := fileantilog.New(fileantilog.FileConfig{
				Filename: filepath.Join(b.TempDir(), "bench.log"),
				Async:    async,
			})
			if err != nil {
				b.Fatal(err)
			}
			log := logger.New(f)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				log.Info("file message")
			}
			b.StopTimer()
			f.Close()
		})
	}
}

// Benchmark fan-out to several registered antilogs
func BenchmarkAntilogCount(b *testing.B) {
	for _, n := range []int{1, 2, 4, 8} {
		b.Run(fmt.Sprintf("Antilogs%d", n), func(b *testing.B) {
			log := logger.New()
			for i := 0; i < n; i++ {
				log.Add(newNoopAntilog())
			}

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				log.Info("test message")
			}
		})
	}
}

// Benchmark per-antilog gating where only the last antilog is enabled
func BenchmarkAntilogGating(b *testing.B) {
	log := logger.New()
	for i := 0; i < 7; i++ {
		log.Add(&noopAntilog{Filter: antilog.Filter{MinLevel: core.AssertLevel}})
	}
	log.Add(newNoopAntilog())

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		log.Info("test message")
	}
}

// Benchmark overflow policies
func BenchmarkOverflowPolicies(b *testing.B) {
	tests := []struct {
		name   string
		policy antilog.OverflowPolicy
	}{
		{"DropNewest", antilog.DropNewest},
		{"DropOldest", antilog.DropOldest},
		{"Block", antilog.Block},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			log, done := newConsoleLogger(consoleantilog.ConsoleConfig{
				Async: true,
				Queue: antilog.QueueConfig{
					BufferSize:     1, // Small buffer to test overflow
					OverflowPolicy: map[core.Level]antilog.OverflowPolicy{core.InfoLevel: tt.policy},
				},
			})
			defer done()

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				log.Info("test message")
			}
		})
	}
}

// Benchmark different buffer sizes for async antilogs
func BenchmarkBufferSizes(b *testing.B) {
	for _, size := range []int{10, 100, 1000, 10000} {
		b.Run(fmt.Sprintf("BufferSize%d", size), func(b *testing.B) {
			log, done := newConsoleLogger(consoleantilog.ConsoleConfig{
				Async: true,
				Queue: antilog.QueueConfig{BufferSize: size},
			})
			defer done()

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				log.Info("test message")
			}
		})
	}
}

// Benchmark large message handling
func BenchmarkLargeMessages(b *testing.B) {
	for _, size := range []int{100, 1000, 10000} {
		msg := strings.Repeat("x", size)
		b.Run(fmt.Sprintf("Size%d", size), func(b *testing.B) {
			log, done := newConsoleLogger(consoleantilog.ConsoleConfig{})
			defer done()

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				log.Info(msg)
			}
		})
	}
}

// Benchmark the writer path of the console antilog with a writer that is
// not known to be goroutine safe
func BenchmarkLockedWriter(b *testing.B) {
	log, done := newConsoleLogger(consoleantilog.ConsoleConfig{Writer: io.MultiWriter(discardWriter{})})
	defer done()

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			log.Info("parallel message")
		}
	})
}

func BenchmarkNapier_Parallel_Text(b *testing.B) {
	log, done := newConsoleLogger(consoleantilog.ConsoleConfig{Writer: io.Discard})
	defer done()

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			log.Info("parallel message", logger.Tag("bench"))
		}
	})
}

func BenchmarkNapier_Parallel_JSON(b *testing.B) {
	log, done := newConsoleLogger(consoleantilog.ConsoleConfig{
		Writer:    io.Discard,
		Formatter: formatter.NewJSONFormatter(formatter.Config{}),
	})
	defer done()

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			log.Info("parallel message", logger.Tag("bench"))
		}
	})
}

func BenchmarkNapier_Parallel_NoopAntilog(b *testing.B) {
	log := logger.New(newNoopAntilog())

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			log.Info("parallel message")
		}
	})
}

// Benchmark coarse clock vs standard clock
func BenchmarkCoarseClock(b *testing.B) {
	for _, coarse := range []bool{false, true} {
		b.Run(fmt.Sprintf("Coarse=%t", coarse), func(b *testing.B) {
			log := logger.NewBuilder().
				WithAntilog(newNoopAntilog()).
				WithCoarseClock(coarse).
				Build()

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				log.Info("test message")
			}
		})
	}
}
