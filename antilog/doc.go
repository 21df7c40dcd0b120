// Package antilog defines the Antilog interface that every napier
// backend implements, together with the building blocks the built-in
// backends share.
//
// An Antilog answers two questions: IsEnabled(level, tag), a cheap
// predicate the logger asks before doing any work, and Log(entry),
// which records a call. Most implementations embed a Filter, which
// provides a minimum level plus tag allow and deny lists.
//
// Asynchronous antilogs send entries to a bounded channel processed by
// a background goroutine. When the queue is full, each one applies a
// per-level OverflowPolicy: DropNewest (default up to WARNING),
// DropOldest, or Block with a configurable timeout (default for ERROR
// and ASSERT), after which the entry is written synchronously. Dropped,
// blocked and processed counts are tracked by Stats and exposed through
// StatsProvider.
//
// Built-in antilogs live in sub-packages:
//
//   - consoleantilog writes formatted entries to any io.Writer (default: stdout).
//   - fileantilog writes to a file rotated by size or interval, keeps
//     backups by count and age, and can gzip them.
//   - remoteantilog ships batches of JSON entries to an HTTP endpoint.
//   - zapantilog, logrusantilog, zerologantilog and slogantilog forward
//     entries to an existing zap, logrus, zerolog or slog logger.
//
// Multi groups several antilogs into one, and Func turns a function
// into an antilog, which is handy in tests.
package antilog
