// Package consoleantilog provides an antilog that writes formatted
// entries to any io.Writer (default: os.Stdout).
//
// There are two variants:
//
//   - SyncConsole writes before Log returns. It uses TryLock so that
//     uncontended calls format into one reused buffer.
//   - AsyncConsole copies each entry onto a bounded queue with a
//     per-level OverflowPolicy and writes it from a background goroutine.
//
// New picks the variant based on ConsoleConfig.Async.
package consoleantilog
