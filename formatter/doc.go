// Package formatter defines how log entries are serialized into bytes.
//
// It exposes three interfaces: Formatter, which returns a []byte,
// WriterFormatter, which writes directly to an io.Writer, and
// BufferFormatter, which appends into a caller-owned bytes.Buffer.
// Antilogs check for the optional interfaces at construction time and
// prefer them when available.
//
// The TextFormatter writes one line per entry:
//
//	2026-10-17T09:30:00Z [WARNING] [net] retrying request error="connection reset"
//
// or, with ShortLevel, the logcat-like layout:
//
//	2026-10-17T09:30:00Z W/net: retrying request error="connection reset"
//
// The JSONFormatter writes one object per line with the keys time, level,
// tag, message, error and caller; tag and error are omitted when empty.
//
// Both use a pooled bytes.Buffer internally and Go's Append-style
// functions to avoid per-call allocations. Buffers larger than 64 KiB
// are not returned to the pool.
package formatter
