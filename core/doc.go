// Package core defines the shared types used across napier.
//
// It provides the Level type (VERBOSE through ASSERT), the Entry type
// that carries a single log call to the antilogs, and caller lookup.
//
// Entry objects are pooled via sync.Pool. The dispatcher gets an Entry
// with GetEntry, hands it to every enabled antilog and returns it with
// PutEntry once the fan-out is done. Antilogs therefore must not keep
// the pointer after Log returns; asynchronous antilogs copy it into an
// Entry of their own with CopyFrom.
//
// CoarseNow is an optional cheaper clock: a background goroutine
// refreshes a cached time.Time every 500µs, which is precise enough for
// log timestamps.
package core
