// Package fileantilog provides an antilog that writes formatted entries
// to a file.
//
// The file is rotated when it reaches MaxSize bytes or after
// RotateInterval. A rotated file is renamed to
// "<name>.<2006-01-02T15-04-05.000>" and, with Compress set, gzipped in
// the background. MaxBackups and MaxAge bound how many backups are kept.
//
// SyncFile writes before Log returns; AsyncFile copies entries onto a
// bounded queue drained by a background goroutine. New picks the variant
// based on FileConfig.Async. Output is buffered in both cases: call
// Flush or Close to make sure everything reached the disk.
package fileantilog
