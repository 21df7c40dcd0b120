// Package logger is the public API of napier. Most users only need to
// import this package and one antilog package.
//
// A Logger dispatches every call to the antilogs of its Registry. The
// registry can change at any time; each call works on the snapshot it
// loaded first, so registration never blocks logging and a call in
// progress is never affected by a concurrent Add or Remove.
//
// The package keeps a default Logger with an empty registry. Nothing is
// logged until an antilog is added:
//
//	logger.Add(consoleantilog.New(consoleantilog.ConsoleConfig{}))
//	logger.Info("ready")
//
// Messages come in three forms. Info takes a string, InfoFunc takes a
// function that is only called when some antilog is enabled, and Infof
// only formats when some antilog is enabled:
//
//	logger.DebugFunc(func() string { return dump(state) })
//
// Tags and errors are attached per call with options, or per logger
// with With:
//
//	db := log.With("db")
//	db.Error("query failed", logger.Err(err))
//
// An antilog that returns an error or panics does not stop the others.
// Its failure goes to the logger's ErrorHandler.
package logger
