// Package appenv brings up one ephemeral instance of the chat application
// server for a browser end-to-end test run.
//
// Each Run frees the fixed server port, deletes the scenario's persisted
// chat state, launches the server inside the scenario directory and returns
// once the server prints its readiness line. The server is left running for
// the browser tests; Run never stops it.
//
// # Basic Usage
//
//	import "github.com/giantswarm/appenv"
//
//	srv, err := appenv.Run(ctx, "remove_message", appenv.ModeAsync)
//	if err != nil {
//	    log.Fatal(err) // e.g. "... exited before becoming ready (exit code 1)"
//	}
//	defer srv.Close()
//	// Drive the browser against http://localhost:8000 ...
//	_ = srv.Stop(10 * time.Second)
//
// # Layout
//
// By default scenarios live in cypress/e2e/<scenario>/ with main.py,
// main_sync.py and main_async.py entry files, and the server is launched as
//
//	poetry run -C <abs src> chainlit run <entry> -h -c
//
// Every part of that is configurable through RunOption values; see
// WithLauncher for the placeholders.
//
// # Concurrency
//
// Concurrent Run calls for the same port on one host are serialized through a
// file lock under WithLockDir, so one cycle's port reclaim never kills the
// server another cycle just launched.
package appenv
