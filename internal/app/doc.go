// Package app wires the local license API together: configuration,
// logging, OpenTelemetry, the license service, the chi router, and the
// HTTP server lifecycle.
//
// # Initialization Flow
//
// The typical initialization sequence:
//
//	1. Load configuration from environment and files
//	2. Initialize logging and observability
//	3. Load the verifier public key and create the license service
//	4. Set up HTTP handlers and middleware
//	5. Configure and start the HTTP server
//	6. Set up graceful shutdown handlers
//
// # Graceful Shutdown
//
// The package handles SIGINT and SIGTERM. Active requests are drained,
// OpenTelemetry providers are flushed, and the log file is closed. The
// app does not call os.Exit() directly; initialization errors are
// returned to main.
package app
