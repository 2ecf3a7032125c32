// Package logging provides structured logging for slhttpd.
//
// This package wraps a zap logger with package-level helpers so that the
// adapter, the network-processor emulator and the CLI all log the same way.
//
// # Log Levels
//
//   - Debug: token dispatch details, hex dumps of token values
//   - Info: server start/stop, configuration changes, mDNS advertisement
//   - Warn: dropped events, callbacks returning bad lengths
//   - Error: listener failures, startup errors
//
// # Structured Logging
//
//	logging.Info("HTTP server started",
//	    zap.Uint16("port", 80),
//	    zap.String("hostname", "slhttpd"),
//	)
//
// Token events have a dedicated helper:
//
//	logging.LogTokenEvent("get", "AB", true, 5)
//
// # Configuration
//
// The level comes from the caller or the SLHTTPD_LOG_LEVEL environment
// variable. With neither set the logger is a no-op:
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
