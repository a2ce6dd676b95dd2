// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports a human-friendly console
// encoding for interactive use and a JSON encoding for scripted runs.
//
// # Output
//
// Logs are always written to stderr. Stdout is reserved for the settings prompts and
// for the relayed server console, so piping msc's stdout never mixes in log lines.
// Level colours are only emitted when stderr is a terminal.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Format: json or console
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info", Format: "console"})
//	log = logger.ForServer(log, "/srv/minecraft", "server.jar")
//	log.Info("Server started", zap.Int("pid", pid))
package logger
