// Package log builds the slog loggers used by todolint.
//
// Log records go to stderr so that they never mix with the report on
// stdout. By default only warnings and errors are printed; verbose mode
// enables debug records such as per-file scan summaries.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
