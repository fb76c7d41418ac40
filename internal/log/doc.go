// Package log builds the slog loggers used by labsite.
//
// Every logger returned here is wrapped in a RedactHandler, which masks
// session identifiers, cookies and credentials before they reach the
// output. The serve command logs session ids and request headers at debug
// level, and those lines end up in shared terminals and CI logs.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("session created", "session", id) // session=***REDACTED***
//	slog.SetDefault(logger)
//
// Verbose loggers emit Debug and above; otherwise only Warn and above.
package log
