// Package log builds the console logger used by the siruta commands,
// on top of the standard slog package.
//
// Progress messages (Debug and Info) go to standard output. Diagnostics
// (Warn and Error), such as a county document that could not be fetched,
// go to standard error, so that redirecting stdout keeps failures visible.
//
// # Usage
//
//	logger := log.NewConsoleLogger(os.Stdout, os.Stderr, verbose)
//	slog.SetDefault(logger)
//
// Records are rendered by slog.TextHandler without timestamps. Passwords
// embedded in URL attributes are redacted.
package log
