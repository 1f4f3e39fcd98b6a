// Package log provides the structured logging system shared by all
// attendance services. Loggers are constructed explicitly and passed by
// dependency injection; there is no package-level default logger.
//
// Example:
//
//	logger := log.NewLogger(log.WithLevel(log.InfoLevel), log.WithFormatter(&log.TextFormatter{}))
//	logger = logger.With(log.Component("signup"))
//	logger.Info("session registered", log.Str("session", id))
package log
