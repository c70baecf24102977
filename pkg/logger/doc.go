// Package logger provides the structured logging interface used across igfetch.
//
// It wraps zerolog with a small API: leveled messages, child loggers carrying
// fields, and *WithFields helpers for one-off structured events.
//
//	logger.Initialize(&cfg.Logging)
//	logger.WithField("url", postURL).Info("resolving post")
//
// Tests use NewTestLogger to capture messages or NewNopLogger to discard them.
package logger
