// Package log is the structured logging facade of requestbuilder.
//
// The client and the logging behavior depend only on the Logger interface.
// ZerologAdapter backs it with github.com/rs/zerolog; NoopLogger discards
// everything and is used when no logger is configured.
package log
