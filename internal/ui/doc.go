// Package ui formats internal events as concise console messages.
//
// Structured telemetry stays on the zap loggers; this package translates the
// same events into short human-readable lines for interactive sessions.
package ui
