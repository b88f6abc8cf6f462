// Package logging wraps log/slog with cartshelf's console and JSON handlers.
//
// The console handler prints a compact single-line format with the component
// attribute as a message prefix. NewFromConfig tees output to a log file under
// the configured log directory. Attribute helpers and standardized field keys
// keep command output consistent.
package logging
