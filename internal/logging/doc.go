// Package logging provides concrete implementations of the pgetl.Logger
// and pgetl.ProgressReporter interfaces.
//
// Available implementations:
//   - ConsoleLogger: Writes formatted messages to stderr with thread-safe output
//   - NullLogger: Discards all messages (useful for testing)
//   - ProgressLogger: Reports per-file load progress through a Logger
//
// All implementations are safe for concurrent use by multiple goroutines.
package logging
