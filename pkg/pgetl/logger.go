package pgetl

// Logger provides a pluggable logging interface for pgetl operations.
// Implementations must be safe for concurrent use by multiple goroutines.
type Logger interface {
	// Verbose logs detailed diagnostic information.
	// Only logged when verbose mode is enabled.
	Verbose(format string, args ...interface{})

	// Info logs informational messages about normal operations.
	// Always logged regardless of verbose mode.
	Info(format string, args ...interface{})

	// Error logs error messages.
	// Always logged regardless of verbose mode.
	Error(format string, args ...interface{})
}

// ProgressReporter receives per-root progress while files are loaded.
type ProgressReporter interface {
	// FilesFound is called once per root after discovery.
	FilesFound(root string, count int)

	// FileProcessed is called after the file at position done (1-based) commits.
	FileProcessed(done, total int)

	// FileFailed is called when the run stops at path, before the error is returned.
	FileFailed(path string)
}
