package logging

import "github.com/vvka-141/pgetl/pkg/pgetl"

// ProgressLogger reports load progress as plain log lines:
//
//	72 files found in data/song_data
//	1/72 files processed.
type ProgressLogger struct {
	logger pgetl.Logger
}

// NewProgressLogger creates a ProgressLogger that writes through logger.
func NewProgressLogger(logger pgetl.Logger) *ProgressLogger {
	return &ProgressLogger{logger: logger}
}

// FilesFound logs the number of files discovered under root.
func (p *ProgressLogger) FilesFound(root string, count int) {
	p.logger.Info("%d files found in %s", count, root)
}

// FileProcessed logs that done of total files have been committed.
func (p *ProgressLogger) FileProcessed(done, total int) {
	p.logger.Info("%d/%d files processed.", done, total)
}

// FileFailed logs the file the run stopped at.
func (p *ProgressLogger) FileFailed(path string) {
	p.logger.Verbose("Stopped at %s", path)
}

var _ pgetl.ProgressReporter = (*ProgressLogger)(nil)
