package pgetl

import "context"

// Loader is the main interface for executing a load run.
// Implementations handle connection, optional schema creation, and loading
// song data followed by log data.
type Loader interface {
	// Load executes a run using the provided configuration.
	// It returns an error if the run fails at any stage.
	Load(ctx context.Context, config LoadConfig) error
}
