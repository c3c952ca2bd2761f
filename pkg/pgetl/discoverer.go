package pgetl

import "context"

// FileDiscoverer finds input files under a root and reads them.
// Implementations must be safe for concurrent use by multiple goroutines.
type FileDiscoverer interface {
	// Discover returns the paths of every data file found at any depth under root.
	// Paths are absolute for local roots and full s3:// URIs for S3 roots.
	Discover(ctx context.Context, root string) ([]string, error)

	// ReadFile returns the content of a path returned by Discover.
	ReadFile(ctx context.Context, path string) ([]byte, error)
}
