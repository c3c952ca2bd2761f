package filesystem

import (
	"context"
)

// File is one entry visited during a walk.
type File interface {
	// Path returns the absolute path or URI of the entry.
	Path() string

	// RelativePath returns the path relative to the walked root, slash separated.
	RelativePath() string

	IsDir() bool
}

// Directory is a root that can be traversed.
type Directory interface {
	Path() string

	// Walk calls fn for every entry below the root in lexical order.
	// Walking stops at the first error returned by fn.
	Walk(ctx context.Context, fn func(File) error) error
}

// FileSystemProvider opens roots and reads files.
type FileSystemProvider interface {
	// Open returns the directory at path. A missing path or one that is not
	// a directory is an error.
	Open(ctx context.Context, path string) (Directory, error)

	ReadFile(ctx context.Context, path string) ([]byte, error)
}

type entry struct {
	path    string
	relPath string
	isDir   bool
}

func (e *entry) Path() string         { return e.path }
func (e *entry) RelativePath() string { return e.relPath }
func (e *entry) IsDir() bool          { return e.isDir }
