package discovery

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/vvka-141/pgetl/internal/files/filesystem"
	"github.com/vvka-141/pgetl/pkg/pgetl"
)

// Discoverer implements pgetl.FileDiscoverer over a FileSystemProvider.
type Discoverer struct {
	fsProvider filesystem.FileSystemProvider
}

// New creates a Discoverer.
// Panics if fsProvider is nil.
func New(fsProvider filesystem.FileSystemProvider) *Discoverer {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Discoverer{fsProvider: fsProvider}
}

// Discover returns every data file under root in lexical walk order.
// A missing root, or one that is not a directory, is an error.
func (d *Discoverer) Discover(ctx context.Context, root string) ([]string, error) {
	dir, err := d.fsProvider.Open(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", root, err)
	}

	var paths []string
	err = dir.Walk(ctx, func(file filesystem.File) error {
		if file.IsDir() || !IsDataFile(file.RelativePath()) {
			return nil
		}
		paths = append(paths, file.Path())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return paths, nil
}

func (d *Discoverer) ReadFile(ctx context.Context, p string) ([]byte, error) {
	return d.fsProvider.ReadFile(ctx, p)
}

// IsDataFile reports whether the last element of p names a data file.
// Matching is case-sensitive and skips hidden files, as shell globs do.
func IsDataFile(p string) bool {
	name := path.Base(p)
	return strings.HasSuffix(name, pgetl.DataFileExtension) && !strings.HasPrefix(name, ".")
}

var _ pgetl.FileDiscoverer = (*Discoverer)(nil)
