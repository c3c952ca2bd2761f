package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type osDirectory struct {
	absPath string
}

func (d *osDirectory) Path() string { return d.absPath }

// Walk uses filepath.WalkDir, which visits entries in lexical order.
func (d *osDirectory) Walk(ctx context.Context, fn func(File) error) error {
	return filepath.WalkDir(d.absPath, func(path string, de fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == d.absPath {
			return nil
		}

		relPath, err := filepath.Rel(d.absPath, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		return fn(&entry{path: path, relPath: filepath.ToSlash(relPath), isDir: de.IsDir()})
	})
}

// OSFileSystem reads local directories.
type OSFileSystem struct{}

func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

func (p *OSFileSystem) Open(ctx context.Context, path string) (Directory, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	return &osDirectory{absPath: absPath}, nil
}

func (p *OSFileSystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}
