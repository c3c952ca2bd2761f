package filesystem

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
)

// MemoryFileSystem is an in-memory tree rooted at an absolute slash path.
// It is not safe for concurrent mutation.
type MemoryFileSystem struct {
	root  string
	files map[string][]byte
	dirs  map[string]bool
}

func NewMemoryFileSystem(root string) *MemoryFileSystem {
	root = path.Clean("/" + root)
	return &MemoryFileSystem{
		root:  root,
		files: make(map[string][]byte),
		dirs:  map[string]bool{root: true},
	}
}

func (m *MemoryFileSystem) abs(p string) string {
	if path.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Join(m.root, p)
}

// AddFile adds a file and its parent directories. Relative paths are
// resolved against the root.
func (m *MemoryFileSystem) AddFile(p, content string) {
	p = m.abs(p)
	m.files[p] = []byte(content)
	m.AddDir(path.Dir(p))
}

// AddDir adds an empty directory and its parents.
func (m *MemoryFileSystem) AddDir(p string) {
	for p = m.abs(p); p != "/" && !m.dirs[p]; p = path.Dir(p) {
		m.dirs[p] = true
	}
}

func (m *MemoryFileSystem) Open(ctx context.Context, p string) (Directory, error) {
	p = m.abs(p)
	if _, isFile := m.files[p]; isFile {
		return nil, fmt.Errorf("path is not a directory: %s", p)
	}
	if !m.dirs[p] {
		return nil, fmt.Errorf("directory not found: %s", p)
	}
	return &memoryDirectory{absPath: p, fs: m}, nil
}

func (m *MemoryFileSystem) ReadFile(ctx context.Context, p string) ([]byte, error) {
	content, ok := m.files[m.abs(p)]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", p)
	}
	return content, nil
}

type memoryDirectory struct {
	absPath string
	fs      *MemoryFileSystem
}

func (d *memoryDirectory) Path() string { return d.absPath }

func (d *memoryDirectory) Walk(ctx context.Context, fn func(File) error) error {
	prefix := strings.TrimSuffix(d.absPath, "/") + "/"

	var entries []*entry
	for p := range d.fs.files {
		if strings.HasPrefix(p, prefix) {
			entries = append(entries, &entry{path: p, relPath: strings.TrimPrefix(p, prefix)})
		}
	}
	for p := range d.fs.dirs {
		if strings.HasPrefix(p, prefix) {
			entries = append(entries, &entry{path: p, relPath: strings.TrimPrefix(p, prefix), isDir: true})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].path < entries[j].path })

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}
