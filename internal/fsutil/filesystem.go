// Package fsutil provides filesystem abstractions for testability.
package fsutil

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FileSystem abstracts the filesystem operations report writers need.
// Use OSFileSystem for production; MemoryFileSystem for testing.
type FileSystem interface {
	// Create creates or truncates the named file.
	Create(name string) (io.WriteCloser, error)

	// MkdirAll creates a directory and all necessary parents.
	MkdirAll(path string, perm os.FileMode) error
}

// OSFileSystem implements FileSystem using the os package.
type OSFileSystem struct{}

// Create creates the named file.
func (OSFileSystem) Create(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// MkdirAll creates a directory and all necessary parents.
func (OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// MemoryFileSystem implements FileSystem in memory for tests. Beyond the
// interface it offers ReadFile, Exists, and Files for assertions.
type MemoryFileSystem struct {
	mu    sync.Mutex
	files map[string][]byte
	dirs  map[string]bool
}

// NewMemoryFileSystem creates an empty in-memory filesystem.
func NewMemoryFileSystem() *MemoryFileSystem {
	return &MemoryFileSystem{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

type memoryFile struct {
	fs   *MemoryFileSystem
	name string
	buf  bytes.Buffer
}

func (f *memoryFile) Write(p []byte) (int, error) {
	return f.buf.Write(p)
}

func (f *memoryFile) Close() error {
	f.fs.mu.Lock()
	defer f.fs.mu.Unlock()
	f.fs.files[f.name] = append([]byte(nil), f.buf.Bytes()...)
	return nil
}

// Create creates an in-memory file; contents become visible on Close.
func (m *MemoryFileSystem) Create(name string) (io.WriteCloser, error) {
	return &memoryFile{fs: m, name: filepath.Clean(name)}, nil
}

// MkdirAll records the directory and its parents.
func (m *MemoryFileSystem) MkdirAll(path string, _ os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := filepath.Clean(path)
	for p != "." && p != string(filepath.Separator) {
		m.dirs[p] = true
		p = filepath.Dir(p)
	}
	return nil
}

// ReadFile returns a copy of the stored contents.
func (m *MemoryFileSystem) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filepath.Clean(name)]
	if !ok {
		return nil, fmt.Errorf("file %q: %w", name, os.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

// Exists reports whether a file or directory was created.
func (m *MemoryFileSystem) Exists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := filepath.Clean(name)
	if _, ok := m.files[n]; ok {
		return true
	}
	return m.dirs[n]
}

// Files returns the sorted names of all stored files.
func (m *MemoryFileSystem) Files() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for n := range m.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
