package mocks

import (
	"fmt"
	"sync"

	"github.com/user/journalpage/pkg/ports"
)

// FileSystem is an in-memory mock of ports.FileSystem.
type FileSystem struct {
	mu    sync.Mutex
	files map[string][]byte

	WriteFileFunc func(path string, data []byte) error
}

// NewFileSystem creates an empty mock filesystem.
func NewFileSystem() *FileSystem {
	return &FileSystem{files: map[string][]byte{}}
}

func (m *FileSystem) ReadFile(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return data, nil
}

func (m *FileSystem) WriteFile(path string, data []byte) error {
	if m.WriteFileFunc != nil {
		return m.WriteFileFunc(path, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *FileSystem) MkdirAll(path string) error {
	return nil
}

func (m *FileSystem) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok, nil
}

func (m *FileSystem) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

// GetFile returns a stored file's contents and whether it exists.
func (m *FileSystem) GetFile(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	return data, ok
}

// GetAllFiles returns a copy of the stored files.
func (m *FileSystem) GetAllFiles() map[string][]byte {
	return m.Files()
}

// Files returns a copy of the stored files.
func (m *FileSystem) Files() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]byte, len(m.files))
	for k, v := range m.files {
		out[k] = v
	}
	return out
}

var _ ports.FileSystem = (*FileSystem)(nil)
