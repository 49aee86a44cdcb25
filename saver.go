package qrstudio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Saver persists a downloaded file under the given name.
type Saver interface {
	Save(name string, data []byte) error
}

// DirSaver writes files into Dir, creating it when missing.
type DirSaver struct {
	Dir string
}

func (d DirSaver) Save(name string, data []byte) error {
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	// Only the base name is honoured; a download never picks its directory.
	path := filepath.Join(d.Dir, filepath.Base(name))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// MemorySaver keeps saved files in memory.
type MemorySaver struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *MemorySaver) Save(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.files == nil {
		m.files = make(map[string][]byte)
	}

	m.files[name] = append([]byte(nil), data...)

	return nil
}

func (m *MemorySaver) File(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.files[name]

	return data, ok
}

func (m *MemorySaver) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.files)
}
