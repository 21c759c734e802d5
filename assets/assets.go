// Package assets reads engine asset files (shaders, textures, meshes, scenes)
// by slash-separated names relative to an asset root.
package assets

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("asset not found")

type Source interface {
	ReadFile(name string) ([]byte, error)
}

// Clean normalizes an asset name: forward slashes, no leading "./" or "/".
func Clean(name string) string {
	name = path.Clean(strings.ReplaceAll(name, `\`, "/"))
	return strings.TrimPrefix(name, "/")
}

// Dir reads assets from a directory on disk.
type Dir struct {
	path string
}

func NewDir(path string) *Dir {
	return &Dir{path: path}
}

func (d *Dir) Path() string { return d.path }

func (d *Dir) ReadFile(name string) ([]byte, error) {
	full := filepath.Join(d.path, filepath.FromSlash(Clean(name)))
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "%q", name)
		}
		return nil, errors.Wrapf(err, "read %q", full)
	}
	return data, nil
}

// Memory is an in-memory Source that counts reads.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
	reads map[string]int
}

func NewMemory(files map[string]string) *Memory {
	m := &Memory{
		files: make(map[string][]byte),
		reads: make(map[string]int),
	}
	for name, data := range files {
		m.files[Clean(name)] = []byte(data)
	}
	return m
}

func (m *Memory) Add(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[Clean(name)] = data
}

func (m *Memory) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	name = Clean(name)
	m.reads[name]++
	data, ok := m.files[name]
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "%q", name)
	}
	return append([]byte(nil), data...), nil
}

// Reads returns how many times name was requested, found or not.
func (m *Memory) Reads(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[Clean(name)]
}

func (m *Memory) TotalReads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.reads {
		total += n
	}
	return total
}

func (m *Memory) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
