package catalog

import (
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/afero"
)

// Source parses one catalog file format into records.
type Source interface {
	// Name returns the format name (e.g., "csv").
	Name() string
	// Matches reports whether this source claims the given filename.
	Matches(name string) bool
	// Parse reads all records from one catalog file. Rows without a
	// recoverable title ID or display name are dropped, not errors.
	Parse(fsys afero.Fs, path string) ([]Record, error)
	// Precedence orders ingestion. Higher-precedence sources load later
	// and win identifier conflicts.
	Precedence() int
}

var (
	mu      sync.RWMutex
	sources = make(map[string]Source)
)

// Register adds a source to the global registry.
func Register(s Source) {
	mu.Lock()
	defer mu.Unlock()
	sources[s.Name()] = s
}

// Get returns a source by format name.
func Get(name string) (Source, error) {
	mu.RLock()
	defer mu.RUnlock()
	s, ok := sources[name]
	if !ok {
		return nil, fmt.Errorf("unknown catalog format: %s", name)
	}
	return s, nil
}

// List returns all registered sources in ingestion order.
func List() []Source {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Source, 0, len(sources))
	for _, s := range sources {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Precedence() != out[j].Precedence() {
			return out[i].Precedence() < out[j].Precedence()
		}
		return out[i].Name() < out[j].Name()
	})
	return out
}
