// Package catalog merges title metadata from local catalog files into an
// in-memory store keyed by title ID.
package catalog

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"sync"

	"github.com/spf13/afero"
)

// TitleIDPattern matches a title identifier: four uppercase letters
// followed by digits. Catalog fields are messy, so the pattern is searched
// anywhere inside the raw value rather than matched against the whole of
// it.
var TitleIDPattern = regexp.MustCompile(`[A-Z]{4}\d+`)

// ExtractTitleID pulls the first title identifier out of a raw catalog
// field. The second return is false when the field contains none.
func ExtractTitleID(raw string) (string, bool) {
	id := TitleIDPattern.FindString(raw)
	return id, id != ""
}

// Store is the merged metadata index. Later ingests win identifier
// conflicts; each overwrite is logged and retained so precedence stays
// observable.
type Store struct {
	mu         sync.RWMutex
	records    map[string]Record
	overwrites []Overwrite
}

// Overwrite records one identifier conflict resolved by ingestion order.
type Overwrite struct {
	TitleID   string
	OldSource string
	NewSource string
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{records: make(map[string]Record)}
}

// Ingest merges records into the store and returns how many were stored.
// The count includes overwrites, so it can exceed the growth of Len.
func (s *Store) Ingest(records []Record) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := 0
	for _, r := range records {
		if prev, ok := s.records[r.TitleID]; ok {
			slog.Debug("catalog record overwritten",
				"title_id", r.TitleID,
				"old_source", prev.Source,
				"source", r.Source)
			s.overwrites = append(s.overwrites, Overwrite{
				TitleID:   r.TitleID,
				OldSource: prev.Source,
				NewSource: r.Source,
			})
		}
		s.records[r.TitleID] = r
		stored++
	}
	return stored
}

// Overwrites returns the identifier conflicts seen so far, in ingestion
// order.
func (s *Store) Overwrites() []Overwrite {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Overwrite, len(s.overwrites))
	copy(out, s.overwrites)
	return out
}

// Lookup returns the record for a title ID.
func (s *Store) Lookup(titleID string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[titleID]
	return r, ok
}

// Len returns the number of distinct titles in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Records returns all records sorted by title ID.
func (s *Store) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TitleID < out[j].TitleID })
	return out
}

// LoadResult reports one catalog file's ingestion.
type LoadResult struct {
	File    string
	Format  string
	Records int
	Err     error
}

type sourceFile struct {
	path string
	src  Source
}

// discover lists recognized catalog files in ingestion order: sources by
// precedence, filenames sorted within each source. Later files win
// identifier conflicts, so order is part of the contract.
func discover(fsys afero.Fs, dir string) ([]sourceFile, error) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog dir: %w", err)
	}

	var files []sourceFile
	for _, src := range List() {
		var names []string
		for _, info := range infos {
			if info.IsDir() || !src.Matches(info.Name()) {
				continue
			}
			names = append(names, info.Name())
		}
		sort.Strings(names)
		for _, name := range names {
			files = append(files, sourceFile{path: filepath.Join(dir, name), src: src})
		}
	}
	return files, nil
}

// DiscoverFiles lists the catalog files LoadDir would ingest, in order.
func DiscoverFiles(fsys afero.Fs, dir string) ([]string, error) {
	files, err := discover(fsys, dir)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}

// LoadDir ingests every recognized catalog file under dir into store. A
// file that fails to parse contributes zero records and is reported in
// its LoadResult; the remaining files still load.
func LoadDir(fsys afero.Fs, dir string, store *Store) ([]LoadResult, error) {
	files, err := discover(fsys, dir)
	if err != nil {
		return nil, err
	}

	results := make([]LoadResult, 0, len(files))
	for _, f := range files {
		res := LoadResult{File: f.path, Format: f.src.Name()}
		records, err := f.src.Parse(fsys, f.path)
		if err != nil {
			res.Err = err
			slog.Warn("catalog file skipped", "file", f.path, "error", err)
		} else {
			res.Records = store.Ingest(records)
		}
		results = append(results, res)
	}
	return results, nil
}
