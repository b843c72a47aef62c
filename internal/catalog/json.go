package catalog

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

func init() {
	Register(&jsonSource{})
}

// jsonSource reads the update-scan result format: a top-level "results"
// array where each entry describes one title lookup. Only entries with
// status "found" and an updates structure carry usable metadata. JSON
// catalogs load after CSV ones and win identifier conflicts.
type jsonSource struct{}

type jsonResult struct {
	Status        string          `json:"status"`
	TitleID       string          `json:"title_id"`
	TitleName     string          `json:"title_name"`
	SonyGameName  string          `json:"sony_game_name"`
	LatestVersion string          `json:"latest_version"`
	Updates       json.RawMessage `json:"updates"`
}

type jsonCatalog struct {
	Results []jsonResult `json:"results"`
}

func (*jsonSource) Name() string    { return "json" }
func (*jsonSource) Precedence() int { return 2 }

func (*jsonSource) Matches(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}

// hasUpdates reports whether the raw updates value holds anything. A
// missing key, null, or an empty container is a scan miss.
func hasUpdates(raw json.RawMessage) bool {
	switch strings.TrimSpace(string(raw)) {
	case "", "null", "{}", "[]", `""`:
		return false
	}
	return true
}

func (s *jsonSource) Parse(fsys afero.Fs, path string) ([]Record, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var doc jsonCatalog
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	source := filepath.Base(path)
	var records []Record
	for _, res := range doc.Results {
		// Entries without an updates structure are scan misses even
		// when marked found.
		if res.Status != "found" || !hasUpdates(res.Updates) {
			continue
		}

		name := strings.TrimSpace(res.TitleName)
		if name == "" {
			name = strings.TrimSpace(res.SonyGameName)
		}
		id, ok := ExtractTitleID(res.TitleID)
		if !ok || name == "" {
			continue
		}

		version := strings.TrimSpace(res.LatestVersion)
		if version == "" {
			version = "1.00"
		}

		records = append(records, Record{
			TitleID: id,
			Name:    name,
			Version: version,
			Source:  source,
		})
	}
	return records, nil
}
