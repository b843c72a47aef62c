package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

func init() {
	Register(&csvSource{})
}

// csvSource reads title catalogs exported as CSV. Required columns are
// Title_ID and Title_Name; Version is optional and defaults to "1.00".
type csvSource struct{}

func (*csvSource) Name() string    { return "csv" }
func (*csvSource) Precedence() int { return 1 }

func (*csvSource) Matches(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".csv")
}

func (s *csvSource) Parse(fsys afero.Fs, path string) ([]Record, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	cols := columnIndex(header)

	idCol, ok := cols["title_id"]
	if !ok {
		return nil, errors.New("missing Title_ID column")
	}
	nameCol, ok := cols["title_name"]
	if !ok {
		return nil, errors.New("missing Title_Name column")
	}
	verCol, hasVer := cols["version"]

	source := filepath.Base(path)
	var records []Record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		id, ok := ExtractTitleID(field(row, idCol))
		name := strings.TrimSpace(field(row, nameCol))
		if !ok || name == "" {
			continue
		}

		version := ""
		if hasVer {
			version = strings.TrimSpace(field(row, verCol))
		}
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

// columnIndex maps normalized header names to their positions.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
