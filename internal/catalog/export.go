package catalog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// ExportFile is one downloadable package file inside an export document.
type ExportFile struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	SHA1     string `json:"sha1"`
}

// ExportVersion groups the files belonging to one update version.
type ExportVersion struct {
	Files []ExportFile `json:"files"`
}

// ExportTitle groups a title's versions under its display name. The first
// row seen for a title fixes the name; later rows only add files.
type ExportTitle struct {
	Name     string                    `json:"name"`
	Versions map[string]*ExportVersion `json:"versions"`
}

// ExportMeta describes how an export document was produced.
type ExportMeta struct {
	TotalGames    int    `json:"total_games"`
	GeneratedFrom string `json:"generated_from"`
	Note          string `json:"note"`
}

// ExportDoc is the grouped update-catalog document written by Export.
type ExportDoc struct {
	Updates  map[string]*ExportTitle `json:"updates"`
	Metadata ExportMeta              `json:"metadata"`
}

// Export reads a download-links CSV (Title_ID, Title_Name, Version,
// Filename, Download_URL, Size_Bytes, SHA1_Hash) and writes the grouped
// updates JSON document to outputPath. Rows without a recoverable title
// ID are dropped; an unparsable size becomes 0.
func Export(fsys afero.Fs, inputPath, outputPath string) (*ExportDoc, error) {
	f, err := fsys.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("opening links csv: %w", err)
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
	verCol := optionalColumn(cols, "version")
	fileCol := optionalColumn(cols, "filename")
	urlCol := optionalColumn(cols, "download_url")
	sizeCol := optionalColumn(cols, "size_bytes")
	shaCol := optionalColumn(cols, "sha1_hash")

	doc := &ExportDoc{Updates: make(map[string]*ExportTitle)}
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		id, ok := ExtractTitleID(field(row, idCol))
		if !ok {
			continue
		}

		title, ok := doc.Updates[id]
		if !ok {
			title = &ExportTitle{
				Name:     strings.TrimSpace(field(row, nameCol)),
				Versions: make(map[string]*ExportVersion),
			}
			doc.Updates[id] = title
		}

		version := strings.TrimSpace(field(row, verCol))
		if version == "" {
			version = "1.00"
		}
		ver, ok := title.Versions[version]
		if !ok {
			ver = &ExportVersion{}
			title.Versions[version] = ver
		}

		size, err := strconv.ParseInt(strings.TrimSpace(field(row, sizeCol)), 10, 64)
		if err != nil {
			size = 0
		}
		ver.Files = append(ver.Files, ExportFile{
			Filename: field(row, fileCol),
			URL:      field(row, urlCol),
			Size:     size,
			SHA1:     field(row, shaCol),
		})
	}

	doc.Metadata = ExportMeta{
		TotalGames:    len(doc.Updates),
		GeneratedFrom: filepath.Base(inputPath),
		Note:          "Grouped from download links, one entry per title",
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling export: %w", err)
	}
	if err := afero.WriteFile(fsys, outputPath, append(data, '\n'), 0o644); err != nil {
		return nil, fmt.Errorf("writing export: %w", err)
	}
	return doc, nil
}

func optionalColumn(cols map[string]int, name string) int {
	if i, ok := cols[name]; ok {
		return i
	}
	return -1
}
