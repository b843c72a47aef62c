// Package report builds, renders and persists per-pass run reports.
package report

import (
	"github.com/retroforge/repkg/internal/renamer"
)

// Stats is the statistics block of a report document.
type Stats struct {
	TotalFiles int `json:"total_files" yaml:"total_files"`
	Processed  int `json:"processed" yaml:"processed"`
	Renamed    int `json:"renamed" yaml:"renamed"`
	Errors     int `json:"errors" yaml:"errors"`
	Skipped    int `json:"skipped" yaml:"skipped"`
}

// RenamedFile is one executed rename, or a planned one in dry runs.
type RenamedFile struct {
	Original string `json:"original" yaml:"original"`
	New      string `json:"new" yaml:"new"`
	Path     string `json:"path" yaml:"path"`
}

// FileError is one file that failed during the pass.
type FileError struct {
	File  string `json:"file" yaml:"file"`
	Error string `json:"error" yaml:"error"`
}

// Document is the serialized run report. Downstream tooling parses these
// files, so the field names are a stable external schema.
type Document struct {
	Statistics      Stats         `json:"statistics" yaml:"statistics"`
	DryRun          bool          `json:"dry_run" yaml:"dry_run"`
	DatabaseSize    int           `json:"database_size" yaml:"database_size"`
	RenamedFiles    []RenamedFile `json:"renamed_files" yaml:"renamed_files"`
	Errors          []FileError   `json:"errors" yaml:"errors"`
	TargetDirectory string        `json:"target_directory" yaml:"target_directory"`
}

// Build assembles the report document for one pass. dbSize is the number
// of distinct titles the catalog held during the pass.
func Build(res renamer.Result, dbSize int) *Document {
	doc := &Document{
		Statistics: Stats{
			TotalFiles: res.Total,
			Processed:  res.Processed,
			Renamed:    res.Renamed,
			Errors:     res.Errors,
			Skipped:    res.Skipped,
		},
		DryRun:          res.DryRun,
		DatabaseSize:    dbSize,
		RenamedFiles:    []RenamedFile{},
		Errors:          []FileError{},
		TargetDirectory: res.Dir,
	}

	for _, o := range res.Outcomes {
		switch o.Kind {
		case renamer.KindRenamed:
			doc.RenamedFiles = append(doc.RenamedFiles, RenamedFile{
				Original: o.File,
				New:      o.Target,
				Path:     res.Dir,
			})
		case renamer.KindFailed:
			msg := ""
			if o.Err != nil {
				msg = o.Err.Error()
			}
			doc.Errors = append(doc.Errors, FileError{File: o.File, Error: msg})
		}
	}
	return doc
}
