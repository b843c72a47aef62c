package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Filename returns the conventional report name for a pass mode and
// format: rename_report_dryrun.json, rename_report_actual.yaml, etc.
func Filename(dryRun bool, format string) string {
	mode := "actual"
	if dryRun {
		mode = "dryrun"
	}
	return fmt.Sprintf("rename_report_%s.%s", mode, format)
}

// Write renders doc in the given format ("json" or "yaml") and writes it
// to path.
func Write(fsys afero.Fs, path string, doc *Document, format string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(format) {
	case "json":
		data, err = json.MarshalIndent(doc, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case "yaml", "yml":
		data, err = yaml.Marshal(doc)
	default:
		return fmt.Errorf("unknown report format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
