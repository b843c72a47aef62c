package renamer

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Discover returns the names of package files directly inside dir,
// sorted. Subdirectories are not entered. The listing is a snapshot:
// files appearing after it are not part of the pass.
func Discover(fsys afero.Fs, dir string, ext string) ([]string, error) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	var names []string
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(info.Name()), ext) {
			continue
		}
		names = append(names, info.Name())
	}
	sort.Strings(names)
	return names, nil
}
