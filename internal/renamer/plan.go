package renamer

import (
	"log/slog"

	"github.com/retroforge/repkg/internal/catalog"
	"github.com/retroforge/repkg/internal/naming"
)

// Action is the planned handling of one discovered file. Kind is
// KindRenamed when a rename is planned; collision and failure kinds only
// appear once a plan is executed.
type Action struct {
	File    string
	Kind    Kind
	Target  string
	TitleID string
}

// BuildPlan classifies every discovered file without touching the
// filesystem: parse the name, look up the catalog record, generate the
// target name. The catalog's version wins over any version embedded in
// the filename.
func BuildPlan(files []string, store *catalog.Store, ext string) []Action {
	actions := make([]Action, 0, len(files))
	for _, f := range files {
		parsed, ok := naming.Parse(f)
		if !ok {
			slog.Debug("no name pattern matched", "file", f)
			actions = append(actions, Action{File: f, Kind: KindNoParse})
			continue
		}

		rec, ok := store.Lookup(parsed.TitleID)
		if !ok {
			slog.Debug("title not in catalog", "file", f, "title_id", parsed.TitleID)
			actions = append(actions, Action{File: f, Kind: KindNoMetadata, TitleID: parsed.TitleID})
			continue
		}

		actions = append(actions, Action{
			File:    f,
			Kind:    KindRenamed,
			Target:  naming.Build(parsed, rec.Name, rec.Version, ext),
			TitleID: parsed.TitleID,
		})
	}
	return actions
}
