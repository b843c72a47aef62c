// Package renamer plans and executes catalog-driven package renames.
package renamer

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/retroforge/repkg/internal/catalog"
)

// Kind classifies the outcome of one file in a pass.
type Kind string

const (
	KindRenamed    Kind = "renamed"
	KindNoParse    Kind = "no_parse"
	KindNoMetadata Kind = "no_metadata"
	KindCollision  Kind = "collision"
	KindFailed     Kind = "failed"
)

// Outcome records what happened to one file.
type Outcome struct {
	File    string // original name
	Kind    Kind
	Target  string // generated name, when one was produced
	TitleID string // parsed identifier, when parsing succeeded
	Err     error  // KindFailed only
}

// Result tallies one pass over a directory. Processed counts the files
// that reached the rename stage, so Renamed+Collisions+Failures; Skipped
// covers everything left untouched with a known cause.
type Result struct {
	Dir       string
	DryRun    bool
	Total     int
	Processed int
	Renamed   int
	Skipped   int
	Errors    int
	Outcomes  []Outcome
}

// Execute applies a plan to dir. In dry-run mode no entry is touched;
// collision checks still run, and targets claimed earlier in the pass
// count as taken, so a dry run reports exactly what a commit over the
// same directory would do.
func Execute(fsys afero.Fs, dir string, plan []Action, dryRun bool) Result {
	res := Result{Dir: dir, DryRun: dryRun, Total: len(plan)}
	claimed := make(map[string]bool)

	for _, a := range plan {
		switch a.Kind {
		case KindNoParse:
			res.Skipped++
			slog.Info("skipped, name not recognized", "file", a.File)
			res.Outcomes = append(res.Outcomes, Outcome{File: a.File, Kind: KindNoParse})
			continue
		case KindNoMetadata:
			res.Skipped++
			slog.Info("skipped, no catalog entry", "file", a.File, "title_id", a.TitleID)
			res.Outcomes = append(res.Outcomes, Outcome{File: a.File, Kind: KindNoMetadata, TitleID: a.TitleID})
			continue
		}

		res.Processed++
		outcome := Outcome{File: a.File, Kind: KindRenamed, Target: a.Target, TitleID: a.TitleID}

		targetPath := filepath.Join(dir, a.Target)
		exists, err := afero.Exists(fsys, targetPath)
		switch {
		case err != nil:
			outcome.Kind = KindFailed
			outcome.Err = err
			res.Errors++
			slog.Error("rename failed", "file", a.File, "error", err)

		case exists || claimed[a.Target]:
			outcome.Kind = KindCollision
			res.Skipped++
			slog.Warn("skipped, target name taken", "file", a.File, "target", a.Target)

		case dryRun:
			claimed[a.Target] = true
			res.Renamed++
			slog.Info("dry run, would rename", "from", a.File, "to", a.Target)

		default:
			if err := fsys.Rename(filepath.Join(dir, a.File), targetPath); err != nil {
				outcome.Kind = KindFailed
				outcome.Err = err
				res.Errors++
				slog.Error("rename failed", "file", a.File, "error", err)
				break
			}
			claimed[a.Target] = true
			res.Renamed++
			slog.Info("renamed", "from", a.File, "to", a.Target)
		}

		res.Outcomes = append(res.Outcomes, outcome)
	}
	return res
}

// Run discovers, plans and executes one pass over dir.
func Run(fsys afero.Fs, dir string, store *catalog.Store, ext string, dryRun bool) (Result, error) {
	files, err := Discover(fsys, dir, ext)
	if err != nil {
		return Result{}, err
	}
	plan := BuildPlan(files, store, ext)
	return Execute(fsys, dir, plan, dryRun), nil
}
