// Package history keeps a SQLite ledger of committed rename passes so
// operators can audit what moved and restore by hand if needed.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retroforge/repkg/internal/renamer"
)

// Run is one committed pass over a directory.
type Run struct {
	ID          uint      `gorm:"primaryKey"`
	RunID       string    `gorm:"uniqueIndex;size:36"`
	StartedAt   time.Time `gorm:"index"`
	TargetDir   string    `gorm:"size:1024"`
	TotalFiles  int
	Renamed     int
	Skipped     int
	Errors      int
	CatalogSize int
}

// Rename is one executed rename within a run.
type Rename struct {
	ID       uint      `gorm:"primaryKey"`
	RunID    string    `gorm:"index;size:36"`
	Dir      string    `gorm:"size:1024"`
	Original string    `gorm:"size:1024"`
	NewName  string    `gorm:"size:1024"`
	MovedAt  time.Time `gorm:"index"`
}

// Ledger wraps the history database.
type Ledger struct {
	db *gorm.DB
}

// Open opens (creating if needed) the ledger at path.
func Open(path string) (*Ledger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history dir: %w", err)
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if err := db.AutoMigrate(&Run{}, &Rename{}); err != nil {
		return nil, fmt.Errorf("migrating history db: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Record stores one committed pass and its renames. It returns the run
// identifier assigned to the pass.
func (l *Ledger) Record(res renamer.Result, catalogSize int) (string, error) {
	runID := uuid.NewString()
	now := time.Now()

	run := Run{
		RunID:       runID,
		StartedAt:   now,
		TargetDir:   res.Dir,
		TotalFiles:  res.Total,
		Renamed:     res.Renamed,
		Skipped:     res.Skipped,
		Errors:      res.Errors,
		CatalogSize: catalogSize,
	}

	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&run).Error; err != nil {
			return err
		}
		for _, o := range res.Outcomes {
			if o.Kind != renamer.KindRenamed {
				continue
			}
			entry := Rename{
				RunID:    runID,
				Dir:      res.Dir,
				Original: o.File,
				NewName:  o.Target,
				MovedAt:  now,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}
	return runID, nil
}

// Recent returns the latest n runs, newest first.
func (l *Ledger) Recent(n int) ([]Run, error) {
	var runs []Run
	err := l.db.Order("id desc").Limit(n).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// Renames returns the rename entries for one run, in insertion order.
func (l *Ledger) Renames(runID string) ([]Rename, error) {
	var entries []Rename
	err := l.db.Where("run_id = ?", runID).Order("id").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("listing renames: %w", err)
	}
	return entries, nil
}
