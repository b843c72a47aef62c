package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/retroforge/repkg/internal/backup"
	"github.com/retroforge/repkg/internal/cache"
	"github.com/retroforge/repkg/internal/catalog"
	"github.com/retroforge/repkg/internal/config"
	"github.com/retroforge/repkg/internal/history"
	"github.com/retroforge/repkg/internal/logging"
	"github.com/retroforge/repkg/internal/renamer"
	"github.com/retroforge/repkg/internal/report"
	"github.com/retroforge/repkg/internal/validate"
	"github.com/retroforge/repkg/internal/watcher"
)

var (
	cfgFile string
	stdin   = bufio.NewReader(os.Stdin)
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "repkg",
		Short: "Batch renamer for game package files",
		Long:  "Parses content IDs out of package filenames and renames the files to readable titles using local catalog files.",
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	rootCmd.AddCommand(
		renameCmd(),
		previewCmd(),
		watchCmd(),
		exportCmd(),
		validateCmd(),
		historyCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func renameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename [dir]",
		Short: "Rename package files in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer setupLogging(cfg)()

			fsys := afero.NewOsFs()

			dir, err := targetDir(fsys, args)
			if err != nil {
				return err
			}

			store, _, err := loadCatalog(fsys, cfg)
			if err != nil {
				return err
			}
			if store.Len() == 0 {
				return fmt.Errorf("no catalog records found under %s", cfg.CatalogDir)
			}

			dry, err := renamer.Run(fsys, dir, store, cfg.Extension, true)
			if err != nil {
				return err
			}

			doc := report.Build(dry, store.Len())
			fmt.Print(report.RenderSummary(doc))
			fmt.Print(report.RenderSamples(doc, 3))

			if err := writeReport(fsys, cfg, doc); err != nil {
				slog.Warn("report not written", "error", err)
			}

			if dry.Renamed == 0 {
				fmt.Println("Nothing to rename.")
				return nil
			}

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				ok, err := confirm(fmt.Sprintf("Rename %d files in %s?", dry.Renamed, dir))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Println("Aborted, no files changed.")
					return nil
				}
			}

			doBackup := cfg.Backup
			if cmd.Flags().Changed("backup") {
				doBackup, _ = cmd.Flags().GetBool("backup")
			}
			if doBackup {
				if err := runBackup(fsys, dir, yes); err != nil {
					return err
				}
			}

			res, err := renamer.Run(fsys, dir, store, cfg.Extension, false)
			if err != nil {
				return err
			}

			doc = report.Build(res, store.Len())
			fmt.Print(report.RenderSummary(doc))

			if err := writeReport(fsys, cfg, doc); err != nil {
				slog.Warn("report not written", "error", err)
			}

			recordHistory(cfg, res, store.Len())

			if res.Errors > 0 {
				return fmt.Errorf("%d files failed to rename", res.Errors)
			}
			return nil
		},
	}

	cmd.Flags().Bool("yes", false, "Skip confirmation prompts")
	cmd.Flags().Bool("backup", false, "Copy the directory aside before renaming (overrides config)")

	return cmd
}

func previewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview [dir]",
		Short: "Show what a rename pass would do (no writes)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer setupLogging(cfg)()

			fsys := afero.NewOsFs()

			dir, err := targetDir(fsys, args)
			if err != nil {
				return err
			}

			store, _, err := loadCatalog(fsys, cfg)
			if err != nil {
				return err
			}

			res, err := renamer.Run(fsys, dir, store, cfg.Extension, true)
			if err != nil {
				return err
			}

			doc := report.Build(res, store.Len())
			for _, rf := range doc.RenamedFiles {
				fmt.Printf("%-55s -> %s\n", rf.Original, rf.New)
			}
			fmt.Printf("\nTotal: %d of %d files would be renamed\n",
				doc.Statistics.Renamed, doc.Statistics.TotalFiles)

			if err := writeReport(fsys, cfg, doc); err != nil {
				slog.Warn("report not written", "error", err)
			}
			return nil
		},
	}
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Watch a directory and rename packages as they settle",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer setupLogging(cfg)()

			fsys := afero.NewOsFs()

			dir, err := targetDir(fsys, args)
			if err != nil {
				return err
			}

			store, _, err := loadCatalog(fsys, cfg)
			if err != nil {
				return err
			}
			if store.Len() == 0 {
				return fmt.Errorf("no catalog records found under %s", cfg.CatalogDir)
			}

			dryRun, _ := cmd.Flags().GetBool("dry-run")

			run := func() error {
				res, err := renamer.Run(fsys, dir, store, cfg.Extension, dryRun)
				if err != nil {
					return err
				}
				if res.Renamed > 0 || res.Errors > 0 {
					slog.Info("pass complete",
						"renamed", res.Renamed,
						"skipped", res.Skipped,
						"errors", res.Errors)
					if !dryRun {
						recordHistory(cfg, res, store.Len())
					}
				}
				return nil
			}

			w := watcher.New(dir, watcher.Options{
				Settle: cfg.WatchSettleDuration(),
				MinGap: cfg.WatchMinGapDuration(),
				Ext:    cfg.Extension,
			}, run)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			slog.Info("watching", "dir", dir, "extension", cfg.Extension, "dry_run", dryRun)
			if err := w.Start(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Log what would be renamed without renaming")

	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Group a download-links CSV into a JSON catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer setupLogging(cfg)()

			input, _ := cmd.Flags().GetString("input")
			output, _ := cmd.Flags().GetString("output")

			doc, err := catalog.Export(afero.NewOsFs(), input, output)
			if err != nil {
				return err
			}

			fmt.Printf("Exported %d titles to %s\n", doc.Metadata.TotalGames, output)
			return nil
		},
	}

	cmd.Flags().String("input", "", "CSV of download links to group")
	cmd.Flags().String("output", "updates.json", "Output JSON path")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check catalog sources for problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer setupLogging(cfg)()

			catalogDir, _ := cmd.Flags().GetString("catalog-dir")
			if catalogDir == "" {
				catalogDir = cfg.CatalogDir
			}

			// Validation reads the sources directly so stale cache
			// entries cannot mask a broken file.
			store := catalog.NewStore()
			results, err := catalog.LoadDir(afero.NewOsFs(), catalogDir, store)
			if err != nil {
				return fmt.Errorf("loading catalog: %w", err)
			}

			result := validate.Check(results, store)
			fmt.Println(validate.FormatResult(result))

			if result.HasErrors() {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().String("catalog-dir", "", "Directory of catalog files (default: from config)")

	return cmd
}

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent rename runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer setupLogging(cfg)()

			if !cfg.HistoryEnabled {
				return fmt.Errorf("history is disabled in config")
			}

			ledger, err := history.Open(cfg.HistoryDB)
			if err != nil {
				return err
			}

			if runID, _ := cmd.Flags().GetString("run"); runID != "" {
				renames, err := ledger.Renames(runID)
				if err != nil {
					return err
				}
				for _, r := range renames {
					fmt.Printf("%-55s -> %s\n", r.Original, r.NewName)
				}
				fmt.Printf("\nTotal: %d renames\n", len(renames))
				return nil
			}

			limit, _ := cmd.Flags().GetInt("limit")
			runs, err := ledger.Recent(limit)
			if err != nil {
				return err
			}

			for _, r := range runs {
				fmt.Printf("%-36s %-20s %-40s renamed=%d skipped=%d errors=%d\n",
					r.RunID, r.StartedAt.Format("2006-01-02 15:04:05"), r.TargetDir,
					r.Renamed, r.Skipped, r.Errors)
			}
			fmt.Printf("\nTotal: %d runs\n", len(runs))
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "Number of runs to show")
	cmd.Flags().String("run", "", "Show the renames from one run ID")

	return cmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config) func() {
	closeFn, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		slog.Warn("log file unavailable, logging to stderr only", "error", err)
		return func() {}
	}
	return closeFn
}

// targetDir resolves the directory to operate on from the command line,
// prompting when none was given.
func targetDir(fsys afero.Fs, args []string) (string, error) {
	var dir string
	if len(args) > 0 {
		dir = args[0]
	} else {
		line, err := promptLine("Directory to process: ")
		if err != nil {
			return "", err
		}
		dir = line
	}
	if dir == "" {
		return "", fmt.Errorf("no directory given")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	ok, err := afero.DirExists(fsys, abs)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("directory does not exist: %s", abs)
	}
	return abs, nil
}

// loadCatalog builds the metadata store, serving it from the snapshot
// cache when the source files are unchanged. Cache trouble degrades to a
// plain load, never to a failure.
func loadCatalog(fsys afero.Fs, cfg *config.Config) (*catalog.Store, []catalog.LoadResult, error) {
	store := catalog.NewStore()

	files, err := catalog.DiscoverFiles(fsys, cfg.CatalogDir)
	if err != nil {
		return nil, nil, fmt.Errorf("loading catalog: %w", err)
	}

	var (
		fc  *cache.FileCache
		key string
	)
	if !cfg.NoCache {
		c, err := cache.New(cfg.CacheDir, cfg.CacheTTLDuration())
		if err != nil {
			slog.Warn("failed to create cache, continuing without", "error", err)
		} else if fp, err := cache.Fingerprint(fsys, files); err != nil {
			slog.Warn("cache fingerprint failed, continuing without", "error", err)
		} else {
			fc, key = c, fp
		}
	}

	if fc != nil {
		if entry, ok := fc.Get(key); ok {
			store.Ingest(entry.Records)
			slog.Debug("catalog loaded from cache", "records", store.Len())
			return store, nil, nil
		}
	}

	results, err := catalog.LoadDir(fsys, cfg.CatalogDir, store)
	if err != nil {
		return nil, nil, fmt.Errorf("loading catalog: %w", err)
	}

	if fc != nil {
		if err := fc.Set(key, &cache.Entry{Records: store.Records()}); err != nil {
			slog.Warn("cache write failed", "error", err)
		}
	}

	return store, results, nil
}

func writeReport(fsys afero.Fs, cfg *config.Config, doc *report.Document) error {
	path := filepath.Join(cfg.ReportDir, report.Filename(doc.DryRun, cfg.ReportFormat))
	if err := report.Write(fsys, path, doc, cfg.ReportFormat); err != nil {
		return err
	}
	slog.Info("report written", "path", path)
	return nil
}

func runBackup(fsys afero.Fs, dir string, assumeYes bool) error {
	if size, err := backup.TreeSize(fsys, dir); err == nil {
		fmt.Printf("Backing up %s (%s)...\n", dir, humanize.Bytes(uint64(size)))
	}

	if _, err := backup.Create(fsys, dir); err != nil {
		slog.Error("backup failed", "dir", dir, "error", err)
		if assumeYes {
			slog.Warn("continuing without backup")
			return nil
		}
		ok, perr := confirm("Backup failed. Continue without backup?")
		if perr != nil {
			return perr
		}
		if !ok {
			return fmt.Errorf("aborted after backup failure")
		}
	}
	return nil
}

func recordHistory(cfg *config.Config, res renamer.Result, catalogSize int) {
	if !cfg.HistoryEnabled {
		return
	}
	ledger, err := history.Open(cfg.HistoryDB)
	if err != nil {
		slog.Warn("history unavailable", "error", err)
		return
	}
	runID, err := ledger.Record(res, catalogSize)
	if err != nil {
		slog.Warn("history write failed", "error", err)
		return
	}
	slog.Info("run recorded", "run_id", runID)
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func confirm(prompt string) (bool, error) {
	line, err := promptLine(prompt + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
