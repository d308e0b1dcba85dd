/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valpere/chapfix/internal/batch"
	"github.com/valpere/chapfix/internal/chapter"
	"github.com/valpere/chapfix/internal/diff"
	"github.com/valpere/chapfix/internal/index"
	"github.com/valpere/chapfix/internal/settings"
	"github.com/valpere/chapfix/internal/store"
	"github.com/valpere/chapfix/internal/validator"
	"github.com/valpere/chapfix/internal/watch"
)

var (
	indexFile      string
	jobs           int
	colorDiff      bool
	noClean        bool
	useCache       bool
	dbPath         string
	verifyLanguage bool
	watchMode      bool
)

var checkCmd = &cobra.Command{
	Use:   "check [chapter files...]",
	Short: "Check chapters and propose typographic fixes",
	Long: `Run the rule pipeline over chapter files and write the proposed fixes
next to each chapter as *-autofix.tex (or in place with --inline).

Without arguments the chapters are discovered from the \include{chapters/...}
directives of the index document (--index). Commented-out includes are skipped.

Settings are read from flags, CHAPFIX_* environment variables (.env is loaded),
chapfix.yaml and built-in defaults, in that order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		files := args
		if len(files) == 0 {
			files, err = index.Discover(indexFile)
			if err != nil {
				return err
			}
			logger.Debug("chapters discovered", zap.String("index", indexFile), zap.Int("count", len(files)))
		}
		if len(files) == 0 {
			logger.Warn("no chapters to check")
			return nil
		}

		if !noClean {
			removed, err := batch.CleanAutofix(files)
			if err != nil {
				return err
			}
			for _, r := range removed {
				logger.Debug("removed stale proposal", zap.String("file", r))
			}
		}

		var opts []chapter.Option
		var db *store.Store
		if useCache {
			if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
			db, err = store.New(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()
			opts = append(opts, chapter.WithCache(db))
		}
		if verifyLanguage {
			opts = append(opts, chapter.WithLanguageGuard(validator.New()))
		}

		driver := batch.New(chapter.NewProcessor(cfg, logger, opts...), batch.Config{Jobs: jobs}, logger)

		summary, err := runBatch(ctx, driver, db, cfg, files)
		if err != nil {
			return err
		}

		if watchMode {
			return watchChapters(ctx, driver, db, cfg, files)
		}

		return batch.Check(summary, cfg.RaiseError)
	},
}

// runBatch processes files, prints diffs and the summary, and records the
// run when a database is open.
func runBatch(ctx context.Context, driver *batch.Driver, db *store.Store, cfg settings.Settings, files []string) (*batch.Summary, error) {
	started := time.Now()
	summary, err := driver.Run(ctx, files)
	if err != nil {
		return nil, err
	}

	for _, r := range summary.Results {
		if r.Report.Diff == "" {
			continue
		}
		if colorDiff {
			fmt.Print(diff.Colorize(r.Report.Diff))
		} else {
			fmt.Print(r.Report.Diff)
		}
	}
	fmt.Printf("Checked %d chapters: %d with issues, %d fixed in place, %d failed, %d cached (%s)\n",
		len(summary.Results), summary.Issues, summary.Fixed, summary.Failed, summary.Cached,
		summary.Duration.Round(time.Millisecond))

	if db != nil {
		run := store.Run{
			ID:        uuid.New().String(),
			StartedAt: started,
			Duration:  summary.Duration,
			Language:  string(cfg.Language),
			Files:     summary.Outcomes(),
		}
		if err := db.SaveRun(ctx, run); err != nil {
			logger.Warn("failed to record run", zap.Error(err))
		}
	}

	return summary, nil
}

func watchChapters(ctx context.Context, driver *batch.Driver, db *store.Store, cfg settings.Settings, files []string) error {
	w, err := watch.New(files, watch.DefaultDebounce, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Watching %d chapters, press Ctrl+C to stop\n", len(files))

	return w.Run(ctx, func(ctx context.Context, paths []string) {
		if _, err := runBatch(ctx, driver, db, cfg, paths); err != nil && ctx.Err() == nil {
			logger.Error("re-check failed", zap.Error(err))
		}
	})
}

func init() {
	rootCmd.AddCommand(checkCmd)

	addSettingsFlags(checkCmd, true)
	checkCmd.Flags().StringVar(&indexFile, "index", index.DefaultFile, "Index document listing the chapters")
	checkCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Parallel workers (default one per CPU)")
	checkCmd.Flags().BoolVar(&colorDiff, "color", false, "Colorize diffs")
	checkCmd.Flags().BoolVar(&noClean, "no-clean", false, "Keep stale *-autofix.tex files")
	checkCmd.Flags().BoolVar(&useCache, "cache", false, "Skip chapters known to be clean and record the run")
	checkCmd.Flags().StringVar(&dbPath, "db", "./data/chapfix.db", "Database path for the result cache and run history")
	checkCmd.Flags().BoolVar(&verifyLanguage, "verify-language", false, "Warn about chapters not written in the configured language")
	checkCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Keep running and re-check chapters when they are saved")
}
