// Package batch runs the file processor over many chapters in parallel.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/valpere/chapfix/internal/chapter"
	"github.com/valpere/chapfix/internal/store"
)

// ErrIssuesFound is returned by Check when a run left unresolved issues.
var ErrIssuesFound = errors.New("unresolved issues found")

// Per-file outcome labels, as stored in the run log.
const (
	StatusClean  = "clean"
	StatusCached = "cached"
	StatusIssues = "issues"
	StatusFixed  = "fixed"
	StatusFailed = "failed"
)

type FileProcessor interface {
	ProcessFile(ctx context.Context, path string) (chapter.Report, error)
}

type Config struct {
	// Jobs caps the number of workers; 0 means one per CPU.
	Jobs int
}

type Result struct {
	Path   string
	Report chapter.Report
	Err    error
}

func (r Result) Status() string {
	switch {
	case r.Err != nil:
		return StatusFailed
	case r.Report.Cached:
		return StatusCached
	case r.Report.IssuesFound:
		return StatusIssues
	case r.Report.Changed:
		return StatusFixed
	default:
		return StatusClean
	}
}

type Summary struct {
	// Results are in input order.
	Results  []Result
	Issues   int
	Failed   int
	Fixed    int
	Cached   int
	Duration time.Duration
}

// AnyIssue reports whether a file has an unresolved issue. A failed file
// counts since nothing about it was resolved.
func (s *Summary) AnyIssue() bool {
	return s.Issues > 0 || s.Failed > 0
}

// Outcomes converts the results for the run log.
func (s *Summary) Outcomes() []store.FileOutcome {
	out := make([]store.FileOutcome, 0, len(s.Results))
	for _, r := range s.Results {
		o := store.FileOutcome{Path: r.Path, Status: r.Status()}
		if r.Err != nil {
			o.Error = r.Err.Error()
		}
		out = append(out, o)
	}
	return out
}

// Check applies the raise-on-issues policy.
func Check(s *Summary, raise bool) error {
	if raise && s.AnyIssue() {
		return fmt.Errorf("%w: %d with issues, %d failed", ErrIssuesFound, s.Issues, s.Failed)
	}
	return nil
}

// Workers returns the pool size for n files.
func Workers(jobs, n int) int {
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	return max(1, min(jobs, n))
}

type Driver struct {
	proc   FileProcessor
	config Config
	log    *zap.Logger
}

func New(proc FileProcessor, config Config, log *zap.Logger) *Driver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Driver{
		proc:   proc,
		config: config,
		log:    log,
	}
}

// Run processes every file. A failing file is recorded in its Result and
// does not stop the others; only cancellation of ctx ends the run early.
func (d *Driver) Run(ctx context.Context, files []string) (*Summary, error) {
	start := time.Now()
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Workers(d.config.Jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Path: path, Err: err}
				return err
			}
			report, err := d.proc.ProcessFile(gctx, path)
			results[i] = Result{Path: path, Report: report, Err: err}
			if err != nil {
				d.log.Error("chapter failed", zap.String("file", path), zap.Error(err))
			}
			return nil
		})
	}
	err := g.Wait()

	summary := &Summary{Results: results, Duration: time.Since(start)}
	for _, r := range results {
		switch r.Status() {
		case StatusFailed:
			summary.Failed++
		case StatusIssues:
			summary.Issues++
		case StatusFixed:
			summary.Fixed++
		case StatusCached:
			summary.Cached++
		}
	}

	d.log.Info("batch finished",
		zap.Int("files", len(files)),
		zap.Int("issues", summary.Issues),
		zap.Int("failed", summary.Failed),
		zap.Int("fixed", summary.Fixed),
		zap.Int("cached", summary.Cached),
		zap.Duration("duration", summary.Duration))

	return summary, err
}

// CleanAutofix removes stale proposal files from the directories holding
// files and returns the removed paths.
func CleanAutofix(files []string) ([]string, error) {
	dirs := make(map[string]bool)
	for _, f := range files {
		dirs[filepath.Dir(f)] = true
	}

	var removed []string
	for dir := range dirs {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+chapter.AutofixSuffix+".tex"))
		if err != nil {
			return removed, fmt.Errorf("failed to list proposals in %s: %w", dir, err)
		}
		for _, m := range matches {
			if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
				return removed, fmt.Errorf("failed to remove %s: %w", m, err)
			}
			removed = append(removed, m)
		}
	}
	sort.Strings(removed)
	return removed, nil
}
