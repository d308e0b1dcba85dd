// Package chapter runs the rule pipeline over a whole chapter file.
package chapter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/valpere/chapfix/internal/diff"
	"github.com/valpere/chapfix/internal/rules"
	"github.com/valpere/chapfix/internal/settings"
	"github.com/valpere/chapfix/internal/store"
)

// AutofixSuffix marks proposal files written next to a chapter.
const AutofixSuffix = "-autofix"

// Cache remembers content that already passed the pipeline unchanged.
type Cache interface {
	IsClean(ctx context.Context, key store.CacheKey) (bool, error)
	MarkClean(ctx context.Context, key store.CacheKey) error
}

// LanguageGuard reports whether chapter text is in the expected language.
type LanguageGuard interface {
	IsValid(chapter string, want settings.Language) (bool, error)
}

// Report is the outcome of processing one chapter file.
type Report struct {
	Path string
	// IssuesFound is false when inline fixing consumed the change.
	IssuesFound bool
	// Changed is true whenever the pipeline altered the content.
	Changed    bool
	OutputPath string
	Diff       string
	Warnings   []string
	Cached     bool
}

type Processor struct {
	cfg   settings.Settings
	log   *zap.Logger
	cache Cache
	guard LanguageGuard
}

type Option func(*Processor)

func WithCache(c Cache) Option {
	return func(p *Processor) { p.cache = c }
}

func WithLanguageGuard(g LanguageGuard) Option {
	return func(p *Processor) { p.guard = g }
}

func NewProcessor(cfg settings.Settings, log *zap.Logger, opts ...Option) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Processor{cfg: cfg, log: log}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AutofixPath returns the proposal path for a chapter: chapters/x.tex -> chapters/x-autofix.tex.
func AutofixPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + AutofixSuffix + ext
}

// IsAutofix reports whether path is a proposal file.
func IsAutofix(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(strings.TrimSuffix(base, filepath.Ext(base)), AutofixSuffix)
}

// Fix runs the document pass and the line pipeline over content. Comment
// lines are passed through untouched.
func Fix(content string, cfg settings.Settings) string {
	doc := rules.FixDocument(content, cfg)
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		if rules.IsComment(line) {
			continue
		}
		lines[i] = rules.FixLine(line, cfg)
	}
	return strings.Join(lines, "\n")
}

// cacheKey identifies raw under the processor's settings. The language
// guard counts as part of the rules since it can warn on its own.
func (p *Processor) cacheKey(raw []byte) store.CacheKey {
	version := rules.Version
	if p.guard != nil {
		version += "+language-guard"
	}
	return store.CacheKey{
		Hash:         store.Hash(raw),
		Language:     string(p.cfg.Language),
		RulesVersion: version,
	}
}

// ProcessFile checks one chapter and writes the proposal (or the fixed
// original in inline mode). A panic inside a rule is returned as an error
// for this file only.
func (p *Processor) ProcessFile(ctx context.Context, path string) (report Report, err error) {
	report.Path = path
	log := p.log.With(zap.String("file", path))

	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(*rules.Error); ok {
				err = fmt.Errorf("failed to process %s: %w", path, rerr)
				return
			}
			err = fmt.Errorf("failed to process %s: %v", path, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return report, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return report, fmt.Errorf("failed to read chapter: %w", err)
	}

	key := p.cacheKey(raw)
	if p.cache != nil {
		clean, err := p.cache.IsClean(ctx, key)
		if err != nil {
			log.Warn("cache lookup failed", zap.Error(err))
		} else if clean {
			log.Debug("cached clean")
			report.Cached = true
			return report, nil
		}
	}

	original := string(raw)

	if p.guard != nil {
		if ok, err := p.guard.IsValid(original, p.cfg.Language); !ok && err != nil {
			var ruleErr *rules.Error
			if errors.As(err, &ruleErr) {
				return report, fmt.Errorf("failed to process %s: %w", path, err)
			}
			log.Warn("unexpected chapter language", zap.Error(err))
			report.Warnings = append(report.Warnings, err.Error())
		}
	}

	fixed := Fix(original, p.cfg)

	// line numbers refer to the fixed text
	for i, line := range strings.Split(fixed, "\n") {
		if rules.IsComment(line) {
			continue
		}
		for _, w := range rules.QuoteBalance(line, p.cfg) {
			log.Warn("unbalanced quotes", zap.Int("line", i+1), zap.String("detail", w))
			report.Warnings = append(report.Warnings, fmt.Sprintf("line %d: %s", i+1, w))
		}
	}

	if fixed == original {
		log.Debug("no issues")
		// a cache hit skips the checks that produce warnings
		if p.cache != nil && len(report.Warnings) == 0 {
			if err := p.cache.MarkClean(ctx, key); err != nil {
				log.Warn("cache update failed", zap.Error(err))
			}
		}
		return report, nil
	}

	report.Changed = true
	report.IssuesFound = true
	report.OutputPath = AutofixPath(path)
	mode := os.FileMode(0644)

	if p.cfg.InlineFixing {
		report.OutputPath = path
		report.IssuesFound = false
		if info, err := os.Stat(path); err == nil {
			mode = info.Mode().Perm()
		}
	}

	if err := os.WriteFile(report.OutputPath, []byte(fixed), mode); err != nil {
		return report, fmt.Errorf("failed to write %s: %w", report.OutputPath, err)
	}

	if p.cfg.PrintDiff {
		d, err := diff.Unified(path, original, fixed, diff.DefaultContext)
		if err != nil {
			return report, fmt.Errorf("failed to diff: %w", err)
		}
		report.Diff = d
	}

	log.Info("issues found",
		zap.String("output", report.OutputPath),
		zap.Bool("inline", p.cfg.InlineFixing))

	return report, nil
}
