// Package progress reports how much of the book has been translated.
package progress

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
)

// DefaultPattern names chapter files by their number.
const DefaultPattern = "hpmor-chapter-%03d.tex"

type Options struct {
	Dir     string
	Pattern string
	// Total is the number of the last chapter; chapters start at 0.
	Total int
	// LastDone is the number of the last translated chapter, -1 for none.
	LastDone int
}

type Stats struct {
	BytesDone     int64
	BytesTotal    int64
	ChaptersDone  int
	ChaptersTotal int
}

// Compute sums the sizes of chapters 0..Total and 0..LastDone. Every
// chapter file in the range must exist.
func Compute(opts Options) (*Stats, error) {
	if opts.Pattern == "" {
		opts.Pattern = DefaultPattern
	}
	if opts.Total < 0 {
		return nil, fmt.Errorf("total must not be negative, got %d", opts.Total)
	}
	if opts.LastDone < -1 || opts.LastDone > opts.Total {
		return nil, fmt.Errorf("last done chapter %d outside 0..%d", opts.LastDone, opts.Total)
	}

	stats := &Stats{
		ChaptersTotal: opts.Total + 1,
		ChaptersDone:  opts.LastDone + 1,
	}
	for i := 0; i <= opts.Total; i++ {
		path := filepath.Join(opts.Dir, fmt.Sprintf(opts.Pattern, i))
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat chapter %d: %w", i, err)
		}
		stats.BytesTotal += info.Size()
		if i <= opts.LastDone {
			stats.BytesDone += info.Size()
		}
	}
	return stats, nil
}

func (s *Stats) ByteShare() float64 {
	if s.BytesTotal == 0 {
		return 0
	}
	return float64(s.BytesDone) / float64(s.BytesTotal)
}

func (s *Stats) ChapterShare() float64 {
	if s.ChaptersTotal == 0 {
		return 0
	}
	return float64(s.ChaptersDone) / float64(s.ChaptersTotal)
}

func (s *Stats) String() string {
	return fmt.Sprintf("Progress bytes: %.2f%% (%s / %s)\nProgress chapters: %.2f%% (%d / %d chapters)",
		100*s.ByteShare(), humanize.Bytes(uint64(s.BytesDone)), humanize.Bytes(uint64(s.BytesTotal)),
		100*s.ChapterShare(), s.ChaptersDone, s.ChaptersTotal)
}
