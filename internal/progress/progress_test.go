package progress

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChapters(t *testing.T, sizes ...int) string {
	t.Helper()
	dir := t.TempDir()
	for i, size := range sizes {
		path := filepath.Join(dir, fmt.Sprintf(DefaultPattern, i))
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0644))
	}
	return dir
}

func TestCompute(t *testing.T) {
	dir := writeChapters(t, 1000, 3000, 4000, 2000)

	stats, err := Compute(Options{Dir: dir, Total: 3, LastDone: 1})
	require.NoError(t, err)

	assert.Equal(t, int64(4000), stats.BytesDone)
	assert.Equal(t, int64(10000), stats.BytesTotal)
	assert.Equal(t, 2, stats.ChaptersDone)
	assert.Equal(t, 4, stats.ChaptersTotal)
	assert.InDelta(t, 0.4, stats.ByteShare(), 1e-9)
	assert.InDelta(t, 0.5, stats.ChapterShare(), 1e-9)

	assert.Equal(t,
		"Progress bytes: 40.00% (4.0 kB / 10 kB)\nProgress chapters: 50.00% (2 / 4 chapters)",
		stats.String())
}

func TestCompute_NothingDone(t *testing.T) {
	dir := writeChapters(t, 10, 10)

	stats, err := Compute(Options{Dir: dir, Total: 1, LastDone: -1})
	require.NoError(t, err)
	assert.Zero(t, stats.BytesDone)
	assert.Zero(t, stats.ChapterShare())
}

func TestCompute_MissingChapter(t *testing.T) {
	dir := writeChapters(t, 10, 10)

	_, err := Compute(Options{Dir: dir, Total: 2, LastDone: 0})
	assert.Error(t, err)
}

func TestCompute_InvalidRange(t *testing.T) {
	dir := writeChapters(t, 10)

	_, err := Compute(Options{Dir: dir, Total: 0, LastDone: 1})
	assert.Error(t, err)
	_, err = Compute(Options{Dir: dir, Total: -1, LastDone: -1})
	assert.Error(t, err)
}

func TestStats_EmptyShares(t *testing.T) {
	s := &Stats{}
	assert.Zero(t, s.ByteShare())
	assert.Zero(t, s.ChapterShare())
}
