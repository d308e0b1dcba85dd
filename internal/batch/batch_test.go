package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/valpere/chapfix/internal/chapter"
	"github.com/valpere/chapfix/internal/settings"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type mockProcessor struct {
	process func(ctx context.Context, path string) (chapter.Report, error)
	calls   atomic.Int32
}

func (m *mockProcessor) ProcessFile(ctx context.Context, path string) (chapter.Report, error) {
	m.calls.Add(1)
	return m.process(ctx, path)
}

func TestWorkers(t *testing.T) {
	assert.Equal(t, 2, Workers(4, 2))
	assert.Equal(t, 3, Workers(3, 10))
	assert.Equal(t, 1, Workers(4, 0))
	assert.Equal(t, min(runtime.NumCPU(), 100), Workers(0, 100))
}

func TestDriver_Run_IsolatesFailures(t *testing.T) {
	proc := &mockProcessor{process: func(_ context.Context, path string) (chapter.Report, error) {
		switch path {
		case "bad":
			return chapter.Report{Path: path}, errors.New("boom")
		case "dirty":
			return chapter.Report{Path: path, IssuesFound: true, Changed: true}, nil
		case "inline":
			return chapter.Report{Path: path, Changed: true}, nil
		case "cached":
			return chapter.Report{Path: path, Cached: true}, nil
		}
		return chapter.Report{Path: path}, nil
	}}

	files := []string{"clean", "bad", "dirty", "inline", "cached"}
	summary, err := New(proc, Config{Jobs: 2}, nil).Run(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, int32(len(files)), proc.calls.Load())
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Issues)
	assert.Equal(t, 1, summary.Fixed)
	assert.Equal(t, 1, summary.Cached)
	assert.True(t, summary.AnyIssue())

	var statuses []string
	for _, r := range summary.Results {
		statuses = append(statuses, r.Status())
	}
	want := []string{StatusClean, StatusFailed, StatusIssues, StatusFixed, StatusCached}
	if diff := cmp.Diff(want, statuses); diff != "" {
		t.Errorf("statuses mismatch (-want +got):\n%s", diff)
	}

	outcomes := summary.Outcomes()
	require.Len(t, outcomes, len(files))
	assert.Equal(t, "bad", outcomes[1].Path)
	assert.Equal(t, "boom", outcomes[1].Error)
}

func TestDriver_Run_Canceled(t *testing.T) {
	proc := &mockProcessor{process: func(_ context.Context, path string) (chapter.Report, error) {
		return chapter.Report{Path: path}, nil
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := New(proc, Config{Jobs: 1}, nil).Run(ctx, []string{"a", "b"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), proc.calls.Load())
	assert.Equal(t, 2, summary.Failed)
}

func TestDriver_Run_Chapters(t *testing.T) {
	dir := t.TempDir()
	clean := filepath.Join(dir, "clean.tex")
	dirty := filepath.Join(dir, "dirty.tex")
	require.NoError(t, os.WriteFile(clean, []byte("The cat sat on the mat.\n"), 0644))
	require.NoError(t, os.WriteFile(dirty, []byte("foo,, bar\n"), 0644))

	proc := chapter.NewProcessor(settings.Default(), nil)
	summary, err := New(proc, Config{}, nil).Run(context.Background(), []string{clean, dirty})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Issues)
	assert.Equal(t, 0, summary.Failed)

	proposal, err := os.ReadFile(chapter.AutofixPath(dirty))
	require.NoError(t, err)
	assert.Equal(t, "foo, bar\n", string(proposal))
}

func TestCheck(t *testing.T) {
	clean := &Summary{}
	dirty := &Summary{Issues: 1}
	failed := &Summary{Failed: 1}

	assert.NoError(t, Check(clean, true))
	assert.NoError(t, Check(dirty, false))
	assert.ErrorIs(t, Check(dirty, true), ErrIssuesFound)
	assert.ErrorIs(t, Check(failed, true), ErrIssuesFound)
}

func TestCleanAutofix(t *testing.T) {
	dir := t.TempDir()
	chapterPath := filepath.Join(dir, "hpmor-chapter-001.tex")
	stale := filepath.Join(dir, "hpmor-chapter-001-autofix.tex")
	other := filepath.Join(dir, "notes.txt")
	for _, p := range []string{chapterPath, stale, other} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}

	removed, err := CleanAutofix([]string{chapterPath})
	require.NoError(t, err)
	assert.Equal(t, []string{stale}, removed)

	assert.FileExists(t, chapterPath)
	assert.FileExists(t, other)
	assert.NoFileExists(t, stale)
}
