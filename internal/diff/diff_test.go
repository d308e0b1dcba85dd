package diff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnified_Equal(t *testing.T) {
	out, err := Unified("a.tex", "same\n", "same\n", DefaultContext)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestUnified_ChangedLine(t *testing.T) {
	before := "one\nHallo  Harry\nthree\n"
	after := "one\nHallo Harry\nthree\n"

	out, err := Unified("chapter.tex", before, after, DefaultContext)
	require.NoError(t, err)

	assert.Contains(t, out, "--- chapter.tex")
	assert.Contains(t, out, "+++ chapter.tex (proposed)")
	assert.Contains(t, out, "-Hallo  Harry\n")
	assert.Contains(t, out, "+Hallo Harry\n")
	assert.NotContains(t, out, " one\n", "no context lines expected")
}

func TestUnified_Context(t *testing.T) {
	out, err := Unified("c.tex", "one\ntwo\nthree\n", "one\n2\nthree\n", 1)
	require.NoError(t, err)
	assert.Contains(t, out, " one\n")
	assert.Contains(t, out, " three\n")
}

func TestColorize_KeepsText(t *testing.T) {
	in := "--- a\n+++ a (proposed)\n@@ -1 +1 @@\n-old\n+new\n"
	out := Colorize(in)
	for _, want := range []string{"old", "new", "@@ -1 +1 @@", "--- a"} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, strings.Count(in, "\n"), strings.Count(out, "\n"))
}

func TestClassify_DashLinesInsideHunk(t *testing.T) {
	lines := []string{
		"--- a.tex",
		"+++ a.tex (proposed)",
		"@@ -1,2 +1,2 @@",
		"---x",
		"+++y",
		"-- two",
		" same",
	}
	want := []lineKind{headerLine, headerLine, hunkLine, removedLine, addedLine, removedLine, contextLine}
	assert.Equal(t, want, classify(lines))
}

func TestUnified_RemovedDashLine(t *testing.T) {
	out, err := Unified("c.tex", "--x\n", "—x\n", DefaultContext)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	kinds := classify(lines)
	require.Len(t, kinds, 5)
	assert.Equal(t, []lineKind{headerLine, headerLine, hunkLine, removedLine, addedLine}, kinds)
	assert.Equal(t, "---x", lines[3])
}

func TestColorize_Empty(t *testing.T) {
	assert.Empty(t, Colorize(""))
}
