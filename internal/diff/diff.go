// Package diff renders the difference between a chapter and its proposed
// fix as a unified diff.
package diff

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"
)

// DefaultContext is the number of unchanged lines shown around a change.
const DefaultContext = 0

// Unified returns the unified diff between before and after, or "" when
// they are equal. name labels both sides of the diff header.
func Unified(name, before, after string, context int) (string, error) {
	if before == after {
		return "", nil
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: name,
		ToFile:   name + " (proposed)",
		Context:  context,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("failed to render diff for %s: %w", name, err)
	}
	return text, nil
}

type lineKind int

const (
	contextLine lineKind = iota
	headerLine
	hunkLine
	addedLine
	removedLine
)

var styles = map[lineKind]lipgloss.Style{
	headerLine:  lipgloss.NewStyle().Bold(true),
	hunkLine:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	addedLine:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	removedLine: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
}

// classify returns the kind of each line of a unified diff. "---" and
// "+++" are file headers only before the first hunk; inside a hunk they
// are a removed "--…" or an added "++…" line.
func classify(lines []string) []lineKind {
	kinds := make([]lineKind, len(lines))
	inHunk := false
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "@@"):
			kinds[i] = hunkLine
			inHunk = true
		case !inHunk && (strings.HasPrefix(line, "+++") || strings.HasPrefix(line, "---")):
			kinds[i] = headerLine
		case strings.HasPrefix(line, "+"):
			kinds[i] = addedLine
		case strings.HasPrefix(line, "-"):
			kinds[i] = removedLine
		}
	}
	return kinds
}

// Colorize styles a unified diff for terminal output: headers bold, hunk
// markers cyan, additions green, removals red.
func Colorize(unified string) string {
	if unified == "" {
		return ""
	}
	body, trailing := strings.CutSuffix(unified, "\n")
	lines := strings.Split(body, "\n")
	kinds := classify(lines)
	for i, kind := range kinds {
		if style, ok := styles[kind]; ok {
			lines[i] = style.Render(lines[i])
		}
	}
	out := strings.Join(lines, "\n")
	if trailing {
		out += "\n"
	}
	return out
}
