package rules

import (
	"regexp"

	"github.com/valpere/chapfix/internal/settings"
)

var (
	reNoBreakSpaces = mustCompile("\u00a0+")
	reTabs          = mustCompile(`\t+`)
	reTrailingSpace = mustCompile(` +$`)
	reBlankLine     = mustCompile(`^\s+$`)
	// leading indentation is kept
	reInnerSpaces = mustCompile(`(?<!^)  +`)

	// a run of one punctuation character, optionally space separated
	reRepeatedPunct = mustCompile(`([,\.!\?:;])(?:\s*\1)+`)

	reNumberUnit = mustCompile(`(\d) +(Uhr)`)

	reComment = regexp.MustCompile(`^\s*%`)
)

// IsComment reports whether the whole line is a LaTeX comment. Such lines
// are never rewritten.
func IsComment(line string) bool {
	return reComment.MatchString(line)
}

// FixSpaces turns no-break spaces and tabs into plain spaces, removes
// trailing whitespace, empties whitespace-only lines and collapses inner
// runs of spaces.
func FixSpaces(s string, _ settings.Settings) string {
	s = replace(reNoBreakSpaces, s, " ")
	s = replace(reTabs, s, " ")
	s = replace(reTrailingSpace, s, "")
	s = replace(reBlankLine, s, "")
	s = replace(reInnerSpaces, s, " ")
	return s
}

// FixPunctuation collapses repeated identical punctuation: "foo,, bar" →
// "foo, bar". The ellipsis rule runs first so "..." is already "…".
func FixPunctuation(s string, _ settings.Settings) string {
	return replace(reRepeatedPunct, s, "${1}")
}

// FixNumbers binds units to the preceding number (German only).
func FixNumbers(s string, cfg settings.Settings) string {
	if cfg.Language == settings.DE {
		s = replace(reNumberUnit, s, "${1}~${2}")
	}
	return s
}
