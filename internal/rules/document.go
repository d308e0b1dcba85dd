package rules

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/valpere/chapfix/internal/settings"
)

var (
	reLineEndings = mustCompile(`\r\n?`)
	reBlankRuns   = mustCompile(`\n\n\n+`)
	// the line before \translatorsnote must end in % so no space appears
	reNoteAfterNewline = mustCompile(`(?<!%)\n(\\translatorsnote)`)
)

// FixDocument applies the whole-document checks that run before the
// per-line pipeline: LF line endings, NFC normalisation of every line that
// is not a comment, at most one empty line in a row and, for translations,
// a % ending the line before \translatorsnote.
func FixDocument(s string, cfg settings.Settings) string {
	s = replace(reLineEndings, s, "\n")
	s = composeLines(s)
	s = replace(reBlankRuns, s, "\n\n")
	if cfg.Language != settings.EN {
		s = replace(reNoteAfterNewline, s, "%\n${1}")
	}
	return s
}

// composeLines NFC-normalises each line; comment lines keep their bytes.
func composeLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if !IsComment(line) {
			lines[i] = norm.NFC.String(line)
		}
	}
	return strings.Join(lines, "\n")
}
