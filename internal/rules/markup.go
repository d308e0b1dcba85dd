package rules

import (
	"strings"

	"github.com/valpere/chapfix/internal/settings"
)

var (
	reBeginEnd = mustCompile(`([^\s%]+?)\s*\\(begin|end)\{`)
	// \\ followed by text; \\ at line end, \\[1ex] and \\% stay
	reLineBreakText = mustCompile(`\\\\\s*(?!($|\[|%))`)
	// \translatorsnote not at the start of a line
	reTranslatorsNote = mustCompile(`(?<!^)(?<!\n)(\\translatorsnote)`)

	reEmphLeadingSpace = mustCompile(`((?:\\emph\{)+) +`)
	// \emph{word.} → \emph{word}. unless a closing quote follows
	reEmphPunctEN = mustCompile(`\\emph\{([^\}A-Z]+)([,\.;!\?])\}(?!”)`)
	reEmphPunctDE = mustCompile(`(?<!^)\\emph\{([^ …\}]+)([,\.])\}(?!“)`)
	// after a space, single lowercase words also lose ! and ?
	reEmphPunctWord = mustCompile(` \\emph\{([^ …\}A-Z]+)([,\.;!\?])\}`)

	reSpeechStart = mustCompile(` „(\\emph|[A-Z])`)
)

// FixLatex moves \begin{…} and \end{…} to a new line, breaks the line
// after a \\ followed by text and, for translations, starts
// \translatorsnote on its own line behind a % so no space is introduced.
//
// This rule may split one line into several.
func FixLatex(s string, cfg settings.Settings) string {
	s = replace(reBeginEnd, s, "${1}\n\\${2}{")
	s = replace(reLineBreakText, s, "\\\\\n")
	if cfg.Language != settings.EN {
		s = replace(reTranslatorsNote, s, "%\n${1}")
	}
	return s
}

// FixEmph moves a leading space in front of \emph and trailing
// punctuation of a single word behind it.
func FixEmph(s string, cfg settings.Settings) string {
	// \emph{ \emph{ x}} needs one pass per nesting level
	for {
		moved := replace(reEmphLeadingSpace, s, " ${1}")
		if moved == s {
			break
		}
		s = moved
	}

	switch cfg.Language {
	case settings.EN:
		// \lettrinepara{W}{\emph{hat?}} keeps its punctuation
		if !strings.Contains(s, "lettrinepara") {
			s = replace(reEmphPunctEN, s, "\\emph{${1}}${2}")
		}
	case settings.DE:
		s = replace(reEmphPunctDE, s, "\\emph{${1}}${2}")
	}

	s = replace(reEmphPunctWord, s, " \\emph{${1}}${2}")
	return s
}

// FixLinebreaksSpeech starts dialogue on a new line when a paragraph
// continues with a quotation opening a sentence (German only).
//
// This rule may split one line into several.
func FixLinebreaksSpeech(s string, cfg settings.Settings) string {
	if cfg.Language != settings.DE {
		return s
	}
	return replace(reSpeechStart, s, "\n„${1}")
}
