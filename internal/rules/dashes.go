package rules

import (
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/valpere/chapfix/internal/settings"
)

// German spacing around the ellipsis and the em dash follows one rule set,
// so both glyphs share these boundary classes.
const (
	// the glyph stays attached after these (line start, opening quotes,
	// opening brackets)
	attachAfter = ` „‚\(\{\n^`
	// the glyph stays attached before these (punctuation, closing quotes,
	// closing brackets, line end)
	attachBefore = ` \.\?\)\}!:,;“‘\n$`
)

// glyphSpacing spaces a glyph the German way: one space on each side
// except next to the boundary characters above, and a space after a
// closing quote that directly follows the glyph.
type glyphSpacing struct {
	trim, before, after, afterQuote *regexp2.Regexp
	glyph                           string
}

func newGlyphSpacing(glyph string) glyphSpacing {
	g := regexp2.Escape(glyph)
	return glyphSpacing{
		glyph:      glyph,
		trim:       mustCompile(` *` + g + ` *`),
		before:     mustCompile(`(?<=[^` + attachAfter + `])` + g),
		after:      mustCompile(g + `(?=[^` + attachBefore + `])`),
		afterQuote: mustCompile(g + `“(?=[^\s])`),
	}
}

func (gs glyphSpacing) apply(s string) string {
	s = replace(gs.trim, s, gs.glyph)
	s = replace(gs.before, s, " "+gs.glyph)
	s = replace(gs.after, s, gs.glyph+" ")
	s = replace(gs.afterQuote, s, gs.glyph+"“ ")
	return s
}

var (
	ellipsisSpacingDE = newGlyphSpacing("…")
	dashSpacingDE     = newGlyphSpacing("—")

	reEllipsisSpaces       = mustCompile(` *… *`)
	reEllipsisAfterPunct   = mustCompile(`(?<=[\.\?!:,;])…`)
	reDashGlued            = mustCompile(`[\-—]*(?:-—|—-)[\-—]*`)
	reDashSpaced           = mustCompile(` +[—–\-] +`)
	reDashBeforePunct      = mustCompile(` +—([,\.!\?;])`)
	reNumberRange          = mustCompile(`(\d)\-(?=\d)`)
	reDashLineStart        = mustCompile(`^[\-—] *`)
	reHyphenEndOfEmph      = mustCompile(`(\s*)\-\}`)
	reHyphenEndOfQuote     = mustCompile(`(\s*)\-”`)
	reSpaceBeforeDashQuote = mustCompile(`\s+(—”)`)
)

// FixEllipsis replaces "..." with … and normalises the spaces around it.
// English: no spaces, except after punctuation ("foo, …"). German: spaced
// on both sides unless next to a boundary character.
func FixEllipsis(s string, cfg settings.Settings) string {
	s = strings.ReplaceAll(s, "...", "…")
	s = replace(reEllipsisSpaces, s, "…")

	switch cfg.Language {
	case settings.DE:
		s = ellipsisSpacingDE.apply(s)
	default:
		s = replace(reEllipsisAfterPunct, s, " …")
	}
	return s
}

var dashSubstitutions = []substitution{
	{"---", "—"},
	{"--", "—"},
}

// FixHyphens turns ASCII dash sequences and spaced hyphens into em dashes,
// uses the mid dash in number ranges (2-4 → 2–4) and applies the
// language's spacing around the em dash.
func FixHyphens(s string, cfg settings.Settings) string {
	for _, sub := range dashSubstitutions {
		s = strings.ReplaceAll(s, sub.from, sub.to)
	}
	// a hyphen glued to an em dash is a typo for the em dash alone
	s = replace(reDashGlued, s, "—")
	s = replace(reDashSpaced, s, "—")
	s = replace(reDashBeforePunct, s, "—${1}")
	s = replace(reNumberRange, s, "${1}–")

	switch cfg.Language {
	case settings.EN:
		s = replace(reDashLineStart, s, "—")
		s = replace(reDashGlued, s, "—")
		s = replace(reHyphenEndOfEmph, s, "—}${1}")
		s = replace(reHyphenEndOfQuote, s, "—”${1}")
		s = replace(reSpaceBeforeDashQuote, s, "${1}")
	case settings.DE:
		s = dashSpacingDE.apply(s)
		// spacing can surround a stray hyphen: —“- → —“ -
		if spaced := replace(reDashSpaced, s, "—"); spaced != s {
			s = dashSpacingDE.apply(spaced)
		}
	}
	return s
}
