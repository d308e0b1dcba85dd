package rules

import (
	"fmt"
	"strings"

	"github.com/valpere/chapfix/internal/settings"
)

// quoteStyle holds the quotation glyphs of one language and the rewrites
// FixQuotations applies with them.
type quoteStyle struct {
	open, close             string
	openSingle, closeSingle string

	straightDouble *rewrite // "…" → open…close
	straightSingle *rewrite // '…' → openSingle…closeSingle
	wordQuote      *rewrite // ` "Word…"` and ` "\cmd…"`
	spaceAfterOpen *rewrite
	spaceBeforeEnd *rewrite
	closeBrace     *rewrite // ” } → ”} (the brace goes first)
	quoteOutOfEmph *rewrite // \emph{“…”} → “\emph{…}”
	loneCloseEmph  *rewrite // \emph{…”} → \emph{…}”
	singleEmphOut  *rewrite // ‘\emph{…}’ → ‘…’
	singleEmphIn   *rewrite // \emph{‘…’} → ‘…’
}

var (
	quotesEN = quoteStyle{
		open: "“", close: "”", openSingle: "‘", closeSingle: "’",
		straightDouble: pair(`"([^"]+)"`, "“${1}”"),
		straightSingle: pair(`'([^']+)'`, "‘${1}’"),
		wordQuote:      pair(`(^|\s)"([\\\w].*?)"`, "${1}“${2}”"),
		spaceAfterOpen: pair(`“[ \t]+`, "“"),
		spaceBeforeEnd: pair(`[ \t]+”`, "”"),
		closeBrace:     pair(`”[ \t]+\}`, "”} "),
		quoteOutOfEmph: pair(`\\(emph|shout)\{“([^”]+?)”\}`, "“\\${1}{${2}}”"),
		loneCloseEmph:  pair(`(\\emph\{[^“]+?)”\}`, "${1}}”"),
		singleEmphOut:  pair(`‘\\emph\{([^}]+)\}’`, "‘${1}’"),
		singleEmphIn:   pair(`\\emph\{‘([^}]+)’\}`, "‘${1}’"),
	}
	quotesDE = quoteStyle{
		open: "„", close: "“", openSingle: "‚", closeSingle: "‘",
		straightDouble: pair(`"([^"]+)"`, "„${1}“"),
		straightSingle: pair(`'([^']+)'`, "‚${1}‘"),
		wordQuote:      pair(`(^|\s)"([\\\w].*?)"`, "${1}„${2}“"),
		spaceAfterOpen: pair(`„[ \t]+`, "„"),
		spaceBeforeEnd: pair(`[ \t]+“`, "“"),
		closeBrace:     pair(`“[ \t]+\}`, "“} "),
		quoteOutOfEmph: pair(`\\(emph|shout)\{„([^“]+?)“\}`, "„\\${1}{${2}}“"),
		loneCloseEmph:  pair(`(\\emph\{[^„]+?)“\}`, "${1}}“"),
		singleEmphOut:  pair(`‚\\emph\{([^}]+)\}‘`, "‚${1}‘"),
		singleEmphIn:   pair(`\\emph\{‚([^}]+)‘\}`, "‚${1}‘"),
	}

	// German only: English, French and mixed quotes become German ones.
	migrateToGerman = []*rewrite{
		pair(`’([^ ‚‘’„“”"']+?)‘`, "‚${1}‘"), // ’Ja‘ → ‚Ja‘
		pair(`“([^“”]+?)”`, "„${1}“"),
		pair(`‘([^‘’]+?)’`, "‚${1}‘"),
		pair(`»([^»«]+?)«`, "„${1}“"),
		pair(`\\(lettrine|lettrinepara)\[ante=“\]`, "\\${1}[ante=„]"),
	}

	reDoubleSpacesInner  = mustCompile(`(?<!^)[ \t][ \t]+`)
	reCommaBeforeCloseDE = mustCompile(`(^|[^\.,!\?;“ \t])[ \t]*,(“+)`)
	reCommaBeforeBraceDE = mustCompile(`(^|[^\.,!\?;“]),\}“`)
	reWordAfterCloseDE   = mustCompile(`(“)([\w])`)
)

// magicWords contains a spell whose apostrophes are part of the word;
// single quotes are left alone on such lines.
const magicWords = "nglui mglw"

func styleFor(lang settings.Language) quoteStyle {
	if lang == settings.DE {
		return quotesDE
	}
	return quotesEN
}

// FixQuotations converts straight quotes to the language's curly quotes
// and fixes their placement relative to spaces, markup and commas.
//
// The steps are order dependent: migration and straight-quote conversion
// run first so every later step only has to handle the target style.
func FixQuotations(s string, cfg settings.Settings) string {
	q := styleFor(cfg.Language)
	de := cfg.Language == settings.DE

	s = q.straightDouble.apply(s)
	if !strings.Contains(s, magicWords) {
		s = q.straightSingle.apply(s)
	}
	if de {
		for _, p := range migrateToGerman {
			s = p.apply(s)
		}
		// unpaired English closing quotes
		s = strings.ReplaceAll(s, "”", "“")
	}
	s = q.wordQuote.apply(s)
	s = q.spaceAfterOpen.apply(s)
	s = q.closeBrace.apply(s)
	s = q.spaceBeforeEnd.apply(s)

	if de {
		s = strings.ReplaceAll(s, "…„", "… „")
	}
	s = replace(reDoubleSpacesInner, s, " ")
	s = replace(reTrailingSpace, s, "")

	s = q.quoteOutOfEmph.apply(s)
	s = q.loneCloseEmph.apply(s)

	if de {
		// „…,“ → „…“, but keep the comma after other punctuation
		s = replace(reCommaBeforeCloseDE, s, "${1}${2},")
	}

	s = q.singleEmphOut.apply(s)
	s = q.singleEmphIn.apply(s)

	if de {
		s = replace(reCommaBeforeBraceDE, s, "${1}}“,")
		s = replace(reWordAfterCloseDE, s, "${1} ${2}")
	}
	return s
}

// QuoteBalance returns a warning for each kind of German quotation mark
// whose opening and closing counts differ. Lines containing a LaTeX line
// break are skipped since quotes there legitimately span lines. English
// lines are not checked: ’ doubles as the apostrophe.
func QuoteBalance(s string, cfg settings.Settings) []string {
	if cfg.Language != settings.DE || strings.Contains(s, `\\`) {
		return nil
	}
	var warnings []string
	for _, q := range [][2]string{{quotesDE.open, quotesDE.close}, {quotesDE.openSingle, quotesDE.closeSingle}} {
		opening, closing := strings.Count(s, q[0]), strings.Count(s, q[1])
		if opening != closing {
			warnings = append(warnings, fmt.Sprintf("quotation %s/%s mismatch (%d/%d)", q[0], q[1], opening, closing))
		}
	}
	return warnings
}
