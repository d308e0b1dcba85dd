// Package rules implements the typographic normalisation of LaTeX chapter
// lines.
//
// Every rule is a pure function of a single line and the run settings. The
// rules are applied in the fixed order given by Pipeline; the order is
// load-bearing because later rules key off characters that earlier rules
// introduce or move (e.g. quotation rules look at dashes and ellipses that
// were already normalised).
//
// Quotation conventions:
//
//	EN  “…”  ‘…’
//	DE  „…“  ‚…‘
//
// The apostrophe is ’ in both languages.
package rules

import (
	"fmt"
	"slices"

	"github.com/dlclark/regexp2"

	"github.com/valpere/chapfix/internal/settings"
)

// Version identifies the rule set. Bump it whenever a rule changes
// behaviour so cached clean verdicts are invalidated.
const Version = "2026.10.2"

// Func is the signature shared by all rules.
type Func func(line string, cfg settings.Settings) string

// Rule is one named step of the pipeline.
type Rule struct {
	Name string
	// Languages restricts the rule; nil means every language.
	Languages   []settings.Language
	Description string
	Fix         Func
}

// AppliesTo reports whether the rule runs for lang.
func (r Rule) AppliesTo(lang settings.Language) bool {
	return len(r.Languages) == 0 || slices.Contains(r.Languages, lang)
}

var germanOnly = []settings.Language{settings.DE}

// Pipeline is the ordered rule sequence applied by FixLine.
//
// Whitespace runs first and again after the simple rules since those can
// leave runs of spaces behind; it runs a third time at the end because the
// quotation rules move spaces around.
var Pipeline = []Rule{
	{Name: "spaces", Description: "collapse runs of spaces and tabs, strip trailing whitespace", Fix: FixSpaces},
	{Name: "common-typos", Description: "canonical terms and apostrophes", Fix: FixCommonTypos},
	{Name: "ellipsis", Description: "… glyph and the spaces around it", Fix: FixEllipsis},
	{Name: "latex", Description: "structural commands on their own line", Fix: FixLatex},
	{Name: "honorifics", Description: "non-breaking space after Mr, Mrs, Miss, Dr", Fix: FixMrMrs},
	{Name: "numbers", Description: "non-breaking space between number and unit", Fix: FixNumbers},
	{Name: "punctuation", Description: "collapse repeated ,.!?:;", Fix: FixPunctuation},
	{Name: "spaces", Description: "collapse spaces left behind by the rules above", Fix: FixSpaces},
	{Name: "emph", Description: "move spaces and punctuation out of \\emph{}", Fix: FixEmph},
	{Name: "hyphens", Description: "em dash, mid dash in number ranges, dash spacing", Fix: FixHyphens},
	{Name: "quotations", Description: "curly quotation marks and their placement", Fix: FixQuotations},
	{Name: "speech-linebreaks", Languages: germanOnly, Description: "line break before paragraph-internal dialogue", Fix: FixLinebreaksSpeech},
	{Name: "spell", Languages: germanOnly, Description: "wrap incantations in \\spell{}", Fix: FixSpell},
	{Name: "spaces", Description: "final whitespace cleanup", Fix: FixSpaces},
}

// FixLine applies every rule of the pipeline that is enabled for the
// configured language. Callers must not pass comment lines; see
// IsComment.
func FixLine(line string, cfg settings.Settings) string {
	for _, r := range Pipeline {
		if !r.AppliesTo(cfg.Language) {
			continue
		}
		line = r.Fix(line, cfg)
	}
	return line
}

// Error is raised (as a panic value) when the regex engine fails while
// applying a rule. The file processor recovers it and fails only the file
// being processed.
type Error struct {
	Pattern string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("rule pattern %q failed: %v", e.Pattern, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func mustCompile(pattern string) *regexp2.Regexp {
	return regexp2.MustCompile(pattern, regexp2.None)
}

// replace substitutes every match of re in s. Replacement strings use the
// .NET syntax of regexp2: ${1} for groups, backslashes are literal.
func replace(re *regexp2.Regexp, s, repl string) string {
	out, err := re.Replace(s, repl, -1, -1)
	if err != nil {
		panic(&Error{Pattern: re.String(), Err: err})
	}
	return out
}

// substitution is a literal search/replace pair.
type substitution struct {
	from, to string
}

// rewrite is a compiled pattern with its replacement.
type rewrite struct {
	re   *regexp2.Regexp
	repl string
}

func pair(pattern, repl string) *rewrite {
	return &rewrite{re: mustCompile(pattern), repl: repl}
}

func (r *rewrite) apply(s string) string {
	return replace(r.re, s, r.repl)
}
