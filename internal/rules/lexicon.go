package rules

import (
	"slices"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/valpere/chapfix/internal/settings"
)

// termsDE maps known mistranslations and inconsistent spellings to the
// canonical German term. Entries are independent of each other.
//
// cspell:disable
var termsDE = []substitution{
	{"Adoleszenz", "Pubertät"},
	{"Avadakedavra", "Avada Kedavra"},
	{"Diagon Alley", "Winkelgasse"},
	{"Hermione", "Hermine"},
	{"Junge-der-überlebt-hatte", "Junge-der-überlebte"},
	{"Junge-der-überlebt-hat", "Junge-der-überlebte"},
	{"Jungen-der-überlebt-hat", "Jungen-der-überlebte"},
	{"Junge, der lebte", "Junge-der-überlebte"},
	{"Muggelforscher", "Muggelwissenschaftler"},
	{"Stupefy", "Stupor"},
	{"Wizengamot", "Zaubergamot"},
	{"S.P.H.E.W.", `\SPHEW`},
	{"ut mir Leid", "ut mir leid"},
	{"Godric’s", "Godrics"},
	{"Godric's", "Godrics"},
}

// cspell:enable

var (
	reMungo = mustCompile(`Mungo(|’|')s`)

	reApostropheS     = mustCompile(`(\w)'(s)\b`)
	reApostropheSchDE = mustCompile(`(\w)'(sche|scher|schen)\b`)
	reApostropheTEN   = mustCompile(`(\w)'(t)\b`)
	reIAmEN           = mustCompile(`\bI'm\b`)

	reHonorificDE    = mustCompile(`\b(Mr|Mrs|Miss|Dr)\b\.?\s+(?!”)`)
	reHonorificTilde = mustCompile(`\b(Mr|Mrs|Miss|Dr)\b\.~`)
)

// FixCommonTypos replaces known bad terms (German) and straight
// apostrophes inside words. It runs before FixQuotations so those
// apostrophes are not mistaken for single quotes.
func FixCommonTypos(s string, cfg settings.Settings) string {
	if cfg.Language == settings.DE {
		for _, t := range termsDE {
			s = strings.ReplaceAll(s, t.from, t.to)
		}
		s = replace(reMungo, s, "Mungo")
	}

	s = replace(reApostropheS, s, "${1}’${2}")
	switch cfg.Language {
	case settings.DE:
		s = replace(reApostropheSchDE, s, "${1}’${2}")
	case settings.EN:
		s = replace(reApostropheTEN, s, "${1}’${2}")
		s = replace(reIAmEN, s, "I’m")
	}
	return s
}

// FixMrMrs binds honorifics to the following name with a non-breaking
// space (~). "Mr. H. Potter" is handled in both languages; German binds
// every Mr, Mrs, Miss and Dr, with or without a period. A sentence ending
// in "Miss." is left alone since no whitespace follows.
func FixMrMrs(s string, cfg settings.Settings) string {
	s = strings.ReplaceAll(s, "Mr. H. Potter", "Mr~H.~Potter")
	if cfg.Language == settings.DE {
		s = replace(reHonorificDE, s, "${1}~")
	}
	s = replace(reHonorificTilde, s, "${1}~")
	return s
}

// spellsDE lists the incantations wrapped in \spell{}. "Avada Kedavra" is
// missing on purpose as it is often emphasised as plain text, so is
// "Imperius".
//
// cspell:disable
var spellsDE = []string{
	"Accio",
	"Alohomora",
	"Aguamenti",
	"Cluthe",
	"Colloportus",
	"Contego",
	"Crystferrium",
	"Diffindo",
	"Deligitor prodeas",
	"Dulak",
	"Elmekia",
	"Episkey",
	"Expecto Patronum",
	"Expelliarmus",
	"Finite Incantatem",
	"Finite",
	"Flipendo",
	"Frigideiro",
	"Glisseo",
	"Gom jabbar",
	"Hyakuju montauk",
	"Homenum Revelio",
	"Impedimenta",
	"Incendium",
	"Inflammare",
	"Innervate",
	"Jellify",
	"Lagann",
	"Lucis Gladius",
	"Luminos",
	"Lumos",
	"Mahasu",
	"Obliviate",
	"Oogely boogely",
	"Prismatis",
	"Polyfluis Reverso",
	"Protego",
	"Protego Maximus",
	"Quiescus",
	"Quietus",
	"Ravum Calvaria",
	"Rennervate",
	"Scourgify",
	"Steleus",
	"Ratzeputz",
	"Silencio",
	"Somnium",
	"Stupefy",
	"Stupor",
	"Thermos",
	"Tonare",
	"Ventriliquo",
	"Veritas Oculum",
	"Ventus",
	"Wingardium Leviosa",
}

// cspell:enable

// notASpell looks like an incantation but is used as a plain word.
const notASpell = "Imperius"

var (
	spellGroup = spellAlternation(spellsDE)

	reSpellInEmph      = mustCompile(`\\emph\{„?` + spellGroup + `[!\.“]?\}`)
	reEmphSpellInQuote = mustCompile(`„\\emph\{„?` + spellGroup + `[!\.]?“?\}`)
	reSpellSingleQuote = mustCompile(`‚` + spellGroup + `!?‘`)
	reSpellDoubleQuote = mustCompile(`„` + spellGroup + `!?“`)

	reSpellBang     = mustCompile(`(\\spell\{[^}]+)!\}`)
	reSpellThenBang = mustCompile(`(\\spell\{[^}]+)\}!`)
	reSpellInQuotes = mustCompile(`„?(\\spell\{[^}]+)\}“?`)
)

// spellAlternation builds a capturing group of all spells, longest first
// so "Protego Maximus" wins over "Protego".
func spellAlternation(spells []string) string {
	sorted := slices.Clone(spells)
	slices.SortStableFunc(sorted, func(a, b string) int { return len(b) - len(a) })
	escaped := make([]string, len(sorted))
	for i, sp := range sorted {
		escaped[i] = regexp2.Escape(sp)
	}
	return "(" + strings.Join(escaped, "|") + ")"
}

// FixSpell rewrites incantations in \emph{} or quotation marks into
// \spell{} and drops the exclamation marks and quotes around it (German
// only; the English edition has no spell macro).
func FixSpell(s string, cfg settings.Settings) string {
	if cfg.Language != settings.DE {
		return s
	}

	s = replace(reSpellInEmph, s, "\\spell{${1}}")
	s = replace(reEmphSpellInQuote, s, "\\spell{${1}}“")
	s = replace(reSpellSingleQuote, s, "\\spell{${1}}")
	s = replace(reSpellDoubleQuote, s, "\\spell{${1}}")

	s = replace(reSpellBang, s, "${1}}")
	s = replace(reSpellThenBang, s, "${1}}")
	s = replace(reSpellInQuotes, s, "${1}}")

	s = strings.ReplaceAll(s, `\spell{`+notASpell+`}`, notASpell)
	return s
}
