// Package validator checks that a chapter is written in the expected language.
package validator

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/valpere/chapfix/internal/detector"
	"github.com/valpere/chapfix/internal/rules"
	"github.com/valpere/chapfix/internal/settings"
)

// minValidationLength is the minimum rune count required to attempt language detection.
// Shorter texts produce unreliable results and are accepted without validation.
const minValidationLength = 20

// maxSampleLength bounds how much prose is handed to the detector.
const maxSampleLength = 4000

var (
	reTrailingComment = regexp2.MustCompile(`(?<!\\)%.*$`, regexp2.None)
	reCommand         = regexp2.MustCompile(`\\[a-zA-Z@]+\*?(?:\[[^\]]*\])?`, regexp2.None)
	reMarkup          = regexp2.MustCompile(`[{}~\\]`, regexp2.None)
)

// Validator checks that chapter prose is written in the configured language.
// The underlying language detector is expensive to build; reuse the instance.
type Validator struct {
	det *detector.Detector
}

// New creates a Validator backed by the lingua-go language detector.
func New() *Validator {
	return &Validator{det: detector.New()}
}

// Prose strips comments and markup from a chapter, leaving the running
// text. A failing pattern is returned as a *rules.Error.
func Prose(chapter string) (string, error) {
	var b strings.Builder
	for _, line := range strings.Split(chapter, "\n") {
		if rules.IsComment(line) {
			continue
		}
		var err error
		for _, st := range prosePasses {
			if line, err = strip(st.re, line, st.repl); err != nil {
				return "", err
			}
		}
		if fields := strings.Fields(line); len(fields) > 0 {
			b.WriteString(strings.Join(fields, " "))
			b.WriteByte(' ')
		}
	}
	return strings.TrimSpace(b.String()), nil
}

var prosePasses = []struct {
	re   *regexp2.Regexp
	repl string
}{
	{reTrailingComment, ""},
	{reCommand, " "},
	{reMarkup, " "},
}

func strip(re *regexp2.Regexp, s, repl string) (string, error) {
	out, err := re.Replace(s, repl, -1, -1)
	if err != nil {
		return "", &rules.Error{Pattern: re.String(), Err: err}
	}
	return out, nil
}

// IsValid returns true when the chapter appears to be written in want.
//
// Chapters with too little prose and chapters whose language cannot be
// determined pass without error. When the detected language differs the
// returned error names both codes. A *rules.Error means the prose could not
// be extracted at all.
func (v *Validator) IsValid(chapter string, want settings.Language) (bool, error) {
	if want == "" {
		return true, nil
	}

	text, err := Prose(chapter)
	if err != nil {
		return false, err
	}
	if text == "" {
		return false, fmt.Errorf("chapter has no prose")
	}

	runes := []rune(text)
	if len(runes) < minValidationLength {
		return true, nil
	}
	if len(runes) > maxSampleLength {
		text = string(runes[:maxSampleLength])
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		// ambiguous
		return true, nil
	}

	if !strings.EqualFold(detected, string(want)) {
		return false, fmt.Errorf("expected %s but detected %s", want, detected)
	}

	return true, nil
}
