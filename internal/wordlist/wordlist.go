// Package wordlist finds spell-check dictionary entries that no chapter
// uses any more.
package wordlist

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/valpere/chapfix/internal/chapter"
)

// DefaultFile is the cspell word list of the book.
const DefaultFile = "cspell-words.txt"

// reComment matches a LaTeX comment up to and including its line break;
// an escaped \% is text.
var reComment = regexp2.MustCompile(`(?<!\\)%.*\n`, regexp2.None)

// Load reads a word list, one entry per line, and returns it without
// duplicates or blank lines, sorted case-insensitively.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}

	seen := make(map[string]bool)
	var words []string
	for _, w := range strings.Split(string(data), "\n") {
		w = strings.TrimRight(w, "\r")
		if strings.TrimSpace(w) == "" || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	Sort(words)
	return words, nil
}

// Sort orders words case-insensitively, ties broken by byte order.
func Sort(words []string) {
	sort.Slice(words, func(i, j int) bool {
		li, lj := strings.ToLower(words[i]), strings.ToLower(words[j])
		if li != lj {
			return li < lj
		}
		return words[i] < words[j]
	})
}

// StripComments removes commented text, line break included.
func StripComments(text string) (string, error) {
	out, err := reComment.Replace(text, "", -1, -1)
	if err != nil {
		return "", fmt.Errorf("failed to strip comments: %w", err)
	}
	return out, nil
}

// ChapterText concatenates every chapter in dir in name order, without
// comments. Proposal files are left out.
func ChapterText(dir string) (string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.tex"))
	if err != nil {
		return "", fmt.Errorf("failed to list chapters: %w", err)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, p := range paths {
		if chapter.IsAutofix(p) {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return "", fmt.Errorf("failed to read chapter: %w", err)
		}
		b.Write(data)
	}
	return StripComments(b.String())
}

// Unused returns the words that do not occur anywhere in text, in the
// order given. Matching is by substring, like the spell checker's.
func Unused(words []string, text string) []string {
	var unused []string
	for _, w := range words {
		if !strings.Contains(text, w) {
			unused = append(unused, w)
		}
	}
	return unused
}
