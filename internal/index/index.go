// Package index discovers the chapter files included by the book's main
// LaTeX document.
package index

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// DefaultFile is the main document of the book.
const DefaultFile = "hpmor.tex"

var (
	reInclude = regexp.MustCompile(`include\{(chapters/.+?)\}`)
	reComment = regexp.MustCompile(`^\s*%`)
)

// Discover reads the index document and returns the chapter files it
// includes, in order of appearance. Commented-out directives are ignored
// and includes that do not resolve to an existing file are skipped.
// Paths are resolved against the directory of the index file; ".tex" is
// appended when the include names no extension.
func Discover(indexPath string) ([]string, error) {
	f, err := os.Open(indexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer f.Close()

	base := filepath.Dir(indexPath)
	seen := make(map[string]bool)
	var files []string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if reComment.MatchString(line) {
			continue
		}
		m := reInclude.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		if filepath.Ext(name) == "" {
			name += ".tex"
		}
		path := filepath.Join(base, filepath.FromSlash(name))
		if seen[path] {
			continue
		}
		if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
			continue
		}
		seen[path] = true
		files = append(files, path)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	return files, nil
}
