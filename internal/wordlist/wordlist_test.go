package wordlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("zauber\nApparieren\n\nalohomora\r\nzauber\nMuggel\n"), 0644))

	words, err := Load(path)
	require.NoError(t, err)

	want := []string{"alohomora", "Apparieren", "Muggel", "zauber"}
	if diff := cmp.Diff(want, words); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), DefaultFile))
	assert.Error(t, err)
}

func TestSort_TieBreak(t *testing.T) {
	words := []string{"muggel", "Muggel", "apfel"}
	Sort(words)
	assert.Equal(t, []string{"apfel", "Muggel", "muggel"}, words)
}

func TestStripComments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"full line", "% Quidditch\nText\n", "Text\n"},
		{"trailing", "Text % Quidditch\nMore\n", "Text More\n"},
		{"escaped percent", "50\\% Quidditch\n", "50\\% Quidditch\n"},
		{"no final newline", "Text % Quidditch", "Text % Quidditch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StripComments(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChapterText_AndUnused(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"hpmor-chapter-002.tex":         "Muggel % Quidditch\n",
		"hpmor-chapter-001.tex":         "Apparieren\n",
		"hpmor-chapter-001-autofix.tex": "Zauberstab\n",
		"notes.txt":                     "Dementor\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	text, err := ChapterText(dir)
	require.NoError(t, err)
	assert.Equal(t, "Apparieren\nMuggel ", text)

	words := []string{"Apparieren", "Dementor", "Muggel", "Quidditch", "Zauberstab"}
	assert.Equal(t, []string{"Dementor", "Quidditch", "Zauberstab"}, Unused(words, text))
}
