package config

import (
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestReadDictionary(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	writeRulesFile(t, dir, "words.txt", "# comment\ncat\n\n  Dog  \nemu extra\n")

	dict, err := ReadDictionary(filepath.Join(dir, "words.txt"))
	is.NoErr(err)
	is.Equal(len(dict), 3)
	is.True(dict.Contains("CAT"))
	is.True(dict.Contains("dog"))
	is.True(dict.Contains("EMU"))
	is.True(!dict.Contains("EXTRA"))
}

func TestLoadDictionaryFallsBack(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	writeRulesFile(t, dir, "empty.txt", "\n# nothing\n")

	for _, path := range []string{"", filepath.Join(dir, "missing.txt"), filepath.Join(dir, "empty.txt"), dir} {
		dict := LoadDictionary(path)
		is.True(!dict.Enabled())
		is.True(dict.Accepts("ANYTHING"))
	}

	writeRulesFile(t, dir, "words.txt", "cat\n")
	is.True(LoadDictionary(filepath.Join(dir, "words.txt")).Enabled())
}
