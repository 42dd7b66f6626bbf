package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/wricardo/wordgrid/game/engine"
)

// ReadDictionary reads a newline-separated word list. Blank lines and lines
// starting with '#' are skipped; only the first field of a line is used.
func ReadDictionary(path string) (engine.Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.Fields(line)[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	return engine.NewDictionary(words), nil
}

// LoadDictionary is ReadDictionary for server startup. An empty path, a
// missing file or an unreadable file is not fatal: a warning is logged and
// the returned dictionary accepts every word.
func LoadDictionary(path string) engine.Dictionary {
	if path == "" {
		log.Info().Msg("no dictionary configured, accepting all words")
		return nil
	}
	dict, err := ReadDictionary(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("dictionary unavailable, accepting all words")
		return nil
	}
	if !dict.Enabled() {
		log.Warn().Str("path", path).Msg("dictionary is empty, accepting all words")
		return nil
	}
	log.Info().Str("path", path).Int("words", len(dict)).Msg("dictionary loaded")
	return dict
}
