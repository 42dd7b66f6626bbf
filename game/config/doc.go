// Package config loads wordgrid rule sets and word lists.
//
// The config package handles:
//   - Loading rule sets from JSON or YAML files through viper
//   - Filling keys a file leaves out with the classic defaults
//   - Rule set validation, caching and listing
//   - Word list loading with an accept-all fallback
//
// Rule Files:
//
// A rule set lives in <dir>/<name>.json, <name>.yaml or <name>.yml. Every key
// is optional:
//
//	{
//	  "name": "blitz",
//	  "turn_timeout": "20s",
//	  "tick_interval": "1s",
//	  "win_score": 60,
//	  "rack_capacity": 7,
//	  "rack_soft_cap": 12,
//	  "min_players": 2,
//	  "min_word_length": 2,
//	  "bingo_bonus": 50,
//	  "premiums_on_new_tiles_only": false,
//	  "score_new_tiles_only": false,
//	  "letter_values": {"Q": 10, "Z": 10},
//	  "letter_weights": {"E": 12, "A": 9},
//	  "layout": ["=  '   =   '  =", "..."]
//	}
//
// letter_values overrides single entries of the classic table, while
// letter_weights replaces the whole bag distribution. Layout rows use '=' for
// triple word, '-' for double word, '"' for triple letter, a single quote for
// double letter and ' ' or '.' for a plain cell.
//
// The classic rule set is built in and always available.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	rules, err := manager.Load("blitz")
//	dict := config.LoadDictionary("words.txt")
package config
