package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/wricardo/wordgrid/game/engine"
)

var (
	ErrRulesNotFound = errors.New("rule set not found")
	ErrInvalidRules  = errors.New("invalid rule set")
)

// DefaultName is the rule set used when none is asked for. It is built in, so
// it resolves even without a file on disk.
const DefaultName = "classic"

// Extensions is the list of rule file formats, in lookup order.
var Extensions = []string{".json", ".yaml", ".yml"}

// Info describes one available rule set.
type Info struct {
	ID           string        `json:"id"`
	Filename     string        `json:"filename,omitempty"`
	Name         string        `json:"name"`
	TurnTimeout  time.Duration `json:"turn_timeout"`
	WinScore     int           `json:"win_score"`
	RackCapacity int           `json:"rack_capacity"`
	MinPlayers   int           `json:"min_players"`
}

// Manager loads rule sets from a directory and caches them by name.
type Manager struct {
	dir         string
	defaultName string
	rules       map[string]*engine.Rules
	mu          sync.RWMutex
}

// NewManager creates a rule set manager for dir. A missing directory leaves
// only the built-in classic rules available.
func NewManager(dir string) (*Manager, error) {
	if info, err := os.Stat(dir); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config directory: %w", err)
		}
		log.Warn().Str("dir", dir).Msg("config directory does not exist, using built-in rules")
	} else if !info.IsDir() {
		return nil, fmt.Errorf("config path is not a directory: %s", dir)
	}

	return &Manager{
		dir:         dir,
		defaultName: DefaultName,
		rules:       make(map[string]*engine.Rules),
	}, nil
}

// Load returns a copy of the named rule set.
func (m *Manager) Load(name string) (*engine.Rules, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = m.DefaultName()
	}
	if !plainName(name) {
		return nil, fmt.Errorf("%w: %s", ErrRulesNotFound, name)
	}

	m.mu.RLock()
	rules, ok := m.rules[name]
	m.mu.RUnlock()
	if ok {
		return rules.Clone(), nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if rules, ok := m.rules[name]; ok {
		return rules.Clone(), nil
	}

	path, found := m.find(name)
	switch {
	case found:
		var err error
		if rules, err = ReadFile(path); err != nil {
			return nil, err
		}
	case name == DefaultName:
		rules = engine.DefaultRules()
	default:
		return nil, fmt.Errorf("%w: %s", ErrRulesNotFound, name)
	}

	m.rules[name] = rules
	return rules.Clone(), nil
}

// Default returns the default rule set, falling back to the built-in classic
// rules if it cannot be loaded.
func (m *Manager) Default() *engine.Rules {
	rules, err := m.Load(m.DefaultName())
	if err != nil {
		log.Warn().Err(err).Str("rules", m.DefaultName()).Msg("failed to load default rules, using built-in")
		return engine.DefaultRules()
	}
	return rules
}

// DefaultName returns the name Load uses for an empty name.
func (m *Manager) DefaultName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultName
}

// SetDefault makes name the default rule set. The rules must load.
func (m *Manager) SetDefault(name string) error {
	if _, err := m.Load(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultName = name
	return nil
}

// List describes every rule set in the directory plus the built-in classic
// rules. Files that fail to load are skipped.
func (m *Manager) List() ([]Info, error) {
	ids := map[string]string{DefaultName: ""}

	entries, err := os.ReadDir(m.dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !isRulesExt(ext) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ext)
		if ids[id] == "" {
			ids[id] = entry.Name()
		}
	}

	var infos []Info
	for id, filename := range ids {
		rules, err := m.Load(id)
		if err != nil {
			log.Warn().Err(err).Str("rules", id).Msg("skipping rule set")
			continue
		}
		infos = append(infos, Info{
			ID:           id,
			Filename:     filename,
			Name:         rules.Name,
			TurnTimeout:  rules.TurnTimeout,
			WinScore:     rules.WinScore,
			RackCapacity: rules.RackCapacity,
			MinPlayers:   rules.MinPlayers,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// Refresh drops every cached rule set so the next Load reads from disk.
func (m *Manager) Refresh() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = make(map[string]*engine.Rules)
}

func (m *Manager) find(name string) (string, bool) {
	if isRulesExt(filepath.Ext(name)) {
		path := filepath.Join(m.dir, name)
		_, err := os.Stat(path)
		return path, err == nil
	}
	for _, ext := range Extensions {
		path := filepath.Join(m.dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// plainName reports whether name is a bare file name that stays inside the
// rules directory.
func plainName(name string) bool {
	return name == filepath.Base(name) && !strings.Contains(name, "..") && !strings.ContainsAny(name, `/\`)
}

func isRulesExt(ext string) bool {
	for _, e := range Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// ReadFile parses and validates one rule file. Keys missing from the file
// take the classic defaults; the format follows the file extension.
func ReadFile(path string) (*engine.Rules, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read rules %s: %w", path, err)
	}

	rules, err := decode(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRules, path, err)
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRules, path, err)
	}
	return rules, nil
}

func setDefaults(v *viper.Viper, name string) {
	d := engine.DefaultRules()
	v.SetDefault("name", name)
	v.SetDefault("turn_timeout", d.TurnTimeout)
	v.SetDefault("tick_interval", d.TickInterval)
	v.SetDefault("win_score", d.WinScore)
	v.SetDefault("rack_capacity", d.RackCapacity)
	v.SetDefault("rack_soft_cap", d.RackSoftCap)
	v.SetDefault("min_players", d.MinPlayers)
	v.SetDefault("min_word_length", d.MinWordLength)
	v.SetDefault("bingo_bonus", d.BingoBonus)
	v.SetDefault("premiums_on_new_tiles_only", d.PremiumsOnNewTilesOnly)
	v.SetDefault("score_new_tiles_only", d.ScoreNewTilesOnly)
	v.SetDefault("layout", d.Layout)
}

func decode(v *viper.Viper) (*engine.Rules, error) {
	rules := engine.DefaultRules()
	rules.Name = v.GetString("name")
	rules.TurnTimeout = v.GetDuration("turn_timeout")
	rules.TickInterval = v.GetDuration("tick_interval")
	rules.WinScore = v.GetInt("win_score")
	rules.RackCapacity = v.GetInt("rack_capacity")
	rules.RackSoftCap = v.GetInt("rack_soft_cap")
	rules.MinPlayers = v.GetInt("min_players")
	rules.MinWordLength = v.GetInt("min_word_length")
	rules.BingoBonus = v.GetInt("bingo_bonus")
	rules.PremiumsOnNewTilesOnly = v.GetBool("premiums_on_new_tiles_only")
	rules.ScoreNewTilesOnly = v.GetBool("score_new_tiles_only")
	rules.Layout = v.GetStringSlice("layout")

	if v.IsSet("letter_values") {
		values, err := letterTable(v.GetStringMap("letter_values"), rules.LetterValues)
		if err != nil {
			return nil, fmt.Errorf("letter_values: %w", err)
		}
		rules.LetterValues = values
	}
	if v.IsSet("letter_weights") {
		weights, err := letterTable(v.GetStringMap("letter_weights"), nil)
		if err != nil {
			return nil, fmt.Errorf("letter_weights: %w", err)
		}
		rules.LetterWeights = weights
	}
	return rules, nil
}

// letterTable converts a letter-keyed map. Entries override base; a nil base
// starts from an empty table. Viper lower-cases keys, so they are upper-cased
// again here.
func letterTable(raw map[string]any, base map[engine.Letter]int) (map[engine.Letter]int, error) {
	out := make(map[engine.Letter]int, 26)
	for l, n := range base {
		out[l] = n
	}
	for key, value := range raw {
		letters, err := engine.ParseLetters(key)
		if err != nil || len(letters) != 1 {
			return nil, fmt.Errorf("invalid letter %q", key)
		}
		n, err := cast.ToIntE(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", letters[0], err)
		}
		out[letters[0]] = n
	}
	return out, nil
}
