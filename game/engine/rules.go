package engine

import (
	"fmt"
	"time"
)

// Defaults for a classic game.
const (
	DefaultTurnTimeout   = 60 * time.Second
	DefaultTickInterval  = time.Second
	DefaultWinScore      = 100
	DefaultRackCapacity  = 7
	DefaultRackSoftCap   = 12
	DefaultMinPlayers    = 1
	DefaultMinWordLength = 2
	DefaultBingoBonus    = 50

	MaxRackSoftCap = 26
)

// ClassicLayout is the standard premium layout. '=' is a triple word, '-' a
// double word, '"' a triple letter and '\'' a double letter square.
var ClassicLayout = []string{
	`=  '   =   '  =`,
	` -   "   "   - `,
	`  -   ' '   -  `,
	`'  -   '   -  '`,
	`    -     -    `,
	` "   "   "   " `,
	`  '   ' '   '  `,
	`=  '   -   '  =`,
	`  '   ' '   '  `,
	` "   "   "   " `,
	`    -     -    `,
	`'  -   '   -  '`,
	`  -   ' '   -  `,
	` -   "   "   - `,
	`=  '   =   '  =`,
}

// DefaultLetterValues is the points table for each tile.
var DefaultLetterValues = map[Letter]int{
	'A': 1, 'B': 3, 'C': 3, 'D': 2, 'E': 1, 'F': 4, 'G': 2, 'H': 4, 'I': 1,
	'J': 8, 'K': 5, 'L': 1, 'M': 3, 'N': 1, 'O': 1, 'P': 3, 'Q': 10, 'R': 1,
	'S': 1, 'T': 1, 'U': 1, 'V': 4, 'W': 4, 'X': 8, 'Y': 4, 'Z': 10,
}

// DefaultLetterWeights is the relative frequency of each tile in the bag.
var DefaultLetterWeights = map[Letter]int{
	'A': 9, 'B': 2, 'C': 2, 'D': 4, 'E': 12, 'F': 2, 'G': 3, 'H': 2, 'I': 9,
	'J': 1, 'K': 1, 'L': 4, 'M': 2, 'N': 6, 'O': 8, 'P': 2, 'Q': 1, 'R': 6,
	'S': 4, 'T': 6, 'U': 4, 'V': 2, 'W': 2, 'X': 1, 'Y': 2, 'Z': 1,
}

// Rules holds every tunable policy of a room.
type Rules struct {
	Name          string        `json:"name"`
	TurnTimeout   time.Duration `json:"turn_timeout"`
	TickInterval  time.Duration `json:"tick_interval"`
	WinScore      int           `json:"win_score"`
	RackCapacity  int           `json:"rack_capacity"`
	RackSoftCap   int           `json:"rack_soft_cap"`
	MinPlayers    int           `json:"min_players"`
	MinWordLength int           `json:"min_word_length"`
	BingoBonus    int           `json:"bingo_bonus"`

	// PremiumsOnNewTilesOnly limits premium squares to newly placed tiles.
	PremiumsOnNewTilesOnly bool `json:"premiums_on_new_tiles_only"`
	// ScoreNewTilesOnly drops tiles already on the board from the word score.
	ScoreNewTilesOnly bool `json:"score_new_tiles_only"`

	LetterValues  map[Letter]int `json:"-"`
	LetterWeights map[Letter]int `json:"-"`
	Layout        []string       `json:"layout"`
}

// DefaultRules returns a fresh copy of the classic rules.
func DefaultRules() *Rules {
	return &Rules{
		Name:          "classic",
		TurnTimeout:   DefaultTurnTimeout,
		TickInterval:  DefaultTickInterval,
		WinScore:      DefaultWinScore,
		RackCapacity:  DefaultRackCapacity,
		RackSoftCap:   DefaultRackSoftCap,
		MinPlayers:    DefaultMinPlayers,
		MinWordLength: DefaultMinWordLength,
		BingoBonus:    DefaultBingoBonus,
		LetterValues:  copyLetterMap(DefaultLetterValues),
		LetterWeights: copyLetterMap(DefaultLetterWeights),
		Layout:        append([]string(nil), ClassicLayout...),
	}
}

// Clone returns a deep copy of r.
func (r *Rules) Clone() *Rules {
	c := *r
	c.LetterValues = copyLetterMap(r.LetterValues)
	c.LetterWeights = copyLetterMap(r.LetterWeights)
	c.Layout = append([]string(nil), r.Layout...)
	return &c
}

// Validate checks the rules for consistency.
func (r *Rules) Validate() error {
	if r.TurnTimeout <= 0 {
		return fmt.Errorf("%w: turn_timeout must be positive, got %s", ErrInvalidRules, r.TurnTimeout)
	}
	if r.TickInterval <= 0 || r.TickInterval > r.TurnTimeout {
		return fmt.Errorf("%w: tick_interval must be between 0 and turn_timeout, got %s", ErrInvalidRules, r.TickInterval)
	}
	if r.WinScore < 1 {
		return fmt.Errorf("%w: win_score must be positive, got %d", ErrInvalidRules, r.WinScore)
	}
	if r.RackCapacity < 1 {
		return fmt.Errorf("%w: rack_capacity must be positive, got %d", ErrInvalidRules, r.RackCapacity)
	}
	if r.RackSoftCap < r.RackCapacity || r.RackSoftCap > MaxRackSoftCap {
		return fmt.Errorf("%w: rack_soft_cap must be between rack_capacity (%d) and %d, got %d",
			ErrInvalidRules, r.RackCapacity, MaxRackSoftCap, r.RackSoftCap)
	}
	if r.MinPlayers < 1 {
		return fmt.Errorf("%w: min_players must be at least 1, got %d", ErrInvalidRules, r.MinPlayers)
	}
	if r.MinWordLength < 1 || r.MinWordLength > BoardSize {
		return fmt.Errorf("%w: min_word_length must be between 1 and %d, got %d", ErrInvalidRules, BoardSize, r.MinWordLength)
	}
	if r.BingoBonus < 0 {
		return fmt.Errorf("%w: bingo_bonus must not be negative, got %d", ErrInvalidRules, r.BingoBonus)
	}

	for l := Letter('A'); l <= 'Z'; l++ {
		if v, ok := r.LetterValues[l]; !ok || v < 0 {
			return fmt.Errorf("%w: letter_values[%s] must be set and non-negative", ErrInvalidRules, l)
		}
	}
	total := 0
	for l, w := range r.LetterWeights {
		if !l.Valid() {
			return fmt.Errorf("%w: letter_weights has invalid letter %q", ErrInvalidRules, rune(l))
		}
		if w < 0 {
			return fmt.Errorf("%w: letter_weights[%s] must not be negative", ErrInvalidRules, l)
		}
		total += w
	}
	if total == 0 {
		return fmt.Errorf("%w: letter_weights must contain at least one positive weight", ErrInvalidRules)
	}

	if _, err := ParseLayout(r.Layout); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	return nil
}

// ParseLayout converts layout rows into a premium grid.
func ParseLayout(rows []string) ([BoardSize][BoardSize]Multiplier, error) {
	var grid [BoardSize][BoardSize]Multiplier
	if len(rows) != BoardSize {
		return grid, fmt.Errorf("layout must have %d rows, got %d", BoardSize, len(rows))
	}
	for y, row := range rows {
		if len(row) != BoardSize {
			return grid, fmt.Errorf("layout row %d must have %d characters, got %d", y+1, BoardSize, len(row))
		}
		for x := 0; x < BoardSize; x++ {
			switch row[x] {
			case ' ', '.':
				grid[y][x] = NoMultiplier
			case '\'':
				grid[y][x] = DoubleLetter
			case '"':
				grid[y][x] = TripleLetter
			case '-':
				grid[y][x] = DoubleWord
			case '=':
				grid[y][x] = TripleWord
			default:
				return grid, fmt.Errorf("invalid layout character %q at row %d, col %d", row[x], y+1, x+1)
			}
		}
	}
	return grid, nil
}

func copyLetterMap(m map[Letter]int) map[Letter]int {
	out := make(map[Letter]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
