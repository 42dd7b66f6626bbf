package engine

import (
	"fmt"
	"strings"
)

const (
	// BoardSize is the width and height of the board.
	BoardSize = 15

	// Empty marks a cell without a tile.
	Empty Letter = 0
)

// Letter is a single uppercase tile letter, 'A' through 'Z'.
type Letter byte

// String returns the letter as a one-character string, or "." for Empty.
func (l Letter) String() string {
	if l == Empty {
		return "."
	}
	return string(rune(l))
}

// Valid reports whether l is an uppercase ASCII letter.
func (l Letter) Valid() bool {
	return l >= 'A' && l <= 'Z'
}

func (l Letter) index() int {
	return int(l - 'A')
}

// ParseLetters upper-cases word and converts it into letters. Any character
// outside A-Z is rejected.
func ParseLetters(word string) ([]Letter, error) {
	word = strings.ToUpper(strings.TrimSpace(word))
	letters := make([]Letter, 0, len(word))
	for i, r := range word {
		if r < 'A' || r > 'Z' {
			return nil, fmt.Errorf("invalid letter %q at position %d", r, i)
		}
		letters = append(letters, Letter(r))
	}
	return letters, nil
}

// LettersString joins letters into a word.
func LettersString(letters []Letter) string {
	var sb strings.Builder
	sb.Grow(len(letters))
	for _, l := range letters {
		sb.WriteByte(byte(l))
	}
	return sb.String()
}

// Coord is a board coordinate; X is the column and Y the row, both 0-indexed.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewCoord returns the coordinate (x, y), or ErrOutOfRange if it is off the board.
func NewCoord(x, y int) (Coord, error) {
	c := Coord{X: x, Y: y}
	if !c.InBounds() {
		return Coord{}, fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, x, y)
	}
	return c, nil
}

// InBounds reports whether c lies on the board.
func (c Coord) InBounds() bool {
	return c.X >= 0 && c.X < BoardSize && c.Y >= 0 && c.Y < BoardSize
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Orientation is the direction a word is laid in.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseOrientation accepts "horizontal"/"vertical" and the short forms
// "h", "v", "across" and "down".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h", "across":
		return Horizontal, nil
	case "vertical", "v", "down":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("invalid orientation %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(text []byte) error {
	parsed, err := ParseOrientation(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// Multiplier is the premium attached to a board cell.
type Multiplier int

const (
	NoMultiplier Multiplier = iota
	DoubleLetter
	TripleLetter
	DoubleWord
	TripleWord
)

func (m Multiplier) String() string {
	switch m {
	case DoubleLetter:
		return "double-letter"
	case TripleLetter:
		return "triple-letter"
	case DoubleWord:
		return "double-word"
	case TripleWord:
		return "triple-word"
	}
	return "none"
}

// LetterFactor is the factor applied to the tile value on this cell.
func (m Multiplier) LetterFactor() int {
	switch m {
	case DoubleLetter:
		return 2
	case TripleLetter:
		return 3
	}
	return 1
}

// WordFactor is the factor applied to the whole word touching this cell.
func (m Multiplier) WordFactor() int {
	switch m {
	case DoubleWord:
		return 2
	case TripleWord:
		return 3
	}
	return 1
}
