package engine

import (
	"fmt"
)

// Placement is a proposed move: letters laid from Start in one direction.
type Placement struct {
	Start       Coord       `json:"start"`
	Orientation Orientation `json:"orientation"`
	Letters     []Letter    `json:"-"`
}

// NewPlacement builds a placement from raw request values. Only the word is
// checked here; EvaluateMove rejects any letter, the first included, that
// lands off the board.
func NewPlacement(x, y int, o Orientation, word string) (Placement, error) {
	letters, err := ParseLetters(word)
	if err != nil {
		return Placement{}, err
	}
	return Placement{Start: Coord{X: x, Y: y}, Orientation: o, Letters: letters}, nil
}

// Word returns the placed letters as a string.
func (p Placement) Word() string {
	return LettersString(p.Letters)
}

// At returns the coordinate of the i-th letter. It may be off the board.
func (p Placement) At(i int) Coord {
	if p.Orientation == Horizontal {
		return Coord{X: p.Start.X + i, Y: p.Start.Y}
	}
	return Coord{X: p.Start.X, Y: p.Start.Y + i}
}

// Play is a placement that passed every check, together with its score.
type Play struct {
	Placement Placement `json:"placement"`
	Word      string    `json:"word"`
	Positions []Coord   `json:"positions"`
	// Fresh marks which positions were empty before the play.
	Fresh    []bool   `json:"fresh"`
	Consumed []Letter `json:"-"`
	Score    int      `json:"score"`
	Bingo    bool     `json:"bingo"`
}

// NewTiles is the number of tiles the play takes from the rack.
func (p *Play) NewTiles() int {
	return len(p.Consumed)
}

// EvaluateMove runs the ordered move checks and scores a legal placement. The
// first failing check wins. Neither the board nor the rack is modified.
func EvaluateMove(b *Board, r *Rack, p Placement, rules *Rules, dict Dictionary) (*Play, error) {
	word := p.Word()

	if len(p.Letters) < rules.MinWordLength {
		return nil, fmt.Errorf("%w: %q has %d letters, need %d", ErrWordTooShort, word, len(p.Letters), rules.MinWordLength)
	}

	if !dict.Accepts(word) {
		return nil, fmt.Errorf("%w: %q", ErrWordNotInDictionary, word)
	}

	positions := make([]Coord, len(p.Letters))
	for i := range p.Letters {
		positions[i] = p.At(i)
		if !positions[i].InBounds() {
			return nil, fmt.Errorf("%w: letter %d of %q lands on %s", ErrOutOfBounds, i+1, word, positions[i])
		}
	}

	fresh := make([]bool, len(p.Letters))
	consumed := make([]Letter, 0, len(p.Letters))
	for i, l := range p.Letters {
		current, _ := b.CellAt(positions[i])
		switch current {
		case Empty:
			fresh[i] = true
			consumed = append(consumed, l)
		case l:
		default:
			return nil, fmt.Errorf("%w: %s holds %s, word needs %s", ErrTileCollision, positions[i], current, l)
		}
	}

	if l, ok := r.missing(consumed); !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingLetterInRack, l)
	}

	if len(consumed) == 0 {
		return nil, fmt.Errorf("%w: %q is already on the board", ErrNoNewTilesPlaced, word)
	}

	score, bingo := ScorePlacement(b, p, fresh, rules)
	return &Play{
		Placement: p,
		Word:      word,
		Positions: positions,
		Fresh:     fresh,
		Consumed:  consumed,
		Score:     score,
		Bingo:     bingo,
	}, nil
}

// ScorePlacement scores the whole word. Letter premiums apply to the tile on
// that cell, word premiums multiply together, and a play that empties a full
// rack's worth of tiles earns the bingo bonus. fresh marks newly placed tiles.
func ScorePlacement(b *Board, p Placement, fresh []bool, rules *Rules) (int, bool) {
	sum, wordFactor, newTiles := 0, 1, 0
	for i, l := range p.Letters {
		isNew := i < len(fresh) && fresh[i]
		if isNew {
			newTiles++
		}
		if rules.ScoreNewTilesOnly && !isNew {
			continue
		}
		m := b.MultiplierAt(p.At(i))
		if rules.PremiumsOnNewTilesOnly && !isNew {
			m = NoMultiplier
		}
		sum += rules.LetterValues[l] * m.LetterFactor()
		wordFactor *= m.WordFactor()
	}

	score := sum * wordFactor
	bingo := newTiles == rules.RackCapacity
	if bingo {
		score += rules.BingoBonus
	}
	return score, bingo
}

// Apply writes the play to the board and takes its tiles from the rack. The
// rack is checked first so a failed Apply leaves both untouched.
func (p *Play) Apply(b *Board, r *Rack) error {
	if !r.CanSatisfy(p.Consumed) {
		return fmt.Errorf("%w: need %s from %s", ErrInsufficientTiles, LettersString(p.Consumed), r)
	}
	for i, c := range p.Positions {
		current, err := b.CellAt(c)
		if err != nil {
			return err
		}
		if current != Empty && current != p.Placement.Letters[i] {
			return fmt.Errorf("%w: %s", ErrCollision, c)
		}
	}
	for i, c := range p.Positions {
		if err := b.Place(c, p.Placement.Letters[i]); err != nil {
			return err
		}
	}
	return r.Consume(p.Consumed)
}
