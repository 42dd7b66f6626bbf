package engine

import (
	"fmt"
	"strings"
)

// Board is the shared grid. Cells are write-once: a cell holding a letter may
// only be placed again with that same letter.
type Board struct {
	cells       [BoardSize][BoardSize]Letter
	premiums    [BoardSize][BoardSize]Multiplier
	tilesPlaced int
}

// NewBoard creates an empty board with the given premium layout.
func NewBoard(layout []string) (*Board, error) {
	premiums, err := ParseLayout(layout)
	if err != nil {
		return nil, err
	}
	return &Board{premiums: premiums}, nil
}

// CellAt returns the letter at c, or Empty.
func (b *Board) CellAt(c Coord) (Letter, error) {
	if !c.InBounds() {
		return Empty, fmt.Errorf("%w: %s", ErrOutOfRange, c)
	}
	return b.cells[c.Y][c.X], nil
}

// Place writes l at c. Placing the letter a cell already holds is a no-op;
// any other letter on an occupied cell fails with ErrCollision.
func (b *Board) Place(c Coord, l Letter) error {
	if !c.InBounds() {
		return fmt.Errorf("%w: %s", ErrOutOfRange, c)
	}
	if !l.Valid() {
		return fmt.Errorf("invalid letter %q", rune(l))
	}
	switch current := b.cells[c.Y][c.X]; current {
	case Empty:
		b.cells[c.Y][c.X] = l
		b.tilesPlaced++
		return nil
	case l:
		return nil
	default:
		return fmt.Errorf("%w: %s holds %s, not %s", ErrCollision, c, current, l)
	}
}

// MultiplierAt returns the premium of c. Off-board coordinates have none.
func (b *Board) MultiplierAt(c Coord) Multiplier {
	if !c.InBounds() {
		return NoMultiplier
	}
	return b.premiums[c.Y][c.X]
}

// TilesPlaced is the number of occupied cells.
func (b *Board) TilesPlaced() int {
	return b.tilesPlaced
}

// IsEmpty reports whether no tile has been placed yet.
func (b *Board) IsEmpty() bool {
	return b.tilesPlaced == 0
}

// Rows renders the board as BoardSize strings, '.' for empty cells.
func (b *Board) Rows() []string {
	rows := make([]string, BoardSize)
	for y := 0; y < BoardSize; y++ {
		var sb strings.Builder
		for x := 0; x < BoardSize; x++ {
			sb.WriteString(b.cells[y][x].String())
		}
		rows[y] = sb.String()
	}
	return rows
}

// String renders the board with column letters and row numbers.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for x := 0; x < BoardSize; x++ {
		sb.WriteString(fmt.Sprintf("%c ", 'A'+x))
	}
	sb.WriteString("\n")
	for y, row := range b.Rows() {
		sb.WriteString(fmt.Sprintf("%2d|", y+1))
		for _, ch := range row {
			sb.WriteRune(ch)
			sb.WriteByte(' ')
		}
		sb.WriteString("|\n")
	}
	return sb.String()
}
