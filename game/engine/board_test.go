package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T) *Board {
	t.Helper()
	b, err := NewBoard(ClassicLayout)
	require.NoError(t, err)
	return b
}

func TestBoardStartsEmpty(t *testing.T) {
	b := newTestBoard(t)

	assert.True(t, b.IsEmpty())
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			l, err := b.CellAt(Coord{X: x, Y: y})
			require.NoError(t, err)
			assert.Equal(t, Empty, l)
		}
	}
}

func TestBoardCellAtOutOfRange(t *testing.T) {
	b := newTestBoard(t)

	for _, c := range []Coord{{-1, 0}, {0, -1}, {15, 3}, {3, 15}} {
		_, err := b.CellAt(c)
		assert.True(t, errors.Is(err, ErrOutOfRange), "%v", c)
	}
}

func TestBoardPlaceWriteOnce(t *testing.T) {
	b := newTestBoard(t)
	c := Coord{X: 7, Y: 7}

	require.NoError(t, b.Place(c, 'C'))
	assert.Equal(t, 1, b.TilesPlaced())

	// Same letter is allowed and does not count twice.
	require.NoError(t, b.Place(c, 'C'))
	assert.Equal(t, 1, b.TilesPlaced())

	err := b.Place(c, 'D')
	assert.True(t, errors.Is(err, ErrCollision))

	l, err := b.CellAt(c)
	require.NoError(t, err)
	assert.Equal(t, Letter('C'), l)
}

func TestBoardPlaceRejectsBadInput(t *testing.T) {
	b := newTestBoard(t)

	assert.True(t, errors.Is(b.Place(Coord{X: 15, Y: 0}, 'A'), ErrOutOfRange))
	assert.Error(t, b.Place(Coord{X: 0, Y: 0}, 'a'))
	assert.True(t, b.IsEmpty())
}

func TestBoardMultipliers(t *testing.T) {
	b := newTestBoard(t)

	tests := []struct {
		c    Coord
		want Multiplier
	}{
		{Coord{0, 0}, TripleWord},
		{Coord{14, 14}, TripleWord},
		{Coord{7, 0}, TripleWord},
		{Coord{7, 7}, DoubleWord},
		{Coord{1, 1}, DoubleWord},
		{Coord{5, 1}, TripleLetter},
		{Coord{3, 0}, DoubleLetter},
		{Coord{8, 7}, NoMultiplier},
		{Coord{-1, 7}, NoMultiplier},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, b.MultiplierAt(tt.c), "%v", tt.c)
	}
}

func TestClassicLayoutIsSymmetric(t *testing.T) {
	b := newTestBoard(t)

	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			m := b.MultiplierAt(Coord{X: x, Y: y})
			assert.Equal(t, m, b.MultiplierAt(Coord{X: y, Y: x}))
			assert.Equal(t, m, b.MultiplierAt(Coord{X: BoardSize - 1 - x, Y: y}))
		}
	}
}

func TestNewBoardRejectsBadLayout(t *testing.T) {
	_, err := NewBoard(ClassicLayout[:14])
	assert.Error(t, err)

	bad := append([]string(nil), ClassicLayout...)
	bad[3] = "x" + bad[3][1:]
	_, err = NewBoard(bad)
	assert.Error(t, err)
}

func TestBoardRows(t *testing.T) {
	b := newTestBoard(t)
	require.NoError(t, b.Place(Coord{X: 0, Y: 0}, 'Q'))
	require.NoError(t, b.Place(Coord{X: 14, Y: 14}, 'Z'))

	rows := b.Rows()
	require.Len(t, rows, BoardSize)
	assert.Equal(t, "Q..............", rows[0])
	assert.Equal(t, "..............Z", rows[14])
	assert.Contains(t, b.String(), " 1|Q . .")
}
