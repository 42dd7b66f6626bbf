package engine

import (
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"
)

// fixedSource replays a fixed sequence of values, wrapping around.
type fixedSource struct {
	values []int
	next   int
}

func (f *fixedSource) Intn(n int) int {
	v := f.values[f.next%len(f.values)] % n
	f.next++
	return v
}

func seededSource() Source {
	seed := make([]byte, 32)
	copy(seed, "wordgrid-bag-test")
	return frand.NewCustom(seed, 1024, 12)
}

func TestBagDrawCount(t *testing.T) {
	is := is.New(t)

	bag, err := NewBag(DefaultLetterWeights, seededSource())
	is.NoErr(err)

	is.Equal(len(bag.Draw(0)), 0)
	is.Equal(len(bag.Draw(-3)), 0)
	is.Equal(len(bag.Draw(7)), 7)
	// The bag is resampled, so it never runs dry.
	is.Equal(len(bag.Draw(500)), 500)
}

func TestBagDrawOnlyWeightedLetters(t *testing.T) {
	is := is.New(t)

	bag, err := NewBag(map[Letter]int{'A': 3, 'B': 1, 'C': 0}, seededSource())
	is.NoErr(err)

	for _, l := range bag.Draw(1000) {
		is.True(l == 'A' || l == 'B')
	}
	is.Equal(bag.TotalWeight(), 4)
	is.Equal(bag.Weight('A'), 3)
	is.Equal(bag.Weight('B'), 1)
	is.Equal(bag.Weight('C'), 0)
}

func TestBagFollowsWeights(t *testing.T) {
	is := is.New(t)

	// Letters sorted: A (0..2), B (3). A source value picks by cumulative weight.
	src := &fixedSource{values: []int{0, 1, 2, 3}}
	bag, err := NewBag(map[Letter]int{'B': 1, 'A': 3}, src)
	is.NoErr(err)

	is.Equal(LettersString(bag.Draw(4)), "AAAB")
}

func TestBagDistributionFavoursCommonLetters(t *testing.T) {
	is := is.New(t)

	bag, err := NewBag(DefaultLetterWeights, seededSource())
	is.NoErr(err)

	counts := map[Letter]int{}
	for _, l := range bag.Draw(20000) {
		counts[l]++
	}
	is.True(counts['E'] > counts['Q'])
	is.True(counts['A'] > counts['Z'])
	is.True(counts['E'] > counts['X'])
}

func TestNewBagRejectsBadWeights(t *testing.T) {
	is := is.New(t)

	_, err := NewBag(map[Letter]int{}, nil)
	is.True(err != nil)

	_, err = NewBag(map[Letter]int{'A': -1}, nil)
	is.True(err != nil)

	_, err = NewBag(map[Letter]int{'1': 2}, nil)
	is.True(err != nil)
}
