package engine

import (
	"fmt"
	"sort"

	"lukechampine.com/frand"
)

// Source supplies uniformly distributed integers in [0, n).
// *frand.RNG and *math/rand.Rand both satisfy it.
type Source interface {
	Intn(n int) int
}

// Drawer hands out tiles.
type Drawer interface {
	Draw(n int) []Letter
}

// Bag draws tiles from a weighted alphabet. Every draw is independent: the bag
// never runs out and drawing never fails.
type Bag struct {
	letters    []Letter
	cumulative []int
	total      int
	src        Source
}

// NewBag builds a bag from per-letter weights. A nil src uses a fresh frand
// generator seeded from system entropy.
func NewBag(weights map[Letter]int, src Source) (*Bag, error) {
	if src == nil {
		src = frand.New()
	}

	letters := make([]Letter, 0, len(weights))
	for l, w := range weights {
		if !l.Valid() {
			return nil, fmt.Errorf("invalid bag letter %q", rune(l))
		}
		if w < 0 {
			return nil, fmt.Errorf("negative weight %d for letter %s", w, l)
		}
		if w > 0 {
			letters = append(letters, l)
		}
	}
	if len(letters) == 0 {
		return nil, fmt.Errorf("bag needs at least one letter with positive weight")
	}
	// Map iteration order is random; sort so a seeded source is reproducible.
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })

	b := &Bag{
		letters:    letters,
		cumulative: make([]int, len(letters)),
		src:        src,
	}
	for i, l := range letters {
		b.total += weights[l]
		b.cumulative[i] = b.total
	}
	return b, nil
}

// Draw returns n independently drawn letters. n <= 0 yields an empty slice.
func (b *Bag) Draw(n int) []Letter {
	if n <= 0 {
		return []Letter{}
	}
	out := make([]Letter, n)
	for i := range out {
		out[i] = b.drawOne()
	}
	return out
}

func (b *Bag) drawOne() Letter {
	r := b.src.Intn(b.total)
	i := sort.SearchInts(b.cumulative, r+1)
	return b.letters[i]
}

// Weight returns the configured weight of l.
func (b *Bag) Weight(l Letter) int {
	i := sort.Search(len(b.letters), func(i int) bool { return b.letters[i] >= l })
	if i == len(b.letters) || b.letters[i] != l {
		return 0
	}
	if i == 0 {
		return b.cumulative[0]
	}
	return b.cumulative[i] - b.cumulative[i-1]
}

// TotalWeight is the sum of all letter weights.
func (b *Bag) TotalWeight() int {
	return b.total
}
