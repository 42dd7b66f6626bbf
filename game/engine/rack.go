package engine

import "fmt"

// Rack is a player's private multiset of tiles. Tile order is kept for display
// but carries no meaning.
type Rack struct {
	tiles []Letter
}

// NewRack creates a rack holding tiles.
func NewRack(tiles ...Letter) *Rack {
	return &Rack{tiles: append([]Letter(nil), tiles...)}
}

// RackFromString creates a rack from a word such as "CATXXXX".
func RackFromString(s string) (*Rack, error) {
	letters, err := ParseLetters(s)
	if err != nil {
		return nil, err
	}
	return NewRack(letters...), nil
}

// Len is the number of tiles held.
func (r *Rack) Len() int {
	return len(r.tiles)
}

// Tiles returns a copy of the held tiles.
func (r *Rack) Tiles() []Letter {
	return append([]Letter(nil), r.tiles...)
}

// Strings returns the tiles as one-letter strings, the shape clients receive.
func (r *Rack) Strings() []string {
	out := make([]string, len(r.tiles))
	for i, l := range r.tiles {
		out[i] = l.String()
	}
	return out
}

func (r *Rack) String() string {
	return LettersString(r.tiles)
}

// Copy returns a deep copy of this rack.
func (r *Rack) Copy() *Rack {
	return NewRack(r.tiles...)
}

// CountOf returns how many copies of l the rack holds.
func (r *Rack) CountOf(l Letter) int {
	n := 0
	for _, t := range r.tiles {
		if t == l {
			n++
		}
	}
	return n
}

// CanSatisfy reports whether every element of letters can be matched against a
// distinct tile on the rack.
func (r *Rack) CanSatisfy(letters []Letter) bool {
	_, ok := r.missing(letters)
	return ok
}

// missing returns the first letter the rack cannot supply, scanning left to
// right against a working copy of the tile counts.
func (r *Rack) missing(letters []Letter) (Letter, bool) {
	var counts [26]int
	for _, t := range r.tiles {
		counts[t.index()]++
	}
	for _, l := range letters {
		if !l.Valid() || counts[l.index()] == 0 {
			return l, false
		}
		counts[l.index()]--
	}
	return Empty, true
}

// Consume removes one matching tile per element of letters. Nothing is removed
// unless all of them can be matched.
func (r *Rack) Consume(letters []Letter) error {
	if l, ok := r.missing(letters); !ok {
		return fmt.Errorf("%w: need %s from %s", ErrInsufficientTiles, l, r)
	}
	for _, l := range letters {
		for i, t := range r.tiles {
			if t == l {
				r.tiles = append(r.tiles[:i], r.tiles[i+1:]...)
				break
			}
		}
	}
	return nil
}

// Refill draws max(0, upTo-Len()) tiles from d and returns them.
func (r *Rack) Refill(upTo int, d Drawer) []Letter {
	need := upTo - len(r.tiles)
	if need <= 0 {
		return []Letter{}
	}
	drawn := d.Draw(need)
	r.tiles = append(r.tiles, drawn...)
	return drawn
}
