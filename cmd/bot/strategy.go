package main

import (
	"sort"
	"strings"

	"github.com/wricardo/wordgrid/game/engine"
)

// Candidate is a legal play found by the planner.
type Candidate struct {
	X, Y        int
	Orientation engine.Orientation
	Word        string
	Score       int
	Bingo       bool
}

// Planner searches every start square and direction for plays the server
// would accept, using the same move checks the server runs.
type Planner struct {
	rules *engine.Rules
	words []string
	dict  engine.Dictionary
	// maxGenerated bounds the length of rack permutations tried when no word
	// list is loaded.
	maxGenerated int
}

// NewPlanner builds a planner. With an empty dictionary it falls back to
// permutations of the rack, which an accept-all server takes as words.
func NewPlanner(rules *engine.Rules, dict engine.Dictionary) *Planner {
	p := &Planner{rules: rules, dict: dict, maxGenerated: 3}
	for w := range dict {
		if len(w) >= rules.MinWordLength && len(w) <= engine.BoardSize {
			p.words = append(p.words, w)
		}
	}
	sort.Strings(p.words)
	return p
}

// Plan returns the legal plays for rack on board, best first. Ties keep a
// stable order: longer words, then position.
func (p *Planner) Plan(rows []string, rack []string) ([]Candidate, error) {
	board, err := boardFromRows(p.rules.Layout, rows)
	if err != nil {
		return nil, err
	}
	r, err := engine.RackFromString(strings.Join(rack, ""))
	if err != nil {
		return nil, err
	}

	words := p.candidateWords(r, board)

	var out []Candidate
	seen := make(map[Candidate]bool)
	for _, word := range words {
		for y := 0; y < engine.BoardSize; y++ {
			for x := 0; x < engine.BoardSize; x++ {
				for _, o := range []engine.Orientation{engine.Horizontal, engine.Vertical} {
					placement, err := engine.NewPlacement(x, y, o, word)
					if err != nil {
						continue
					}
					play, err := engine.EvaluateMove(board, r, placement, p.rules, p.dict)
					if err != nil {
						continue
					}
					c := Candidate{X: x, Y: y, Orientation: o, Word: play.Word, Score: play.Score, Bingo: play.Bingo}
					if !seen[c] {
						seen[c] = true
						out = append(out, c)
					}
				}
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return len(out[i].Word) > len(out[j].Word)
	})
	return out, nil
}

// candidateWords drops words that can never be built: every letter must
// come from the rack or already be on the board, and at least one must come
// from the rack.
func (p *Planner) candidateWords(rack *engine.Rack, board *engine.Board) []string {
	if len(p.words) == 0 {
		return permutations(rack.Tiles(), p.rules.MinWordLength, p.maxGenerated)
	}

	onBoard := make(map[engine.Letter]bool)
	for _, row := range board.Rows() {
		for i := 0; i < len(row); i++ {
			if row[i] != '.' {
				onBoard[engine.Letter(row[i])] = true
			}
		}
	}

	var out []string
	for _, w := range p.words {
		if buildable(w, rack, onBoard) {
			out = append(out, w)
		}
	}
	return out
}

func buildable(word string, rack *engine.Rack, onBoard map[engine.Letter]bool) bool {
	used := make(map[engine.Letter]int)
	fromRack := 0
	for i := 0; i < len(word); i++ {
		l := engine.Letter(word[i])
		if used[l] < rack.CountOf(l) {
			used[l]++
			fromRack++
			continue
		}
		if !onBoard[l] {
			return false
		}
	}
	return fromRack > 0
}

// permutations lists the distinct orderings of tiles with length in
// [minLen, maxLen].
func permutations(tiles []engine.Letter, minLen, maxLen int) []string {
	if minLen < 1 {
		minLen = 1
	}
	seen := make(map[string]bool)
	var out []string
	used := make([]bool, len(tiles))
	buf := make([]engine.Letter, 0, maxLen)

	var walk func()
	walk = func() {
		if len(buf) >= minLen {
			w := engine.LettersString(buf)
			if !seen[w] {
				seen[w] = true
				out = append(out, w)
			}
		}
		if len(buf) == maxLen {
			return
		}
		for i, l := range tiles {
			if used[i] {
				continue
			}
			used[i] = true
			buf = append(buf, l)
			walk()
			buf = buf[:len(buf)-1]
			used[i] = false
		}
	}
	walk()
	return out
}

// boardFromRows rebuilds a board from snapshot rows, '.' marking empty cells.
func boardFromRows(layout, rows []string) (*engine.Board, error) {
	board, err := engine.NewBoard(layout)
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		for x := 0; x < len(row); x++ {
			if row[x] == '.' {
				continue
			}
			c, err := engine.NewCoord(x, y)
			if err != nil {
				return nil, err
			}
			if err := board.Place(c, engine.Letter(row[x])); err != nil {
				return nil, err
			}
		}
	}
	return board, nil
}
