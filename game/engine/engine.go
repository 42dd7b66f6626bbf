package engine

import "fmt"

// Game is the board-level state of one room: the board, the bag and the
// policy the room plays under.
type Game struct {
	rules *Rules
	dict  Dictionary
	board *Board
	bag   *Bag
}

// NewGame creates a game with an empty board. A nil dict accepts all words;
// a nil src draws from frand.
func NewGame(rules *Rules, dict Dictionary, src Source) (*Game, error) {
	if rules == nil {
		rules = DefaultRules()
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	board, err := NewBoard(rules.Layout)
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}
	bag, err := NewBag(rules.LetterWeights, src)
	if err != nil {
		return nil, fmt.Errorf("failed to create bag: %w", err)
	}
	return &Game{rules: rules, dict: dict, board: board, bag: bag}, nil
}

// Rules returns the policy of the game.
func (g *Game) Rules() *Rules {
	return g.rules
}

// Board returns the game board.
func (g *Game) Board() *Board {
	return g.board
}

// Bag returns the tile source.
func (g *Game) Bag() *Bag {
	return g.bag
}

// Dictionary returns the word list in use, possibly empty.
func (g *Game) Dictionary() Dictionary {
	return g.dict
}

// Draw takes n tiles from the bag.
func (g *Game) Draw(n int) []Letter {
	return g.bag.Draw(n)
}

// NewRack deals a full rack.
func (g *Game) NewRack() *Rack {
	return NewRack(g.bag.Draw(g.rules.RackCapacity)...)
}

// Evaluate checks p against the board and r without changing either.
func (g *Game) Evaluate(r *Rack, p Placement) (*Play, error) {
	return EvaluateMove(g.board, r, p, g.rules, g.dict)
}

// Play evaluates p and, if it is legal, applies it and refills r to capacity.
func (g *Game) Play(r *Rack, p Placement) (*Play, error) {
	play, err := g.Evaluate(r, p)
	if err != nil {
		return nil, err
	}
	if err := play.Apply(g.board, r); err != nil {
		return nil, err
	}
	r.Refill(g.rules.RackCapacity, g.bag)
	return play, nil
}

// RefillAfterPass tops r up after a voluntary pass.
func (g *Game) RefillAfterPass(r *Rack) []Letter {
	return r.Refill(g.rules.RackCapacity, g.bag)
}

// RefillAfterTimeout tops r up after a forced pass. A rack below capacity is
// filled to capacity; a full rack gains one tile until it reaches the soft cap.
func (g *Game) RefillAfterTimeout(r *Rack) []Letter {
	upTo := g.rules.RackCapacity
	if r.Len() >= upTo {
		upTo = min(r.Len()+1, g.rules.RackSoftCap)
	}
	return r.Refill(upTo, g.bag)
}
