package engine

// Phase is the lifecycle stage of a room.
type Phase string

const (
	PhaseWaiting    Phase = "WAITING"
	PhaseInProgress Phase = "IN_PROGRESS"
	PhaseOver       Phase = "OVER"
)

// TurnController tracks join order and whose turn it is.
//
// Every change of turn owner bumps Seq, so a timer armed for an older turn can
// recognise that it is stale.
type TurnController struct {
	order      []string
	current    int
	phase      Phase
	minPlayers int
	seq        uint64
}

// NewTurnController creates a controller that starts once minPlayers have joined.
func NewTurnController(minPlayers int) *TurnController {
	if minPlayers < 1 {
		minPlayers = 1
	}
	return &TurnController{phase: PhaseWaiting, minPlayers: minPlayers}
}

// Phase returns the current phase.
func (t *TurnController) Phase() Phase {
	return t.phase
}

// Seq identifies the current turn.
func (t *TurnController) Seq() uint64 {
	return t.seq
}

// Order returns a copy of the turn order.
func (t *TurnController) Order() []string {
	return append([]string(nil), t.order...)
}

// Len is the number of players in the turn order.
func (t *TurnController) Len() int {
	return len(t.order)
}

// CurrentIndex is the index of the turn owner in Order.
func (t *TurnController) CurrentIndex() int {
	return t.current
}

// Owner returns the player whose turn it is. ok is false outside IN_PROGRESS.
func (t *TurnController) Owner() (id string, ok bool) {
	if t.phase != PhaseInProgress || len(t.order) == 0 {
		return "", false
	}
	return t.order[t.current], true
}

// IsOwner reports whether id may act right now.
func (t *TurnController) IsOwner(id string) bool {
	owner, ok := t.Owner()
	return ok && owner == id
}

// AddPlayer appends id to the turn order. It reports true when this join moved
// the controller from WAITING to IN_PROGRESS. Joins after OVER are ignored.
func (t *TurnController) AddPlayer(id string) bool {
	if t.phase == PhaseOver {
		return false
	}
	t.order = append(t.order, id)
	if t.phase == PhaseWaiting && len(t.order) >= t.minPlayers {
		t.phase = PhaseInProgress
		t.current = 0
		t.seq++
		return true
	}
	return false
}

// RemovePlayer drops id from the turn order. It reports true when the turn
// owner changed as a result, including falling back to WAITING.
func (t *TurnController) RemovePlayer(id string) bool {
	idx := -1
	for i, p := range t.order {
		if p == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	t.order = append(t.order[:idx], t.order[idx+1:]...)

	if t.phase != PhaseInProgress {
		if t.current >= len(t.order) {
			t.current = 0
		}
		return false
	}
	if len(t.order) < t.minPlayers {
		t.phase = PhaseWaiting
		t.current = 0
		t.seq++
		return true
	}
	switch {
	case idx < t.current:
		t.current--
		return false
	case idx == t.current:
		if t.current >= len(t.order) {
			t.current = 0
		}
		t.seq++
		return true
	}
	return false
}

// Advance hands the turn to the next player in join order and returns them.
func (t *TurnController) Advance() string {
	if t.phase != PhaseInProgress || len(t.order) == 0 {
		return ""
	}
	t.current = (t.current + 1) % len(t.order)
	t.seq++
	return t.order[t.current]
}

// Finish moves to OVER. It is one-way.
func (t *TurnController) Finish() {
	if t.phase == PhaseOver {
		return
	}
	t.phase = PhaseOver
	t.seq++
}
