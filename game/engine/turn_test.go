package engine

import (
	"testing"

	"github.com/matryer/is"
)

func TestTurnControllerStartsAtMinPlayers(t *testing.T) {
	is := is.New(t)
	tc := NewTurnController(2)

	is.Equal(tc.Phase(), PhaseWaiting)
	is.True(!tc.AddPlayer("a"))
	is.Equal(tc.Phase(), PhaseWaiting)
	_, ok := tc.Owner()
	is.True(!ok)

	is.True(tc.AddPlayer("b"))
	is.Equal(tc.Phase(), PhaseInProgress)
	owner, ok := tc.Owner()
	is.True(ok)
	is.Equal(owner, "a")
	is.True(tc.IsOwner("a"))
	is.True(!tc.IsOwner("b"))
}

func TestTurnControllerRotatesInJoinOrder(t *testing.T) {
	is := is.New(t)
	tc := NewTurnController(1)
	tc.AddPlayer("a")
	tc.AddPlayer("b")
	tc.AddPlayer("c")

	var seen []string
	for i := 0; i < 6; i++ {
		seen = append(seen, tc.Advance())
	}
	is.Equal(seen, []string{"b", "c", "a", "b", "c", "a"})
}

func TestTurnControllerSeqChangesWithOwner(t *testing.T) {
	is := is.New(t)
	tc := NewTurnController(1)
	is.Equal(tc.Seq(), uint64(0))

	tc.AddPlayer("a")
	started := tc.Seq()
	is.True(started > 0)

	// A mid-game join does not change the owner.
	tc.AddPlayer("b")
	is.Equal(tc.Seq(), started)

	tc.Advance()
	is.True(tc.Seq() > started)
}

func TestTurnControllerRemovePlayer(t *testing.T) {
	tests := []struct {
		name        string
		advance     int
		remove      string
		wantChanged bool
		wantOwner   string
	}{
		{"before owner", 2, "a", false, "c"},
		{"after owner", 0, "c", false, "a"},
		{"owner in middle", 1, "b", true, "c"},
		{"owner at end wraps", 2, "c", true, "a"},
		{"unknown", 0, "z", false, "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			tc := NewTurnController(1)
			tc.AddPlayer("a")
			tc.AddPlayer("b")
			tc.AddPlayer("c")
			for i := 0; i < tt.advance; i++ {
				tc.Advance()
			}
			is.Equal(tc.RemovePlayer(tt.remove), tt.wantChanged)
			owner, ok := tc.Owner()
			is.True(ok)
			is.Equal(owner, tt.wantOwner)
		})
	}
}

func TestTurnControllerFallsBackToWaiting(t *testing.T) {
	is := is.New(t)
	tc := NewTurnController(2)
	tc.AddPlayer("a")
	tc.AddPlayer("b")
	before := tc.Seq()

	is.True(tc.RemovePlayer("a"))
	is.Equal(tc.Phase(), PhaseWaiting)
	is.True(tc.Seq() > before)
	is.Equal(tc.Order(), []string{"b"})

	// A new join restarts the game with the earliest remaining player.
	is.True(tc.AddPlayer("c"))
	owner, _ := tc.Owner()
	is.Equal(owner, "b")
}

func TestTurnControllerFinishIsFinal(t *testing.T) {
	is := is.New(t)
	tc := NewTurnController(1)
	tc.AddPlayer("a")
	tc.Finish()
	seq := tc.Seq()

	is.Equal(tc.Phase(), PhaseOver)
	is.Equal(tc.Advance(), "")
	is.True(!tc.AddPlayer("b"))
	tc.Finish()
	is.Equal(tc.Seq(), seq)
	is.Equal(tc.Phase(), PhaseOver)
	_, ok := tc.Owner()
	is.True(!ok)
}
