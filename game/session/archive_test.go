package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/wordgrid/game/engine"
)

func TestFileArchive(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "games")
	archive, err := NewFileArchive(dir)
	require.NoError(t, err)

	names, err := archive.ListAll()
	require.NoError(t, err)
	assert.Empty(t, names)

	finished := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := &Record{
		Code:       "ABCD",
		Rules:      "classic",
		Winner:     "ada",
		FinalScore: 104,
		Players:    []PlayerView{{ID: "1", Name: "ada", Score: 104, RackSize: 7}},
		Moves: []MoveRecord{
			{Kind: MovePass, PlayerID: "1", PlayerName: "ada", At: finished},
			{Kind: MovePlay, PlayerID: "1", PlayerName: "ada", Play: &MoveApplied{X: 7, Y: 7, Orientation: engine.Vertical, Word: "QUIZ", Points: 104}, At: finished},
		},
		FinishedAt: finished,
	}
	require.NoError(t, archive.Save(rec))
	assert.Error(t, archive.Save(nil))

	names, err = archive.ListAll()
	require.NoError(t, err)
	require.Equal(t, []string{"20260301T120000.000-ABCD"}, names)

	loaded, err := archive.Load(names[0])
	require.NoError(t, err)
	assert.Equal(t, "ada", loaded.Winner)
	assert.Equal(t, 104, loaded.FinalScore)
	require.Len(t, loaded.Moves, 2)
	assert.Nil(t, loaded.Moves[0].Play)
	assert.Equal(t, engine.Vertical, loaded.Moves[1].Play.Orientation)
	assert.Equal(t, "QUIZ", loaded.Moves[1].Play.Word)

	_, err = archive.Load("missing")
	assert.Error(t, err)
}

func TestManagerArchivesToFiles(t *testing.T) {
	archive, err := NewFileArchive(t.TempDir())
	require.NoError(t, err)

	rules := slowRules()
	rules.WinScore = 5
	m, _ := newTestManager(t, rules, WithArchive(archive))
	s, err := m.Create(nil)
	require.NoError(t, err)
	a, err := m.Join(s.Code, "ada")
	require.NoError(t, err)
	setRack(t, s, a.PlayerID, "CATXXXX")

	_, err = m.SubmitMove(s.Code, a.PlayerID, mustPlacement(t, 7, 7, engine.Horizontal, "CAT"))
	require.NoError(t, err)

	names, err := archive.ListAll()
	require.NoError(t, err)
	require.Len(t, names, 1)
	rec, err := archive.Load(names[0])
	require.NoError(t, err)
	assert.Equal(t, s.Code, rec.Code)
	assert.Equal(t, "CAT", rec.Board[7][7:10])
}

func TestRandomCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code := RandomCode()
		assert.Len(t, code, CodeLength)
		assert.Equal(t, code, NormalizeCode(code))
		assert.NotContains(t, code, "I")
		assert.NotContains(t, code, "O")
	}
}
