package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Archive stores the record of every finished game. Records are written once
// and never loaded back into a live room.
type Archive interface {
	Save(rec *Record) error
}

// Record is the archived summary of a finished game.
type Record struct {
	Code       string       `json:"code"`
	Rules      string       `json:"rules"`
	Winner     string       `json:"winner"`
	FinalScore int          `json:"final_score"`
	Players    []PlayerView `json:"players"`
	Moves      []MoveRecord `json:"moves"`
	Board      []string     `json:"board"`
	CreatedAt  time.Time    `json:"created_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

// record builds the archive record. Callers hold s.mu.
func (s *Session) record() *Record {
	rec := &Record{
		Code:       s.Code,
		Rules:      s.game.Rules().Name,
		Players:    s.playerViews(),
		Moves:      append([]MoveRecord{}, s.moves...),
		Board:      s.game.Board().Rows(),
		CreatedAt:  s.CreatedAt,
		FinishedAt: time.Now(),
	}
	if s.winner != nil {
		rec.Winner = s.winner.Name
		rec.FinalScore = s.winner.Score
	}
	return rec
}

// FileArchive writes one JSON file per finished game into a directory.
type FileArchive struct {
	dir string
}

// NewFileArchive creates a file archive rooted at dir, creating it if needed.
func NewFileArchive(dir string) (*FileArchive, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &FileArchive{dir: dir}, nil
}

// Save writes rec as <finish time>-<code>.json, so names sort by finish time.
func (fa *FileArchive) Save(rec *Record) error {
	if rec == nil {
		return fmt.Errorf("record cannot be nil")
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal game record: %w", err)
	}

	if err := os.WriteFile(fa.path(fa.name(rec)), data, 0644); err != nil {
		return fmt.Errorf("failed to write game record: %w", err)
	}
	return nil
}

// Load reads an archived record by name, as returned from ListAll.
func (fa *FileArchive) Load(name string) (*Record, error) {
	data, err := os.ReadFile(fa.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read game record: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game record: %w", err)
	}
	return &rec, nil
}

// ListAll returns the names of all archived records, oldest first.
func (fa *FileArchive) ListAll() ([]string, error) {
	entries, err := os.ReadDir(fa.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(entry.Name(), ".json"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (fa *FileArchive) name(rec *Record) string {
	return fmt.Sprintf("%s-%s", rec.FinishedAt.UTC().Format("20060102T150405.000"), rec.Code)
}

func (fa *FileArchive) path(name string) string {
	return filepath.Join(fa.dir, name+".json")
}
