package main

import (
	"math"
	"strings"
	"testing"

	"github.com/wricardo/wordgrid/game/engine"
)

func TestAnalysisPoint(t *testing.T) {
	point := AnalysisPoint{X: 3, Y: 5}

	if point.X != 3 {
		t.Errorf("Expected X 3, got %d", point.X)
	}

	if point.Y != 5 {
		t.Errorf("Expected Y 5, got %d", point.Y)
	}
}

func TestAnalyzeRules_Classic(t *testing.T) {
	a, err := analyzeRules(engine.DefaultRules())
	if err != nil {
		t.Fatalf("analyzeRules failed: %v", err)
	}

	if a.Name != "classic" {
		t.Errorf("Expected name classic, got %s", a.Name)
	}
	// 187 points spread over 98 weighted tiles.
	if math.Abs(a.ExpectedTile-187.0/98.0) > 1e-9 {
		t.Errorf("Unexpected expected tile value %f", a.ExpectedTile)
	}
	if math.Abs(a.ExpectedRack-7*187.0/98.0) > 1e-9 {
		t.Errorf("Unexpected expected rack value %f", a.ExpectedRack)
	}
	if math.Abs(a.VowelChance-42.0/98.0) > 1e-9 {
		t.Errorf("Unexpected vowel chance %f", a.VowelChance)
	}
	if a.NoVowelRack > 0.05 {
		t.Errorf("Expected rare vowel-less racks, got %f", a.NoVowelRack)
	}
	if a.TurnsToWin != 8 {
		t.Errorf("Expected 8 turns to win, got %d", a.TurnsToWin)
	}

	if a.Premiums[engine.TripleWord] != 8 || a.Premiums[engine.DoubleWord] != 17 {
		t.Errorf("Unexpected premium counts %v", a.Premiums)
	}
	if len(a.TripleWords) != 8 {
		t.Errorf("Expected 8 triple-word squares, got %d", len(a.TripleWords))
	}
	if a.NearestTriple != 7 {
		t.Errorf("Expected nearest triple word 7 steps away, got %d", a.NearestTriple)
	}
	if got := engine.LettersString(a.HighValueLetter); got != "JQXZ" {
		t.Errorf("Expected high value letters JQXZ, got %s", got)
	}
}

func TestAnalyzeRules_NoTriples(t *testing.T) {
	rules := engine.DefaultRules()
	rules.Layout = make([]string, engine.BoardSize)
	for i := range rules.Layout {
		rules.Layout[i] = strings.Repeat(".", engine.BoardSize)
	}

	a, err := analyzeRules(rules)
	if err != nil {
		t.Fatalf("analyzeRules failed: %v", err)
	}
	if a.NearestTriple != -1 {
		t.Errorf("Expected no triple word, got distance %d", a.NearestTriple)
	}
	if a.Premiums[engine.NoMultiplier] != engine.BoardSize*engine.BoardSize {
		t.Errorf("Expected every square plain, got %v", a.Premiums)
	}
}

func TestAnalyzeRules_ConsonantBag(t *testing.T) {
	rules := engine.DefaultRules()
	rules.LetterWeights = map[engine.Letter]int{'B': 1, 'C': 1}

	a, err := analyzeRules(rules)
	if err != nil {
		t.Fatalf("analyzeRules failed: %v", err)
	}
	if a.VowelChance != 0 || a.NoVowelRack != 1 {
		t.Errorf("Expected no vowels, got chance %f and no-vowel rack %f", a.VowelChance, a.NoVowelRack)
	}
	if a.ExpectedTile != 3 {
		t.Errorf("Expected tile value 3, got %f", a.ExpectedTile)
	}
}

func TestAnalyzeRules_Errors(t *testing.T) {
	rules := engine.DefaultRules()
	rules.LetterWeights = map[engine.Letter]int{}
	if _, err := analyzeRules(rules); err == nil {
		t.Error("Expected error for an empty bag")
	}

	rules = engine.DefaultRules()
	rules.Layout = rules.Layout[:3]
	if _, err := analyzeRules(rules); err == nil {
		t.Error("Expected error for a short layout")
	}
}

func TestAbs(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{5, 5},
		{-5, 5},
		{0, 0},
	}

	for _, tt := range tests {
		if got := abs(tt.input); got != tt.expected {
			t.Errorf("abs(%d) = %d, expected %d", tt.input, got, tt.expected)
		}
	}
}
