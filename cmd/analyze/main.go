// Command analyze prints quick, human-readable heuristics about the rule sets
// in the project's configs directory. It summarizes tile economics (expected
// tile and rack value, vowel odds), premium square placement relative to the
// centre, and roughly how many full-rack turns it takes to reach the win
// score.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/samber/lo"

	"github.com/wricardo/wordgrid/game/config"
	"github.com/wricardo/wordgrid/game/engine"
)

// AnalysisPoint denotes a board coordinate used during analysis output.
type AnalysisPoint struct {
	X, Y int
}

// Analysis holds the heuristics computed for one rule set.
type Analysis struct {
	Name            string
	ExpectedTile    float64
	ExpectedRack    float64
	VowelChance     float64
	NoVowelRack     float64
	TurnsToWin      int
	Premiums        map[engine.Multiplier]int
	NearestTriple   int
	TripleWords     []AnalysisPoint
	HighValueLetter []engine.Letter
}

var vowels = []engine.Letter{'A', 'E', 'I', 'O', 'U'}

func main() {
	configDir := flag.String("dir", "configs", "directory containing rule sets")
	flag.Parse()

	manager, err := config.NewManager(*configDir)
	if err != nil {
		fmt.Printf("Error opening %s: %v\n", *configDir, err)
		os.Exit(1)
	}
	infos, err := manager.List()
	if err != nil {
		fmt.Printf("Error listing rule sets: %v\n", err)
		os.Exit(1)
	}

	for _, info := range infos {
		fmt.Printf("\n=== Analyzing %s ===\n", info.ID)
		rules, err := manager.Load(info.ID)
		if err != nil {
			fmt.Printf("Error loading rules: %v\n", err)
			continue
		}
		a, err := analyzeRules(rules)
		if err != nil {
			fmt.Printf("Error analyzing rules: %v\n", err)
			continue
		}
		printAnalysis(a, rules)
	}
}

func analyzeRules(rules *engine.Rules) (*Analysis, error) {
	grid, err := engine.ParseLayout(rules.Layout)
	if err != nil {
		return nil, err
	}

	total := lo.Sum(lo.Values(rules.LetterWeights))
	if total == 0 {
		return nil, fmt.Errorf("bag has no tiles")
	}

	a := &Analysis{
		Name:     rules.Name,
		Premiums: make(map[engine.Multiplier]int),
	}

	for l, w := range rules.LetterWeights {
		a.ExpectedTile += float64(w*rules.LetterValues[l]) / float64(total)
	}
	a.ExpectedRack = a.ExpectedTile * float64(rules.RackCapacity)

	vowelWeight := lo.SumBy(vowels, func(v engine.Letter) int { return rules.LetterWeights[v] })
	a.VowelChance = float64(vowelWeight) / float64(total)
	a.NoVowelRack = math.Pow(1-a.VowelChance, float64(rules.RackCapacity))

	if a.ExpectedRack > 0 {
		a.TurnsToWin = int(math.Ceil(float64(rules.WinScore) / a.ExpectedRack))
	}

	centre := engine.BoardSize / 2
	a.NearestTriple = -1
	for y := range grid {
		for x := range grid[y] {
			m := grid[y][x]
			a.Premiums[m]++
			if m != engine.TripleWord {
				continue
			}
			a.TripleWords = append(a.TripleWords, AnalysisPoint{x, y})
			if dist := abs(x-centre) + abs(y-centre); a.NearestTriple < 0 || dist < a.NearestTriple {
				a.NearestTriple = dist
			}
		}
	}

	// Letters worth at least three times the expected tile.
	for l, w := range rules.LetterWeights {
		if w > 0 && float64(rules.LetterValues[l]) >= 3*a.ExpectedTile {
			a.HighValueLetter = append(a.HighValueLetter, l)
		}
	}
	sort.Slice(a.HighValueLetter, func(i, j int) bool { return a.HighValueLetter[i] < a.HighValueLetter[j] })

	return a, nil
}

func printAnalysis(a *Analysis, rules *engine.Rules) {
	fmt.Printf("Name: %s\n", a.Name)
	fmt.Printf("Turn Time: %s\n", rules.TurnTimeout)
	fmt.Printf("Win Score: %d\n", rules.WinScore)
	fmt.Printf("Rack: %d tiles (soft cap %d)\n", rules.RackCapacity, rules.RackSoftCap)
	fmt.Printf("Expected Tile Value: %.2f\n", a.ExpectedTile)
	fmt.Printf("Expected Rack Value: %.1f\n", a.ExpectedRack)
	fmt.Printf("Vowel Chance: %.0f%%\n", 100*a.VowelChance)
	fmt.Printf("Premiums: %d DL, %d TL, %d DW, %d TW\n",
		a.Premiums[engine.DoubleLetter], a.Premiums[engine.TripleLetter], a.Premiums[engine.DoubleWord], a.Premiums[engine.TripleWord])

	if a.NoVowelRack > 0.05 {
		fmt.Printf("⚠️  WARNING: %.1f%% of full racks hold no vowel\n", 100*a.NoVowelRack)
	} else {
		fmt.Printf("✅ Vowel-less racks are rare (%.2f%%)\n", 100*a.NoVowelRack)
	}

	if a.NearestTriple < 0 {
		fmt.Printf("⚠️  No triple-word squares on the board\n")
	} else {
		fmt.Printf("Nearest Triple Word: %d steps from centre (%d total)\n", a.NearestTriple, len(a.TripleWords))
	}

	if a.TurnsToWin > 0 {
		fmt.Printf("Turns To Win: ~%d full racks\n", a.TurnsToWin)
	} else {
		fmt.Printf("⚠️  CRITICAL: tiles are worth nothing, nobody can reach %d points\n", rules.WinScore)
	}

	if len(a.HighValueLetter) > 0 {
		fmt.Printf("High Value Letters: %s\n", engine.LettersString(a.HighValueLetter))
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
