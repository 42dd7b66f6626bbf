// Command validate checks the rule set files (.json, .yaml, .yml) in a
// configs directory. Besides the checks applied when a room loads a rule set,
// it fails files whose bag can never draw a vowel, and warns when the filename
// and the "name" field disagree or when the rack soft cap leaves no room for
// the timeout bonus tile. Premium square counts and layout symmetry are
// reported for each valid file.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/wordgrid/game/config"
	"github.com/wricardo/wordgrid/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found. Warnings never
// invalidate a file.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ValidationResult) info(format string, args ...any) {
	r.Errors = append(r.Errors, "✓ "+fmt.Sprintf(format, args...))
}

var vowels = []engine.Letter{'A', 'E', 'I', 'O', 'U'}

// validateRules loads and validates a single rule set file.
func validateRules(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	rules, err := config.ReadFile(filePath)
	if err != nil {
		result.fail("%v", err)
		return result
	}

	stem := strings.TrimSuffix(result.File, filepath.Ext(result.File))
	if rules.Name != stem {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("name %q differs from filename; rooms select this file as %q", rules.Name, stem))
	}

	vowelWeight := 0
	for _, v := range vowels {
		vowelWeight += rules.LetterWeights[v]
	}
	if vowelWeight == 0 {
		result.fail("letter_weights gives no vowel a positive weight")
	}

	if rules.RackSoftCap < rules.RackCapacity+1 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("rack_soft_cap %d leaves no room for the timeout bonus tile", rules.RackSoftCap))
	}

	grid, err := engine.ParseLayout(rules.Layout)
	if err != nil {
		result.fail("%v", err)
		return result
	}
	counts := premiumCounts(grid)

	if !result.Valid {
		return result
	}

	result.info("Name: %s", rules.Name)
	result.info("Turn: %s, win at %d points", rules.TurnTimeout, rules.WinScore)
	result.info("Rack: %d tiles (soft cap %d)", rules.RackCapacity, rules.RackSoftCap)
	result.info("Premiums: %d DL, %d TL, %d DW, %d TW",
		counts[engine.DoubleLetter], counts[engine.TripleLetter], counts[engine.DoubleWord], counts[engine.TripleWord])
	result.info("Centre: %s", grid[engine.BoardSize/2][engine.BoardSize/2])
	result.info("Vowel share: %.0f%%", 100*float64(vowelWeight)/float64(totalWeight(rules.LetterWeights)))
	if symmetric(grid) {
		result.info("Layout is symmetric")
	} else {
		result.Warnings = append(result.Warnings, "layout is not symmetric under rotation")
	}

	return result
}

func premiumCounts(grid [engine.BoardSize][engine.BoardSize]engine.Multiplier) map[engine.Multiplier]int {
	counts := make(map[engine.Multiplier]int)
	for y := range grid {
		for x := range grid[y] {
			counts[grid[y][x]]++
		}
	}
	return counts
}

// symmetric reports whether the layout looks the same rotated by 180 degrees.
func symmetric(grid [engine.BoardSize][engine.BoardSize]engine.Multiplier) bool {
	last := engine.BoardSize - 1
	for y := range grid {
		for x := range grid[y] {
			if grid[y][x] != grid[last-y][last-x] {
				return false
			}
		}
	}
	return true
}

func totalWeight(weights map[engine.Letter]int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	return total
}

// findRuleFiles lists the rule set files in dir in name order.
func findRuleFiles(dir string) ([]string, error) {
	var files []string
	for _, ext := range config.Extensions {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+ext))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// main validates every rule file in the configs directory, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	configDir := flag.String("dir", "configs", "directory containing rule sets")
	flag.Parse()

	files, err := findRuleFiles(*configDir)
	if err != nil {
		fmt.Printf("Error finding rule files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No rule files found in %s\n", *configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateRules(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
		for _, w := range result.Warnings {
			fmt.Println("  ⚠ " + w)
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All rule sets are valid!")
	} else {
		fmt.Println("❌ Some rule sets have errors")
		os.Exit(1)
	}
}
