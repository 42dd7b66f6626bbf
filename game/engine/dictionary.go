package engine

import "strings"

// Dictionary is a set of valid words, stored upper-cased. An empty or nil
// Dictionary disables word checks entirely.
type Dictionary map[string]struct{}

// NewDictionary builds a Dictionary from words, ignoring blanks.
func NewDictionary(words []string) Dictionary {
	d := make(Dictionary, len(words))
	for _, w := range words {
		w = strings.ToUpper(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		d[w] = struct{}{}
	}
	return d
}

// Enabled reports whether word checks should run.
func (d Dictionary) Enabled() bool {
	return len(d) > 0
}

// Contains reports whether word is in the dictionary, ignoring case.
func (d Dictionary) Contains(word string) bool {
	_, ok := d[strings.ToUpper(word)]
	return ok
}

// Accepts reports whether word passes the dictionary check. A disabled
// dictionary accepts everything.
func (d Dictionary) Accepts(word string) bool {
	return !d.Enabled() || d.Contains(word)
}
