package words

import (
	"slices"
	"strings"
)

// Rank orders list in place, ascending by Value against the letter tallies
// of the whole list. Equal values keep their input order. The solver pops
// from the end, so the most informative words are tried first.
func Rank(list []string) {
	tallies := Tallies(list)
	values := make(map[string]int, len(list))
	for _, w := range list {
		values[w] = Value(w, tallies)
	}
	slices.SortStableFunc(list, func(a, b string) int {
		return values[a] - values[b]
	})
}

// Tallies counts every letter occurrence across list.
func Tallies(list []string) [26]int {
	var t [26]int
	for _, w := range list {
		for i := 0; i < len(w); i++ {
			if c := w[i]; c >= 'A' && c <= 'Z' {
				t[c-'A']++
			}
		}
	}
	return t
}

// Value sums the tallies of w's letters, skipping any letter that occurs
// more than twice in w.
func Value(w string, tallies [26]int) int {
	v := 0
	for i := 0; i < len(w); i++ {
		c := w[i]
		if c < 'A' || c > 'Z' {
			continue
		}
		if strings.Count(w, string(c)) <= 2 {
			v += tallies[c-'A']
		}
	}
	return v
}
