// internal/game/types.go
//
// Core type definitions for the Wordle oracle.
// Defines:
//   - Mark: per-letter result of a guess (exact/present/absent).
//   - Classification: the fixed-length sequence of marks for one guess.
//   - Game: state for a single human-played session.

package game

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// WordLength is the fixed number of letters in every guess.
const WordLength = 5

var (
	// ErrInvalidGuessLength is returned when a guess (or secret) is not WordLength letters.
	ErrInvalidGuessLength = errors.New("game: invalid guess length")
	// ErrGameFinished is returned by Game.ApplyGuess once the game is won or lost.
	ErrGameFinished = errors.New("game: game finished")
	// ErrNotInWordList is returned by Game.ApplyGuess for words outside the attached dictionary.
	ErrNotInWordList = errors.New("game: not in word list")
	// ErrInvalidClassification is returned by ParseClassification.
	ErrInvalidClassification = errors.New("game: invalid classification")
)

// Mark represents the evaluation result for a single letter in a guess.
// Marks are ordered Absent < Present < Exact.
type Mark uint8

const (
	Absent  Mark = iota // letter does not occur in the secret
	Present             // letter occurs in the secret, elsewhere
	Exact               // letter is in the right position
)

// String returns the lowercase name of the mark.
func (m Mark) String() string {
	switch m {
	case Exact:
		return "exact"
	case Present:
		return "present"
	case Absent:
		return "absent"
	default:
		return fmt.Sprintf("Mark(%d)", uint8(m))
	}
}

// Symbol returns the emoji tile for the mark.
func (m Mark) Symbol() string {
	switch m {
	case Exact:
		return "🟩"
	case Present:
		return "🟨"
	default:
		return "⬜"
	}
}

// MarshalText encodes the mark by name, so JSON carries "exact" etc.
func (m Mark) MarshalText() ([]byte, error) {
	if m > Exact {
		return nil, fmt.Errorf("%w: mark %d", ErrInvalidClassification, uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (m *Mark) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "exact":
		*m = Exact
	case "present":
		*m = Present
	case "absent":
		*m = Absent
	default:
		return fmt.Errorf("%w: mark %q", ErrInvalidClassification, string(b))
	}
	return nil
}

// Classification is the per-position feedback for one guess.
// Arrays compare with ==, which is all the all-exact check needs.
type Classification [WordLength]Mark

// AllExact is the classification of a correct guess.
var AllExact = Classification{Exact, Exact, Exact, Exact, Exact}

// Solved reports whether every position is Exact.
func (c Classification) Solved() bool { return c == AllExact }

// Compare orders classifications lexicographically by mark.
func (c Classification) Compare(o Classification) int {
	for i := range c {
		switch {
		case c[i] < o[i]:
			return -1
		case c[i] > o[i]:
			return 1
		}
	}
	return 0
}

// String renders the classification as emoji tiles, e.g. "⬜🟩🟨🟨🟩".
func (c Classification) String() string {
	var b strings.Builder
	for _, m := range c {
		b.WriteString(m.Symbol())
	}
	return b.String()
}

// Digits renders the classification as "0"/"1"/"2" per position.
func (c Classification) Digits() string {
	b := make([]byte, len(c))
	for i, m := range c {
		b[i] = '0' + byte(m)
	}
	return string(b)
}

// ParseClassification reads the emoji form, the digit form ("02112") or the
// letter form ("BGYYG"; G exact, Y present, B/W/. absent).
func ParseClassification(s string) (Classification, error) {
	var c Classification
	runes := []rune(strings.Join(strings.Fields(s), ""))
	if len(runes) != WordLength {
		return c, fmt.Errorf("%w: %q has %d symbols", ErrInvalidClassification, s, len(runes))
	}
	for i, r := range runes {
		switch r {
		case '🟩', '2', 'G', 'g':
			c[i] = Exact
		case '🟨', '1', 'Y', 'y':
			c[i] = Present
		case '⬜', '⬛', '0', 'B', 'b', 'W', 'w', '.':
			c[i] = Absent
		default:
			return c, fmt.Errorf("%w: symbol %q", ErrInvalidClassification, r)
		}
	}
	return c, nil
}

// Game holds the state of a single human-played session.
type Game struct {
	ID         string   // Unique game identifier (uuid).
	MaxGuesses int      // 0 means unlimited.
	Guesses    []string // Guesses made so far (uppercase).
	Finished   bool     // True once the game is over (won or lost).
	Won        bool     // True if the game was finished with a win.

	mu      sync.Mutex // serializes ApplyGuess against readers
	oracle  *Oracle
	allowed func(string) bool
}
