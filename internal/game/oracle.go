package game

import (
	"fmt"
	"strings"
)

// Oracle holds a hidden secret and classifies guesses against it.
// The secret is never exposed.
type Oracle struct {
	secret  string
	history []Classification
}

// NewOracle fixes the secret for a puzzle. The secret is upper-cased.
func NewOracle(secret string) (*Oracle, error) {
	s := strings.ToUpper(strings.TrimSpace(secret))
	if len(s) != WordLength {
		return nil, fmt.Errorf("%w: secret has %d letters, want %d", ErrInvalidGuessLength, len(s), WordLength)
	}
	return &Oracle{secret: s}, nil
}

// Guess classifies word against the secret and records the result.
func (o *Oracle) Guess(word string) (Classification, error) {
	w := strings.ToUpper(word)
	if len(w) != WordLength {
		return Classification{}, fmt.Errorf("%w: got %d letters, want %d", ErrInvalidGuessLength, len(w), WordLength)
	}
	c := Classify(o.secret, w)
	o.history = append(o.history, c)
	return c, nil
}

// History returns a copy of every classification handed out so far.
func (o *Oracle) History() []Classification {
	out := make([]Classification, len(o.history))
	copy(out, o.history)
	return out
}

// Classify scores guess against secret. Both must be WordLength bytes of the
// same case.
//
// Presence is plain membership: a letter repeated in the guess is marked
// Present (or Exact) at every position as long as the secret holds it once.
// Standard Wordle would downgrade the surplus copies to Absent; the solver's
// filtering rule depends on this simpler behaviour.
func Classify(secret, guess string) Classification {
	var c Classification
	for i := 0; i < WordLength; i++ {
		l := guess[i]
		switch {
		case l == secret[i]:
			c[i] = Exact
		case strings.IndexByte(secret, l) >= 0:
			c[i] = Present
		default:
			c[i] = Absent
		}
	}
	return c
}
