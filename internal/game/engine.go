// internal/game/engine.go
//
// Session engine for a single human-played puzzle.
// Responsibilities:
//   - Create new games around an Oracle with a fixed secret.
//   - Validate and apply guesses (finished check, length, alphabetic, word list).
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - Scoring is delegated to the Oracle, so sessions and the solver see the
//     same feedback.
//   - MaxGuesses == 0 disables the loss condition; the oracle has no turn cap.

package game

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Session states reported by ApplyGuess.
const (
	StatePlaying = "playing"
	StateWon     = "won"
	StateLost    = "lost"
)

// GameOption configures a Game at construction.
type GameOption func(*Game)

// WithMaxGuesses caps the number of guesses; 0 means unlimited.
func WithMaxGuesses(n int) GameOption {
	return func(g *Game) { g.MaxGuesses = n }
}

// WithWordList rejects guesses for which allowed returns false.
func WithWordList(allowed func(string) bool) GameOption {
	return func(g *Game) { g.allowed = allowed }
}

// NewGame constructs a new game instance around secret.
func NewGame(secret string, opts ...GameOption) (*Game, error) {
	o, err := NewOracle(secret)
	if err != nil {
		return nil, err
	}
	g := &Game{
		ID:      uuid.NewString(),
		Guesses: []string{},
		oracle:  o,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// ApplyGuess validates and scores a guess, mutating the game state.
// Returns the classification, the new state, or an error.
//
// Validation rules:
//   - Game must not be finished.
//   - Guess must be exactly WordLength letters A–Z.
//   - Guess must be in the word list, when one is attached.
func (g *Game) ApplyGuess(guess string) (Classification, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Finished {
		return Classification{}, g.state(), ErrGameFinished
	}
	guess = strings.ToUpper(strings.TrimSpace(guess))
	if len(guess) != WordLength {
		return Classification{}, g.state(), fmt.Errorf("%w: got %d letters, want %d", ErrInvalidGuessLength, len(guess), WordLength)
	}
	if !isAlpha(guess) {
		return Classification{}, g.state(), fmt.Errorf("%w: %q", ErrNotInWordList, guess)
	}
	if g.allowed != nil && !g.allowed(guess) {
		return Classification{}, g.state(), fmt.Errorf("%w: %q", ErrNotInWordList, guess)
	}

	c, err := g.oracle.Guess(guess)
	if err != nil {
		return Classification{}, g.state(), err
	}
	g.Guesses = append(g.Guesses, guess)

	if c.Solved() {
		g.Finished, g.Won = true, true
	} else if g.MaxGuesses > 0 && len(g.Guesses) >= g.MaxGuesses {
		g.Finished = true
	}
	return c, g.state(), nil
}

// State reports a coarse string representation of the current game state.
func (g *Game) State() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state()
}

func (g *Game) state() string {
	if g.Finished {
		if g.Won {
			return StateWon
		}
		return StateLost
	}
	return StatePlaying
}

// GuessCount returns the number of accepted guesses.
func (g *Game) GuessCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.Guesses)
}

// History returns the classifications of every accepted guess, in order.
func (g *Game) History() []Classification {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.oracle.History()
}

// Answer returns the secret, but only once the game is over.
func (g *Game) Answer() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.Finished {
		return "", false
	}
	return g.oracle.secret, true
}

// isAlpha checks that a string consists only of uppercase A–Z.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
