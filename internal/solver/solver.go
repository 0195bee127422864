// Package solver deduces an oracle's secret by guessing from a candidate
// pool and filtering the pool by each classification.
//
// The pool starts as the ranked dictionary minus the first guess. Every
// guess is popped from the end of the pool, so pool order fully determines
// guess order. A classification is applied position by position:
//
//	Exact   → keep words with the letter at that position
//	Present → keep words holding the letter, but not at that position
//	Absent  → keep words without the letter
//
// As long as the oracle answers for one fixed secret, that secret never
// leaves the pool, so a solve ends in at most len(pool)+1 guesses.
package solver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle-lab/internal/game"
	"github.com/robalobadob/wordle-lab/internal/words"
)

// ErrPoolExhausted is returned when no candidate is left to guess. It means
// the classifications seen so far fit no word of the dictionary.
var ErrPoolExhausted = errors.New("solver: candidate pool exhausted")

// Guesser is the only view of the oracle the solver gets.
type Guesser interface {
	Guess(word string) (game.Classification, error)
}

// Step is one guess and the feedback it received.
type Step struct {
	Word           string              `json:"word"`
	Classification game.Classification `json:"classification"`
	// Remaining is the pool size after filtering on this step.
	Remaining int `json:"remaining"`
}

// Result is the outcome of a solve. On failure it carries the steps taken
// before the error.
type Result struct {
	Solution string `json:"solution,omitempty"`
	Steps    []Step `json:"steps"`
}

// Guesses returns the number of guesses made.
func (r *Result) Guesses() int { return len(r.Steps) }

// Solver holds a dictionary snapshot. It keeps no per-solve state, so one
// Solver may serve concurrent solves.
type Solver struct {
	words []string
	log   zerolog.Logger
}

// Option configures a Solver.
type Option func(*Solver)

// WithLogger sets the logger used for per-step debug output.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Solver) { s.log = l }
}

// New snapshots dict's current ranking.
func New(dict *words.Dictionary, opts ...Option) *Solver {
	s := &Solver{words: dict.Words(), log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Solve plays g until it answers all-exact. initial is the first guess;
// when empty, the last word of the ranked pool is used.
func (s *Solver) Solve(g Guesser, initial string) (*Result, error) {
	pool := newPool(s.words)
	res := &Result{}

	guess := strings.ToUpper(strings.TrimSpace(initial))
	if guess == "" {
		var ok bool
		if guess, ok = pool.pop(); !ok {
			return res, ErrPoolExhausted
		}
	} else {
		pool.remove(guess)
	}

	for {
		c, err := g.Guess(guess)
		if err != nil {
			return res, fmt.Errorf("solver: guess %q: %w", guess, err)
		}
		if c.Solved() {
			res.Steps = append(res.Steps, Step{Word: guess, Classification: c, Remaining: pool.len()})
			res.Solution = guess
			s.log.Debug().Str("guess", guess).Int("guesses", len(res.Steps)).Msg("solved")
			return res, nil
		}

		pool.filter(guess, c)
		res.Steps = append(res.Steps, Step{Word: guess, Classification: c, Remaining: pool.len()})
		s.log.Debug().
			Str("guess", guess).
			Str("clue", c.String()).
			Int("remaining", pool.len()).
			Msg("filtered pool")

		next, ok := pool.pop()
		if !ok {
			s.log.Debug().Int("guesses", len(res.Steps)).Msg("pool exhausted")
			return res, ErrPoolExhausted
		}
		guess = next
	}
}

// Filter returns the words of pool consistent with guess scoring c.
// pool is not modified.
func Filter(pool []string, guess string, c game.Classification) []string {
	guess = strings.ToUpper(guess)
	out := make([]string, 0, len(pool))
	for _, w := range pool {
		if Consistent(strings.ToUpper(w), guess, c) {
			out = append(out, w)
		}
	}
	return out
}

// Consistent reports whether word could be the secret given that guess
// scored c. word and guess must be uppercase and WordLength long.
func Consistent(word, guess string, c game.Classification) bool {
	if len(word) != game.WordLength || len(guess) != game.WordLength {
		return false
	}
	return newCandidate(word).allows(guess, c)
}
