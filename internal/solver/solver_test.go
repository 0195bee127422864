package solver

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-lab/internal/game"
	"github.com/robalobadob/wordle-lab/internal/words"
)

func mustDict(t *testing.T, list ...string) *words.Dictionary {
	t.Helper()
	d, err := words.New(list)
	require.NoError(t, err)
	return d
}

func mustOracle(t *testing.T, secret string) *game.Oracle {
	t.Helper()
	o, err := game.NewOracle(secret)
	require.NoError(t, err)
	return o
}

// scripted replays fixed classifications regardless of the guess.
type scripted struct {
	replies []game.Classification
	guesses []string
}

func (s *scripted) Guess(w string) (game.Classification, error) {
	s.guesses = append(s.guesses, w)
	if len(s.replies) == 0 {
		return game.Classification{}, errors.New("script exhausted")
	}
	c := s.replies[0]
	s.replies = s.replies[1:]
	return c, nil
}

func TestSolve_InitialGuessIsSecret(t *testing.T) {
	d := mustDict(t, "CRANE", "TRACE", "APPLE", "BLOOD")
	res, err := New(d).Solve(mustOracle(t, "APPLE"), "apple")
	require.NoError(t, err)
	assert.Equal(t, "APPLE", res.Solution)
	assert.Equal(t, 1, res.Guesses())
	assert.Equal(t, game.AllExact, res.Steps[0].Classification)
}

func TestSolve_DefaultInitialIsLastRanked(t *testing.T) {
	d := mustDict(t, "CRANE", "TRACE", "APPLE", "BLOOD")
	last := d.At(d.Len() - 1)

	o := &scripted{replies: []game.Classification{game.AllExact}}
	res, err := New(d).Solve(o, "")
	require.NoError(t, err)
	assert.Equal(t, []string{last}, o.guesses)
	assert.Equal(t, last, res.Solution)
}

func TestSolve_CraneFromTrace(t *testing.T) {
	d := mustDict(t, "CRANE", "TRACE", "APPLE", "BLOOD", "NACRE", "CRATE")
	res, err := New(d).Solve(mustOracle(t, "CRANE"), "TRACE")
	require.NoError(t, err)
	assert.Equal(t, "CRANE", res.Solution)

	assert.Equal(t, "TRACE", res.Steps[0].Word)
	assert.Equal(t, game.Classification{game.Absent, game.Exact, game.Exact, game.Present, game.Exact}, res.Steps[0].Classification)
	// Only CRANE survives T absent, R and A in place, C elsewhere, E at 4.
	assert.Equal(t, 1, res.Steps[0].Remaining)
	assert.Equal(t, 2, res.Guesses())
}

func TestSolve_InvalidGuessLengthStopsLoop(t *testing.T) {
	d := mustDict(t, "CRANE", "TRACE")
	o := mustOracle(t, "CRANE")
	res, err := New(d).Solve(o, "TRACES")
	assert.ErrorIs(t, err, game.ErrInvalidGuessLength)
	assert.Empty(t, res.Steps)
	assert.Empty(t, o.History())
}

func TestSolve_ContradictionExhaustsPool(t *testing.T) {
	d := mustDict(t, "CRANE", "TRACE", "APPLE", "BLOOD", "NACRE")
	allAbsent := game.Classification{}
	o := &scripted{replies: []game.Classification{allAbsent, allAbsent, allAbsent, allAbsent, allAbsent, allAbsent}}

	res, err := New(d).Solve(o, "")
	assert.ErrorIs(t, err, ErrPoolExhausted)
	assert.Empty(t, res.Solution)
	assert.NotEmpty(t, res.Steps)
	assert.LessOrEqual(t, len(o.guesses), d.Len())
	assert.Equal(t, 0, res.Steps[len(res.Steps)-1].Remaining)
}

func TestSolve_EveryWordOfEmbeddedDictionary(t *testing.T) {
	d, err := words.Load(context.Background(), words.Source{})
	require.NoError(t, err)
	s := New(d)

	for _, secret := range d.Words() {
		o := mustOracle(t, secret)
		res, err := s.Solve(o, "")
		require.NoError(t, err, "secret %s", secret)
		require.Equal(t, secret, res.Solution)
		require.LessOrEqual(t, res.Guesses(), d.Len())

		// The secret satisfies every classification it produced.
		for _, st := range res.Steps {
			require.True(t, Consistent(secret, st.Word, st.Classification) || st.Word == secret,
				"secret %s inconsistent with %s %s", secret, st.Word, st.Classification)
		}
		// The pool only shrinks.
		for i := 1; i < len(res.Steps); i++ {
			require.Less(t, res.Steps[i].Remaining, res.Steps[i-1].Remaining+1)
		}
	}
}

func TestSolve_Deterministic(t *testing.T) {
	d := mustDict(t, "CRANE", "TRACE", "APPLE", "BLOOD", "NACRE", "CRATE", "GRACE", "PLANT")
	s := New(d)
	a, err := s.Solve(mustOracle(t, "GRACE"), "")
	require.NoError(t, err)
	b, err := s.Solve(mustOracle(t, "GRACE"), "")
	require.NoError(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("solves differ (-first +second):\n%s", diff)
	}
}

func TestSolve_DictionaryAppendAfterNew(t *testing.T) {
	d := mustDict(t, "CRANE", "TRACE")
	s := New(d)
	_, err := d.Append("APPLE")
	require.NoError(t, err)

	// The old snapshot cannot reach APPLE.
	_, err = s.Solve(mustOracle(t, "APPLE"), "")
	assert.ErrorIs(t, err, ErrPoolExhausted)

	res, err := New(d).Solve(mustOracle(t, "APPLE"), "")
	require.NoError(t, err)
	assert.Equal(t, "APPLE", res.Solution)
}

func TestSolve_LogsSteps(t *testing.T) {
	var buf bytes.Buffer
	d := mustDict(t, "CRANE", "TRACE", "APPLE")
	s := New(d, WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	_, err := s.Solve(mustOracle(t, "CRANE"), "TRACE")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"guess":"TRACE"`)
	assert.Contains(t, buf.String(), `"message":"solved"`)
}

func TestFilter(t *testing.T) {
	pool := []string{"CRANE", "NACRE", "CRATE", "BLOOD", "GRACE"}
	c := game.Classify("CRANE", "TRACE")
	assert.Equal(t, []string{"CRANE"}, Filter(pool, "TRACE", c))

	// Filtering never drops the secret.
	for _, g := range pool {
		got := Filter(pool, g, game.Classify("GRACE", g))
		assert.Contains(t, got, "GRACE", "guess %s", g)
	}
}

func TestConsistent_Rules(t *testing.T) {
	exactR := game.Classification{game.Absent, game.Exact, game.Absent, game.Absent, game.Absent}
	assert.True(t, Consistent("BROWN", "ZRQXJ", exactR))
	assert.False(t, Consistent("BLOWN", "ZRQXJ", exactR))

	presentR := game.Classification{game.Present, game.Absent, game.Absent, game.Absent, game.Absent}
	assert.True(t, Consistent("BRQWN", "RZXJK", presentR))
	assert.False(t, Consistent("RBOWN", "RZXJK", presentR), "present letter at its own position")
	assert.False(t, Consistent("BLOWN", "RZXJK", presentR), "present letter missing")

	assert.False(t, Consistent("ZEBRA", "ZXXXX", game.Classification{}))
	assert.False(t, Consistent("SHORT", "TOOLONG", game.Classification{}))
}
