package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-lab/internal/game"
	"github.com/robalobadob/wordle-lab/internal/solver"
)

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	g, err := game.NewGame("CRANE")
	require.NoError(t, err)
	require.NoError(t, m.Save(ctx, g))

	got, err := m.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Same(t, g, got)

	_, err = m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")
	db, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.DB.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	u, err := db.CreateUser(ctx, " robin_1 ", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "robin_1", u.Username)

	_, err = db.CreateUser(ctx, "ROBIN_1", "another password")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = db.CreateUser(ctx, "no", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidSignup)
	_, err = db.CreateUser(ctx, "bad name!", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidSignup)
	_, err = db.CreateUser(ctx, "shorty", "short")
	assert.ErrorIs(t, err, ErrInvalidSignup)

	got, err := db.Authenticate(ctx, "Robin_1", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = db.Authenticate(ctx, "robin_1", "wrong horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = db.Authenticate(ctx, "nobody", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = db.FindUserByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func sampleSteps() []solver.Step {
	return []solver.Step{
		{Word: "TRACE", Classification: game.Classify("CRANE", "TRACE"), Remaining: 1},
		{Word: "CRANE", Classification: game.AllExact, Remaining: 0},
	}
}

func TestRuns_InsertGetAndStats(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	u, err := db.CreateUser(ctx, "solver", "password123")
	require.NoError(t, err)

	r := &Run{
		UserID:   u.ID,
		Date:     "2024-03-10",
		Source:   "fixed",
		Initial:  "TRACE",
		Solution: "CRANE",
		Guesses:  2,
		Status:   RunSolved,
		Steps:    sampleSteps(),
	}
	require.NoError(t, db.InsertRun(ctx, r))
	require.NotEmpty(t, r.ID)

	got, err := db.GetRun(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.Steps, got.Steps)
	assert.Equal(t, "CRANE", got.Solution)
	assert.WithinDuration(t, r.CreatedAt, got.CreatedAt, time.Millisecond)

	u, err = db.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, u.Solves)
	assert.Equal(t, 2, u.TotalGuesses)
	assert.InDelta(t, 2.0, u.AverageGuesses(), 1e-9)

	_, err = db.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRuns_ClaimAndList(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.InsertRun(ctx, &Run{
			AnonymousID: "anon-1",
			Date:        "2024-03-10",
			Source:      "random",
			Guesses:     i + 1,
			Status:      RunSolved,
			Steps:       sampleSteps(),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}
	u, err := db.CreateUser(ctx, "claimer", "password123")
	require.NoError(t, err)

	runs, err := db.RunsByUser(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, runs)

	require.NoError(t, db.ClaimAnonRuns(ctx, "anon-1", u.ID))
	runs, err = db.RunsByUser(ctx, u.ID, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 3, runs[0].Guesses, "newest first")
	assert.Equal(t, 2, runs[1].Guesses)
}

func TestRuns_ClaimCreditsStats(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	u, err := db.CreateUser(ctx, "latecomer", "password123")
	require.NoError(t, err)
	require.NoError(t, db.InsertRun(ctx, &Run{
		UserID: u.ID, Date: "2024-03-10", Source: "fixed", Status: RunSolved, Guesses: 2, Steps: sampleSteps(),
	}))
	for _, r := range []*Run{
		{AnonymousID: "anon-2", Status: RunSolved, Guesses: 3},
		{AnonymousID: "anon-2", Status: RunSolved, Guesses: 5},
		{AnonymousID: "anon-2", Status: RunExhausted, Guesses: 9},
		{AnonymousID: "someone-else", Status: RunSolved, Guesses: 1},
	} {
		r.Date, r.Source, r.Steps = "2024-03-10", "random", sampleSteps()
		require.NoError(t, db.InsertRun(ctx, r))
	}

	require.NoError(t, db.ClaimAnonRuns(ctx, "anon-2", u.ID))

	got, err := db.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Solves)
	assert.Equal(t, 10, got.TotalGuesses)

	runs, err := db.RunsByUser(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 4)

	// Nothing left to claim: a second call changes nothing.
	require.NoError(t, db.ClaimAnonRuns(ctx, "anon-2", u.ID))
	got, err = db.FindUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Solves)
	assert.Equal(t, 10, got.TotalGuesses)
}

func TestDailyLeaderboard(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	u, err := db.CreateUser(ctx, "leader", "password123")
	require.NoError(t, err)

	insert := func(userID, source, status string, guesses int) {
		require.NoError(t, db.InsertRun(ctx, &Run{
			UserID: userID, Date: "2024-03-10", Source: source, Status: status,
			Guesses: guesses, Steps: sampleSteps(),
		}))
	}
	insert(u.ID, "daily", RunSolved, 4)
	insert("", "daily", RunSolved, 2)
	insert("", "daily", RunExhausted, 1)
	insert("", "random", RunSolved, 1)

	rows, err := db.DailyLeaderboard(ctx, "2024-03-10", 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Guesses)
	assert.Equal(t, 4, rows[1].Guesses)
	assert.Equal(t, "leader", rows[1].Username)

	rows, err = db.DailyLeaderboard(ctx, "2024-03-11", 5)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
