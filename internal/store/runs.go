// internal/store/runs.go
//
// Solve runs recorded by the API.
// Responsibilities:
//   - Insert runs (steps stored as JSON) and credit solved runs to their user.
//   - Lookups by id and by user, newest first.
//   - Daily leaderboard: solved daily runs, fewest guesses first.
//   - Claiming guest runs for an account, stats included.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/wordle-lab/internal/solver"
)

// timeLayout keeps a fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run statuses.
const (
	RunSolved    = "solved"
	RunExhausted = "exhausted"
)

// Run is one recorded solver execution.
type Run struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId,omitempty"`
	AnonymousID string        `json:"-"`
	Date        string        `json:"date"`   // YYYY-MM-DD (UTC)
	Source      string        `json:"source"` // daily | random | fixed
	Initial     string        `json:"initial,omitempty"`
	Solution    string        `json:"solution,omitempty"`
	Guesses     int           `json:"guesses"`
	Status      string        `json:"status"`
	Steps       []solver.Step `json:"steps"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// LBRow is one leaderboard entry.
type LBRow struct {
	RunID    string `json:"runId"`
	UserID   string `json:"userId,omitempty"`
	Initial  string `json:"initial,omitempty"`
	Guesses  int    `json:"guesses"`
	Username string `json:"username,omitempty"`
}

// InsertRun stores r, assigning ID and CreatedAt when empty. A solved run
// owned by a user also bumps that user's counters, in the same transaction.
func (s *SQLite) InsertRun(ctx context.Context, r *Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	steps, err := json.Marshal(r.Steps)
	if err != nil {
		return fmt.Errorf("encode steps: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, user_id, anonymous_id, date, source, initial, solution, guesses, status, steps, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, nullable(r.UserID), nullable(r.AnonymousID), r.Date, r.Source, r.Initial,
		r.Solution, r.Guesses, r.Status, string(steps), r.CreatedAt.UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if r.UserID != "" && r.Status == RunSolved {
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET solves = solves + 1, total_guesses = total_guesses + ? WHERE id=?`,
			r.Guesses, r.UserID,
		); err != nil {
			return fmt.Errorf("bump stats: %w", err)
		}
	}
	return tx.Commit()
}

// GetRun loads a run by id, or ErrNotFound.
func (s *SQLite) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, COALESCE(user_id,''), COALESCE(anonymous_id,''), date, source, initial, solution, guesses, status, steps, created_at
		FROM runs WHERE id=?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// RunsByUser returns the newest runs of a user, at most limit (default 50).
func (s *SQLite) RunsByUser(ctx context.Context, userID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, COALESCE(user_id,''), COALESCE(anonymous_id,''), date, source, initial, solution, guesses, status, steps, created_at
		FROM runs WHERE user_id=?
		ORDER BY created_at DESC
		LIMIT ?`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// DailyLeaderboard returns the solved daily runs of date, fewest guesses
// first, then earliest. Default limit is 20.
func (s *SQLite) DailyLeaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.DB.QueryContext(ctx, `
		SELECT r.id, COALESCE(r.user_id,''), r.initial, r.guesses, COALESCE(u.username,'')
		FROM runs r LEFT JOIN users u ON u.id = r.user_id
		WHERE r.date=? AND r.source='daily' AND r.status=?
		ORDER BY r.guesses ASC, r.created_at ASC
		LIMIT ?`, date, RunSolved, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.RunID, &r.UserID, &r.Initial, &r.Guesses, &r.Username); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ClaimAnonRuns moves a guest's runs to userID and credits the solved ones
// to the user's counters, in one transaction.
func (s *SQLite) ClaimAnonRuns(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		UPDATE users SET
			solves        = solves + (SELECT COUNT(*) FROM runs WHERE anonymous_id=? AND status=?),
			total_guesses = total_guesses + (SELECT COALESCE(SUM(guesses),0) FROM runs WHERE anonymous_id=? AND status=?)
		WHERE id=?`,
		anonID, RunSolved, anonID, RunSolved, userID,
	); err != nil {
		return fmt.Errorf("credit claimed runs: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE runs SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID,
	); err != nil {
		return fmt.Errorf("claim runs: %w", err)
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		r       Run
		steps   string
		created string
	)
	if err := sc.Scan(&r.ID, &r.UserID, &r.AnonymousID, &r.Date, &r.Source, &r.Initial,
		&r.Solution, &r.Guesses, &r.Status, &steps, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(steps), &r.Steps); err != nil {
		return nil, fmt.Errorf("decode steps of run %s: %w", r.ID, err)
	}
	r.CreatedAt = mustParse(created)
	return &r, nil
}

// mustParse parses RFC3339 timestamps; on error returns zero time.
func mustParse(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
