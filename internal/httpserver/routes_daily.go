// internal/httpserver/routes_daily.go
//
// HTTP routes for the puzzle of the day.
// Exposes two endpoints under /daily:
//   - GET /daily             → resolve today's word, solve it, record the run
//   - GET /daily/leaderboard → fewest-guess solved daily runs for today (or ?date=)
//
// The word comes from the published daily puzzle when reachable and from the
// deterministic HMAC pick otherwise; a published word missing from the
// dictionary is appended before solving. The word itself is never returned
// until the solver has found it.

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordle-lab/internal/daily"
	"github.com/robalobadob/wordle-lab/internal/store"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDaily)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

// handleDaily solves today's puzzle. ?initial= sets the first guess.
func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	p, err := s.daily.Resolve(r.Context(), s.dict, s.now())
	if err != nil {
		s.log.Error().Err(err).Msg("resolve daily word")
		writeError(w, http.StatusInternalServerError, "daily_unavailable")
		return
	}
	s.log.Info().Str("date", p.Date).Str("source", string(p.Source)).Msg("solving daily puzzle")
	s.solveAndRecord(w, r, p.Word, r.URL.Query().Get("initial"), "daily")
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []store.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.now())
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, err := s.db.DailyLeaderboard(r.Context(), date, limit)
	if err != nil {
		s.log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
