// internal/httpserver/server.go
//
// HTTP server wiring for wordle-lab.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health".
//   - Play endpoints (optional auth): POST /game/new, POST /game/guess.
//   - Solver endpoints (optional auth): POST /solve, GET /runs/{id}.
//   - Daily endpoints (optional auth): mounted under /daily.
//   - Auth + per-user endpoints: /auth/*, /runs/mine, /stats/me.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with user context when a valid token is present;
//     routes still run for guests, who are tracked by an anonymous cookie.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle-lab/internal/config"
	"github.com/robalobadob/wordle-lab/internal/daily"
	"github.com/robalobadob/wordle-lab/internal/game"
	"github.com/robalobadob/wordle-lab/internal/solver"
	"github.com/robalobadob/wordle-lab/internal/store"
	"github.com/robalobadob/wordle-lab/internal/words"
)

// Server bundles the router and its collaborators.
type Server struct {
	r     *chi.Mux
	cfg   config.Config
	games store.Games
	db    *store.SQLite
	dict  *words.Dictionary
	daily *daily.Resolver
	log   zerolog.Logger
	now   func() time.Time
}

// Deps are the collaborators a Server needs.
type Deps struct {
	Config config.Config
	Games  store.Games
	DB     *store.SQLite
	Dict   *words.Dictionary
	Daily  *daily.Resolver
	Log    zerolog.Logger
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		cfg:   d.Config,
		games: d.Games,
		db:    d.DB,
		dict:  d.Dict,
		daily: d.Daily,
		log:   d.Log,
		now:   func() time.Time { return time.Now().UTC() },
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(s.requestLog)                    // one zerolog line per request
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(s.cfg.ClientOrigin))        // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "wordle-lab",
			"endpoints": []string{"/health", "POST /game/new", "POST /game/guess", "POST /solve", "/daily", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "words": s.dict.Len()})
	})

	// Play and solve: optional auth, guests allowed
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/game/new", s.handleNewGame)
		r.Post("/game/guess", s.handleGuess)
		r.Post("/solve", s.handleSolve)
		r.Get("/runs/{id}", s.handleGetRun)
		s.mountDaily(r)
	})

	// Auth + per-user routes
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down,
// giving in-flight requests up to 10s to finish.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLog logs method, path, status and duration at debug level.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("reqId", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Answer string `json:"answer"` // optional fixed answer (testing)
}
type newGameRes struct {
	GameID     string `json:"gameId"`
	MaxGuesses int    `json:"maxGuesses"`
}

// handleNewGame creates a new in-memory game. A random dictionary word is
// the answer unless one is given.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	answer := strings.TrimSpace(req.Answer)
	if answer == "" {
		var err error
		if answer, err = s.dict.Random(); err != nil {
			s.log.Error().Err(err).Msg("pick answer")
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
	}
	g, err := game.NewGame(answer,
		game.WithMaxGuesses(s.cfg.MaxGuesses),
		game.WithWordList(s.dict.Contains),
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.games.Save(r.Context(), g); err != nil {
		s.log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID, MaxGuesses: g.MaxGuesses})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Marks   game.Classification `json:"marks"`
	Clue    string              `json:"clue"`
	State   string              `json:"state"` // "playing" | "won" | "lost"
	Guesses int                 `json:"guesses"`
	Answer  string              `json:"answer,omitempty"`
}

// handleGuess applies a guess to an in-memory game.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, err := s.games.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	c, state, err := g.ApplyGuess(req.Guess)
	switch {
	case errors.Is(err, game.ErrGameFinished):
		writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.games.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}

	res := guessRes{Marks: c, Clue: c.String(), State: state, Guesses: g.GuessCount()}
	if ans, ok := g.Answer(); ok {
		res.Answer = ans
	}
	writeJSON(w, http.StatusOK, res)
}

// ------------------------------ SOLVE --------------------------------------

type solveReq struct {
	Secret  string `json:"secret"`
	Initial string `json:"initial"`
}

type solveRes struct {
	RunID    string        `json:"runId,omitempty"`
	Date     string        `json:"date"`
	Source   string        `json:"source"`
	Solution string        `json:"solution,omitempty"`
	Guesses  int           `json:"guesses"`
	Status   string        `json:"status"`
	Steps    []solver.Step `json:"steps"`
}

// handleSolve runs the solver against a fixed or random secret and records the run.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	source := "fixed"
	secret := strings.TrimSpace(req.Secret)
	if secret == "" {
		var err error
		if secret, err = s.dict.Random(); err != nil {
			s.log.Error().Err(err).Msg("pick secret")
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		source = "random"
	}
	s.solveAndRecord(w, r, secret, req.Initial, source)
}

// solveAndRecord runs one solve, persists it, and writes the response.
// Oracle errors map to 400, an exhausted pool to 422.
func (s *Server) solveAndRecord(w http.ResponseWriter, r *http.Request, secret, initial, source string) {
	o, err := game.NewOracle(secret)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, solveErr := solver.New(s.dict, solver.WithLogger(s.log)).Solve(o, initial)

	run := &store.Run{
		Date:     daily.DateKey(s.now()),
		Source:   source,
		Initial:  strings.ToUpper(strings.TrimSpace(initial)),
		Solution: res.Solution,
		Guesses:  res.Guesses(),
		Status:   store.RunSolved,
		Steps:    res.Steps,
	}
	switch {
	case errors.Is(solveErr, solver.ErrPoolExhausted):
		run.Status = store.RunExhausted
	case solveErr != nil:
		writeError(w, http.StatusBadRequest, solveErr.Error())
		return
	}

	if me := currentUser(r); me != nil {
		run.UserID = me.ID
	} else {
		run.AnonymousID = s.ensureAnonID(w, r)
	}
	if err := s.db.InsertRun(r.Context(), run); err != nil {
		s.log.Warn().Err(err).Msg("record run")
	}

	status := http.StatusOK
	if run.Status == store.RunExhausted {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, solveRes{
		RunID:    run.ID,
		Date:     run.Date,
		Source:   source,
		Solution: res.Solution,
		Guesses:  res.Guesses(),
		Status:   run.Status,
		Steps:    res.Steps,
	})
}

// handleGetRun returns a recorded run.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.db.GetRun(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("get run")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// ------------------------------- small util --------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
