// Package daily resolves the puzzle of the day.
//
// The published word is fetched from the NYT endpoint
// (<base>/YYYY-MM-DD.json → {"solution": "..."}). When that fails, a
// deterministic word is picked from the dictionary with
// HMAC-SHA256(salt, YYYY-MM-DD) mod len(dictionary).
package daily

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle-lab/internal/words"
)

// DateKey returns YYYY-MM-DD of t in t's own location. The server passes
// UTC times; the CLI passes local time so the puzzle matches the user's day.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Source tags where a daily word came from.
type Source string

const (
	SourcePublished Source = "published"
	SourceFallback  Source = "fallback"
)

// Puzzle is the resolved word of a day.
type Puzzle struct {
	Date   string `json:"date"`
	Word   string `json:"-"`
	Source Source `json:"source"`
	// Added is true when the word was appended to the dictionary.
	Added bool `json:"added"`
}

// Resolver looks up the word of the day.
type Resolver struct {
	BaseURL string
	Salt    string
	Client  *http.Client
	Log     zerolog.Logger
}

// NewResolver builds a Resolver with a 10s HTTP timeout.
func NewResolver(baseURL, salt string, log zerolog.Logger) *Resolver {
	return &Resolver{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Salt:    salt,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Log:     log,
	}
}

type nytResponse struct {
	Solution string `json:"solution"`
}

// Fetch returns the published word for date, upper-cased.
func (r *Resolver) Fetch(ctx context.Context, date time.Time) (string, error) {
	if r.BaseURL == "" {
		return "", errors.New("daily: no endpoint configured")
	}
	url := fmt.Sprintf("%s/%s.json", r.BaseURL, DateKey(date))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := r.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("daily: fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("daily: fetch %s: status %d", url, resp.StatusCode)
	}
	var body nytResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("daily: decode: %w", err)
	}
	w, ok := words.Normalize(body.Solution)
	if !ok {
		return "", fmt.Errorf("daily: bad solution %q", body.Solution)
	}
	return w, nil
}

// Resolve returns the puzzle for date. A published word missing from dict
// is appended to it; any fetch failure falls back to the HMAC pick.
func (r *Resolver) Resolve(ctx context.Context, dict *words.Dictionary, date time.Time) (Puzzle, error) {
	p := Puzzle{Date: DateKey(date)}

	w, err := r.Fetch(ctx, date)
	if err == nil {
		added, err := dict.Append(w)
		if err != nil {
			return p, err
		}
		if added {
			r.Log.Info().Str("date", p.Date).Msg("daily word added to dictionary")
		}
		p.Word, p.Source, p.Added = w, SourcePublished, added
		return p, nil
	}

	r.Log.Warn().Err(err).Str("date", p.Date).Msg("daily lookup failed, using fallback")
	p.Word = dict.At(WordIndex(date, r.Salt, dict.Len()))
	p.Source = SourceFallback
	return p, nil
}
