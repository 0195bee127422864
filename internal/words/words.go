// internal/words/words.go
//
// Dictionary management for the oracle and the solver.
//
// Responsibilities:
//   - Load the word list from a file, a URL, or the embedded default.
//   - Normalize (upper case, 5 letters A–Z), deduplicate and rank it.
//   - Supply lookups (Contains), a crypto-random pick and runtime Append.
//
// Source precedence (Load):
//   1. Source.File, one word per line.
//   2. Source.URL, fetched with HTTP GET, same format.
//   3. The embedded assets/words.txt.
//
// The dictionary is an explicit value built by the driver and handed to
// whoever needs it. Reads and Append are guarded by an RWMutex.

package words

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/robalobadob/wordle-lab/assets"
)

// WordLength is the fixed length of every dictionary word.
const WordLength = 5

var (
	// ErrEmptyDictionary is returned when no valid word survives normalization.
	ErrEmptyDictionary = errors.New("words: dictionary is empty")
	// ErrInvalidWord is returned by Append for words that are not 5 letters A–Z.
	ErrInvalidWord = errors.New("words: invalid word")
)

// Dictionary is an ordered, ranked, deduplicated list of uppercase words.
type Dictionary struct {
	mu    sync.RWMutex
	words []string
	set   map[string]struct{}
}

// Source says where Load should read the word list from.
type Source struct {
	File string
	URL  string
	// Client is used for URL sources; http.DefaultClient with a timeout when nil.
	Client *http.Client
}

// New builds a dictionary from list. Invalid entries are dropped silently.
func New(list []string) (*Dictionary, error) {
	d := &Dictionary{set: make(map[string]struct{}, len(list))}
	for _, raw := range list {
		w, ok := Normalize(raw)
		if !ok {
			continue
		}
		if _, dup := d.set[w]; dup {
			continue
		}
		d.set[w] = struct{}{}
		d.words = append(d.words, w)
	}
	if len(d.words) == 0 {
		return nil, ErrEmptyDictionary
	}
	Rank(d.words)
	return d, nil
}

// Load reads the word list from src (see package notes for precedence).
func Load(ctx context.Context, src Source) (*Dictionary, error) {
	var (
		list []string
		err  error
	)
	switch {
	case src.File != "":
		list, err = readWordFile(src.File)
	case src.URL != "":
		list, err = fetchWordList(ctx, src.Client, src.URL)
	default:
		list, err = assets.DefaultWords()
	}
	if err != nil {
		return nil, fmt.Errorf("words: load: %w", err)
	}
	return New(list)
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return assets.ReadLines(f)
}

// fetchWordList downloads a newline separated word list.
func fetchWordList(ctx context.Context, client *http.Client, url string) ([]string, error) {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return assets.ReadLines(resp.Body)
}

// Normalize trims and upper-cases w and reports whether it is a valid word.
func Normalize(w string) (string, bool) {
	w = strings.ToUpper(strings.TrimSpace(w))
	if len(w) != WordLength || !isAlpha(w) {
		return "", false
	}
	return w, true
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Words returns a copy of the ranked word list.
func (d *Dictionary) Words() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]string, len(d.words))
	copy(out, d.words)
	return out
}

// Len returns the number of words.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.words)
}

// At returns the i-th word in ranking order.
func (d *Dictionary) At(i int) string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.words[i]
}

// Contains reports whether w (any case) is in the dictionary.
func (d *Dictionary) Contains(w string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.set[strings.ToUpper(strings.TrimSpace(w))]
	return ok
}

// Append adds w and re-ranks the list. It reports false when w was
// already present.
func (d *Dictionary) Append(w string) (bool, error) {
	n, ok := Normalize(w)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrInvalidWord, w)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, dup := d.set[n]; dup {
		return false, nil
	}
	d.set[n] = struct{}{}
	d.words = append(d.words, n)
	Rank(d.words)
	return true, nil
}

// randReader is the entropy source for Random.
var randReader io.Reader = rand.Reader

// Random returns a cryptographically random word.
func (d *Dictionary) Random() (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	i, err := rand.Int(randReader, big.NewInt(int64(len(d.words))))
	if err != nil {
		return "", fmt.Errorf("words: random pick: %w", err)
	}
	return d.words[i.Int64()], nil
}
