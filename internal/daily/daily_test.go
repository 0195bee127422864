package daily

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-lab/internal/words"
)

var day = time.Date(2024, 3, 10, 1, 30, 0, 0, time.UTC)

func TestDateKey_UsesLocation(t *testing.T) {
	assert.Equal(t, "2024-03-10", DateKey(day))

	// 01:30 UTC is still the evening of the 9th two hours west.
	west := day.In(time.FixedZone("UTC-2", -2*3600))
	assert.Equal(t, "2024-03-09", DateKey(west))
	assert.Equal(t, "2024-03-10", DateKey(west.UTC()))
}

func TestWordIndex(t *testing.T) {
	a := WordIndex(day, "salt", 100)
	assert.Equal(t, a, WordIndex(day, "salt", 100))
	assert.GreaterOrEqual(t, a, 0)
	assert.Less(t, a, 100)
	assert.Equal(t, 0, WordIndex(day, "salt", 0))
}

func nytServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/svc/wordle/v2/2024-03-10.json", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestResolve_PublishedWordIsAppended(t *testing.T) {
	ts := nytServer(t, http.StatusOK, `{"id":1,"solution":"apple","days_since_launch":994}`)
	dict, err := words.New([]string{"CRANE", "TRACE"})
	require.NoError(t, err)

	r := NewResolver(ts.URL+"/svc/wordle/v2/", "salt", zerolog.Nop())
	p, err := r.Resolve(context.Background(), dict, day)
	require.NoError(t, err)
	assert.Equal(t, "APPLE", p.Word)
	assert.Equal(t, SourcePublished, p.Source)
	assert.True(t, p.Added)
	assert.True(t, dict.Contains("APPLE"))

	p, err = r.Resolve(context.Background(), dict, day)
	require.NoError(t, err)
	assert.False(t, p.Added)
	assert.Equal(t, 3, dict.Len())
}

func TestResolve_FallbackOnError(t *testing.T) {
	ts := nytServer(t, http.StatusNotFound, `nope`)
	dict, err := words.New([]string{"CRANE", "TRACE", "APPLE"})
	require.NoError(t, err)

	r := NewResolver(ts.URL+"/svc/wordle/v2", "salt", zerolog.Nop())
	p, err := r.Resolve(context.Background(), dict, day)
	require.NoError(t, err)
	assert.Equal(t, SourceFallback, p.Source)
	assert.Equal(t, dict.At(WordIndex(day, "salt", 3)), p.Word)
	assert.Equal(t, "2024-03-10", p.Date)
}

func TestFetch_BadSolution(t *testing.T) {
	ts := nytServer(t, http.StatusOK, `{"solution":"toolong"}`)
	r := NewResolver(ts.URL+"/svc/wordle/v2", "salt", zerolog.Nop())
	_, err := r.Fetch(context.Background(), day)
	assert.Error(t, err)
}

func TestFetch_NoEndpoint(t *testing.T) {
	r := NewResolver("", "salt", zerolog.Nop())
	_, err := r.Fetch(context.Background(), day)
	assert.Error(t, err)
}

func TestFetch_RequestsLocalDay(t *testing.T) {
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"solution":"crane"}`))
	}))
	defer ts.Close()

	r := NewResolver(ts.URL, "salt", zerolog.Nop())
	west := day.In(time.FixedZone("UTC-2", -2*3600))
	w, err := r.Fetch(context.Background(), west)
	require.NoError(t, err)
	assert.Equal(t, "CRANE", w)
	assert.Equal(t, "/2024-03-09.json", path)
}
