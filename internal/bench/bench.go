// Package bench solves every word of a dictionary and reports how many
// guesses the solver needed. Solves run in parallel; each one is still a
// sequential guess/filter loop on its own oracle.
package bench

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle-lab/internal/game"
	"github.com/robalobadob/wordle-lab/internal/solver"
)

// Options tunes a benchmark run.
type Options struct {
	Initial  string    // first guess for every solve; empty uses the solver default
	Workers  int       // parallel solves; <= 0 means GOMAXPROCS
	Progress io.Writer // progress bar output; nil disables the bar
}

// Report summarizes a benchmark run.
type Report struct {
	Words     int         `json:"words"`
	Solved    int         `json:"solved"`
	Mean      float64     `json:"mean"`
	Max       int         `json:"max"`
	Hardest   []string    `json:"hardest"`
	Histogram map[int]int `json:"histogram"` // guesses → number of secrets
	// OverSix counts secrets that needed more than the classic six guesses.
	OverSix int `json:"overSix"`
}

// Run solves each secret with s. Any solve error aborts the run.
func Run(ctx context.Context, s *solver.Solver, secrets []string, opts Options) (*Report, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(secrets),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("solving"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var (
		mu     sync.Mutex
		counts = make(map[string]int, len(secrets))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, secret := range secrets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o, err := game.NewOracle(secret)
			if err != nil {
				return err
			}
			res, err := s.Solve(o, opts.Initial)
			if err != nil {
				return fmt.Errorf("bench: secret %s: %w", secret, err)
			}
			mu.Lock()
			counts[secret] = res.Guesses()
			mu.Unlock()
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return summarize(len(secrets), counts), nil
}

func summarize(n int, counts map[string]int) *Report {
	r := &Report{Words: n, Solved: len(counts), Histogram: make(map[int]int)}
	total := 0
	for w, c := range counts {
		total += c
		r.Histogram[c]++
		if c > 6 {
			r.OverSix++
		}
		switch {
		case c > r.Max:
			r.Max = c
			r.Hardest = []string{w}
		case c == r.Max:
			r.Hardest = append(r.Hardest, w)
		}
	}
	sort.Strings(r.Hardest)
	if r.Solved > 0 {
		r.Mean = float64(total) / float64(r.Solved)
	}
	return r
}
