package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-lab/internal/bench"
	"github.com/robalobadob/wordle-lab/internal/config"
	"github.com/robalobadob/wordle-lab/internal/daily"
	"github.com/robalobadob/wordle-lab/internal/game"
	"github.com/robalobadob/wordle-lab/internal/httpserver"
	"github.com/robalobadob/wordle-lab/internal/render"
	"github.com/robalobadob/wordle-lab/internal/solver"
	"github.com/robalobadob/wordle-lab/internal/sorting"
	"github.com/robalobadob/wordle-lab/internal/store"
	"github.com/robalobadob/wordle-lab/internal/words"
)

type command func(ctx context.Context, cfg config.Config, args []string, out io.Writer) error

var commands = map[string]command{
	"solve":  cmdSolve,
	"bench":  cmdBench,
	"serve":  cmdServe,
	"sort":   cmdSort,
	"filter": cmdFilter,
}

// run dispatches to a subcommand; no arguments means serve.
func run(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	name := "serve"
	if len(args) > 0 {
		name, args = args[0], args[1:]
	}
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q (want solve, filter, bench, serve or sort)", name)
	}
	return cmd(ctx, cfg, args, out)
}

func loadDictionary(ctx context.Context, cfg config.Config) (*words.Dictionary, error) {
	dict, err := words.Load(ctx, words.Source{File: cfg.WordsFile, URL: cfg.WordsURL})
	if err != nil {
		return nil, fmt.Errorf("load word list: %w", err)
	}
	log.Debug().Int("words", dict.Len()).Msg("dictionary loaded")
	return dict, nil
}

func cmdSolve(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	secret := fs.String("secret", "", "word to solve (random dictionary word when empty)")
	initial := fs.String("initial", "", "first guess (top-ranked word when empty)")
	today := fs.Bool("daily", false, "solve the word of the day")
	colour := fs.Bool("color", false, "colour the letters instead of printing emoji")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dict, err := loadDictionary(ctx, cfg)
	if err != nil {
		return err
	}

	word := strings.TrimSpace(*secret)
	switch {
	case *today:
		p, err := daily.NewResolver(cfg.DailyURL, cfg.DailySalt, log.Logger).Resolve(ctx, dict, time.Now())
		if err != nil {
			return err
		}
		log.Info().Str("date", p.Date).Str("source", string(p.Source)).Msg("word of the day")
		word = p.Word
	case word == "":
		if word, err = dict.Random(); err != nil {
			return err
		}
	}

	o, err := game.NewOracle(word)
	if err != nil {
		return err
	}
	res, solveErr := solver.New(dict, solver.WithLogger(log.Logger)).Solve(o, *initial)
	if err := render.History(out, res.Steps, *colour); err != nil {
		return err
	}
	if solveErr != nil {
		return solveErr
	}
	_, err = fmt.Fprintf(out, "Solved %s in %d guesses\n", res.Solution, res.Guesses())
	return err
}

// cmdFilter narrows the dictionary with real puzzle feedback given as
// GUESS CLUE pairs (clue as 02112, GYB.. letters or emoji) and prints the
// words still possible, the solver's next pick first.
func cmdFilter(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("filter", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "candidates to print (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	pairs := fs.Args()
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return fmt.Errorf("filter: want GUESS CLUE pairs, got %d arguments", len(pairs))
	}

	dict, err := loadDictionary(ctx, cfg)
	if err != nil {
		return err
	}
	pool := dict.Words()
	for i := 0; i < len(pairs); i += 2 {
		guess, ok := words.Normalize(pairs[i])
		if !ok {
			return fmt.Errorf("filter: %w: %q", words.ErrInvalidWord, pairs[i])
		}
		c, err := game.ParseClassification(pairs[i+1])
		if err != nil {
			return err
		}
		pool = solver.Filter(pool, guess, c)
		fmt.Fprintf(out, "%s : %s  %d left\n", guess, c.Digits(), len(pool))
	}

	for n, i := 0, len(pool)-1; i >= 0; n, i = n+1, i-1 {
		if *limit > 0 && n == *limit {
			break
		}
		if _, err := fmt.Fprintln(out, pool[i]); err != nil {
			return err
		}
	}
	return nil
}

func cmdBench(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	workers := fs.Int("workers", 0, "parallel solves (0 = GOMAXPROCS)")
	initial := fs.String("initial", "", "first guess for every solve")
	quiet := fs.Bool("quiet", false, "hide the progress bar")
	asJSON := fs.Bool("json", false, "print the report as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dict, err := loadDictionary(ctx, cfg)
	if err != nil {
		return err
	}
	opts := bench.Options{Initial: *initial, Workers: *workers}
	if !*quiet {
		opts.Progress = os.Stderr
	}
	rep, err := bench.Run(ctx, solver.New(dict), dict.Words(), opts)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	return printReport(out, rep)
}

func printReport(out io.Writer, rep *bench.Report) error {
	fmt.Fprintf(out, "words    %d\n", rep.Words)
	fmt.Fprintf(out, "solved   %d\n", rep.Solved)
	fmt.Fprintf(out, "mean     %.3f\n", rep.Mean)
	fmt.Fprintf(out, "max      %d %v\n", rep.Max, rep.Hardest)
	fmt.Fprintf(out, "over six %d\n", rep.OverSix)

	keys := make([]int, 0, len(rep.Histogram))
	for k := range rep.Histogram {
		keys = append(keys, k)
	}
	keys, err := sorting.Manual(keys, sorting.Asc)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if _, err := fmt.Fprintf(out, "%3d %5d\n", k, rep.Histogram[k]); err != nil {
			return err
		}
	}
	return nil
}

func cmdServe(ctx context.Context, cfg config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	port := fs.String("port", cfg.Port, "listen port")
	if err := fs.Parse(args); err != nil {
		return err
	}

	dict, err := loadDictionary(ctx, cfg)
	if err != nil {
		return err
	}
	db, err := store.Open(cfg.DBPath, log.Logger)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := httpserver.New(httpserver.Deps{
		Config: cfg,
		Games:  store.NewMemoryStore(),
		DB:     db,
		Dict:   dict,
		Daily:  daily.NewResolver(cfg.DailyURL, cfg.DailySalt, log.Logger),
		Log:    log.Logger,
	})
	log.Info().Str("port", *port).Int("words", dict.Len()).Msg("starting wordle-lab")
	return srv.Start(ctx, ":"+*port)
}

func cmdSort(_ context.Context, _ config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("sort", flag.ContinueOnError)
	order := fs.String("order", "asc", "asc or desc")
	numeric := fs.Bool("n", false, "compare items as integers")
	if err := fs.Parse(args); err != nil {
		return err
	}
	o, err := sorting.ParseOrder(*order)
	if err != nil {
		return err
	}

	if *numeric {
		nums := make([]int, len(fs.Args()))
		for i, a := range fs.Args() {
			if nums[i], err = strconv.Atoi(a); err != nil {
				return fmt.Errorf("sort: item %d: %w", i, err)
			}
		}
		sorted, err := sorting.Manual(nums, o)
		if err != nil {
			return err
		}
		for _, n := range sorted {
			fmt.Fprintln(out, n)
		}
		return nil
	}

	sorted, err := sorting.Manual(fs.Args(), o)
	if err != nil {
		return err
	}
	for _, s := range sorted {
		fmt.Fprintln(out, s)
	}
	return nil
}
