// Command solve runs the path search on levels offline and prints the result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"hash/maphash"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/mine-stalker/internal/level"
	"github.com/vancomm/mine-stalker/internal/mines"
	"github.com/vancomm/mine-stalker/internal/stalker"
)

var log = logrus.New()

type options struct {
	file    string
	name    string
	field   mines.Params
	seed    uint64
	timeout time.Duration
	trace   bool
	verbose bool
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	field := mines.Default()

	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	fs.StringVar(&opts.file, "f", "", "YAML level file")
	fs.StringVar(&opts.name, "level", "", "only solve the named level")
	fs.IntVar(&opts.field.Rows, "rows", field.Rows, "rows of a random field")
	fs.IntVar(&opts.field.Cols, "cols", field.Cols, "columns of a random field")
	fs.IntVar(&opts.field.MineCount, "mines", field.MineCount, "mines on a random field")
	fs.Uint64Var(&opts.seed, "seed", 0, "seed for a random field, 0 picks one")
	fs.DurationVar(&opts.timeout, "timeout", 10*time.Second, "limit per search")
	fs.BoolVar(&opts.trace, "trace", false, "log every frontier pop")
	fs.BoolVar(&opts.verbose, "v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if opts.name != "" && opts.file == "" {
		return nil, errors.New("-level needs -f")
	}
	return opts, nil
}

// levels returns what to solve: the file's levels, or one random field.
func (o *options) levels() ([]level.Level, error) {
	if o.file == "" {
		seed := o.seed
		if seed == 0 {
			seed = new(maphash.Hash).Sum64()
		}
		return []level.Level{{
			Name:  "random",
			Rows:  o.field.Rows,
			Cols:  o.field.Cols,
			Mines: o.field.MineCount,
			Seed:  seed,
		}}, nil
	}

	levels, err := level.Load(o.file)
	if err != nil {
		return nil, err
	}
	if o.name == "" {
		return levels, nil
	}
	lv, ok := level.Find(levels, o.name)
	if !ok {
		return nil, fmt.Errorf("no level named %q in %s", o.name, o.file)
	}
	return []level.Level{lv}, nil
}

func solve(ctx context.Context, out io.Writer, lv level.Level, o *options, rnd *rand.Rand) error {
	grid, err := lv.Grid(rnd)
	if err != nil {
		return err
	}

	var searchOpts []stalker.Option
	if o.trace {
		searchOpts = append(searchOpts, stalker.WithTrace(func(s stalker.Step) {
			log.WithFields(logrus.Fields{
				"pop":      s.Index,
				"pos":      s.Current.String(),
				"g":        s.Cost,
				"f":        s.Priority,
				"frontier": s.Frontier,
			}).Debug("pop")
		}))
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	started := time.Now()
	res, err := grid.Search(ctx, searchOpts...)
	if err != nil {
		return fmt.Errorf("level %q: %w", lv.Name, err)
	}

	fmt.Fprintf(out, "level %s (%dx%d, %d hazards)\n", lv.Name, grid.Rows(), grid.Cols(), grid.HazardCount())
	fmt.Fprint(out, grid.String())
	if res.Found {
		fmt.Fprintf(out, "path (%d moves): %s\n", res.Path.Moves(), res.Path)
	} else {
		fmt.Fprintln(out, "no path")
	}

	log.WithFields(logrus.Fields{
		"level":     lv.Name,
		"seed":      lv.Seed,
		"found":     res.Found,
		"moves":     res.Path.Moves(),
		"expanded":  res.Expanded,
		"generated": res.Generated,
		"elapsed":   time.Since(started),
	}).Info("solved")
	return nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	if opts.verbose || opts.trace {
		log.SetLevel(logrus.DebugLevel)
	}
	mines.Log = log

	levels, err := opts.levels()
	if err != nil {
		return err
	}

	rnd := rand.New(rand.NewPCG(new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64()))
	for _, lv := range levels {
		if err := solve(ctx, out, lv, opts, rnd); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	log.SetOutput(os.Stderr)

	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.WithError(err).Fatal("solve failed")
	}
}
