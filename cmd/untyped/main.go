package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/smasher164/lambda/internal/repl"
	"github.com/smasher164/lambda/prelude"
	"github.com/smasher164/lambda/untyped"
)

var (
	steps     = flag.Int("steps", 10000, "give up reducing after this many steps (0 for no limit)")
	preludeAt = flag.String("prelude", "", "load additional aliases from a YAML file")
	noPrelude = flag.Bool("no-prelude", false, "start without the standard aliases")
	deBruijn  = flag.Bool("debruijn", false, "also print results with de Bruijn indices")
	trace     = flag.Bool("trace", false, "print every reduction step")
	verbose   = flag.Bool("v", false, "log debug output to stderr")
)

func usage() {
	fmt.Fprint(os.Stderr, "usage: untyped [flags] [file]\n\n")
	fmt.Fprint(os.Stderr, "untyped evaluates untyped lambda calculus terms, reading file or standard input.\n\n")
	flag.PrintDefaults()
	os.Exit(2)
}

func errExit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) > 1 {
		usage()
	}

	opts := []untyped.Option{untyped.WithStepLimit(*steps)}
	if *verbose {
		opts = append(opts, untyped.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	ctx := untyped.NewExecutionContext(opts...)
	if !*noPrelude {
		if err := prelude.Untyped().InstallUntyped(ctx); err != nil {
			errExit(err)
		}
	}
	if *preludeAt != "" {
		f, err := os.Open(*preludeAt)
		if err != nil {
			errExit(err)
		}
		p, err := prelude.Load(f)
		f.Close()
		if err != nil {
			errExit(err)
		}
		if err := p.InstallUntyped(ctx); err != nil {
			errExit(err)
		}
	}

	s := repl.NewSession(&repl.Untyped{Context: ctx, DeBruijn: *deBruijn, Trace: *trace}, os.Stdout)
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			errExit(err)
		}
		defer f.Close()
		if err := s.Run(f); err != nil {
			errExit(err)
		}
		return
	}
	if fi, err := os.Stdin.Stat(); err == nil && fi.Mode()&os.ModeCharDevice == 0 {
		if err := s.Run(os.Stdin); err != nil {
			errExit(err)
		}
		return
	}
	var history string
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".lambda_untyped_history")
	}
	if err := s.Interactive("λ> ", history); err != nil {
		errExit(err)
	}
}
