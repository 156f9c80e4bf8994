package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/mr-bo-jangles/SqueezySceney/internal/core/scale"
	"github.com/mr-bo-jangles/SqueezySceney/internal/modkit"
	"github.com/mr-bo-jangles/SqueezySceney/internal/platform/config"
	perr "github.com/mr-bo-jangles/SqueezySceney/internal/platform/errors"
	"github.com/mr-bo-jangles/SqueezySceney/internal/platform/logger"
	"github.com/mr-bo-jangles/SqueezySceney/internal/services/rescale/domain"
	rescalemod "github.com/mr-bo-jangles/SqueezySceney/internal/services/rescale/module"
)

const usageLine = "usage: sceney-scale [flags] <input.zip> <output.zip> <scale-factor>"

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
)

// run is main without the process exit so tests can drive it
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sceney-scale", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, usageLine)
		fs.PrintDefaults()
	}

	var (
		workers  = fs.Int("workers", 0, "scene documents transformed in parallel (default SCENEY_RESCALE_WORKERS or 4)")
		rounding = fs.String("rounding", "", "rounding of scaled numbers: "+strings.Join(scale.RoundingNames(), "|"))
		keysFile = fs.String("keys", "", "JSON key table overlaid on the built-in classification")
		patterns = fs.String("pattern", "", "comma separated scene entry patterns (default scene/*.json)")
		skip     = fs.Bool("skip-invalid", false, "copy undecodable scene documents through instead of failing")
		maxScale = fs.Float64("max-scale", 0, "reject factors above this; 0 means unbounded")
		envFile  = fs.String("env", "", "dotenv file to load before reading SCENEY_* settings")
		quiet    = fs.Bool("q", false, "do not print a line per scene document")
		verbose  = fs.Bool("v", false, "debug logging on stderr")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 3 {
		fs.Usage()
		return 2
	}
	in, out, scaleArg := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	if err := loadEnv(*envFile); err != nil {
		return fail(stderr, perr.Wrap(err, perr.ErrorCodeValidation, "load env file"))
	}
	initLogger(*verbose, stderr)

	// reject a bad factor before touching the filesystem
	factor, err := scale.ParseFactor(scaleArg, *maxScale)
	if err != nil {
		return fail(stderr, err)
	}

	opts := rescalemod.FromConfig(config.New())
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["workers"] {
		opts.Workers = *workers
	}
	if set["rounding"] {
		opts.Rounding = *rounding
	}
	if set["keys"] {
		opts.KeysFile = *keysFile
	}
	if set["pattern"] {
		opts.Patterns = splitCSV(*patterns)
	}
	if set["skip-invalid"] {
		opts.SkipInvalid = *skip
	}
	if set["max-scale"] {
		opts.MaxFactor = *maxScale
	}

	// the store is rooted at "/" so every path handed to it must be absolute
	if in, err = filepath.Abs(in); err != nil {
		return fail(stderr, perr.Wrap(err, perr.ErrorCodeArchiveRead, "resolve input path"))
	}
	if out, err = filepath.Abs(out); err != nil {
		return fail(stderr, perr.Wrap(err, perr.ErrorCodeArchiveWrite, "resolve output path"))
	}
	if opts.KeysFile != "" {
		if opts.KeysFile, err = filepath.Abs(opts.KeysFile); err != nil {
			return fail(stderr, perr.Wrap(err, perr.ErrorCodeValidation, "resolve key table path"))
		}
	}

	m, err := rescalemod.NewWithOptions(modkit.Deps{Cfg: config.New(), FS: osfs.New("/")}, opts)
	if err != nil {
		return fail(stderr, err)
	}
	if !*quiet {
		m.WithSceneFunc(func(name string) {
			okColor.Fprint(stdout, "scaled ")
			fmt.Fprintln(stdout, name)
		})
	}

	rep, err := m.Runner().RescaleFile(ctx, domain.FileRequest{Input: in, Output: out, Factor: factor.Float()})
	if err != nil {
		return fail(stderr, err)
	}

	for _, name := range rep.Skipped {
		warnColor.Fprint(stderr, "skipped ")
		fmt.Fprintf(stderr, "%s (not valid JSON, copied unchanged)\n", name)
	}
	fmt.Fprintf(stdout, "%d scene(s) scaled by %s, %d other entr(ies) copied in %s -> %s\n",
		rep.Scenes, factor, rep.Passthrough, rep.Elapsed.Round(time.Millisecond), out)
	return 0
}

// loadEnv reads ./.env when present, or the named file which then must exist
func loadEnv(path string) error {
	if path == "" {
		return config.LoadDotEnv()
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}
	return config.LoadDotEnv(path)
}

func initLogger(verbose bool, stderr io.Writer) {
	o := logger.FromEnv()
	o.Service = "sceney-scale"
	o.Writer = stderr
	if _, ok := os.LookupEnv("LOG_LEVEL"); !ok {
		o.Level = "warn"
	}
	if verbose {
		o.Level = "debug"
	}
	logger.Init(o)
}

// fail prints err with its offending field and returns the mapped exit status
func fail(stderr io.Writer, err error) int {
	errColor.Fprint(stderr, "error: ")
	if e, ok := perr.As(err); ok && e.Field() != "" {
		fmt.Fprintf(stderr, "%s: %v\n", e.Field(), err)
	} else {
		fmt.Fprintln(stderr, err)
	}
	return perr.ExitCode(err)
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
