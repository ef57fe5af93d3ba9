// Command rickboard inspects and edits a rickboard canvas from the shell.
//
// Usage:
//
//	rickboard [command] [flags] [args]
//
// Commands:
//
//	info                   print canvas and poster details
//	render  -o view.png    render one viewport to PNG
//	export  -o out.pdf     unroll the whole cylinder into PNG pages or a PDF
//	poster  add|ls|rm      manage posters
//	replay  script.jsonl   drive the board with a JSON-lines command script
//
// Every command accepts -canvas, -posters, -poster-dir, -width, -height,
// -workers and -v.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Atorque/rickboard"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "rickboard:", err)
		}
		os.Exit(1)
	}
}

type command struct {
	name  string
	usage string
	run   func(env *env, args []string) error
}

var commands = []command{
	{"info", "print canvas and poster details", runInfo},
	{"render", "render one viewport to PNG", runRender},
	{"export", "export the whole canvas as PNG pages or a PDF", runExport},
	{"poster", "add, list or remove posters", runPoster},
	{"replay", "run a JSON-lines command script", runReplay},
}

// env is what every command shares.
type env struct {
	stdout io.Writer
	stderr io.Writer
	p      *message.Printer
}

func run(args []string, stdout, stderr io.Writer) error {
	e := &env{stdout: stdout, stderr: stderr, p: message.NewPrinter(language.English)}
	if len(args) == 0 {
		usage(stderr)
		return flag.ErrHelp
	}
	for _, c := range commands {
		if c.name == args[0] {
			return c.run(e, args[1:])
		}
	}
	usage(stderr)
	return fmt.Errorf("unknown command %q", args[0])
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: rickboard <command> [flags] [args]")
	fmt.Fprintln(w)
	for _, c := range commands {
		fmt.Fprintf(w, "  %-8s %s\n", c.name, c.usage)
	}
}

// boardFlags are the flags that locate a board on disk.
type boardFlags struct {
	canvas    string
	posters   string
	posterDir string
	width     int
	height    int
	workers   int
	verbose   bool
}

func newFlagSet(e *env, name string) (*flag.FlagSet, *boardFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	bf := &boardFlags{}
	fs.StringVar(&bf.canvas, "canvas", rickboard.DefaultCanvasPath, "canvas file")
	fs.StringVar(&bf.posters, "posters", rickboard.DefaultManifestPath, "poster manifest")
	fs.StringVar(&bf.posterDir, "poster-dir", rickboard.DefaultPosterDir, "directory imported posters are copied into")
	fs.IntVar(&bf.width, "width", 0, "width of a new canvas (0 = default)")
	fs.IntVar(&bf.height, "height", 0, "height of a new canvas (0 = default)")
	fs.IntVar(&bf.workers, "workers", 0, "render workers (0 = GOMAXPROCS)")
	fs.BoolVar(&bf.verbose, "v", false, "verbose logging")
	return fs, bf
}

// open installs the logger and opens the board described by bf.
func (bf *boardFlags) open(e *env, extra ...rickboard.Option) (*rickboard.Board, error) {
	level := slog.LevelInfo
	if bf.verbose {
		level = slog.LevelDebug
	}
	rickboard.SetLogger(slog.New(slog.NewTextHandler(e.stderr, &slog.HandlerOptions{Level: level})))

	opts := []rickboard.Option{
		rickboard.WithCanvasPath(bf.canvas),
		rickboard.WithManifestPath(bf.posters),
		rickboard.WithPosterDir(bf.posterDir),
		rickboard.WithWorkers(bf.workers),
		rickboard.WithUI(false),
	}
	if bf.width > 0 && bf.height > 0 {
		opts = append(opts, rickboard.WithSize(bf.width, bf.height))
	}
	return rickboard.Open(append(opts, extra...)...)
}

// discardBoard releases a board opened by a read-only command without
// saving it and keeps the first error.
func discardBoard(b *rickboard.Board, err *error) {
	if cerr := b.Discard(); cerr != nil && *err == nil {
		*err = cerr
	}
}

// closeBoard closes b and keeps the first error.
func closeBoard(b *rickboard.Board, err *error) {
	if cerr := b.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}
