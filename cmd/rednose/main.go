// rednose colorizes test runner output for the terminal.
//
// Usage:
//
//	go test -json ./... | rednose
//	go test -json ./... | rednose -v -colors "pass=green,failure=brightred"
//	cat failure-report.txt | rednose
//
// Accepts two input formats on stdin:
//   - go test -json (replayed as a live progress report with a summary)
//   - plain failure report text (tracebacks, doctest-style reports)
//
// Colors are resolved from CLI flags, the REDNOSE_COLORS environment
// variable and .rednose.yaml, highest priority first, and disabled
// automatically when stdout is not a terminal.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/rednose/rednose/internal/config"
	"github.com/rednose/rednose/internal/detect"
	"github.com/rednose/rednose/pkg/report"
	"github.com/rednose/rednose/pkg/testjson"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("rednose", flag.ContinueOnError)
	fs.SetOutput(stderr)
	colorsFlag := fs.String("colors", "", `color scheme overrides, e.g. "pass=green,failure=brightred"`)
	colorMode := fs.String("color", config.ColorAuto, "colorize output: auto, on, off")
	verbose := fs.Bool("v", false, "verbose progress: one line per test")
	quiet := fs.Bool("q", false, "no progress output")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	flags := config.CliFlags{Colors: *colorsFlag}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "color":
			flags.ColorMode = *colorMode
			flags.ColorModeSet = true
		case "v":
			if *verbose {
				flags.Verbosity = report.Verbose
				flags.VerbositySet = true
			}
		case "q":
			if *quiet {
				flags.Verbosity = report.Silent
				flags.VerbositySet = true
			}
		}
	})

	resolved, warnings := config.Resolve(flags)
	scheme, schemeWarnings := config.BuildScheme(resolved, isTTYWriter(stdout))
	for _, w := range append(warnings, schemeWarnings...) {
		fmt.Fprintf(stderr, "rednose: warning: %s\n", w)
	}

	// Peek stdin to detect input format without consuming it.
	br := bufio.NewReaderSize(stdin, 64*1024)
	peeked, _ := br.Peek(4096)
	if len(peeked) == 0 {
		fmt.Fprintln(stderr, "rednose: no input on stdin")
		return 2
	}

	if detect.Sniff(peeked) == detect.GoTestJSON {
		return runReplay(stdin, br, stdout, stderr, scheme, resolved.Verbosity)
	}
	return runColorize(br, stdout, stderr, scheme)
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runReplay streams go test -json events into a run reporter, emitting
// progress as outcomes arrive and the failure listing at the end.
func runReplay(stdin io.Reader, br io.Reader, stdout, stderr io.Writer, scheme report.Scheme, verbosity int) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	// Close the underlying reader on cancel to unblock the scanner
	// goroutine. bufio.Reader doesn't implement io.Closer, so Stream
	// can't close it itself.
	if c, ok := stdin.(io.Closer); ok {
		stopClose := context.AfterFunc(ctx, func() { _ = c.Close() })
		defer stopClose()
	}

	rep := report.NewReporter(stdout, scheme, verbosity)
	run, malformed, err := testjson.Replay(ctx, br, rep)
	ok, _ := rep.Finish()
	if verbosity >= report.Verbose {
		stats := testjson.ComputeStats(run)
		fmt.Fprintf(stderr, "rednose: %d test(s) across %d package(s), %.3fs of test time\n",
			stats.Tests, stats.Packages, stats.Duration.Seconds())
	}
	if malformed > 0 {
		fmt.Fprintf(stderr, "rednose: warning: skipped %d malformed input line(s)\n", malformed)
	}
	if err != nil {
		fmt.Fprintf(stderr, "rednose: %v\n", err)
		return 2
	}
	if !ok {
		return 1
	}
	return 0
}

// runColorize reads a complete failure report from stdin and writes the
// colorized rendition. Reports with a doctest body separator get the
// structured treatment, everything else plain traceback coloring.
func runColorize(br io.Reader, stdout, stderr io.Writer, scheme report.Scheme) int {
	data, err := io.ReadAll(br)
	if err != nil {
		fmt.Fprintf(stderr, "rednose: reading stdin: %v\n", err)
		return 2
	}

	colorizer := report.NewColorizer(scheme)
	var out string
	if detect.Sniff(data) == detect.DoctestReport {
		out = colorizer.ColorizeDoctestFailure(string(data))
	} else {
		out = colorizer.ColorizeTraceback(string(data), 0)
	}
	fmt.Fprint(stdout, out)
	return 0
}
