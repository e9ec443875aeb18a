package testjson

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// ParseStream parses a go test -json stream line by line. It returns
// the parsed run, the number of malformed lines skipped, and any read
// error. Malformed lines never abort the parse: a run interleaved with
// stray build output still yields every decodable outcome.
func ParseStream(r io.Reader) (*Run, int, error) {
	agg := newAggregator()
	malformed, err := Stream(context.Background(), r, agg.process)
	if err != nil {
		return nil, malformed, err
	}
	return agg.run(), malformed, nil
}

// ParseBytes is a convenience for parsing from a byte slice.
func ParseBytes(data []byte) (*Run, int, error) {
	return ParseStream(strings.NewReader(string(data)))
}

// EventFunc receives each decoded event in stream order.
type EventFunc func(Event)

// scanResult carries a scanned line or terminal error from the scanner goroutine.
type scanResult struct {
	line []byte
	err  error
}

// Stream decodes go test -json events line by line and calls fn for
// each one. Stops on EOF or when ctx is cancelled. Returns the number
// of malformed lines skipped and any error.
//
// Cancellation: the scanner runs in a background goroutine. On context
// cancel, Stream closes r (if it implements io.Closer) to unblock the
// scanner. If r does not implement io.Closer the caller must close the
// underlying reader externally to prevent a goroutine leak.
func Stream(ctx context.Context, r io.Reader, fn EventFunc) (int, error) {
	scanner := bufio.NewScanner(r)
	// Allow large lines for verbose test output
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lines := make(chan scanResult)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			// Copy bytes — scanner reuses the buffer.
			cp := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- scanResult{line: cp}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case lines <- scanResult{err: err}:
			case <-ctx.Done():
			}
		}
	}()

	var malformed int
	for {
		select {
		case <-ctx.Done():
			// Attempt to unblock the scanner goroutine.
			if c, ok := r.(io.Closer); ok {
				_ = c.Close()
			}
			return malformed, ctx.Err()
		case res, ok := <-lines:
			if !ok {
				return malformed, nil
			}
			if res.err != nil {
				return malformed, fmt.Errorf("scanning test output: %w", res.err)
			}
			if len(res.line) == 0 {
				continue
			}
			var event Event
			if err := json.Unmarshal(res.line, &event); err != nil {
				malformed++
				continue
			}
			fn(event)
		}
	}
}

type aggregator struct {
	packages map[string]*pkgState
	order    []string
	results  []Result
}

type pkgState struct {
	name     string
	passed   int
	failed   int
	skipped  int
	duration time.Duration
	// Buffered output lines per test; "" holds package-level output.
	outputBuf map[string][]string
}

func newAggregator() *aggregator {
	return &aggregator{packages: make(map[string]*pkgState)}
}

func (a *aggregator) getOrCreate(name string) *pkgState {
	if pkg, ok := a.packages[name]; ok {
		return pkg
	}
	pkg := &pkgState{name: name, outputBuf: make(map[string][]string)}
	a.packages[name] = pkg
	a.order = append(a.order, name)
	return pkg
}

func (a *aggregator) process(e Event) {
	pkg := a.getOrCreate(e.Package)

	switch e.Action {
	case ActionPass, ActionFail, ActionSkip:
		if e.Test == "" {
			pkg.duration = time.Duration(e.Elapsed * float64(time.Second))
			return
		}
		switch e.Action {
		case ActionPass:
			pkg.passed++
		case ActionFail:
			pkg.failed++
		case ActionSkip:
			pkg.skipped++
		}
		a.results = append(a.results, Result{
			Package:  e.Package,
			Test:     e.Test,
			Status:   e.Action,
			Duration: time.Duration(e.Elapsed * float64(time.Second)),
			Output:   pkg.outputBuf[e.Test],
		})
		delete(pkg.outputBuf, e.Test)

	case ActionOutput:
		line := strings.TrimRight(e.Output, "\n")
		if line == "" {
			return
		}
		pkg.outputBuf[e.Test] = append(pkg.outputBuf[e.Test], line)
	}
}

func (a *aggregator) run() *Run {
	run := &Run{Results: a.results}
	for _, name := range a.order {
		pkg := a.packages[name]
		result := PackageResult{
			Name:     pkg.name,
			Passed:   pkg.passed,
			Failed:   pkg.failed,
			Skipped:  pkg.skipped,
			Duration: pkg.duration,
		}
		// A package with buffered output and no finished tests failed
		// before its tests ran, usually a compile error.
		if pkg.passed == 0 && pkg.failed == 0 && pkg.skipped == 0 {
			if out := pkg.outputBuf[""]; len(out) > 0 {
				result.BuildError = strings.Join(out, "\n")
			}
		}
		if result.Passed == 0 && result.Failed == 0 && result.Skipped == 0 && result.BuildError == "" {
			continue
		}
		run.Packages = append(run.Packages, result)
	}
	return run
}
