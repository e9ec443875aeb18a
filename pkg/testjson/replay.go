package testjson

import (
	"context"
	"io"
	"regexp"
	"strings"

	"github.com/rednose/rednose/pkg/report"
)

// BuildErrorLabel is the reporter category for packages that failed
// before running any tests.
const BuildErrorLabel = "BUILD"

// skipReasonRE matches the "file_test.go:12: reason" line the testing
// package logs for t.Skip.
var skipReasonRE = regexp.MustCompile(`^\s*[\w./-]+_test\.go:\d+: (.*)$`)

// frameRE matches the noise lines go test wraps around test output:
// run/result markers and the closing package status line.
var frameRE = regexp.MustCompile(`^(=== RUN|=== PAUSE|=== CONT|--- (PASS|FAIL|SKIP):|FAIL\b|ok \s)`)

// Replay streams go test -json events from r into the reporter,
// emitting one outcome per finished test as it arrives. Package build
// failures become errors in the BuildErrorLabel category. It returns
// the aggregated run, the number of malformed input lines skipped and
// any read error; the caller finishes the reporter.
func Replay(ctx context.Context, r io.Reader, rep *report.Reporter) (*Run, int, error) {
	agg := newAggregator()
	malformed, err := Stream(ctx, r, func(e Event) {
		if e.Action == ActionRun && e.Test != "" {
			rep.StartTest(e.Package + "." + e.Test)
		}
		before := len(agg.results)
		agg.process(e)
		for _, res := range agg.results[before:] {
			emit(rep, res)
		}
	})
	run := agg.run()
	if err != nil {
		return run, malformed, err
	}
	for _, pkg := range run.Packages {
		if pkg.BuildError != "" {
			rep.StartTest(pkg.Name)
			rep.AddError(pkg.Name, report.GenericFailure{Trace: pkg.BuildError + "\n"}, BuildErrorLabel)
		}
	}
	return run, malformed, nil
}

func emit(rep *report.Reporter, res Result) {
	switch res.Status {
	case ActionPass:
		rep.AddSuccess(res.Name())
	case ActionSkip:
		rep.AddSkip(res.Name(), SkipReason(res.Output))
	case ActionFail:
		rep.AddFailure(res.Name(), report.GenericFailure{Trace: FailureTrace(res.Output)})
	}
}

// SkipReason extracts the reason logged with t.Skip from a skipped
// test's output lines.
func SkipReason(output []string) string {
	for _, line := range output {
		if m := skipReasonRE.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return "skipped"
}

// FailureTrace renders a failed test's captured output as report text,
// dropping the run/result marker lines go test adds around it.
func FailureTrace(output []string) string {
	var kept []string
	for _, line := range output {
		if frameRE.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) == 0 {
		return "test failed with no output\n"
	}
	return strings.Join(kept, "\n") + "\n"
}
