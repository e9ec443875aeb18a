// Package testjson parses go test -json NDJSON streams and replays the
// outcomes through a run reporter.
package testjson

import "time"

// Actions emitted by go test -json.
const (
	ActionStart  = "start"
	ActionRun    = "run"
	ActionPass   = "pass"
	ActionFail   = "fail"
	ActionSkip   = "skip"
	ActionOutput = "output"
)

// Event is a single go test -json record.
type Event struct {
	Time    time.Time `json:"Time"`
	Action  string    `json:"Action"`
	Package string    `json:"Package"`
	Test    string    `json:"Test"`
	Elapsed float64   `json:"Elapsed"`
	Output  string    `json:"Output"`
}

// Result is one finished test, in completion order.
type Result struct {
	Package  string
	Test     string
	Status   string // ActionPass, ActionFail or ActionSkip
	Duration time.Duration
	Output   []string // captured output lines, without trailing newlines
}

// Name returns the display name for the test, qualified by its package.
func (r Result) Name() string {
	if r.Test == "" {
		return r.Package
	}
	return r.Package + "." + r.Test
}

// PackageResult aggregates one package's outcomes.
type PackageResult struct {
	Name       string
	Passed     int
	Failed     int
	Skipped    int
	Duration   time.Duration
	BuildError string // non-empty when the package failed before running tests
}

// Broken reports whether the package counts against the run.
func (p PackageResult) Broken() bool {
	return p.Failed > 0 || p.BuildError != ""
}

// Run is a fully parsed go test -json stream.
type Run struct {
	Results  []Result        // tests in completion order
	Packages []PackageResult // packages in first-seen order
}
