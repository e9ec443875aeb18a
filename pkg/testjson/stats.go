package testjson

import "time"

// Stats holds aggregate counts across a parsed run.
type Stats struct {
	Tests       int
	Passed      int
	Failed      int
	Skipped     int
	Packages    int
	BrokenPkgs  int
	BuildErrors int
	Duration    time.Duration
}

// ComputeStats aggregates statistics from a run.
func ComputeStats(run *Run) Stats {
	var s Stats
	s.Tests = len(run.Results)
	for _, r := range run.Results {
		switch r.Status {
		case ActionPass:
			s.Passed++
		case ActionFail:
			s.Failed++
		case ActionSkip:
			s.Skipped++
		}
	}
	s.Packages = len(run.Packages)
	for _, p := range run.Packages {
		if p.Broken() {
			s.BrokenPkgs++
		}
		if p.BuildError != "" {
			s.BuildErrors++
		}
		s.Duration += p.Duration
	}
	return s
}
