package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// Verbosity levels for progress output.
const (
	Silent  = 0 // no progress tokens
	Dots    = 1 // one character per outcome
	Verbose = 2 // full description per outcome
)

// descColumn is the column verbose-mode descriptions are padded to so
// the status tokens line up.
const descColumn = 50

const headerSeparator = "======================================================================"

// ErrorLabel is the category label for ordinary errors.
const ErrorLabel = "ERROR"

type outcome struct {
	desc   string
	detail Detail
}

type skipped struct {
	desc   string
	reason string
}

// Reporter aggregates per-test outcomes for one run: it writes a short
// colored token per outcome as it arrives and buffers failure reports
// for the end-of-run listing. It owns its counters and buffers from
// construction at run start until Finish consumes them; a single
// goroutine drives it.
type Reporter struct {
	scheme    Scheme
	colorizer *Colorizer
	out       *bufio.Writer
	verbosity int

	started   int
	passed    int
	failures  []outcome
	errors    []outcome
	extras    map[string][]outcome
	extraIDs  []string // category labels in first-seen order
	skips     []skipped
	wroteDots bool

	startTime time.Time
	now       func() time.Time
}

// NewReporter returns a reporter writing to out. The run's clock starts
// immediately.
func NewReporter(out io.Writer, scheme Scheme, verbosity int) *Reporter {
	r := &Reporter{
		scheme:    scheme,
		colorizer: NewColorizer(scheme),
		out:       bufio.NewWriter(out),
		verbosity: verbosity,
		extras:    map[string][]outcome{},
		now:       time.Now,
	}
	r.startTime = r.now()
	return r
}

// SetClock replaces the reporter's clock. Tests use a fixed clock to pin
// the elapsed-time text.
func (r *Reporter) SetClock(now func() time.Time) {
	r.now = now
	r.startTime = now()
}

// StartTest records that a test began and, in verbose mode, writes its
// padded description ahead of the eventual status token.
func (r *Reporter) StartTest(desc string) {
	r.started++
	if r.verbosity >= Verbose {
		padded := desc
		if w := runewidth.StringWidth(desc); w < descColumn {
			padded = desc + strings.Repeat(" ", descColumn-w)
		}
		r.write(r.scheme.Colorize("normal", padded))
		r.write(r.scheme.Colorize("normal", " ... "))
		r.wroteDots = true
	}
	r.flush()
}

// AddSuccess records a passing test.
func (r *Reporter) AddSuccess(desc string) {
	r.passed++
	r.progress("pass", "ok", ".")
}

// AddFailure records a failing test with its report payload.
func (r *Reporter) AddFailure(desc string, detail Detail) {
	r.failures = append(r.failures, outcome{desc: desc, detail: detail})
	r.progress("failure", "FAIL", "F")
}

// AddError records an erroring test. An empty label means ErrorLabel;
// any other label opens an extra category listed and counted after the
// built-in ones, in first-seen order.
func (r *Reporter) AddError(desc string, detail Detail, label string) {
	if label == "" {
		label = ErrorLabel
	}
	if label == ErrorLabel {
		r.errors = append(r.errors, outcome{desc: desc, detail: detail})
	} else {
		if _, ok := r.extras[label]; !ok {
			r.extraIDs = append(r.extraIDs, label)
		}
		r.extras[label] = append(r.extras[label], outcome{desc: desc, detail: detail})
	}
	first, _ := utf8.DecodeRuneInString(label)
	r.progress("error", label, string(first))
}

// AddSkip records a skipped test with its reason. Skips are listed at
// the end but never fail the run.
func (r *Reporter) AddSkip(desc, reason string) {
	r.skips = append(r.skips, skipped{desc: desc, reason: reason})
	r.progress("skip", "SKIP", "S")
}

// progress writes one status token for the outcome that just arrived.
func (r *Reporter) progress(role, verbose, dot string) {
	switch {
	case r.verbosity >= Verbose:
		r.write(r.scheme.Colorize(role, verbose))
		r.write("\n")
	case r.verbosity == Dots:
		r.write(r.scheme.Colorize(role, dot))
		r.wroteDots = true
	}
	r.flush()
}

// Finish writes the buffered failure listing and the run summary, and
// reports whether the run succeeded. The returned text is everything
// Finish wrote. Safe to call on a partially-run reporter: whatever
// counters and buffers exist render into a smaller, still valid summary.
func (r *Reporter) Finish() (bool, string) {
	var b strings.Builder
	if r.wroteDots {
		b.WriteByte('\n')
	}

	r.writeListing(&b, "FAIL", "failure", r.failures)
	r.writeListing(&b, ErrorLabel, "error", r.errors)
	for _, label := range r.extraIDs {
		r.writeListing(&b, label, "error", r.extras[label])
	}
	r.writeSkips(&b)
	success := r.writeSummary(&b)

	r.write(b.String())
	r.flush()
	return success, b.String()
}

func (r *Reporter) writeListing(b *strings.Builder, flavor, role string, items []outcome) {
	for _, item := range items {
		b.WriteString(headerSeparator)
		b.WriteByte('\n')
		b.WriteString(r.scheme.Colorize(role, flavor))
		b.WriteString(": ")
		b.WriteString(r.scheme.Colorize("testname", item.desc))
		b.WriteByte('\n')
		b.WriteString(BodySeparator)
		b.WriteByte('\n')
		b.WriteString(r.colorizer.Colorize(item.detail))
		b.WriteByte('\n')
	}
}

func (r *Reporter) writeSkips(b *strings.Builder) {
	for _, s := range r.skips {
		b.WriteString(headerSeparator)
		b.WriteByte('\n')
		b.WriteString(r.scheme.Colorize("skip", "SKIP"))
		b.WriteString(": ")
		b.WriteString(r.scheme.Colorize("testname", s.desc))
		b.WriteByte('\n')
		b.WriteString(BodySeparator)
		b.WriteByte('\n')
		b.WriteString(s.reason)
		b.WriteString("\n\n")
	}
}

func (r *Reporter) writeSummary(b *strings.Builder) bool {
	success := len(r.failures) == 0 && len(r.errors) == 0 && len(r.extraIDs) == 0

	countRole := "ok-number"
	if !success {
		countRole = "error-number"
	}
	plural := "s"
	if r.started == 1 {
		plural = ""
	}

	b.WriteString(BodySeparator)
	b.WriteByte('\n')
	b.WriteString("Ran ")
	b.WriteString(r.scheme.Colorize(countRole, fmt.Sprintf("%d ", r.started)))
	b.WriteString(fmt.Sprintf("test%s in ", plural))
	b.WriteString(r.formatSeconds(r.now().Sub(r.startTime)))
	b.WriteByte('\n')

	if success {
		b.WriteString(r.scheme.Colorize("pass", "OK"))
		b.WriteByte('\n')
		return true
	}

	b.WriteString(r.scheme.Colorize("failure", "FAILED"))
	b.WriteString(" (")
	first := true
	writeCount := func(label, role string, n int) {
		if n == 0 {
			return
		}
		if !first {
			b.WriteString(", ")
		}
		b.WriteString(label)
		b.WriteByte('=')
		b.WriteString(r.scheme.Colorize(role, fmt.Sprintf("%d", n)))
		first = false
	}
	writeCount("failures", "failure", len(r.failures))
	writeCount("errors", "error", len(r.errors))
	for _, label := range r.extraIDs {
		writeCount(strings.ToLower(label), "error", len(r.extras[label]))
	}
	b.WriteString(")\n")
	return false
}

// formatSeconds renders an elapsed duration with the numbers colored:
// minutes plus seconds beyond one minute, plain seconds below it.
func (r *Reporter) formatSeconds(d time.Duration) string {
	secs := d.Seconds()
	if secs >= 60 {
		minutes := int(secs) / 60
		return fmt.Sprintf("%s minutes %s seconds",
			r.scheme.Colorize("number", fmt.Sprintf("%d", minutes)),
			r.scheme.Colorize("number", fmt.Sprintf("%.3f", secs-float64(minutes*60))))
	}
	return fmt.Sprintf("%s seconds", r.scheme.Colorize("number", fmt.Sprintf("%.3f", secs)))
}

func (r *Reporter) write(s string) {
	_, _ = r.out.WriteString(s)
}

func (r *Reporter) flush() {
	_ = r.out.Flush()
}
