package report

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Detail is the payload buffered with a failing or erroring outcome.
// The two variants carry enough to render their report text, so no
// global state is needed to tell a doctest failure from an ordinary one.
type Detail interface {
	// Report returns the plain-text failure report, ready for the
	// colorizer.
	Report() string
}

// GenericFailure wraps an already-formatted exception traceback.
type GenericFailure struct {
	Trace string
}

func (f GenericFailure) Report() string { return f.Trace }

// DocTestFailure describes an inline-example failure: the example's
// location and source, what it should have printed, and what it did.
type DocTestFailure struct {
	Test   string
	File   string
	Line   int
	Source string
	Want   string
	Got    string
}

// Report renders the doctest-style failure report: a short traceback
// stub, the body separator, the failed example, and either the
// expected/actual blocks or a unified diff when both outputs span
// several lines.
func (f DocTestFailure) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Traceback (most recent call last):\n")
	fmt.Fprintf(&b, "  File %q, line %d, in %s\n", f.File, f.Line, f.Test)
	fmt.Fprintf(&b, "AssertionError: example failed\n")
	b.WriteString(BodySeparator)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "File %q, line %d, in %s\n", f.File, f.Line, f.Test)
	b.WriteString("Failed example:\n")
	b.WriteString(indentBlock(f.Source))

	want := strings.TrimSuffix(f.Want, "\n")
	got := strings.TrimSuffix(f.Got, "\n")
	if strings.Count(want, "\n") >= 1 && strings.Count(got, "\n") >= 1 {
		if diff, err := unifiedDiff(want, got); err == nil {
			b.WriteString("Differences (unified diff with -expected +actual):\n")
			b.WriteString(diff)
			return b.String()
		}
	}

	if want == "" {
		b.WriteString("Expected nothing\n")
	} else {
		b.WriteString("Expected:\n")
		b.WriteString(indentBlock(want))
	}
	if got == "" {
		b.WriteString("Got nothing\n")
	} else {
		b.WriteString("Got:\n")
		b.WriteString(indentBlock(got))
	}
	return b.String()
}

// unifiedDiff renders want vs got as an indented unified diff without
// the ---/+++ file header lines.
func unifiedDiff(want, got string) (string, error) {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  2,
	})
	if err != nil {
		return "", err
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(lines) > 2 {
		lines = lines[2:]
	}
	return indentBlock(strings.Join(lines, "\n")), nil
}

// indentBlock indents every line of text by four spaces and guarantees
// a trailing newline.
func indentBlock(text string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	var b strings.Builder
	for _, line := range lines {
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
