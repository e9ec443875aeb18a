// Package report renders test failure reports and run summaries with
// terminal colors. The colorizer walks pre-formatted report text line by
// line and inserts escape codes around recognized spans; the original
// text survives byte for byte once the codes are stripped.
package report

import (
	"regexp"
	"strings"
)

// BodySeparator divides the leading traceback of a doctest-style failure
// report from its structured body.
var BodySeparator = strings.Repeat("-", 70)

var (
	tracebackFrameRE = regexp.MustCompile(`^  File "(.*)", line (\d*)(?:, in (.*))?$`)
	doctestFrameRE   = regexp.MustCompile(`^File "(.*)", line (\d*), in (.*)$`)
)

// diffRoles maps the first character of an indented diff line to its
// role. Covers ndiff and unified diff markers; context-diff "!" lines
// share the actual-output role.
var diffRoles = map[byte]string{
	'-': "expected-output",
	'+': "actual-output",
	'?': "character-diffs",
	'@': "diff-chunk",
	'*': "diff-chunk",
	'!': "actual-output",
}

// The two diff legend lines doctest-style reports emit verbatim.
var diffLegends = map[string]bool{
	"Differences (ndiff with -expected +actual):":        true,
	"Differences (unified diff with -expected +actual):": true,
}

// Colorizer rewrites failure report text with color escape codes. It
// never alters, reorders or drops report text: unrecognized line shapes
// fall through to a default role instead of failing.
type Colorizer struct {
	scheme Scheme
}

// Scheme is the color lookup the colorizer renders with.
type Scheme interface {
	Code(role string) string
	Colorize(role, text string) string
}

// NewColorizer returns a colorizer rendering with the given scheme.
func NewColorizer(scheme Scheme) *Colorizer {
	return &Colorizer{scheme: scheme}
}

// splitLines splits report text into lines, dropping a single trailing
// newline so a terminating "\n" doesn't produce a phantom empty line.
func splitLines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// ColorizeTraceback colorizes a plain exception traceback. Frame header
// lines get per-span coloring (path, line number, test name), indented
// source lines the failed-example role, and the closing exception line
// the exception role. indentLevel left-pads every line by four spaces
// per level, used when a traceback is nested inside a failure body.
func (c *Colorizer) ColorizeTraceback(text string, indentLevel int) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	indentation := strings.Repeat("    ", indentLevel)
	for _, line := range splitLines(text) {
		switch {
		case strings.HasPrefix(line, "  File"):
			b.WriteString(indentation)
			if m := tracebackFrameRE.FindStringSubmatchIndex(line); m != nil {
				c.writeFrameHeader(&b, `  File "`, line, m)
			} else {
				b.WriteString(line)
				b.WriteByte('\n')
			}
		case strings.HasPrefix(line, "    "):
			b.WriteString(c.scheme.Colorize("failed-example", indentation+line))
			b.WriteByte('\n')
		case strings.HasPrefix(line, "Traceback (most recent call last)"):
			b.WriteString(indentation + line)
			b.WriteByte('\n')
		default:
			b.WriteString(c.scheme.Colorize("exception", indentation+line))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// writeFrameHeader emits the span-colored form of a frame header line.
// m is the submatch index slice for a frame regexp whose groups are
// (path, lineno, name); the name group may be absent.
func (c *Colorizer) writeFrameHeader(b *strings.Builder, opening, line string, m []int) {
	path := line[m[2]:m[3]]
	lineno := line[m[4]:m[5]]
	b.WriteString(c.scheme.Code("normal"))
	b.WriteString(opening)
	b.WriteString(c.scheme.Code("filename"))
	b.WriteString(path)
	b.WriteString(c.scheme.Code("normal"))
	b.WriteString(`", line `)
	b.WriteString(c.scheme.Code("lineno"))
	b.WriteString(lineno)
	if m[6] >= 0 {
		// The ", in name" part is missing from the first frame of a
		// doctest failure report.
		b.WriteString(c.scheme.Code("normal"))
		b.WriteString(", in ")
		b.WriteString(c.scheme.Code("testname"))
		b.WriteString(line[m[6]:m[7]])
	}
	b.WriteString(c.scheme.Code("normal"))
	b.WriteByte('\n')
}

// ColorizeDoctestFailure colorizes a doctest-style failure report: a
// leading traceback, a 70-dash separator, then a body whose indented
// lines take their role from the most recent marker line (Failed
// example, Expected:, Got:, Exception raised:, Differences ...).
func (c *Colorizer) ColorizeDoctestFailure(text string) string {
	var b strings.Builder
	lines := splitLines(text)

	// The traceback above the separator is rarely interesting, but it
	// looks odd uncolored next to the colorized body.
	sep := -1
	for i, line := range lines {
		if line == BodySeparator {
			sep = i
			break
		}
	}
	body := lines
	if sep >= 0 {
		b.WriteString(c.ColorizeTraceback(strings.Join(lines[:sep], "\n"), 0))
		b.WriteByte('\n')
		b.WriteString(c.scheme.Colorize("normal", BodySeparator))
		b.WriteByte('\n')
		body = lines[sep+1:]
	}

	currentRole := "normal"
	diffMode := false
	exceptionMode := false
	var exceptionLines []string

	flushException := func() {
		if !exceptionMode {
			return
		}
		b.WriteString(c.ColorizeTraceback(strings.Join(exceptionLines, "\n"), 1))
		exceptionMode = false
		exceptionLines = nil
	}

	for _, line := range body {
		switch {
		case strings.HasPrefix(line, "File "):
			if m := doctestFrameRE.FindStringSubmatchIndex(line); m != nil {
				c.writeFrameHeader(&b, `File "`, line, m)
			} else {
				b.WriteString(line)
				b.WriteByte('\n')
			}
		case strings.HasPrefix(line, "    "):
			switch {
			case diffMode && len(line) > 4:
				role := currentRole
				if r, ok := diffRoles[line[4]]; ok {
					role = r
				}
				b.WriteString(c.scheme.Colorize(role, line))
				b.WriteByte('\n')
			case exceptionMode:
				exceptionLines = append(exceptionLines, line[4:])
			default:
				b.WriteString(c.scheme.Colorize(currentRole, line))
				b.WriteByte('\n')
			}
		default:
			diffMode = false
			flushException()
			switch {
			case strings.HasPrefix(line, "Failed example"):
				currentRole = "failed-example"
			case strings.HasPrefix(line, "Expected:"):
				currentRole = "expected-output"
			case strings.HasPrefix(line, "Got:"):
				currentRole = "actual-output"
			case strings.HasPrefix(line, "Exception raised:"):
				currentRole = "exception"
				exceptionMode = true
			case strings.HasPrefix(line, "Differences "):
				if diffLegends[line] {
					line = c.colorizeLegend(line)
				}
				currentRole = "normal"
				diffMode = true
			default:
				currentRole = "normal"
			}
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	// A report ending mid-exception still flushes its buffered lines:
	// losing diagnostics is worse than imperfect coloring.
	flushException()

	return b.String()
}

// colorizeLegend colors the -expected/+actual tokens of a diff legend
// line, keeping the flavor text intact.
func (c *Colorizer) colorizeLegend(line string) string {
	const legendTail = "-expected +actual):"
	head := strings.TrimSuffix(line, legendTail)
	return head +
		c.scheme.Code("expected-output") + "-expected " +
		c.scheme.Code("actual-output") + "+actual" +
		c.scheme.Code("normal") + "):"
}

// Colorize renders the report for a failure detail with the matching
// algorithm: doctest failures get the structured body treatment,
// everything else plain traceback coloring.
func (c *Colorizer) Colorize(d Detail) string {
	if _, ok := d.(DocTestFailure); ok {
		return c.ColorizeDoctestFailure(d.Report())
	}
	return c.ColorizeTraceback(d.Report(), 0)
}
