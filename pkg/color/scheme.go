package color

import (
	"fmt"
	"sort"
)

// Default role colors. Chosen to keep enough contrast on terminals with
// both black and white backgrounds.
var defaultRoles = map[string]string{
	"normal":          "normal",
	"pass":            "green",
	"failure":         "magenta",
	"error":           "brightred",
	"number":          "green",
	"ok-number":       "green",
	"error-number":    "brightred",
	"filename":        "lightblue",
	"lineno":          "lightred",
	"testname":        "lightcyan",
	"failed-example":  "cyan",
	"expected-output": "green",
	"actual-output":   "red",
	"character-diffs": "magenta",
	"diff-chunk":      "magenta",
	"exception":       "red",
	"skip":            "yellow",
}

// Scheme maps role names to colors. A scheme is total over the default
// role set: every role the rendering engine queries resolves. Schemes
// are built once at configuration time and never mutated afterwards.
type Scheme struct {
	colors map[string]Value
	mono   bool
}

// NewScheme builds a scheme from the defaults merged with overrides.
// Override keys that name no default role are dropped and returned so
// the caller can warn about them.
func NewScheme(overrides map[string]Value) (*Scheme, []string) {
	colors := make(map[string]Value, len(defaultRoles))
	for role, spec := range defaultRoles {
		value, err := ParseColor(spec)
		if err != nil {
			panic(fmt.Sprintf("color: bad default for role %q: %v", role, err))
		}
		colors[role] = value
	}

	var unknown []string
	for role, value := range overrides {
		if _, ok := colors[role]; !ok {
			unknown = append(unknown, role)
			continue
		}
		colors[role] = value
	}
	sort.Strings(unknown)

	return &Scheme{colors: colors}, unknown
}

// DefaultScheme returns the built-in scheme with no overrides.
func DefaultScheme() *Scheme {
	s, _ := NewScheme(nil)
	return s
}

// MonochromeScheme returns a scheme whose codes are all empty, so
// rendering degrades to plain text. Role validation still applies.
func MonochromeScheme() *Scheme {
	s := DefaultScheme()
	s.mono = true
	return s
}

// KnownRole reports whether name is one of the default roles.
func KnownRole(name string) bool {
	_, ok := defaultRoles[name]
	return ok
}

// Roles returns the known role names in sorted order.
func Roles() []string {
	names := make([]string, 0, len(defaultRoles))
	for name := range defaultRoles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Code returns the escape code for a role. Asking for a role outside the
// known set is a programming error: the engine only queries fixed names.
func (s *Scheme) Code(role string) string {
	value, ok := s.colors[role]
	if !ok {
		panic(fmt.Sprintf("color: unknown scheme role %q", role))
	}
	if s.mono {
		return ""
	}
	return value.TerminalCode()
}

// Colorize wraps text in the role's color, restoring the normal role
// afterwards.
func (s *Scheme) Colorize(role, text string) string {
	return s.Code(role) + text + s.Code("normal")
}
