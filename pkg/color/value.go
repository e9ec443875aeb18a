package color

import "fmt"

// Value is a resolved terminal foreground color. Implementations are
// small comparable structs so schemes can be compared by value in tests.
type Value interface {
	// TerminalCode returns the ANSI escape sequence that switches the
	// terminal to this color.
	TerminalCode() string
}

// DefaultBase marks an Ansi16 with no explicit base color; the escape
// code then resets to the terminal default.
const DefaultBase = -1

// Brightness selects the weight prefix of a 16-color escape code.
type Brightness int

const (
	// BrightnessUnset emits no weight prefix at all.
	BrightnessUnset Brightness = iota
	// BrightnessDim emits the "0;" (normal weight) prefix.
	BrightnessDim
	// BrightnessBold emits the "1;" (bold/bright) prefix.
	BrightnessBold
)

// Ansi16 is one of the basic ANSI colors (black=0 .. white=7, or
// DefaultBase), optionally with an explicit weight.
type Ansi16 struct {
	Base   int
	Bright Brightness
}

// TerminalCode renders ESC[<weight><code>m where code is Base+30, or 0
// when Base is DefaultBase.
func (c Ansi16) TerminalCode() string {
	code := 0
	if c.Base != DefaultBase {
		code = c.Base + 30
	}
	var prefix string
	switch c.Bright {
	case BrightnessDim:
		prefix = "0;"
	case BrightnessBold:
		prefix = "1;"
	}
	return fmt.Sprintf("\033[%s%dm", prefix, code)
}

// Xterm256 is a direct index into the 256-color palette.
type Xterm256 struct {
	Index int
}

// TerminalCode renders the 256-color selection sequence ESC[38;5;<n>m.
func (c Xterm256) TerminalCode() string {
	return fmt.Sprintf("\033[38;5;%dm", c.Index)
}

// FromRGB returns the palette color nearest to the given RGB components.
func FromRGB(r, g, b uint8) Xterm256 {
	return Xterm256{Index: NearestIndex(r, g, b)}
}
