package color

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// InvalidColorError reports a color specification that matched none of
// the accepted forms. Kind names the form that rejected it.
type InvalidColorError struct {
	Kind  string // "RGB", "xterm" or "named"
	Token string
}

func (e *InvalidColorError) Error() string {
	return fmt.Sprintf("bad %s colour: %q", e.Kind, e.Token)
}

// InvalidSchemeError reports a malformed entry in a name=colour list.
type InvalidSchemeError struct {
	Reason string // "missing equals" or "missing colour"
	Spec   string
}

func (e *InvalidSchemeError) Error() string {
	return fmt.Sprintf("%s (name=colour): %q", e.Reason, e.Spec)
}

var baseColors = map[string]int{
	"default": DefaultBase,
	"normal":  DefaultBase,
	"black":   0,
	"red":     1,
	"green":   2,
	"brown":   3,
	"yellow":  3,
	"blue":    4,
	"magenta": 5,
	"cyan":    6,
	"grey":    7,
	"gray":    7,
	"white":   7,
}

// Checked in order; the first matching prefix wins and the remainder
// must then be an exact base name.
var brightPrefixes = []struct {
	prefix string
	weight Brightness
}{
	{"dark", BrightnessDim},
	{"light", BrightnessBold},
	{"bright", BrightnessBold},
	{"bold", BrightnessBold},
}

// ParseColor parses a textual color specification into a Value. Accepted
// forms, tried in this order:
//
//	rgb(HHHHHH)   six hex digits, resolved to the nearest palette entry
//	0 .. 255      an xterm palette index
//	[prefix]name  an ANSI color name, optionally prefixed with dark,
//	              light, bright or bold
//
// A digit string is never treated as a color name.
func ParseColor(text string) (Value, error) {
	if strings.HasPrefix(text, "rgb(") && strings.HasSuffix(text, ")") {
		v, ok := parseRGB(text[4 : len(text)-1])
		if !ok {
			return nil, &InvalidColorError{Kind: "RGB", Token: text}
		}
		return v, nil
	}

	if n, err := strconv.Atoi(text); err == nil {
		if n < 0 || n >= tableEnd {
			return nil, &InvalidColorError{Kind: "xterm", Token: text}
		}
		return Xterm256{Index: n}, nil
	}

	weight := BrightnessUnset
	remaining := text
	for _, p := range brightPrefixes {
		if strings.HasPrefix(text, p.prefix) {
			remaining = text[len(p.prefix):]
			weight = p.weight
			break
		}
	}
	base, ok := baseColors[remaining]
	if !ok {
		return nil, &InvalidColorError{Kind: "named", Token: text}
	}
	return Ansi16{Base: base, Bright: weight}, nil
}

func parseRGB(text string) (Xterm256, bool) {
	if len(text) != 6 {
		return Xterm256{}, false
	}
	raw, err := hex.DecodeString(text)
	if err != nil {
		return Xterm256{}, false
	}
	return FromRGB(raw[0], raw[1], raw[2]), true
}

// ParseScheme parses a comma-separated name=colour list into a mapping.
// An empty string yields an empty mapping. When a role name repeats, the
// last occurrence wins.
func ParseScheme(text string) (map[string]Value, error) {
	colors := make(map[string]Value)
	if text == "" {
		return colors, nil
	}
	for _, spec := range strings.Split(text, ",") {
		name, colorText, found := strings.Cut(spec, "=")
		if !found {
			return nil, &InvalidSchemeError{Reason: "missing equals", Spec: spec}
		}
		if colorText == "" {
			return nil, &InvalidSchemeError{Reason: "missing colour", Spec: spec}
		}
		value, err := ParseColor(colorText)
		if err != nil {
			return nil, err
		}
		colors[name] = value
	}
	return colors, nil
}
