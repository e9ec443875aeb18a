package config

import (
	"fmt"
	"os"

	"github.com/rednose/rednose/pkg/color"
)

// Color modes.
const (
	ColorAuto = "auto"
	ColorOn   = "on"
	ColorOff  = "off"
)

// CliFlags holds the parsed command-line values relevant to resolution.
type CliFlags struct {
	Colors    string // -colors scheme spec
	ColorMode string // -color auto|on|off, empty when not given
	Verbosity int
	// Set when the flag appeared on the command line.
	ColorModeSet bool
	VerbositySet bool
}

// Resolved is the final configuration after applying all priority rules.
type Resolved struct {
	ColorMode string
	Verbosity int

	// Scheme layers in ascending priority: file, environment, CLI.
	// Later layers override earlier ones role by role.
	SchemeLayers []SchemeLayer
}

// SchemeLayer is one source of role=color assignments.
type SchemeLayer struct {
	Source string // "file", "env" or "cli"
	Spec   string
}

// Resolve merges CLI flags, environment variables and the config file
// into a single configuration. Returned warnings come from a broken
// config file and never abort the run.
func Resolve(flags CliFlags) (Resolved, []string) {
	file, warnings := LoadFile()

	r := Resolved{ColorMode: ColorAuto, Verbosity: 1}
	if file.ColorMode != "" {
		r.ColorMode = file.ColorMode
	}
	if file.Verbosity != nil {
		r.Verbosity = *file.Verbosity
	}
	if flags.ColorModeSet {
		r.ColorMode = flags.ColorMode
	}
	if flags.VerbositySet {
		r.Verbosity = flags.Verbosity
	}

	switch r.ColorMode {
	case ColorAuto, ColorOn, ColorOff:
	default:
		warnings = append(warnings, fmt.Sprintf("unknown color mode %q, using %q", r.ColorMode, ColorAuto))
		r.ColorMode = ColorAuto
	}

	// NO_COLOR (any value) forces colors off in auto mode; an explicit
	// -color=on wins over it.
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor && r.ColorMode == ColorAuto {
		r.ColorMode = ColorOff
	}

	if file.Colors != "" {
		r.SchemeLayers = append(r.SchemeLayers, SchemeLayer{Source: "file", Spec: file.Colors})
	}
	if env := os.Getenv("REDNOSE_COLORS"); env != "" {
		r.SchemeLayers = append(r.SchemeLayers, SchemeLayer{Source: "env", Spec: env})
	}
	if flags.Colors != "" {
		r.SchemeLayers = append(r.SchemeLayers, SchemeLayer{Source: "cli", Spec: flags.Colors})
	}
	return r, warnings
}

// BuildScheme turns the resolved configuration into a color scheme.
// isTTY decides auto mode. A malformed spec becomes a warning and that
// layer is skipped, so the run proceeds on whatever the remaining
// layers and the defaults give. Unknown role names from any layer are
// dropped with a warning.
func BuildScheme(r Resolved, isTTY bool) (*color.Scheme, []string) {
	useColor := r.ColorMode == ColorOn || (r.ColorMode == ColorAuto && isTTY)
	if !useColor {
		return color.MonochromeScheme(), nil
	}

	overrides := map[string]color.Value{}
	var warnings []string
	for _, layer := range r.SchemeLayers {
		parsed, err := color.ParseScheme(layer.Spec)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("ignoring %s color scheme: %v", layer.Source, err))
			continue
		}
		for role, value := range parsed {
			overrides[role] = value
		}
	}

	scheme, unknown := color.NewScheme(overrides)
	for _, role := range unknown {
		warnings = append(warnings, fmt.Sprintf("unknown color role %q ignored", role))
	}
	return scheme, warnings
}
