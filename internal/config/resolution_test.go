package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rednose/rednose/pkg/color"
)

func writeConfig(t *testing.T, content string) {
	t.Helper()
	tempDir := t.TempDir()
	chdir(t, tempDir)
	if err := os.WriteFile(filepath.Join(tempDir, configFileName), []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestResolve_PriorityOrder(t *testing.T) {
	tests := []struct {
		name          string
		fileContent   string
		env           map[string]string
		flags         CliFlags
		wantColorMode string
		wantVerbosity int
		wantLayers    []string // layer sources in merge order
	}{
		{
			name:          "defaults when nothing is set",
			wantColorMode: ColorAuto,
			wantVerbosity: 1,
		},
		{
			name:          "file sets mode and verbosity",
			fileContent:   "color: \"off\"\nverbosity: 2\n",
			wantColorMode: ColorOff,
			wantVerbosity: 2,
		},
		{
			name:          "CLI flags beat the file",
			fileContent:   "color: \"off\"\nverbosity: 0\n",
			flags:         CliFlags{ColorMode: ColorOn, ColorModeSet: true, Verbosity: 2, VerbositySet: true},
			wantColorMode: ColorOn,
			wantVerbosity: 2,
		},
		{
			name:          "NO_COLOR forces auto mode off",
			env:           map[string]string{"NO_COLOR": "1"},
			wantColorMode: ColorOff,
			wantVerbosity: 1,
		},
		{
			name:          "explicit on wins over NO_COLOR",
			env:           map[string]string{"NO_COLOR": "1"},
			flags:         CliFlags{ColorMode: ColorOn, ColorModeSet: true},
			wantColorMode: ColorOn,
			wantVerbosity: 1,
		},
		{
			name:          "scheme layers stack file then env then cli",
			fileContent:   "colors: \"pass=green\"\n",
			env:           map[string]string{"REDNOSE_COLORS": "pass=blue"},
			flags:         CliFlags{Colors: "failure=red"},
			wantColorMode: ColorAuto,
			wantVerbosity: 1,
			wantLayers:    []string{"file", "env", "cli"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.fileContent != "" {
				writeConfig(t, tt.fileContent)
			} else {
				chdir(t, t.TempDir())
			}
			t.Setenv("XDG_CONFIG_HOME", t.TempDir())
			os.Unsetenv("NO_COLOR")
			os.Unsetenv("REDNOSE_COLORS")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			resolved, warnings := Resolve(tt.flags)
			if len(warnings) != 0 {
				t.Fatalf("unexpected warnings: %v", warnings)
			}
			if resolved.ColorMode != tt.wantColorMode {
				t.Errorf("ColorMode = %q, want %q", resolved.ColorMode, tt.wantColorMode)
			}
			if resolved.Verbosity != tt.wantVerbosity {
				t.Errorf("Verbosity = %d, want %d", resolved.Verbosity, tt.wantVerbosity)
			}
			var sources []string
			for _, layer := range resolved.SchemeLayers {
				sources = append(sources, layer.Source)
			}
			if len(sources) != len(tt.wantLayers) {
				t.Fatalf("layers = %v, want %v", sources, tt.wantLayers)
			}
			for i := range sources {
				if sources[i] != tt.wantLayers[i] {
					t.Errorf("layers = %v, want %v", sources, tt.wantLayers)
				}
			}
		})
	}
}

func TestResolve_UnknownColorModeWarnsAndFallsBack(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	os.Unsetenv("NO_COLOR")

	resolved, warnings := Resolve(CliFlags{ColorMode: "sometimes", ColorModeSet: true})
	if resolved.ColorMode != ColorAuto {
		t.Errorf("ColorMode = %q, want fallback to auto", resolved.ColorMode)
	}
	if len(warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", warnings)
	}
}

func TestBuildScheme_ColorModeDecidesScheme(t *testing.T) {
	scheme, _ := BuildScheme(Resolved{ColorMode: ColorOff}, true)
	if scheme.Code("pass") != "" {
		t.Error("off mode must yield a monochrome scheme")
	}

	scheme, _ = BuildScheme(Resolved{ColorMode: ColorAuto}, false)
	if scheme.Code("pass") != "" {
		t.Error("auto mode without a TTY must yield a monochrome scheme")
	}

	scheme, _ = BuildScheme(Resolved{ColorMode: ColorAuto}, true)
	if scheme.Code("pass") == "" {
		t.Error("auto mode with a TTY must yield colors")
	}
}

func TestBuildScheme_LaterLayersOverrideEarlier(t *testing.T) {
	r := Resolved{
		ColorMode: ColorOn,
		SchemeLayers: []SchemeLayer{
			{Source: "file", Spec: "pass=green,failure=blue"},
			{Source: "cli", Spec: "pass=22"},
		},
	}
	scheme, warnings := BuildScheme(r, false)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if got := scheme.Code("pass"); got != "\033[38;5;22m" {
		t.Errorf("pass code = %q, want the CLI override", got)
	}
	if got := scheme.Code("failure"); got != "\033[34m" {
		t.Errorf("failure code = %q, want the file layer's blue", got)
	}
}

func TestBuildScheme_BadLayerDegradesToDefaults(t *testing.T) {
	for _, source := range []string{"file", "env", "cli"} {
		r := Resolved{
			ColorMode: ColorOn,
			SchemeLayers: []SchemeLayer{
				{Source: source, Spec: "pass=notacolour"},
			},
		}
		scheme, warnings := BuildScheme(r, false)
		if len(warnings) != 1 {
			t.Errorf("%s layer: expected 1 warning, got %v", source, warnings)
		}
		if scheme.Code("pass") != color.DefaultScheme().Code("pass") {
			t.Errorf("broken %s layer must leave the default scheme intact", source)
		}
	}
}

func TestBuildScheme_BadLayerSkippedOthersApply(t *testing.T) {
	r := Resolved{
		ColorMode: ColorOn,
		SchemeLayers: []SchemeLayer{
			{Source: "env", Spec: "failure=blue"},
			{Source: "cli", Spec: "pass=notacolour"},
		},
	}
	scheme, warnings := BuildScheme(r, false)
	if len(warnings) != 1 {
		t.Errorf("expected 1 warning, got %v", warnings)
	}
	if got := scheme.Code("failure"); got != "\033[34m" {
		t.Errorf("failure code = %q, want the env layer's blue", got)
	}
}

func TestBuildScheme_UnknownRolesDroppedWithWarning(t *testing.T) {
	r := Resolved{
		ColorMode:    ColorOn,
		SchemeLayers: []SchemeLayer{{Source: "cli", Spec: "zebra=green,pass=red"}},
	}
	scheme, warnings := BuildScheme(r, false)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if got := scheme.Code("pass"); got != "\033[31m" {
		t.Errorf("pass code = %q, want red", got)
	}
}
