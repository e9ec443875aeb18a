package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configFileName is looked up in the working directory first, then under
// the user config dir in a "rednose" subdirectory.
const configFileName = ".rednose.yaml"

// FileConfig is the subset of settings the YAML config file may carry.
type FileConfig struct {
	Colors    string `yaml:"colors"`    // scheme spec, e.g. "pass=green,failure=red"
	ColorMode string `yaml:"color"`     // auto, on or off
	Verbosity *int   `yaml:"verbosity"` // 0 silent, 1 dots, 2 verbose
}

// LoadFile loads the YAML config file if one exists. A missing file
// yields a zero config; an unreadable or malformed file yields a zero
// config plus a warning, never an error. Bad config should not keep a
// test report from rendering.
func LoadFile() (FileConfig, []string) {
	path := findConfigPath()
	if path == "" {
		return FileConfig{}, nil
	}
	return loadFilePath(path)
}

func loadFilePath(path string) (FileConfig, []string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, []string{fmt.Sprintf("reading config file %s: %v", path, err)}
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, []string{fmt.Sprintf("parsing config file %s: %v", path, err)}
	}
	return cfg, nil
}

// findConfigPath locates the config file: local directory first, then
// the XDG user config dir.
func findConfigPath() string {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName
	}
	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "rednose", configFileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}
