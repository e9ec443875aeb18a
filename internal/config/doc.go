// Package config handles configuration loading and merging for rednose.
//
// # Configuration Precedence
//
// Color settings are resolved in the following order (highest to lowest
// priority):
//
//  1. CLI flags (-colors, -color)
//  2. Environment variables (REDNOSE_COLORS, NO_COLOR)
//  3. YAML config file (.rednose.yaml in the local directory or
//     ~/.config/rednose/.rednose.yaml)
//  4. Built-in default color scheme
//
// Scheme layers merge per role: a role assignment from a higher-priority
// source overrides the same role from a lower-priority one, and roles no
// layer mentions keep their defaults.
//
// # Color Mode
//
// The -color flag takes auto, on or off. In auto mode colors are used
// only when stdout is a terminal; NO_COLOR (any value) forces them off
// unless -color=on was given explicitly.
//
// # Environment Variables
//
//   - REDNOSE_COLORS: a scheme spec like "pass=green,failure=red", same
//     syntax as -colors
//   - NO_COLOR: set to anything to disable colors in auto mode
package config
