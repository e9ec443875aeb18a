// Package detect sniffs input to determine what kind of report it is.
package detect

import (
	"bytes"
	"encoding/json"
)

// Format represents a recognized input format.
type Format int

const (
	Unknown       Format = iota
	GoTestJSON           // go test -json NDJSON stream
	DoctestReport        // failure report with a 70-dash body separator
	Traceback            // plain exception traceback text
)

var bodySeparator = bytes.Repeat([]byte("-"), 70)

// Sniff examines input to determine its format. NDJSON detection only
// needs the first line; report detection scans for its landmarks, so
// callers should pass everything they have.
func Sniff(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return Unknown
	}

	if trimmed[0] == '{' && isGoTestJSON(trimmed) {
		return GoTestJSON
	}

	if hasSeparatorLine(data) {
		return DoctestReport
	}
	if bytes.HasPrefix(trimmed, []byte("Traceback (most recent call last)")) ||
		bytes.Contains(data, []byte("\nTraceback (most recent call last)")) {
		return Traceback
	}
	return Unknown
}

// hasSeparatorLine reports whether any line of data is exactly the
// 70-dash separator.
func hasSeparatorLine(data []byte) bool {
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.Equal(bytes.TrimRight(line, "\r"), bodySeparator) {
			return true
		}
	}
	return false
}

func isGoTestJSON(data []byte) bool {
	// Find first complete line
	end := 0
	for end < len(data) && data[end] != '\n' {
		end++
	}
	firstLine := data[:end]

	var event struct {
		Action  string `json:"Action"`
		Package string `json:"Package"`
	}
	if err := json.Unmarshal(firstLine, &event); err != nil {
		return false
	}

	validActions := map[string]bool{
		"start": true, "run": true, "pause": true, "cont": true,
		"pass": true, "bench": true, "fail": true, "output": true, "skip": true,
	}
	return validActions[event.Action]
}
