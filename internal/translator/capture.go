package translator

import (
	"strings"

	"logalizer/internal/interpolation"
	"logalizer/internal/ruleset"
)

// Missing is captured when a variable's start delimiter is absent from the line.
// It is distinct from the empty string, which is a legitimate capture.
const Missing = " "

// Capture extracts the text between v.StartsWith and the next v.EndsWith.
// Without an end delimiter, or when it is not found, the capture runs to the
// end of line.
func Capture(line string, v ruleset.Variable) string {
	start := strings.Index(line, v.StartsWith)
	if start < 0 {
		return Missing
	}
	rest := line[start+len(v.StartsWith):]
	if v.EndsWith == "" {
		return rest
	}
	end := strings.Index(rest, v.EndsWith)
	if end < 0 {
		return rest
	}
	return rest[:end]
}

// CaptureAll captures every variable in order.
func CaptureAll(line string, vars []ruleset.Variable) []string {
	if len(vars) == 0 {
		return nil
	}
	values := make([]string, len(vars))
	for i, v := range vars {
		values[i] = Capture(line, v)
	}
	return values
}

// Format merges captured values into template. Templates containing ${1} get
// positional substitution, others get the values appended as "(v1, v2)".
func Format(template string, values []string) string {
	if len(values) == 0 {
		return template
	}
	if interpolation.IsPositional(template) {
		return interpolation.FillPositional(template, values)
	}
	return template + "(" + strings.Join(values, ", ") + ")"
}
