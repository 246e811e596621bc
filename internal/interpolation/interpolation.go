package interpolation

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// FirstPositional marks a template as using explicit positional placeholders.
const FirstPositional = "${1}"

// CountToken is replaced by the occurrence count of a counted line.
const CountToken = "${count}"

var (
	positionalPattern = regexp.MustCompile(`\$\{([1-9][0-9]*)\}`)
	countPattern      = regexp.MustCompile(`\$\{count\}`)
	pathPattern       = regexp.MustCompile(`\$\{(fileDirname|fileBasenameNoExtension|fileBasename)\}`)
)

// IsPositional reports whether template carries explicit positional placeholders.
func IsPositional(template string) bool {
	return strings.Contains(template, FirstPositional)
}

// FillPositional replaces every ${i} with values[i-1] in a single pass.
// Placeholders beyond len(values) are left untouched and unused values are dropped.
func FillPositional(template string, values []string) string {
	if len(values) == 0 {
		return template
	}
	return positionalPattern.ReplaceAllStringFunc(template, func(match string) string {
		idx, err := strconv.Atoi(match[2 : len(match)-1])
		if err != nil || idx < 1 || idx > len(values) {
			return match
		}
		return values[idx-1]
	})
}

// FillCount substitutes every ${count} token in line with n.
func FillCount(line string, n int) string {
	if !strings.Contains(line, CountToken) {
		return line
	}
	return countPattern.ReplaceAllLiteralString(line, strconv.Itoa(n))
}

// LiteralPrefix returns template up to its first placeholder.
func LiteralPrefix(template string) string {
	if i := strings.Index(template, "${"); i >= 0 {
		return template[:i]
	}
	return template
}

// PathVars holds the values bound to the file path variables of one input file.
type PathVars struct {
	Dir       string
	Base      string
	BaseNoExt string
}

// NewPathVars derives the path variables of the given input file.
func NewPathVars(input string) PathVars {
	dir := filepath.Dir(input)
	base := filepath.Base(input)
	return PathVars{
		Dir:       dir,
		Base:      base,
		BaseNoExt: strings.TrimSuffix(base, filepath.Ext(base)),
	}
}

// Expand replaces ${fileDirname}, ${fileBasename} and ${fileBasenameNoExtension} in s.
func (v PathVars) Expand(s string) string {
	if !strings.Contains(s, "${file") {
		return s
	}
	return pathPattern.ReplaceAllStringFunc(s, func(match string) string {
		switch match {
		case "${fileDirname}":
			return v.Dir
		case "${fileBasename}":
			return v.Base
		case "${fileBasenameNoExtension}":
			return v.BaseNoExt
		}
		return match
	})
}
