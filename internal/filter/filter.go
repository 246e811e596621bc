// Package filter drops unwanted trace lines and rewrites the rest before
// they reach the translator.
package filter

import (
	"regexp"
	"strings"

	"logalizer/internal/ruleset"
)

// Filter applies the delete and replace sections of a rule set.
type Filter struct {
	literals     []string
	regexes      []*regexp.Regexp
	replacements []ruleset.Replacement
}

// New creates a Filter from the rule set. The rule set is only read.
func New(rs *ruleset.RuleSet) *Filter {
	return &Filter{
		literals:     rs.DeleteLines,
		regexes:      rs.DeleteRegex,
		replacements: rs.Replacements,
	}
}

// ShouldDelete reports whether line contains a delete literal or matches a
// delete regex. Literals are checked first since they are cheaper.
func (f *Filter) ShouldDelete(line string) bool {
	for _, lit := range f.literals {
		if strings.Contains(line, lit) {
			return true
		}
	}
	for _, re := range f.regexes {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// Replace applies every replacement in configured order. Each step sees the
// output of the previous one.
func (f *Filter) Replace(line string) string {
	for _, r := range f.replacements {
		line = strings.ReplaceAll(line, r.Search, r.Replace)
	}
	return line
}
