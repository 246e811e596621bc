package translator

import (
	"strings"

	"logalizer/internal/ruleset"
)

// Match returns the first translation whose patterns all occur in line, or
// nil. A line containing any blacklisted substring never matches; vetoed
// reports that a rule matched but the blacklist rejected the line.
func Match(line string, rules []ruleset.Translation, blacklist []string) (tr *ruleset.Translation, vetoed bool) {
	tr = firstMatch(line, rules)
	if tr == nil {
		return nil, false
	}
	if blacklisted(line, blacklist) {
		return nil, true
	}
	return tr, false
}

func firstMatch(line string, rules []ruleset.Translation) *ruleset.Translation {
	for i := range rules {
		if rules[i].Matches(line) {
			return &rules[i]
		}
	}
	return nil
}

func blacklisted(line string, blacklist []string) bool {
	for _, bl := range blacklist {
		if strings.Contains(line, bl) {
			return true
		}
	}
	return false
}
