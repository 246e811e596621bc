package translator

import (
	"strings"

	"logalizer/internal/ruleset"

	"github.com/rs/zerolog/log"
)

// cursor tracks the open source line of a pair rule.
type cursor struct {
	at   int
	open bool
}

func (c *cursor) openAt(i int) {
	c.at = i
	c.open = true
}

func (c *cursor) close() {
	*c = cursor{}
}

type insertion struct {
	at   int
	text string
}

// ValidatePairs checks every pair rule against lines, one rule after the
// other, and returns the lines with error lines injected plus the number of
// injected errors.
func ValidatePairs(lines []string, pairs []ruleset.PairRule) ([]string, int) {
	total := 0
	for _, p := range pairs {
		var n int
		lines, n = validatePair(lines, p)
		total += n
	}
	return lines, total
}

// validatePair scans lines for one rule. An error line is inserted before a
// line that reopens the source while it is still open, and before a
// terminator line reached while open. A source still open at the end gets one
// trailing error line.
//
// Only the most recent open source is tracked: a reopen abandons the earlier
// one after reporting a single error at the reopening line.
func validatePair(lines []string, p ruleset.PairRule) ([]string, int) {
	if p.Source == "" || p.PairsWith == "" {
		return lines, 0
	}

	var c cursor
	var inserts []insertion
	for i, line := range lines {
		hasSource := strings.Contains(line, p.Source)
		switch {
		case c.open && hasSource:
			log.Debug().Int("source", c.at).Int("reopen", i).Str("pair", p.Source).Msg("Source reopened before pairing")
			inserts = append(inserts, insertion{at: i, text: p.Error})
			c.openAt(i)
		case hasSource:
			c.openAt(i)
		case c.open && strings.Contains(line, p.PairsWith):
			c.close()
		case c.open && p.Before != "" && strings.Contains(line, p.Before):
			inserts = append(inserts, insertion{at: i, text: p.Error})
			c.close()
		}
	}

	trailing := c.open
	if len(inserts) == 0 && !trailing {
		return lines, 0
	}

	out := make([]string, 0, len(lines)+len(inserts)+1)
	next := 0
	for i, line := range lines {
		for next < len(inserts) && inserts[next].at == i {
			out = append(out, inserts[next].text)
			next++
		}
		out = append(out, line)
	}
	errors := len(inserts)
	if trailing {
		out = append(out, p.Error)
		errors++
	}
	return out, errors
}
