// Package translator turns trace lines into output lines according to a rule set.
//
// An Engine owns all mutable state of one run and is not safe for concurrent
// use. Several engines may share the same read-only rule set.
package translator

import (
	"bufio"
	"io"

	"logalizer/internal/filter"
	"logalizer/internal/ruleset"
	"logalizer/internal/textutil"

	"github.com/rs/zerolog/log"
)

// Stats summarises one run.
type Stats struct {
	LinesRead        int
	LinesDeleted     int
	LinesMatched     int
	LinesBlacklisted int
	LinesEmitted     int
	PairErrors       int
}

// Engine translates the lines of a single input.
type Engine struct {
	rules    *ruleset.RuleSet
	filter   *filter.Filter
	buf      *Buffer
	stats    Stats
	finished bool
}

// New creates an Engine for one run over rs.
func New(rs *ruleset.RuleSet) *Engine {
	return &Engine{
		rules:  rs,
		filter: filter.New(rs),
		buf:    NewBuffer(),
	}
}

// Feed processes one input line. It returns the cleaned line, after word
// replacement, and false when the line was deleted.
func (e *Engine) Feed(line string) (string, bool) {
	e.stats.LinesRead++
	if e.filter.ShouldDelete(line) {
		e.stats.LinesDeleted++
		return "", false
	}
	line = e.filter.Replace(line)
	e.translate(line)
	return line, true
}

func (e *Engine) translate(line string) {
	tr, vetoed := Match(line, e.rules.Translations, e.rules.Blacklist)
	if vetoed {
		e.stats.LinesBlacklisted++
	}
	if tr == nil {
		return
	}
	e.stats.LinesMatched++

	out := Format(tr.Print, CaptureAll(line, tr.Variables))
	if e.buf.Record(out, tr.Duplicates) {
		log.Debug().Str("line", textutil.Truncate(out, 80)).Str("duplicates", tr.Duplicates.String()).Msg("Adding translation")
	}
}

// Finish substitutes counters, validates pairs and wraps the result with the
// configured pre and post text. It must be called once, after the last Feed.
func (e *Engine) Finish() []string {
	if e.finished {
		panic("translator: Finish called twice")
	}
	e.finished = true

	lines, pairErrors := ValidatePairs(e.buf.Lines(), e.rules.Pairs)
	e.stats.PairErrors = pairErrors
	e.stats.LinesEmitted = len(lines)

	out := make([]string, 0, len(e.rules.WrapPre)+len(lines)+len(e.rules.WrapPost))
	out = append(out, e.rules.WrapPre...)
	out = append(out, lines...)
	out = append(out, e.rules.WrapPost...)
	return out
}

// Stats returns the counters collected so far.
func (e *Engine) Stats() Stats { return e.stats }

// Translate runs a complete in-memory translation of lines.
func Translate(rs *ruleset.RuleSet, lines []string) []string {
	e := New(rs)
	for _, line := range lines {
		e.Feed(line)
	}
	return e.Finish()
}

// Write renders lines to w, newline-terminated when autoNewLine is set and
// concatenated otherwise.
func Write(w io.Writer, lines []string, autoNewLine bool) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if autoNewLine {
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
