// Package driver runs one translation over a trace file on disk.
package driver

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"logalizer/internal/execute"
	"logalizer/internal/fileio"
	"logalizer/internal/ruleset"
	"logalizer/internal/textutil"
	"logalizer/internal/translator"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxLineSize = 16 * 1024 * 1024

// Options control the side effects of a run.
type Options struct {
	// KeepInput leaves the input file as is instead of replacing it with the
	// trimmed copy.
	KeepInput bool
	// Runner executes the configured commands after translation. Nil skips them.
	Runner *execute.Runner
}

// Result describes a run.
type Result struct {
	RunID    uuid.UUID
	Paths    ruleset.Paths
	BackedUp bool
	// Translated is set once the translation file has been written.
	Translated bool
	Lines      []string
	Stats      translator.Stats
	Checksum   string
	Started    time.Time
	Duration   time.Duration
}

// TranslateFile translates input with rs and writes the translation file. The
// input file is replaced by its trimmed copy unless opts.KeepInput is set.
//
// The returned Result is never nil. A failure while reading or writing leaves
// the input and any previous translation untouched, and the Result holds what
// was done before the error. A failing command is reported after the files
// were written.
func TranslateFile(ctx context.Context, rs *ruleset.RuleSet, input string, opts Options) (*Result, error) {
	res := &Result{
		RunID:   uuid.New(),
		Paths:   rs.Resolve(input),
		Started: time.Now(),
	}
	logger := log.With().Str("run", res.RunID.String()).Str("input", input).Logger()
	logger.Info().Str("translation", res.Paths.Translation).Msg("Translating file")

	if res.Paths.Backup != "" {
		copied, err := fileio.CopyIfAbsent(ctx, input, res.Paths.Backup)
		if err != nil {
			return res.fail(fmt.Errorf("backup input: %w", err))
		}
		res.BackedUp = copied
		if copied {
			logger.Info().Str("backup", res.Paths.Backup).Msg("Backup created")
		}
	}

	e := translator.New(rs)
	trimmed, err := scan(ctx, e, input, !opts.KeepInput)
	if err != nil {
		return res.fail(err)
	}

	res.Lines = e.Finish()
	res.Stats = e.Stats()

	var buf bytes.Buffer
	if err := translator.Write(&buf, res.Lines, rs.AutoNewLine); err != nil {
		abort(trimmed)
		return res.fail(fmt.Errorf("render translation: %w", err))
	}
	res.Checksum = textutil.Hash(buf.Bytes())

	if err := fileio.WriteAtomic(ctx, res.Paths.Translation, &buf); err != nil {
		abort(trimmed)
		return res.fail(fmt.Errorf("write translation: %w", err))
	}
	res.Translated = true
	if trimmed != nil {
		if err := trimmed.Commit(); err != nil {
			return res.fail(fmt.Errorf("replace input: %w", err))
		}
	}

	res.Duration = time.Since(res.Started)
	logger.Info().
		Int("read", res.Stats.LinesRead).
		Int("deleted", res.Stats.LinesDeleted).
		Int("matched", res.Stats.LinesMatched).
		Int("emitted", res.Stats.LinesEmitted).
		Int("pair_errors", res.Stats.PairErrors).
		Dur("duration", res.Duration).
		Msg("File translated")

	if opts.Runner != nil && len(res.Paths.Commands) > 0 {
		if err := opts.Runner.Run(ctx, res.Paths.Commands); err != nil {
			return res, fmt.Errorf("run commands: %w", err)
		}
	}
	return res, nil
}

func (r *Result) fail(err error) (*Result, error) {
	r.Duration = time.Since(r.Started)
	return r, err
}

// scan feeds every line of input to e. When trim is set the kept lines are
// written with their original terminators to a pending replacement of input,
// returned uncommitted.
func scan(ctx context.Context, e *translator.Engine, input string, trim bool) (*fileio.Pending, error) {
	f, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	var trimmed *fileio.Pending
	if trim {
		trimmed, err = fileio.Create(input)
		if err != nil {
			return nil, fmt.Errorf("create trimmed copy: %w", err)
		}
	}

	sc := bufio.NewScanner(fileio.Reader(ctx, f))
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	sc.Split(scanRawLines)
	for sc.Scan() {
		text, eol := splitEOL(sc.Text())
		line, kept := e.Feed(text)
		if !kept || trimmed == nil {
			continue
		}
		if _, err := io.WriteString(trimmed, line+eol); err != nil {
			trimmed.Abort()
			return nil, fmt.Errorf("write trimmed copy: %w", err)
		}
	}
	if err := sc.Err(); err != nil {
		abort(trimmed)
		return nil, fmt.Errorf("read input: %w", err)
	}
	return trimmed, nil
}

// scanRawLines is bufio.ScanLines keeping the line terminator.
func scanRawLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// splitEOL separates the line terminator from line. A lone "\r" only occurs
// on the last line of a file.
func splitEOL(line string) (string, string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	case strings.HasSuffix(line, "\r"):
		return line[:len(line)-1], "\r"
	}
	return line, ""
}

func abort(p *fileio.Pending) {
	if p != nil {
		p.Abort()
	}
}
