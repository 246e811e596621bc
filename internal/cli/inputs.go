package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"logalizer/internal/filewalker"
	"logalizer/internal/ruleset"

	"github.com/rs/zerolog/log"
)

// planInputs picks the files to translate. Discovered files that are
// translations or backups of another candidate, or that live in a backup
// directory, are skipped. Two runs writing the same file are rejected.
func planInputs(rs *ruleset.RuleSet, files []filewalker.File) ([]string, error) {
	outputs := make(map[string]bool)
	var backupDirs []string
	for _, f := range files {
		p := rs.Resolve(f.Path)
		outputs[absPath(p.Translation)] = true
		if p.Backup == "" {
			continue
		}
		backup := absPath(p.Backup)
		outputs[backup] = true
		if dir := filepath.Dir(backup); !within(f.Path, dir) {
			backupDirs = append(backupDirs, dir)
		}
	}

	var inputs []string
	for _, f := range files {
		if f.Discovered && isOutput(f.Path, outputs, backupDirs) {
			log.Debug().Str("path", f.Path).Msg("Skipping generated file")
			continue
		}
		inputs = append(inputs, f.Path)
	}

	if err := checkCollisions(rs, inputs); err != nil {
		return nil, err
	}
	return inputs, nil
}

func isOutput(path string, outputs map[string]bool, backupDirs []string) bool {
	if outputs[path] {
		return true
	}
	for _, dir := range backupDirs {
		if within(path, dir) {
			return true
		}
	}
	return false
}

// checkCollisions fails when two inputs resolve to the same translation or
// backup file, or when one run writes a file another run reads.
func checkCollisions(rs *ruleset.RuleSet, inputs []string) error {
	writer := make(map[string]string)
	isInput := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		isInput[in] = true
	}

	for _, in := range inputs {
		p := rs.Resolve(in)
		targets := []string{absPath(p.Translation)}
		if p.Backup != "" {
			targets = append(targets, absPath(p.Backup))
		}
		for _, target := range targets {
			if prev, ok := writer[target]; ok && prev != in {
				return fmt.Errorf("%s and %s both write %s", prev, in, target)
			}
			writer[target] = in
			if target != in && isInput[target] {
				return fmt.Errorf("%s writes %s, which is also an input", in, target)
			}
		}
	}
	return nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// within reports whether path lies inside dir.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
