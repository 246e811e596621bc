package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultExtensions lists the trace file types picked up from directories.
var DefaultExtensions = []string{".log", ".txt", ".trace"}

// Walker resolves command line inputs into trace files.
type Walker struct {
	extensions map[string]bool
}

// NewWalker creates a Walker matching the given extensions, or
// DefaultExtensions when none are given.
func NewWalker(extensions ...string) *Walker {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	w := &Walker{extensions: make(map[string]bool, len(extensions))}
	for _, ext := range extensions {
		w.extensions[strings.ToLower(ext)] = true
	}
	return w
}

// File is one resolved input.
type File struct {
	Path string
	// Discovered is set for files found by walking a directory rather than
	// named on the command line.
	Discovered bool
}

// Resolve expands inputs into a list of absolute file paths sorted by path,
// without duplicates. Files are taken as given whatever their extension;
// directories are walked for files with a supported extension. A file both
// named and discovered counts as named.
func (w *Walker) Resolve(inputs []string) ([]File, error) {
	index := make(map[string]int)
	var files []File
	add := func(path string, discovered bool) {
		if i, ok := index[path]; ok {
			files[i].Discovered = files[i].Discovered && discovered
			return
		}
		index[path] = len(files)
		files = append(files, File{Path: path, Discovered: discovered})
	}

	for _, in := range inputs {
		abs, err := filepath.Abs(in)
		if err != nil {
			return nil, fmt.Errorf("resolve path %s: %w", in, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat input: %w", err)
		}
		if !info.IsDir() {
			add(abs, false)
			continue
		}
		found, err := w.Walk(abs)
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f, true)
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// Walk discovers all supported files under the given root directory.
func (w *Walker) Walk(root string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if w.extensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Info().Int("count", len(files)).Str("root", root).Msg("Discovered files")
	return files, nil
}
