package ruleset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"logalizer/internal/interpolation"

	"github.com/rs/zerolog/log"
)

var (
	// ErrNoTranslations is returned when no enabled translation survives loading.
	ErrNoTranslations = errors.New("no translations configured")
	// ErrUnsupportedFormat is returned for config files that no decoder handles.
	ErrUnsupportedFormat = errors.New("unsupported config format")
	// ErrInvalidConfig is returned when a config document cannot be decoded.
	ErrInvalidConfig = errors.New("invalid config")
)

// regexMeta lists the characters that turn a delete_lines entry into a regex.
const regexMeta = `[\^$.|?*+`

// Options narrows the loaded translations by category.
type Options struct {
	// Enable keeps only translations of these categories. It takes priority over Disable.
	Enable []string
	// Disable drops translations of these categories, on top of disable_category.
	Disable []string
	// BaseDir resolves a relative translations_csv path. Defaults to the config file directory.
	BaseDir string
}

// rawTranslation is a translation as written in a config document.
type rawTranslation struct {
	Category   string     `yaml:"category"`
	Group      string     `yaml:"group"`
	Enable     *bool      `yaml:"enable"`
	Patterns   []string   `yaml:"patterns"`
	Print      string     `yaml:"print"`
	Variables  []Variable `yaml:"variables"`
	Duplicates string     `yaml:"duplicates"`
	Pair       *rawPair   `yaml:"pair"`
}

type rawPair struct {
	Source    string `yaml:"source"`
	PairsWith string `yaml:"pairswith"`
	Before    string `yaml:"before"`
	Error     string `yaml:"error"`
}

// document is the decoded, not yet validated, content of a config file.
type document struct {
	Translations    []rawTranslation `yaml:"translations"`
	TranslationsCSV string           `yaml:"translations_csv"`
	DisableCategory []string         `yaml:"disable_category"`
	WrapTextPre     []string         `yaml:"wrap_text_pre"`
	WrapTextPost    []string         `yaml:"wrap_text_post"`
	Blacklist       []string         `yaml:"blacklist"`
	DeleteLines     []string         `yaml:"delete_lines"`
	ReplaceWords    []Replacement    `yaml:"-"`
	Pairs           []rawPair        `yaml:"pairs"`
	Execute         []string         `yaml:"execute"`
	TranslationFile string           `yaml:"translation_file"`
	BackupFile      string           `yaml:"backup_file"`
	AutoNewLine     *bool            `yaml:"auto_new_line"`
}

// decoder turns config file bytes into a document.
type decoder interface {
	// CanDecode returns true if this decoder handles the given file extension.
	CanDecode(ext string) bool
	decode(data []byte) (*document, error)
}

var decoders = []decoder{
	jsonDecoder{},
	yamlDecoder{},
}

// Load reads a JSON or YAML config file and builds a RuleSet.
func Load(path string, opts Options) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if opts.BaseDir == "" {
		opts.BaseDir = filepath.Dir(path)
	}

	rs, err := Parse(data, filepath.Ext(path), opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	rs.Source = path

	log.Info().
		Str("config", path).
		Int("translations", len(rs.Translations)).
		Int("pairs", len(rs.Pairs)).
		Msg("Configuration loaded")
	return rs, nil
}

// Parse builds a RuleSet from config bytes. ext selects the decoder (".json", ".yaml", ".yml").
func Parse(data []byte, ext string, opts Options) (*RuleSet, error) {
	ext = strings.ToLower(ext)
	for _, d := range decoders {
		if !d.CanDecode(ext) {
			continue
		}
		doc, err := d.decode(data)
		if err != nil {
			return nil, err
		}
		return build(doc, opts)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

func build(doc *document, opts Options) (*RuleSet, error) {
	rs := &RuleSet{
		Blacklist:          nonEmpty(doc.Blacklist),
		WrapPre:            doc.WrapTextPre,
		WrapPost:           doc.WrapTextPost,
		AutoNewLine:        true,
		Execute:            nonEmpty(doc.Execute),
		TranslationFile:    doc.TranslationFile,
		BackupFile:         doc.BackupFile,
		DisabledCategories: append(append([]string(nil), doc.DisableCategory...), opts.Disable...),
	}
	if doc.AutoNewLine != nil {
		rs.AutoNewLine = *doc.AutoNewLine
	}

	raws := doc.Translations
	if doc.TranslationsCSV != "" {
		if len(doc.Translations) > 0 {
			log.Warn().Msg("translations is not read in the presence of translations_csv")
		}
		csvPath := doc.TranslationsCSV
		if !filepath.IsAbs(csvPath) {
			csvPath = filepath.Join(opts.BaseDir, csvPath)
		}
		var err error
		raws, err = loadCSV(csvPath)
		if err != nil {
			return nil, fmt.Errorf("load translations csv: %w", err)
		}
	}

	active := categoryFilter(opts.Enable, rs.DisabledCategories)
	var pairs []rawPair
	for i, raw := range raws {
		if raw.Enable != nil && !*raw.Enable {
			continue
		}
		category := raw.Category
		if category == "" {
			category = raw.Group
		}
		if !active(category) {
			log.Debug().Str("category", category).Int("index", i).Msg("Translation disabled by category")
			continue
		}
		patterns := nonEmpty(raw.Patterns)
		if len(patterns) == 0 {
			log.Warn().Int("index", i).Msg("Translation skipped: patterns not defined or empty")
			continue
		}
		if raw.Print == "" {
			log.Warn().Int("index", i).Msg("Translation skipped: print not defined or empty")
			continue
		}
		policy, ok := ParsePolicy(raw.Duplicates)
		if !ok {
			log.Warn().Str("duplicates", raw.Duplicates).Int("index", i).Msg("Unknown duplicates value, using allowed")
		}
		rs.Translations = append(rs.Translations, Translation{
			Category:   category,
			Patterns:   patterns,
			Print:      raw.Print,
			Variables:  raw.Variables,
			Duplicates: policy,
		})
		if raw.Pair != nil {
			p := *raw.Pair
			if p.Source == "" {
				p.Source = interpolation.LiteralPrefix(raw.Print)
			}
			pairs = append(pairs, p)
		}
	}
	if len(rs.Translations) == 0 {
		return nil, ErrNoTranslations
	}

	rs.Pairs = buildPairs(append(append([]rawPair(nil), doc.Pairs...), pairs...))

	var err error
	rs.DeleteLines, rs.DeleteRegex, err = splitDeleteLines(doc.DeleteLines)
	if err != nil {
		return nil, err
	}

	for _, r := range doc.ReplaceWords {
		if r.Search == "" {
			continue
		}
		rs.Replacements = append(rs.Replacements, r)
	}

	return rs, nil
}

// categoryFilter reports whether a category stays active. A non-empty enable
// list wins over the disabled list.
func categoryFilter(enable, disable []string) func(string) bool {
	if len(enable) > 0 {
		set := toSet(enable)
		return func(category string) bool { return set[category] }
	}
	set := toSet(disable)
	return func(category string) bool { return !set[category] }
}

func buildPairs(raws []rawPair) []PairRule {
	var pairs []PairRule
	for i, p := range raws {
		if p.Source == "" || p.PairsWith == "" {
			log.Warn().Int("index", i).Msg("Pair skipped: source and pairswith are required")
			continue
		}
		before := p.Before
		if before == "" {
			before = p.Source
		}
		pairs = append(pairs, PairRule{
			Source:    p.Source,
			PairsWith: p.PairsWith,
			Before:    before,
			Error:     p.Error,
		})
	}
	return pairs
}

func splitDeleteLines(entries []string) ([]string, []*regexp.Regexp, error) {
	var literals []string
	var regexes []*regexp.Regexp
	for _, entry := range entries {
		if entry == "" {
			continue
		}
		if !strings.ContainsAny(entry, regexMeta) {
			literals = append(literals, entry)
			continue
		}
		re, err := regexp.Compile(entry)
		if err != nil {
			return nil, nil, fmt.Errorf("compile delete_lines regex %q: %w", entry, err)
		}
		regexes = append(regexes, re)
		log.Warn().Str("pattern", entry).Msg("Use of regex in delete_lines is a lot slower, use normal search instead")
	}
	return literals, regexes, nil
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[strings.TrimSpace(s)] = true
	}
	return set
}
