package ruleset

import (
	"fmt"
	"regexp"
	"strings"
)

// Variable delimits a substring to capture from a matched line.
type Variable struct {
	// StartsWith is searched first; the capture begins right after it.
	StartsWith string `yaml:"startswith" json:"startswith"`
	// EndsWith ends the capture. Empty or absent means "until end of line".
	EndsWith string `yaml:"endswith" json:"endswith"`
}

// DuplicatePolicy governs how a repeated output line is treated.
type DuplicatePolicy int

const (
	Allowed DuplicatePolicy = iota
	RemoveAll
	RemoveContinuous
	CountAll
	CountContinuous
)

var policyNames = map[DuplicatePolicy]string{
	Allowed:          "allowed",
	RemoveAll:        "remove",
	RemoveContinuous: "remove_continuous",
	CountAll:         "count",
	CountContinuous:  "count_continuous",
}

func (p DuplicatePolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
}

// ParsePolicy maps a configured duplicates value to a policy.
// An empty value is Allowed; an unknown value returns Allowed and false.
func ParsePolicy(s string) (DuplicatePolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "allowed":
		return Allowed, true
	case "remove", "remove_all":
		return RemoveAll, true
	case "remove_continuous":
		return RemoveContinuous, true
	case "count", "count_all":
		return CountAll, true
	case "count_continuous":
		return CountContinuous, true
	}
	return Allowed, false
}

// Translation maps lines containing all Patterns to the Print template.
type Translation struct {
	Category   string
	Patterns   []string
	Print      string
	Variables  []Variable
	Duplicates DuplicatePolicy
}

// Matches reports whether every pattern is a substring of line.
func (t *Translation) Matches(line string) bool {
	for _, p := range t.Patterns {
		if !strings.Contains(line, p) {
			return false
		}
	}
	return true
}

// PairRule requires an output line containing Source to be followed by one
// containing PairsWith before any line containing Before.
type PairRule struct {
	Source    string
	PairsWith string
	Before    string
	Error     string
}

// Replacement is one search -> replace step applied to every kept line.
type Replacement struct {
	Search  string
	Replace string
}

// RuleSet is the complete, read-only configuration of a translation run.
// It may be shared by concurrent runs.
type RuleSet struct {
	Translations []Translation
	DeleteLines  []string
	DeleteRegex  []*regexp.Regexp
	Blacklist    []string
	Replacements []Replacement
	Pairs        []PairRule
	WrapPre      []string
	WrapPost     []string
	AutoNewLine  bool

	Execute            []string
	TranslationFile    string
	BackupFile         string
	DisabledCategories []string

	// Source is the file the rule set was loaded from.
	Source string
}
