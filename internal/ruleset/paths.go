package ruleset

import "logalizer/internal/interpolation"

// DefaultTranslationFile is used when translation_file is not configured.
const DefaultTranslationFile = "${fileDirname}/${fileBasename}.txt"

// Paths are the file locations and commands bound to one input file.
type Paths struct {
	Input       string
	Translation string
	Backup      string
	Commands    []string
}

// Resolve expands the path variables of the rule set for input.
// The rule set itself is not modified.
func (rs *RuleSet) Resolve(input string) Paths {
	vars := interpolation.NewPathVars(input)

	translation := rs.TranslationFile
	if translation == "" {
		translation = DefaultTranslationFile
	}

	p := Paths{
		Input:       input,
		Translation: vars.Expand(translation),
	}
	if rs.BackupFile != "" {
		p.Backup = vars.Expand(rs.BackupFile)
	}
	for _, cmd := range rs.Execute {
		p.Commands = append(p.Commands, vars.Expand(cmd))
	}
	return p
}
