package ruleset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "translations": [
    {
      "category": "Networking",
      "patterns": ["say_hello"],
      "print": "client -> server : sayHello",
      "duplicates": "remove_continuous"
    },
    {
      "category": "Networking",
      "patterns": ["Today", "temperature"],
      "print": "server -> client : Today is ${1} and ${2}",
      "variables": [
        {"startswith": "is a ", "endswith": " day"},
        {"startswith": "of ", "endswith": " possibly"}
      ],
      "duplicates": "count"
    },
    {
      "category": "Debug",
      "patterns": ["debug"],
      "print": "note over client : debug"
    },
    {
      "patterns": ["disabled"],
      "print": "never",
      "enable": false
    },
    {
      "patterns": [],
      "print": "no patterns"
    },
    {
      "category": "Networking",
      "patterns": ["request"],
      "print": "client -> server : request ${1}",
      "variables": [{"startswith": "id=", "endswith": ""}],
      "pair": {"pairswith": "server -> client : response", "error": "server -> client : ERROR"}
    }
  ],
  "disable_category": ["Debug"],
  "wrap_text_pre": ["@startuml"],
  "wrap_text_post": ["@enduml"],
  "blacklist": ["Do not translate", ""],
  "delete_lines": ["Delete this line", "2017.* regex lines"],
  "replace_words": {"zeta": "z", "alpha": "a", "": "ignored"},
  "pairs": [
    {"source": "open", "pairswith": "close", "error": "ERR open"},
    {"source": "", "pairswith": "missing"}
  ],
  "execute": ["plantuml ${fileDirname}/${fileBasename}.txt"],
  "translation_file": "${fileDirname}/${fileBasenameNoExtension}/${fileBasename}_seq.txt",
  "backup_file": "${fileDirname}/${fileBasename}.original",
  "auto_new_line": false
}`

func TestParseJSON(t *testing.T) {
	rs, err := Parse([]byte(sampleJSON), ".json", Options{})
	require.NoError(t, err)

	require.Len(t, rs.Translations, 3)
	assert.Equal(t, "client -> server : sayHello", rs.Translations[0].Print)
	assert.Equal(t, RemoveContinuous, rs.Translations[0].Duplicates)
	assert.Equal(t, CountAll, rs.Translations[1].Duplicates)
	assert.Equal(t, []Variable{
		{StartsWith: "is a ", EndsWith: " day"},
		{StartsWith: "of ", EndsWith: " possibly"},
	}, rs.Translations[1].Variables)

	assert.Equal(t, []string{"Do not translate"}, rs.Blacklist)
	assert.Equal(t, []string{"Delete this line"}, rs.DeleteLines)
	require.Len(t, rs.DeleteRegex, 1)
	assert.True(t, rs.DeleteRegex[0].MatchString("2017-07-13 [Test] note: regex lines are slow"))

	assert.Equal(t, []Replacement{{Search: "zeta", Replace: "z"}, {Search: "alpha", Replace: "a"}}, rs.Replacements)
	assert.Equal(t, []string{"@startuml"}, rs.WrapPre)
	assert.Equal(t, []string{"@enduml"}, rs.WrapPost)
	assert.False(t, rs.AutoNewLine)

	require.Len(t, rs.Pairs, 2)
	assert.Equal(t, PairRule{Source: "open", PairsWith: "close", Before: "open", Error: "ERR open"}, rs.Pairs[0])
	assert.Equal(t, PairRule{
		Source:    "client -> server : request ",
		PairsWith: "server -> client : response",
		Before:    "client -> server : request ",
		Error:     "server -> client : ERROR",
	}, rs.Pairs[1])
}

func TestParseDefaults(t *testing.T) {
	rs, err := Parse([]byte(`{"translations":[{"patterns":["a"],"print":"A"}]}`), ".json", Options{})
	require.NoError(t, err)

	assert.True(t, rs.AutoNewLine)
	assert.Empty(t, rs.Blacklist)
	assert.Empty(t, rs.Pairs)
	assert.Empty(t, rs.Replacements)
	assert.Equal(t, Allowed, rs.Translations[0].Duplicates)
}

func TestParseErrors(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		_, err := Parse([]byte(`{"translations": [`), ".json", Options{})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("no translations", func(t *testing.T) {
		_, err := Parse([]byte(`{"blacklist": ["x"]}`), ".json", Options{})
		assert.ErrorIs(t, err, ErrNoTranslations)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := Parse([]byte(`x`), ".toml", Options{})
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("invalid delete regex", func(t *testing.T) {
		_, err := Parse([]byte(`{"translations":[{"patterns":["a"],"print":"A"}],"delete_lines":["a[b"]}`), ".json", Options{})
		assert.Error(t, err)
	})
}

func TestCategoryOptions(t *testing.T) {
	t.Run("enable wins", func(t *testing.T) {
		rs, err := Parse([]byte(sampleJSON), ".json", Options{Enable: []string{"Debug"}})
		require.NoError(t, err)
		require.Len(t, rs.Translations, 1)
		assert.Equal(t, "Debug", rs.Translations[0].Category)
	})

	t.Run("disable adds to config", func(t *testing.T) {
		_, err := Parse([]byte(sampleJSON), ".json", Options{Disable: []string{"Networking"}})
		assert.ErrorIs(t, err, ErrNoTranslations)
	})
}

const sampleYAML = `
translations:
  - category: Networking
    patterns: [say_hello]
    print: "client -> server : sayHello"
    duplicates: count_continuous
  - patterns: [TemperatureSensor, temperature]
    print: Temperature
    variables:
      - startswith: "= "
        endswith: C
replace_words:
  zeta: z
  alpha: a
wrap_text_pre: ["@startuml"]
pairs:
  - source: Req
    pairswith: Resp
    error: missing Resp
`

func TestParseYAML(t *testing.T) {
	rs, err := Parse([]byte(sampleYAML), ".yaml", Options{})
	require.NoError(t, err)

	require.Len(t, rs.Translations, 2)
	assert.Equal(t, CountContinuous, rs.Translations[0].Duplicates)
	assert.Equal(t, []Variable{{StartsWith: "= ", EndsWith: "C"}}, rs.Translations[1].Variables)
	assert.Equal(t, []Replacement{{Search: "zeta", Replace: "z"}, {Search: "alpha", Replace: "a"}}, rs.Replacements)
	assert.Equal(t, []PairRule{{Source: "Req", PairsWith: "Resp", Before: "Req", Error: "missing Resp"}}, rs.Pairs)
	assert.True(t, rs.AutoNewLine)
}

func TestReplaceWordsList(t *testing.T) {
	doc := "translations:\n  - patterns: [a]\n    print: A\nreplace_words:\n  - search: x\n    replace: y\n"
	rs, err := Parse([]byte(doc), ".yml", Options{})
	require.NoError(t, err)
	assert.Equal(t, []Replacement{{Search: "x", Replace: "y"}}, rs.Replacements)

	js := `{"translations":[{"patterns":["a"],"print":"A"}],"replace_words":[{"search":"x","replace":"y"}]}`
	rs, err = Parse([]byte(js), ".json", Options{})
	require.NoError(t, err)
	assert.Equal(t, []Replacement{{Search: "x", Replace: "y"}}, rs.Replacements)
}

const sampleCSV = `enable,group,print,duplicates,pattern1,pattern2,pattern3,variable1_starts_with,variable1_ends_with,variable2_starts_with,variable2_ends_with,variable3_starts_with,variable3_ends_with,notes
yes,Net,client -> server : hello,remove,say_hello,,,,,,,,,first
no,Net,disabled,,disabled,,,,,,,,,
Yes,Sensor,Temperature,count,TemperatureSensor,temperature,,= ,C,,,,,
1,Net,empty patterns,,,,,,,,,,,
`

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "translations.csv"), []byte(sampleCSV), 0o644))
	cfg := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfg, []byte(`{
		"translations_csv": "translations.csv",
		"translations": [{"patterns": ["ignored"], "print": "ignored"}]
	}`), 0o644))

	rs, err := Load(cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, cfg, rs.Source)

	require.Len(t, rs.Translations, 2)
	assert.Equal(t, Translation{
		Category:   "Net",
		Patterns:   []string{"say_hello"},
		Print:      "client -> server : hello",
		Duplicates: RemoveAll,
	}, rs.Translations[0])
	assert.Equal(t, []string{"TemperatureSensor", "temperature"}, rs.Translations[1].Patterns)
	// Leading spaces are trimmed from CSV fields.
	assert.Equal(t, []Variable{{StartsWith: "=", EndsWith: "C"}}, rs.Translations[1].Variables)
	assert.Equal(t, CountAll, rs.Translations[1].Duplicates)
}

func TestReadCSVMissingColumn(t *testing.T) {
	_, err := readCSV(strings.NewReader("enable,group,print\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParsePolicy(t *testing.T) {
	cases := map[string]DuplicatePolicy{
		"":                  Allowed,
		"allowed":           Allowed,
		"remove":            RemoveAll,
		"remove_all":        RemoveAll,
		"remove_continuous": RemoveContinuous,
		"count":             CountAll,
		"count_all":         CountAll,
		"count_continuous":  CountContinuous,
	}
	for in, want := range cases {
		got, ok := ParsePolicy(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	got, ok := ParsePolicy("sometimes")
	assert.False(t, ok)
	assert.Equal(t, Allowed, got)
	assert.Equal(t, "count_continuous", CountContinuous.String())
}

func TestTranslationMatches(t *testing.T) {
	tr := Translation{Patterns: []string{"temperature", "TemperatureSensor"}}
	assert.True(t, tr.Matches("TemperatureSensor: temperature = 45C"))
	assert.False(t, tr.Matches("TemperatureSensor: humidity = 45%"))
}

func TestResolve(t *testing.T) {
	rs, err := Parse([]byte(sampleJSON), ".json", Options{})
	require.NoError(t, err)

	input := filepath.Join("logs", "trace.log")
	p := rs.Resolve(input)
	assert.Equal(t, filepath.Join("logs", "trace.log"), p.Input)
	assert.Equal(t, "logs/trace/trace.log_seq.txt", p.Translation)
	assert.Equal(t, "logs/trace.log.original", p.Backup)
	assert.Equal(t, []string{"plantuml logs/trace.log.txt"}, p.Commands)

	// The shared rule set keeps its templates.
	assert.Equal(t, "${fileDirname}/${fileBasename}.original", rs.BackupFile)

	empty := &RuleSet{}
	assert.Equal(t, "logs/trace.log.txt", empty.Resolve(input).Translation)
	assert.Empty(t, empty.Resolve(input).Backup)
}
