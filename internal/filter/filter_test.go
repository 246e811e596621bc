package filter

import (
	"regexp"
	"testing"

	"logalizer/internal/ruleset"

	"github.com/stretchr/testify/assert"
)

func TestShouldDelete(t *testing.T) {
	f := New(&ruleset.RuleSet{
		DeleteLines: []string{"Delete this line"},
		DeleteRegex: []*regexp.Regexp{regexp.MustCompile(`^2017.* slow`)},
	})

	assert.True(t, f.ShouldDelete("note: Delete this line from the trace"))
	assert.True(t, f.ShouldDelete("2017-07-13 note: regex lines are very slow"))
	assert.False(t, f.ShouldDelete("2019-07-13 note: regex lines are very slow"))
	assert.False(t, f.ShouldDelete("keep me"))
}

func TestShouldDeleteEmptyRuleSet(t *testing.T) {
	f := New(&ruleset.RuleSet{})
	assert.False(t, f.ShouldDelete("anything"))
	assert.Equal(t, "anything", f.Replace("anything"))
}

func TestReplaceIsSequential(t *testing.T) {
	f := New(&ruleset.RuleSet{
		Replacements: []ruleset.Replacement{
			{Search: "cat", Replace: "dog"},
			{Search: "dog", Replace: "wolf"},
		},
	})
	// The second step sees the output of the first one.
	assert.Equal(t, "wolf wolf", f.Replace("cat dog"))

	reversed := New(&ruleset.RuleSet{
		Replacements: []ruleset.Replacement{
			{Search: "dog", Replace: "wolf"},
			{Search: "cat", Replace: "dog"},
		},
	})
	assert.Equal(t, "dog wolf", reversed.Replace("cat dog"))
}

func TestReplaceIsLiteral(t *testing.T) {
	f := New(&ruleset.RuleSet{
		Replacements: []ruleset.Replacement{{Search: "a.b", Replace: "x"}},
	})
	assert.Equal(t, "x acb", f.Replace("a.b acb"))
}
