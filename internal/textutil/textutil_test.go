package textutil

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Hash(nil))
	assert.Equal(t, Hash([]byte("a\nb\n")), Hash([]byte("a\nb\n")))
	assert.NotEqual(t, Hash([]byte("a\nb\n")), Hash([]byte("ab")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abc...", Truncate("abcdef", 3))

	// "é" is two bytes; cutting inside it drops the whole rune.
	got := Truncate("héllo", 2)
	assert.Equal(t, "h...", got)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "hé...", Truncate("héllo", 3))
	assert.Equal(t, "...", Truncate("日本", 2))
}
