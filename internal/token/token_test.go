package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonical(t *testing.T) {
	assert.Equal(t, "THANK-YOU", Canonical("  thank-you "))
	assert.Equal(t, "", Canonical("   "))
}

func TestLetters(t *testing.T) {
	assert.Equal(t, []rune("XYZZY"), Letters("xyzzy123"))
	assert.Equal(t, []rune("THANKYOU"), Letters("THANK-YOU"))
	assert.Empty(t, Letters("42"))
}

func TestCanonicalAll(t *testing.T) {
	assert.Equal(t, []string{"HELLO", "WORLD"}, CanonicalAll([]string{"hello", " ", "World"}))
}
