package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{"+821012345678", "01012345678", "010-1234-5678", "+1 (415) 5552671"}
	for _, p := range valid {
		assert.True(t, ValidatePhone(p), p)
	}

	invalid := []string{"", "abc", "12345", "+", "0101234567890123456"}
	for _, p := range invalid {
		assert.False(t, ValidatePhone(p), p)
	}
}

func TestValidSkinType(t *testing.T) {
	for _, s := range []string{"", "dry", "oily", "combination", "sensitive", "normal"} {
		assert.True(t, ValidSkinType(s), s)
	}
	assert.False(t, ValidSkinType("greasy"))
}
