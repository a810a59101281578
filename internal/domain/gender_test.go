package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeGender(t *testing.T) {
	assert.Equal(t, GenderMale, NormalizeGender("male"))
	assert.Equal(t, GenderFemale, NormalizeGender("female"))

	// Anything else, including cased variants, collapses to unknown.
	assert.Equal(t, GenderUnknown, NormalizeGender("Male"))
	assert.Equal(t, GenderUnknown, NormalizeGender("FEMALE"))
	assert.Equal(t, GenderUnknown, NormalizeGender(""))
	assert.Equal(t, GenderUnknown, NormalizeGender("nonbinary"))
}
