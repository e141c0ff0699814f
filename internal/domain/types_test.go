package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "milk", Fold("  Milk "))
	assert.Equal(t, "tesco", Fold("ＴＥＳＣＯ"))
	assert.Equal(t, "老干妈", Fold("老干妈"))
}

func TestParseFreshness(t *testing.T) {
	assert.Equal(t, FreshnessUseSoon, ParseFreshness("Use-Soon"))
	assert.Equal(t, FreshnessPriority, ParseFreshness("priority"))
	assert.Equal(t, FreshnessFresh, ParseFreshness(""))
	assert.Equal(t, FreshnessFresh, ParseFreshness("mouldy"))
}

func TestNormalizeLocation(t *testing.T) {
	assert.Equal(t, "freezer", NormalizeLocation(" Freezer"))
	assert.Equal(t, DefaultLocation, NormalizeLocation(""))
}

func TestValidateScore(t *testing.T) {
	assert.NoError(t, ValidateScore(0))
	assert.NoError(t, ValidateScore(100))
	assert.ErrorIs(t, ValidateScore(-1), ErrInvalidScore)
	assert.ErrorIs(t, ValidateScore(101), ErrInvalidScore)
}
