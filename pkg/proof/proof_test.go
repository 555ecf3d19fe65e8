package proof

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, TypeGym, Normalize("gym"))
	assert.Equal(t, TypeStrava, Normalize("strava"))
	assert.Equal(t, TypeAny, Normalize("any"))

	// Unknown values fall back to the generic type instead of failing.
	assert.Equal(t, TypeAny, Normalize("yoga"))
	assert.Equal(t, TypeAny, Normalize(""))
	assert.Equal(t, TypeAny, Normalize("GYM"))
}

func TestPrompt(t *testing.T) {
	for _, typ := range Types() {
		assert.NotEmpty(t, Prompt(typ))
	}
	assert.Equal(t, Prompt(TypeAny), Prompt(Type("unknown")))
}
