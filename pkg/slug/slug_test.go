package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	tests := map[string]string{
		"men's clothing":   "mens-clothing",
		"women’s clothing": "womens-clothing",
		"jewelery":         "jewelery",
		"Electronics":      "electronics",
		"  Home & Garden ": "home-garden",
		"Électronique":     "electronique",
		"Kadın Giyim":      "kadin-giyim",
		"a---b":            "a-b",
		"!!!":              "",
		"":                 "",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Generate(in))
		})
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("men's clothing", "men's clothing"))
	assert.True(t, Matches("men's clothing", "MEN'S CLOTHING"))
	assert.True(t, Matches("men's clothing", "mens-clothing"))
	assert.False(t, Matches("men's clothing", "women's clothing"))
	assert.False(t, Matches("men's clothing", ""))
}
