package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPattern(t *testing.T, text string, mode Mode) *MatchPattern {
	t.Helper()
	p, err := BuildPattern(text, mode)
	require.NoError(t, err)
	return p
}

func TestBuildPattern_Empty(t *testing.T) {
	_, err := BuildPattern("", Exact)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = BuildPattern("", Partial)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBuildPattern_Expr(t *testing.T) {
	p := mustPattern(t, "Jaen", Exact)
	assert.Equal(t, "^J[aáà][eéè]n$", p.Expr())
	assert.Equal(t, "i", p.Options())
	assert.Equal(t, Exact, p.Mode())
	assert.Equal(t, "Jaen", p.Source())

	p = mustPattern(t, "san", Partial)
	assert.Equal(t, ".*s[aáà]n.*", p.Expr())
}

func TestBuildPattern_ExactMatching(t *testing.T) {
	p := mustPattern(t, "Cordoba", Exact)

	testCases := []struct {
		name  string
		input string
		want  bool
	}{
		{"plain", "Cordoba", true},
		{"accented", "Córdoba", true},
		{"upper accented", "CÓRDOBA", true},
		{"lower", "córdoba", true},
		{"grave", "Còrdoba", true},
		{"prefix only", "Cordobas", false},
		{"substring", "La Cordoba", false},
		{"consonant changed", "Gordoba", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.MatchString(tc.input))
		})
	}
}

func TestBuildPattern_AccentedInputFolds(t *testing.T) {
	p := mustPattern(t, "Córdoba", Exact)
	assert.True(t, p.MatchString("Cordoba"))
	assert.True(t, p.MatchString("Córdoba"))

	p = mustPattern(t, "ÁVILA", Exact)
	assert.True(t, p.MatchString("avila"))
}

func TestBuildPattern_PartialMatching(t *testing.T) {
	p := mustPattern(t, "maria", Partial)
	assert.True(t, p.MatchString("Colegio Santa María"))
	assert.True(t, p.MatchString("MARIA INMACULADA"))
	assert.False(t, p.MatchString("Mario"))
}

func TestBuildPattern_EscapesMetacharacters(t *testing.T) {
	testCases := []struct {
		name    string
		text    string
		match   string
		noMatch string
	}{
		{"dot", "a.b", "a.b", "axb"},
		{"star", "a*", "a*", "aaa"},
		{"parens", "(x)", "(x)", "x"},
		{"pipe", "a|z", "a|z", "z"},
		{"brackets", "[o]", "[o]", "o"},
		{"plus", "1+1", "1+1", "11"},
		{"dollar", "$", "$", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := BuildPattern(tc.text, Exact)
			require.NoError(t, err)
			assert.True(t, p.MatchString(tc.match))
			assert.False(t, p.MatchString(tc.noMatch))
		})
	}
}

func TestBuildPattern_NonVowelLettersUnchanged(t *testing.T) {
	p := mustPattern(t, "Ñ", Exact)
	assert.True(t, p.MatchString("ñ"))
	assert.False(t, p.MatchString("N"))
}
