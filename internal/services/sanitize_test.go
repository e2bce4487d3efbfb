package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"  Alex  ":                  "Alex",
		"<b>bold</b>":               "bbold/b",
		" < padded > ":              "padded",
		"":                          "",
		"<<>>":                      "",
		"naïve café":                "naïve café",
		"<script>alert(1)</script>": "scriptalert(1)/script",
	}
	for in, want := range cases {
		assert.Equal(t, want, Sanitize(in), "Sanitize(%q)", in)
	}
}

func TestSanitize_CapsRunes(t *testing.T) {
	long := strings.Repeat("é", MaxFieldRunes+50)
	got := Sanitize(long)
	assert.Equal(t, MaxFieldRunes, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"  hello ",
		"<  spaced  >",
		" > x < ",
		strings.Repeat("a", MaxFieldRunes-1) + "  b",
		strings.Repeat("x", 600) + "<>",
		"<script>alert(1)</script>" + strings.Repeat("x", 600),
		"\t<\n>\t",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		assert.Equal(t, once, Sanitize(once), "not idempotent for %q", in)
		assert.NotContains(t, once, "<")
		assert.NotContains(t, once, ">")
		assert.LessOrEqual(t, utf8.RuneCountInString(once), MaxFieldRunes)
	}
}
