package services

import (
	"strings"
	"unicode/utf8"
)

// MaxFieldRunes caps every user-supplied text field.
const MaxFieldRunes = 500

var angleStripper = strings.NewReplacer("<", "", ">", "")

// Sanitize trims s, removes angle brackets and caps it at MaxFieldRunes.
// Trimming runs again after each step, so Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	s = strings.TrimSpace(angleStripper.Replace(strings.TrimSpace(s)))
	if utf8.RuneCountInString(s) > MaxFieldRunes {
		s = strings.TrimSpace(string([]rune(s)[:MaxFieldRunes]))
	}
	return s
}
