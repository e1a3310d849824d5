package classify

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// foldUpper folds full-width forms to their narrow equivalents and
// uppercases, so "ＣＣＴＶ" and "cctv" both compare as "CCTV".
func foldUpper(s string) string {
	return strings.ToUpper(width.Fold.String(s))
}

// CleanName folds and uppercases name and strips everything that is not
// a letter, digit, underscore or CJK ideograph.
func CleanName(name string) string {
	var b strings.Builder
	for _, r := range foldUpper(name) {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Han, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func containsAny(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		kw = foldUpper(kw)
		if kw != "" && strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
