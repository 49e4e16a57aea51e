package normalize

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Keep letters, digits, whitespace and the symbols that show up in
	// math problems. Everything else is OCR noise.
	allowedRe  = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_\s+\-*/=()\[\]{}?.,:;°√∫∑∏]`)
	operatorRe = regexp.MustCompile(`\s*([+\-*/=])\s*`)
)

var notationReplacer = strings.NewReplacer(
	"×", "*",
	"÷", "/",
	"−", "-",
	"–", "-",
	"—", "-",
	"“", "\"",
	"”", "\"",
	"’", "'",
	"‘", "'",
)

// CleanText collapses whitespace, strips characters that cannot appear in
// a well-formed question and normalizes spacing around binary operators.
func CleanText(text string) string {
	s := notationReplacer.Replace(text)
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = allowedRe.ReplaceAllString(s, "")
	s = operatorRe.ReplaceAllString(s, " $1 ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
