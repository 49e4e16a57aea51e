package ocr

// Script classification thresholds: above the high ratio the text is
// treated as Hindi, above the low ratio as mixed, otherwise English.
const (
	foreignScriptRatio = 0.5
	mixedScriptRatio   = 0.1
)

// DetectScript classifies extracted text by counting characters in the
// Devanagari range against ASCII letters. Cheap heuristic; the statistical
// detector in the normalizer refines this for text inputs.
func DetectScript(text string) string {
	if text == "" {
		return "unknown"
	}

	var devanagari, latin int
	for _, r := range text {
		switch {
		case r >= 0x0900 && r <= 0x097F:
			devanagari++
		case r < 128 && isASCIILetter(r):
			latin++
		}
	}

	total := devanagari + latin
	if total == 0 {
		return "unknown"
	}

	ratio := float64(devanagari) / float64(total)
	switch {
	case ratio > foreignScriptRatio:
		return "hindi"
	case ratio > mixedScriptRatio:
		return "mixed"
	default:
		return "english"
	}
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
