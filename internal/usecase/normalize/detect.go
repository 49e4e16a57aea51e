package normalize

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.English,
				lingua.Hindi,
				lingua.Spanish,
				lingua.French,
				lingua.German,
				lingua.Tamil,
				lingua.Telugu,
				lingua.Bengali,
			).
			Build()
	})
	return detector
}

// DetectLanguage returns the ISO 639-1 code of the text's language, or
// "unknown" when the text is too short or ambiguous to classify.
func DetectLanguage(text string) string {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < 3 {
		return "unknown"
	}
	lang, ok := languageDetector().DetectLanguageOf(trimmed)
	if !ok {
		return "unknown"
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
