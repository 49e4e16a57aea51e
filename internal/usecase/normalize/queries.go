package normalize

import "strings"

const maxKeywords = 10

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"of": {}, "in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "and": {},
	"or": {}, "if": {}, "it": {}, "its": {}, "this": {}, "that": {}, "with": {},
	"what": {}, "which": {}, "find": {}, "following": {}, "given": {}, "then": {},
}

// GenerateSearchQueries builds query variants for the question text, most
// specific first. The verbatim text always leads so downstream consumers can
// treat index zero as the primary query.
func GenerateSearchQueries(text string, maxQueries int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if maxQueries <= 0 {
		maxQueries = 1
	}

	variants := []string{text, text + " solution"}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "jee") || strings.Contains(lower, "neet") {
		variants = append(variants, text+" JEE solution step by step")
	} else {
		variants = append(variants, text+" solved example explanation")
	}

	if len(variants) > maxQueries {
		variants = variants[:maxQueries]
	}
	return variants
}

// ExtractKeywords returns the significant terms of the text, stop words
// removed, capped at ten in order of first appearance.
func ExtractKeywords(text string) []string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, field := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(field, ".,:;?!()[]{}\"'")
		if len(word) < 3 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}
