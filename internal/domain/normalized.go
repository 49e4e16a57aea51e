package domain

// NormalizedQuery is the cleaned, translated form of the input question
// plus the ranked search-query variants derived from it.
type NormalizedQuery struct {
	Cleaned           string   `json:"cleaned"`
	Translated        string   `json:"translated,omitempty"`
	TranslationNeeded bool     `json:"translation_needed"`
	SourceLanguage    string   `json:"source_language"`
	SearchQueries     []string `json:"search_queries"` // most specific first, empty only for empty input
	Keywords          []string `json:"keywords,omitempty"`
}

// QueryText returns the text downstream stages should search with:
// the translation when one was made, the cleaned text otherwise.
func (n NormalizedQuery) QueryText() string {
	if n.TranslationNeeded && n.Translated != "" {
		return n.Translated
	}
	return n.Cleaned
}

// PrimaryQuery returns the first search query variant, falling back to the
// query text when generation produced nothing.
func (n NormalizedQuery) PrimaryQuery() string {
	if len(n.SearchQueries) > 0 {
		return n.SearchQueries[0]
	}
	return n.QueryText()
}
