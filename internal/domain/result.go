package domain

import (
	"net/url"
	"strings"
)

// Trust score constants. Empirical values carried over unchanged; tests
// depend on exact reproducibility, so do not re-derive them.
const (
	TrustListed      = 90 // domain appears in the curated trusted list
	TrustEducational = 80 // .edu institution domains
	TrustAcademic    = 75 // government and academic TLDs, research archives
	TrustKeyword     = 60 // domain contains a learning-related keyword
	TrustDefault     = 40
	TrustNone        = 0 // empty or unparseable domain

	// TrustedThreshold: results scoring strictly above it are trusted.
	TrustedThreshold = 50
)

// SearchResult is one ranked entry from a web search, owned exclusively by
// a single query execution. URL is the unique key after deduplication.
type SearchResult struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Snippet    string `json:"snippet"`
	Domain     string `json:"domain"`
	TrustScore int    `json:"trust_score"`
	IsTrusted  bool   `json:"is_trusted"`
}

// DomainOf extracts the registrable host from a URL, dropping the www
// prefix. Returns "" for unparseable input.
func DomainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}
