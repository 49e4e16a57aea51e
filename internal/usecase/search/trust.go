package search

import (
	"sort"
	"strings"

	"github.com/edusolve/solvex/internal/domain"
)

// Domains known to host reliable worked solutions.
var trustedDomains = map[string]struct{}{
	"khanacademy.org":           {},
	"byjus.com":                 {},
	"vedantu.com":               {},
	"toppr.com":                 {},
	"doubtnut.com":              {},
	"cuemath.com":               {},
	"brilliant.org":             {},
	"chegg.com":                 {},
	"quora.com":                 {},
	"stackoverflow.com":         {},
	"stackexchange.com":         {},
	"math.stackexchange.com":    {},
	"physics.stackexchange.com": {},
	"wikipedia.org":             {},
	"geeksforgeeks.org":         {},
	"wolframalpha.com":          {},
}

var academicDomains = map[string]struct{}{
	"arxiv.org":          {},
	"researchgate.net":   {},
	"scholar.google.com": {},
	"jstor.org":          {},
}

var domainKeywords = []string{"math", "physics", "chem", "tutorial", "solution", "learn", "study", "education"}

// ScoreDomain assigns a trust score to a bare domain name.
func ScoreDomain(d string) int {
	if d == "" {
		return domain.TrustNone
	}
	d = strings.ToLower(d)

	if _, ok := trustedDomains[d]; ok {
		return domain.TrustListed
	}
	// Subdomains of listed sites inherit the listed score.
	for listed := range trustedDomains {
		if strings.HasSuffix(d, "."+listed) {
			return domain.TrustListed
		}
	}

	if strings.HasSuffix(d, ".edu") || strings.Contains(d, ".edu.") {
		return domain.TrustEducational
	}

	// Government TLDs and academic domains such as .ac.in or .ac.uk.
	if strings.HasSuffix(d, ".gov") || strings.Contains(d, ".gov.") || strings.Contains(d, ".ac.") {
		return domain.TrustAcademic
	}
	if _, ok := academicDomains[d]; ok {
		return domain.TrustAcademic
	}

	for _, kw := range domainKeywords {
		if strings.Contains(d, kw) {
			return domain.TrustKeyword
		}
	}
	return domain.TrustDefault
}

// Annotate fills in domain, trust score and trusted flag for each result.
func Annotate(results []domain.SearchResult) []domain.SearchResult {
	for i := range results {
		if results[i].Domain == "" {
			results[i].Domain = domain.DomainOf(results[i].URL)
		}
		results[i].TrustScore = ScoreDomain(results[i].Domain)
		results[i].IsTrusted = results[i].TrustScore > domain.TrustedThreshold
	}
	return results
}

// Dedupe drops repeated URLs, keeping the first occurrence.
func Dedupe(results []domain.SearchResult) []domain.SearchResult {
	seen := make(map[string]struct{}, len(results))
	out := results[:0]
	for _, r := range results {
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Rank orders results by trust score, highest first. The sort is stable so
// provider relevance order breaks ties.
func Rank(results []domain.SearchResult) []domain.SearchResult {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].TrustScore > results[j].TrustScore
	})
	return results
}

// TrustedCount returns how many results cleared the trust threshold.
func TrustedCount(results []domain.SearchResult) int {
	n := 0
	for _, r := range results {
		if r.IsTrusted {
			n++
		}
	}
	return n
}
