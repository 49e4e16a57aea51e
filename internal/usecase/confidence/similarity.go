package confidence

import (
	"math"
	"strings"
)

// Component value used when there is nothing to measure against.
const neutralComponent = 50.0

func termFreq(text string) map[string]float64 {
	freq := make(map[string]float64)
	for _, field := range strings.Fields(strings.ToLower(text)) {
		word := strings.Trim(field, ".,:;?!()[]{}\"'")
		if word == "" {
			continue
		}
		freq[word]++
	}
	return freq
}

func cosine(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for term, fa := range a {
		normA += fa * fa
		if fb, ok := b[term]; ok {
			dot += fa * fb
		}
	}
	for _, fb := range b {
		normB += fb * fb
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// similarity returns the term frequency cosine between two texts in [0, 1].
func similarity(a, b string) float64 {
	return cosine(termFreq(a), termFreq(b))
}
