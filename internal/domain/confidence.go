package domain

// ConfidenceComponents is the per-factor breakdown of a confidence score.
type ConfidenceComponents struct {
	OCRConfidence float64 `json:"ocr_confidence"` // 0-100
	MatchQuality  float64 `json:"match_quality"`  // 0-100
	DomainTrust   float64 `json:"domain_trust"`   // 0-100
}

// ConfidenceReport is the composite answer-confidence estimate, computed
// once per request and never mutated afterward.
type ConfidenceReport struct {
	Overall     float64              `json:"overall_confidence"` // 0-100
	Components  ConfidenceComponents `json:"components"`
	Grade       string               `json:"grade"`
	Reliability string               `json:"reliability"`
}

// NeutralReport is the fixed fallback used when scoring fails internally.
func NeutralReport() ConfidenceReport {
	return ConfidenceReport{
		Overall:     50,
		Grade:       "C",
		Reliability: "medium",
	}
}

// GradeFor maps a 0-100 confidence score to a letter grade.
func GradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

// ReliabilityFor maps a 0-100 confidence score to a reliability label.
func ReliabilityFor(score float64) string {
	switch {
	case score >= 80:
		return "very_high"
	case score >= 70:
		return "high"
	case score >= 60:
		return "medium"
	case score >= 40:
		return "low"
	default:
		return "very_low"
	}
}
