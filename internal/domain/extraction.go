package domain

// ExtractionResult is the outcome of OCR on an image.
// Confidence is always present: degraded extractions carry a conservative
// estimate, total failures carry zero.
type ExtractionResult struct {
	Success    bool    `json:"success"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"` // 0-100, normalized across backends
	Language   string  `json:"language"`
	Method     string  `json:"method"` // backend that produced the text
	Error      string  `json:"error,omitempty"`
}

// FailedExtraction builds the structured total-failure result.
func FailedExtraction(errMsg string) ExtractionResult {
	return ExtractionResult{
		Success:    false,
		Text:       "",
		Confidence: 0,
		Language:   "unknown",
		Error:      errMsg,
	}
}
