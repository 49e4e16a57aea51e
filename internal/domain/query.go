package domain

// MaxResultsCeiling bounds caller-supplied max_results for latency.
// A single ceiling is used at every call site.
const MaxResultsCeiling = 5

// InputKind discriminates the two accepted input shapes.
type InputKind string

const (
	// KindImage is an uploaded image that requires OCR.
	KindImage InputKind = "image"
	// KindText is a direct text question that skips OCR.
	KindText InputKind = "text"
)

// Query is the user's input, scoped to a single request.
// Exactly one of Text or ImagePath is meaningful, selected by Kind.
type Query struct {
	Kind       InputKind
	Text       string
	ImagePath  string
	MaxResults int
}

// NewTextQuery builds a text query with the result count clamped.
func NewTextQuery(text string, maxResults int) Query {
	return Query{Kind: KindText, Text: text, MaxResults: clampMaxResults(maxResults)}
}

// NewImageQuery builds an image query with the result count clamped.
func NewImageQuery(imagePath string, maxResults int) Query {
	return Query{Kind: KindImage, ImagePath: imagePath, MaxResults: clampMaxResults(maxResults)}
}

func clampMaxResults(n int) int {
	if n <= 0 {
		return MaxResultsCeiling
	}
	if n > MaxResultsCeiling {
		return MaxResultsCeiling
	}
	return n
}
