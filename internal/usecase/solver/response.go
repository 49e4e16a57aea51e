package solver

import "github.com/edusolve/solvex/internal/domain"

// QueryInfo describes how the question text evolved through normalization.
type QueryInfo struct {
	Original   string   `json:"original"`
	Cleaned    string   `json:"cleaned"`
	Translated string   `json:"translated,omitempty"`
	Language   string   `json:"language"`
	Keywords   []string `json:"keywords,omitempty"`
}

// SearchSection is the web search portion of the response.
type SearchSection struct {
	Total        int                   `json:"total"`
	TrustedCount int                   `json:"trusted_count"`
	Results      []domain.SearchResult `json:"results"`
	Warning      string                `json:"warning,omitempty"`
}

// Metadata records how the request was processed.
type Metadata struct {
	ProcessingSteps  []string `json:"processing_steps"`
	ImageProcessed   bool     `json:"image_processed"`
	QueriesGenerated int      `json:"queries_generated"`
	ProcessingTime   float64  `json:"processing_time"`
}

// Response is the assembled answer for one question.
type Response struct {
	Success       bool                    `json:"success"`
	Pipeline      string                  `json:"pipeline"`
	ExtractedText string                  `json:"extracted_text,omitempty"`
	Query         QueryInfo               `json:"query"`
	SearchQueries []string                `json:"search_queries"`
	SearchResults SearchSection           `json:"search_results"`
	WebContent    []domain.FetchedPage    `json:"web_content"`
	Confidence    domain.ConfidenceReport `json:"confidence"`
	YouTubeVideos []domain.VideoHit       `json:"youtube_videos"`
	Metadata      Metadata                `json:"metadata"`
}
