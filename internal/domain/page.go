package domain

// FetchedPage is the extracted readable content of one URL. The content
// fetcher produces exactly one FetchedPage per requested URL, failed
// fetches included.
type FetchedPage struct {
	URL     string `json:"url"`
	Success bool   `json:"success"`
	Title   string `json:"title"`
	Content string `json:"content"` // truncated plain text
	Length  int    `json:"length"`
	Error   string `json:"error,omitempty"`
}

// FailedPage builds the per-URL failure entry.
func FailedPage(url, errMsg string) FetchedPage {
	return FetchedPage{URL: url, Success: false, Error: errMsg}
}
