package domain

// VideoHit is one supplementary explanation clip from the video platform.
// Read-only passthrough in the final response.
type VideoHit struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	ChannelTitle string `json:"channel_title"`
	PublishedAt  string `json:"published_at,omitempty"`
	URL          string `json:"url"`
	EmbedURL     string `json:"embed_url,omitempty"`
}
