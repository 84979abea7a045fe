package youtube

// Response shapes of the search endpoint. Only the fields the adapter reads
// are declared.

type searchResponse struct {
	Items []searchItem `json:"items"`
	Error *apiError    `json:"error,omitempty"`
}

type searchItem struct {
	ID      searchID      `json:"id"`
	Snippet searchSnippet `json:"snippet"`
}

type searchID struct {
	Kind    string `json:"kind"`
	VideoID string `json:"videoId"`
}

type searchSnippet struct {
	PublishedAt string     `json:"publishedAt"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Thumbnails  thumbnails `json:"thumbnails"`
}

type thumbnails struct {
	Default *thumbnail `json:"default,omitempty"`
	Medium  *thumbnail `json:"medium,omitempty"`
	High    *thumbnail `json:"high,omitempty"`
}

type thumbnail struct {
	URL string `json:"url"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// best returns the high thumbnail, falling back to medium then default.
func (t thumbnails) best() string {
	for _, th := range []*thumbnail{t.High, t.Medium, t.Default} {
		if th != nil && th.URL != "" {
			return th.URL
		}
	}
	return ""
}
