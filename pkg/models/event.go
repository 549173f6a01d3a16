package models

const (
	EventTypeStatus     = "status"
	EventTypeToolResult = "tool_result"
)

// StatusEvent is pushed before a search is sent upstream.
type StatusEvent struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Query  string `json:"query"`
}

// SearchResultEvent mirrors a search_movies response onto the push channel.
type SearchResultEvent struct {
	Type    string  `json:"type"`
	Tool    string  `json:"tool"`
	Results []Movie `json:"results"`
}

// DetailsResultEvent mirrors a movie_details response onto the push channel.
type DetailsResultEvent struct {
	Type    string       `json:"type"`
	Tool    string       `json:"tool"`
	Details MovieDetails `json:"details"`
}
