package models

// Movie is the compact shape returned for search and popular-list results.
type Movie struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Year       string   `json:"year"` // 4-digit prefix of release_date or "N/A"
	Overview   string   `json:"overview"`
	Score      float64  `json:"score"`
	PosterPath *string  `json:"poster_path"`
	Genres     []string `json:"genres"`
}

// MovieDetails is the shape returned by the movie_details tool.
type MovieDetails struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Year       string   `json:"year"`
	Overview   string   `json:"overview"`
	Runtime    *int     `json:"runtime"`
	Genres     []string `json:"genres"`
	Score      float64  `json:"score"`
	PosterPath *string  `json:"poster_path"`
}
