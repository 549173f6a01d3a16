package tmdb

// MovieSummary is one entry of a search or popular-list page. Fields the
// upstream omits stay at their zero value; nullable ones are pointers.
type MovieSummary struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	VoteAverage float64 `json:"vote_average"`
	PosterPath  *string `json:"poster_path"`
	GenreIDs    []int   `json:"genre_ids"`
}

// Page is the envelope of /search/movie and /movie/popular.
type Page struct {
	Page         int            `json:"page"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
	Results      []MovieSummary `json:"results"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie is the /movie/{id} payload.
type Movie struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	Overview    string  `json:"overview"`
	Runtime     int     `json:"runtime"`
	VoteAverage float64 `json:"vote_average"`
	PosterPath  *string `json:"poster_path"`
	Genres      []Genre `json:"genres"`
}

// GenreList is the /genre/movie/list payload. Genres is nil when the
// upstream answered with something other than a catalog.
type GenreList struct {
	Genres []Genre `json:"genres"`
}
