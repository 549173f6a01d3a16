package movie

import (
	"moviefinder/internal/tmdb"
	"moviefinder/pkg/models"
)

const (
	NoYear     = "N/A"
	NoOverview = "No overview"
)

// Year returns the first four characters of a release date, or NoYear when
// the date is empty. The date is not validated.
func Year(releaseDate string) string {
	if releaseDate == "" {
		return NoYear
	}
	r := []rune(releaseDate)
	if len(r) > 4 {
		r = r[:4]
	}
	return string(r)
}

func overview(s string) string {
	if s == "" {
		return NoOverview
	}
	return s
}

// FromSummary shapes a search or popular-list entry. genres are the names
// already resolved for s.GenreIDs; nil becomes an empty list.
func FromSummary(s tmdb.MovieSummary, genres []string) models.Movie {
	if genres == nil {
		genres = []string{}
	}
	return models.Movie{
		ID:         s.ID,
		Title:      s.Title,
		Year:       Year(s.ReleaseDate),
		Overview:   overview(s.Overview),
		Score:      s.VoteAverage,
		PosterPath: s.PosterPath,
		Genres:     genres,
	}
}

// FromDetails shapes a /movie/{id} payload. Genre names come from the
// embedded genre objects; a zero runtime is reported as null.
func FromDetails(m tmdb.Movie) models.MovieDetails {
	genres := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		genres = append(genres, g.Name)
	}

	var runtime *int
	if m.Runtime != 0 {
		rt := m.Runtime
		runtime = &rt
	}

	return models.MovieDetails{
		ID:         m.ID,
		Title:      m.Title,
		Year:       Year(m.ReleaseDate),
		Overview:   overview(m.Overview),
		Runtime:    runtime,
		Genres:     genres,
		Score:      m.VoteAverage,
		PosterPath: m.PosterPath,
	}
}
