package tools

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/hashicorp/go-hclog"

	"moviefinder/internal/movie"
	"moviefinder/internal/tmdb"
	"moviefinder/pkg/models"
)

const (
	ToolSearchMovies = "search_movies"
	ToolMovieDetails = "movie_details"

	defaultLimit = 5
)

// MovieSource is the upstream movie database.
type MovieSource interface {
	SearchMovies(ctx context.Context, query string) (*tmdb.Page, error)
	PopularMovies(ctx context.Context) (*tmdb.Page, error)
	MovieDetails(ctx context.Context, id float64) (*tmdb.Movie, error)
}

// GenreNamer resolves genre ids to names.
type GenreNamer interface {
	Names(ctx context.Context, ids []int) []string
}

// Notifier is a best-effort push channel.
type Notifier interface {
	Notify(clientID string, event any) bool
}

// Response bodies.
type (
	AckResponse struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}

	SearchResponse struct {
		Status  string         `json:"status"`
		Tool    string         `json:"tool"`
		Results []models.Movie `json:"results"`
		Message string         `json:"message,omitempty"`
	}

	DetailsResponse struct {
		Status  string              `json:"status"`
		Tool    string              `json:"tool"`
		Details models.MovieDetails `json:"details"`
	}

	ErrorResponse struct {
		Error   string `json:"error"`
		Tool    string `json:"tool,omitempty"`
		Details string `json:"details,omitempty"`
	}
)

// Result is what a dispatch produced: an HTTP-style status and a JSON body.
type Result struct {
	Status int
	Body   any
}

// ServerError is the body used when a dispatch fails.
func ServerError(err any) Result {
	return Result{
		Status: http.StatusInternalServerError,
		Body:   ErrorResponse{Error: "server error", Details: fmt.Sprint(err)},
	}
}

// Dispatcher routes tool calls. The genre cache and push registry are shared
// process-wide and passed in by the caller.
type Dispatcher struct {
	Movies MovieSource
	Genres GenreNamer
	Push   Notifier
	Logger hclog.Logger
}

func NewDispatcher(movies MovieSource, genres GenreNamer, push Notifier, logger hclog.Logger) *Dispatcher {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Dispatcher{Movies: movies, Genres: genres, Push: push, Logger: logger}
}

// Dispatch runs one call. Validation and routing outcomes are returned as a
// Result; upstream failures are returned as errors for the caller to turn
// into a server error.
func (d *Dispatcher) Dispatch(ctx context.Context, call Call) (Result, error) {
	switch call.Tool {
	case "":
		return Result{http.StatusOK, AckResponse{Status: "ok", Message: "no tool call detected"}}, nil
	case ToolSearchMovies:
		return d.searchMovies(ctx, call)
	case ToolMovieDetails:
		return d.movieDetails(ctx, call)
	default:
		return Result{http.StatusBadRequest, ErrorResponse{Error: "unknown tool", Tool: call.Tool}}, nil
	}
}

func (d *Dispatcher) searchMovies(ctx context.Context, call Call) (Result, error) {
	query := strings.TrimSpace(textArg(call.Input["query"]))
	limit := limitArg(call.Input["limit"])

	var (
		page    *tmdb.Page
		message string
		err     error
	)
	if query == "" {
		page, err = d.Movies.PopularMovies(ctx)
		message = "Popular movies"
	} else {
		d.notify(call.ClientID, models.StatusEvent{Type: models.EventTypeStatus, Status: "searching", Query: query})
		page, err = d.Movies.SearchMovies(ctx, query)
	}
	if err != nil {
		return Result{}, err
	}

	entries := truncate(page.Results, limit)
	results := make([]models.Movie, 0, len(entries))
	for _, e := range entries {
		var genres []string
		if e.GenreIDs != nil {
			genres = d.Genres.Names(ctx, e.GenreIDs)
		}
		results = append(results, movie.FromSummary(e, genres))
	}

	d.Logger.Debug("search_movies", "query", query, "limit", limit, "results", len(results))
	d.notify(call.ClientID, models.SearchResultEvent{Type: models.EventTypeToolResult, Tool: ToolSearchMovies, Results: results})

	return Result{http.StatusOK, SearchResponse{
		Status:  "ok",
		Tool:    ToolSearchMovies,
		Results: results,
		Message: message,
	}}, nil
}

func (d *Dispatcher) movieDetails(ctx context.Context, call Call) (Result, error) {
	id, ok := numberArg(call.Input["id"])
	if !ok || id == 0 {
		return Result{http.StatusBadRequest, ErrorResponse{Error: "missing id"}}, nil
	}

	m, err := d.Movies.MovieDetails(ctx, id)
	if err != nil {
		return Result{}, err
	}
	details := movie.FromDetails(*m)

	d.notify(call.ClientID, models.DetailsResultEvent{Type: models.EventTypeToolResult, Tool: ToolMovieDetails, Details: details})

	return Result{http.StatusOK, DetailsResponse{Status: "ok", Tool: ToolMovieDetails, Details: details}}, nil
}

func (d *Dispatcher) notify(clientID string, event any) {
	if d.Push == nil {
		return
	}
	_ = d.Push.Notify(clientID, event)
}

// limitArg applies the default of 5 to a missing or zero limit and otherwise
// only coerces to a number; the advertised 1-10 range is not enforced.
func limitArg(v any) float64 {
	switch t := v.(type) {
	case nil:
		return defaultLimit
	case bool:
		if !t {
			return defaultLimit
		}
	case string:
		if t == "" {
			return defaultLimit
		}
	case float64:
		if t == 0 {
			return defaultLimit
		}
	}
	n, ok := numberArg(v)
	if !ok {
		return 0
	}
	return n
}

// truncate keeps the first limit entries in upstream order. A fractional
// limit rounds toward zero and a negative one counts back from the end.
func truncate(in []tmdb.MovieSummary, limit float64) []tmdb.MovieSummary {
	n := float64(len(in))
	t := math.Trunc(limit)
	end := t
	if t < 0 {
		end = math.Max(n+t, 0)
	}
	return in[:int(math.Min(end, n))]
}
