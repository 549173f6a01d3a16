package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// DefaultBaseURL is the public TMDB v3 API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// Client talks to the TMDB v3 REST API. Every call is a single GET carrying
// api_key and language. Responses are decoded regardless of HTTP status, so
// an upstream error body decodes into mostly-zero values.
type Client struct {
	HTTP     *http.Client
	BaseURL  string
	APIKey   string
	Language string
	Logger   hclog.Logger
}

// NewClient builds a Client. A zero timeout leaves the transport default in
// place.
func NewClient(baseURL, apiKey, language string, timeout time.Duration, logger hclog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if language == "" {
		language = "en-US"
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Client{
		HTTP:     &http.Client{Timeout: timeout},
		BaseURL:  strings.TrimRight(baseURL, "/"),
		APIKey:   apiKey,
		Language: language,
		Logger:   logger,
	}
}

// SearchMovies fetches the first page of /search/movie with adult titles
// excluded.
func (c *Client) SearchMovies(ctx context.Context, query string) (*Page, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("page", "1")
	q.Set("include_adult", "false")

	var page Page
	if err := c.get(ctx, "/search/movie", q, &page); err != nil {
		return nil, fmt.Errorf("tmdb: search %q: %w", query, err)
	}
	return &page, nil
}

// PopularMovies fetches the first page of /movie/popular.
func (c *Client) PopularMovies(ctx context.Context) (*Page, error) {
	q := url.Values{}
	q.Set("page", "1")

	var page Page
	if err := c.get(ctx, "/movie/popular", q, &page); err != nil {
		return nil, fmt.Errorf("tmdb: popular: %w", err)
	}
	return &page, nil
}

// MovieDetails fetches /movie/{id}. The id is formatted the way it arrived,
// so a fractional id reaches the upstream unchanged.
func (c *Client) MovieDetails(ctx context.Context, id float64) (*Movie, error) {
	path := "/movie/" + formatID(id)

	var m Movie
	if err := c.get(ctx, path, nil, &m); err != nil {
		return nil, fmt.Errorf("tmdb: movie %s: %w", path, err)
	}
	return &m, nil
}

func formatID(id float64) string {
	switch {
	case math.IsInf(id, 1):
		return "Infinity"
	case math.IsInf(id, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(id, 'f', -1, 64)
}

// MovieGenres fetches the full movie genre catalog.
func (c *Client) MovieGenres(ctx context.Context) (*GenreList, error) {
	var list GenreList
	if err := c.get(ctx, "/genre/movie/list", nil, &list); err != nil {
		return nil, fmt.Errorf("tmdb: genres: %w", err)
	}
	return &list, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u, err := url.Parse(c.BaseURL + path)
	if err != nil {
		return fmt.Errorf("build url: %w", err)
	}
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", c.APIKey)
	q.Set("language", c.Language)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	// Not enforced: error bodies still decode, into zero values.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.Logger.Warn("upstream returned non-2xx", "path", path, "status", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
