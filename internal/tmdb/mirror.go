package tmdb

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

// Fixtures is the catalog a Mirror serves.
type Fixtures struct {
	Genres  GenreList      `json:"genres"`
	Popular Page           `json:"popular"`
	Catalog []MovieSummary `json:"catalog"` // searched by title substring
	Movies  map[int]Movie  `json:"movies"`
}

// LoadFixtures reads genres.json, popular.json, catalog.json and every
// movie_<id>.json from dir.
func LoadFixtures(dir string) (*Fixtures, error) {
	f := &Fixtures{Movies: make(map[int]Movie)}

	if err := readJSON(filepath.Join(dir, "genres.json"), &f.Genres); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, "popular.json"), &f.Popular); err != nil {
		return nil, err
	}
	if err := readJSON(filepath.Join(dir, "catalog.json"), &f.Catalog); err != nil {
		return nil, err
	}

	paths, err := filepath.Glob(filepath.Join(dir, "movie_*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob movies: %w", err)
	}
	for _, p := range paths {
		var m Movie
		if err := readJSON(p, &m); err != nil {
			return nil, err
		}
		f.Movies[m.ID] = m
	}
	return f, nil
}

func readJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%s invalid JSON: %w", path, err)
	}
	return nil
}

// Mirror is an offline stand-in for the TMDB endpoints the Client uses. It
// records every request path so callers can assert which endpoint was hit.
type Mirror struct {
	Fixtures *Fixtures

	mu   sync.Mutex
	hits []string
}

func NewMirror(f *Fixtures) *Mirror {
	if f.Movies == nil {
		f.Movies = make(map[int]Movie)
	}
	return &Mirror{Fixtures: f}
}

// Handler mounts the mirror routes under prefix ("" or "/3").
func (m *Mirror) Handler(prefix string) http.Handler {
	r := gin.New()
	r.Use(m.record)

	rg := r.Group(prefix)
	rg.GET("/genre/movie/list", func(c *gin.Context) {
		c.JSON(http.StatusOK, m.Fixtures.Genres)
	})
	rg.GET("/search/movie", m.search)
	rg.GET("/movie/:id", m.movie)
	return r
}

// Hits returns the request paths seen so far, in order.
func (m *Mirror) Hits() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.hits...)
}

// Count returns how many requests hit path.
func (m *Mirror) Count(path string) int {
	n := 0
	for _, h := range m.Hits() {
		if strings.HasSuffix(h, path) {
			n++
		}
	}
	return n
}

func (m *Mirror) record(c *gin.Context) {
	m.mu.Lock()
	m.hits = append(m.hits, c.Request.URL.Path)
	m.mu.Unlock()
	c.Next()
}

func (m *Mirror) search(c *gin.Context) {
	q := strings.ToLower(strings.TrimSpace(c.Query("query")))
	out := make([]MovieSummary, 0)
	for _, s := range m.Fixtures.Catalog {
		if q != "" && strings.Contains(strings.ToLower(s.Title), q) {
			out = append(out, s)
		}
	}
	c.JSON(http.StatusOK, Page{Page: 1, TotalPages: 1, TotalResults: len(out), Results: out})
}

func (m *Mirror) movie(c *gin.Context) {
	raw := c.Param("id")
	if raw == "popular" {
		c.JSON(http.StatusOK, m.Fixtures.Popular)
		return
	}
	id, err := strconv.Atoi(raw)
	mv, ok := m.Fixtures.Movies[id]
	if err != nil || !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success":        false,
			"status_code":    34,
			"status_message": "The resource you requested could not be found.",
		})
		return
	}
	c.JSON(http.StatusOK, mv)
}
