package genre

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviefinder/internal/tmdb"
)

type stubSource struct {
	calls atomic.Int32
	fail  atomic.Bool
	list  *tmdb.GenreList
}

func (s *stubSource) MovieGenres(ctx context.Context) (*tmdb.GenreList, error) {
	s.calls.Add(1)
	if s.fail.Load() {
		return nil, errors.New("upstream down")
	}
	return s.list, nil
}

func catalog() *tmdb.GenreList {
	return &tmdb.GenreList{Genres: []tmdb.Genre{
		{ID: 28, Name: "Action"},
		{ID: 35, Name: "Comedy"},
		{ID: 878, Name: "Science Fiction"},
	}}
}

func TestNames_ResolvesInOrderWithUnknown(t *testing.T) {
	src := &stubSource{list: catalog()}
	c := NewCache(src, nil)

	got := c.Names(context.Background(), []int{878, 1, 28, 28})
	assert.Equal(t, []string{"Science Fiction", Unknown, "Action", "Action"}, got)
}

func TestNames_LengthMatchesInput(t *testing.T) {
	c := NewCache(&stubSource{list: catalog()}, nil)

	for _, ids := range [][]int{nil, {}, {1}, {28, 35, 878, 99, 28}} {
		assert.Len(t, c.Names(context.Background(), ids), len(ids))
	}
}

func TestNames_FetchesOnce(t *testing.T) {
	src := &stubSource{list: catalog()}
	c := NewCache(src, nil)

	for i := 0; i < 5; i++ {
		c.Names(context.Background(), []int{28})
	}
	assert.Equal(t, int32(1), src.calls.Load())
	assert.True(t, c.Loaded())
}

func TestNames_FailureReturnsEmptyAndRetries(t *testing.T) {
	src := &stubSource{list: catalog()}
	src.fail.Store(true)
	c := NewCache(src, nil)

	got := c.Names(context.Background(), []int{28, 35})
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.False(t, c.Loaded())

	src.fail.Store(false)
	assert.Equal(t, []string{"Action", "Comedy"}, c.Names(context.Background(), []int{28, 35}))
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestNames_CatalogWithoutGenresStillPopulates(t *testing.T) {
	src := &stubSource{list: &tmdb.GenreList{}}
	c := NewCache(src, nil)

	assert.Equal(t, []string{Unknown}, c.Names(context.Background(), []int{28}))
	assert.Equal(t, []string{Unknown}, c.Names(context.Background(), []int{35}))
	assert.Equal(t, int32(1), src.calls.Load())
}

func TestNames_ConcurrentFirstCallsConverge(t *testing.T) {
	src := &stubSource{list: catalog()}
	c := NewCache(src, nil)

	var wg sync.WaitGroup
	results := make([][]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Names(context.Background(), []int{35, 878})
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, []string{"Comedy", "Science Fiction"}, r)
	}
	assert.GreaterOrEqual(t, src.calls.Load(), int32(1))
}
