package crawl_test

import (
	"testing"

	"github.com/fwojciec/harvest/crawl"
	"github.com/stretchr/testify/assert"
)

func TestVisitedSet_Add_rejects_duplicates(t *testing.T) {
	t.Parallel()

	s := crawl.NewVisitedSet()

	assert.True(t, s.Add("https://example.com/a", crawl.VisitDispatched))
	assert.False(t, s.Add("https://example.com/a", crawl.VisitDispatched))
	assert.False(t, s.Add("https://example.com/a", crawl.VisitDisallowed))

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.Dispatched())
}

func TestVisitedSet_Contains(t *testing.T) {
	t.Parallel()

	s := crawl.NewVisitedSet()
	assert.False(t, s.Contains("https://example.com/a"))

	s.Add("https://example.com/a", crawl.VisitDispatched)

	assert.True(t, s.Contains("https://example.com/a"))
	assert.False(t, s.Contains("https://example.com/b"))
}

func TestVisitedSet_Dispatched_excludes_disallowed(t *testing.T) {
	t.Parallel()

	s := crawl.NewVisitedSet()
	s.Add("https://example.com/a", crawl.VisitDispatched)
	s.Add("https://example.com/private", crawl.VisitDisallowed)
	s.Add("https://example.com/b", crawl.VisitDispatched)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, s.Dispatched())
}

func TestVisitedSet_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("updates the state of a dispatched URL", func(t *testing.T) {
		t.Parallel()

		s := crawl.NewVisitedSet()
		s.Add("https://example.com/a", crawl.VisitDispatched)
		s.Resolve("https://example.com/a", crawl.VisitFailed)

		state, ok := s.State("https://example.com/a")
		assert.True(t, ok)
		assert.Equal(t, crawl.VisitFailed, state)
		assert.Equal(t, 1, s.Dispatched())
	})

	t.Run("ignores unknown URLs", func(t *testing.T) {
		t.Parallel()

		s := crawl.NewVisitedSet()
		s.Resolve("https://example.com/a", crawl.VisitFetched)

		assert.False(t, s.Contains("https://example.com/a"))
		assert.Equal(t, 0, s.Len())
	})
}

func TestVisitState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dispatched", crawl.VisitDispatched.String())
	assert.Equal(t, "fetched", crawl.VisitFetched.String())
	assert.Equal(t, "failed", crawl.VisitFailed.String())
	assert.Equal(t, "disallowed", crawl.VisitDisallowed.String())
	assert.Equal(t, "unknown", crawl.VisitState(0).String())
}
