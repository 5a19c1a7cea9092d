package harvest_test

import (
	"regexp"
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/stretchr/testify/assert"
)

func TestURLFilter_Match(t *testing.T) {
	t.Parallel()

	t.Run("nil filter matches everything", func(t *testing.T) {
		t.Parallel()

		var f *harvest.URLFilter
		assert.True(t, f.Match("https://example.com/anything"))
	})

	t.Run("requires an include match", func(t *testing.T) {
		t.Parallel()

		f := &harvest.URLFilter{Include: []*regexp.Regexp{regexp.MustCompile(`^https://example\.com/docs/`)}}

		assert.True(t, f.Match("https://example.com/docs/intro"))
		assert.False(t, f.Match("https://example.com/blog/post"))
	})

	t.Run("applies exclude after include", func(t *testing.T) {
		t.Parallel()

		f := &harvest.URLFilter{
			Include: []*regexp.Regexp{regexp.MustCompile(`/docs/`)},
			Exclude: []*regexp.Regexp{regexp.MustCompile(`/docs/old/`)},
		}

		assert.True(t, f.Match("https://example.com/docs/new/page"))
		assert.False(t, f.Match("https://example.com/docs/old/page"))
	})
}
