package crawl

import (
	"fmt"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// textHash fingerprints the extracted text of a page.
func textHash(text string) uint64 {
	return xxhash.Sum64String(text)
}

// ContentHash returns the fingerprint of a page's extracted text as 16
// lowercase hex digits. Pages with equal text have equal hashes.
func ContentHash(text string) string {
	return fmt.Sprintf("%016x", textHash(text))
}

// ellipsis marks the dropped head of a shortened URL.
const ellipsis = "..."

// TruncateURL shortens url to at most width characters for a progress
// line. The tail is kept since it names the page; the dropped head is
// replaced by "...". Width counts runes, so non-ASCII paths are never cut
// inside a character.
func TruncateURL(url string, width int) string {
	n := utf8.RuneCountInString(url)
	if n <= width {
		return url
	}
	if width <= len(ellipsis) {
		return ellipsis[:max(width, 0)]
	}

	skip := n - (width - len(ellipsis))
	for i := range url {
		if skip == 0 {
			return ellipsis + url[i:]
		}
		skip--
	}
	return ellipsis
}

// FormatBytes renders a byte count for the crawl summary.
func FormatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	value := float64(n)
	suffixes := []string{"KB", "MB", "GB"}
	for i, suffix := range suffixes {
		value /= unit
		if value < unit || i == len(suffixes)-1 {
			return fmt.Sprintf("%.1f %s", value, suffix)
		}
	}
	return fmt.Sprintf("%d B", n)
}
