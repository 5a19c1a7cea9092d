// Package bloom provides a probabilistic membership pre-filter for URL keys.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter answers "definitely not seen" cheaply for URL keys.
// A positive answer may be a false positive and must be confirmed
// against an exact set.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a Filter sized for n expected keys
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add records a key.
func (f *Filter) Add(key string) {
	f.f.AddString(key)
}

// MayContain reports whether key might have been added.
// False positives are possible; false negatives are not.
func (f *Filter) MayContain(key string) bool {
	return f.f.TestString(key)
}

