// Package bloom provides the crawler's visited set using Bloom filters.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter is a probabilistic set of normalized URL keys. A false positive
// makes the crawler skip a URL; a false negative never happens.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected keys
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a key to the filter.
func (f *Filter) Add(key string) {
	f.f.AddString(key)
}

// Test returns true if the key might be in the filter.
func (f *Filter) Test(key string) bool {
	return f.f.TestString(key)
}

// TestAndAdd adds key and reports whether it might have been present
// before.
func (f *Filter) TestAndAdd(key string) bool {
	return f.f.TestAndAddString(key)
}

// EstimatedCount returns the approximate number of keys in the filter.
func (f *Filter) EstimatedCount() uint {
	return uint(f.f.ApproximatedSize())
}
