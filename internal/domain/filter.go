package domain

import (
	"math/rand"
	"sort"
)

// Sample size bounds for one filtered view. Values outside the range are
// clamped, not rejected.
const (
	MinSampleSize     = 100
	MaxSampleSize     = 10000
	DefaultSampleSize = 5000
)

// DefaultSampleSeed makes sampling reproducible out of the box: applying the
// same spec to the same dataset yields the same view. Callers wanting a
// fresh sample per interaction supply their own seed.
const DefaultSampleSeed = 42

// YearFilter selects either one exact reporting year or all years.
// The zero value matches nothing useful; use AnyYear or ExactYear.
type YearFilter struct {
	year int
	all  bool
}

// AnyYear matches every reporting year.
func AnyYear() YearFilter { return YearFilter{all: true} }

// ExactYear matches only the given reporting year.
func ExactYear(year int) YearFilter { return YearFilter{year: year} }

// Matches reports whether a record's year passes the filter.
func (f YearFilter) Matches(year int) bool { return f.all || f.year == year }

// IsAny reports whether the filter matches all years.
func (f YearFilter) IsAny() bool { return f.all }

// Year returns the exact year and true, or 0 and false for an any-filter.
func (f YearFilter) Year() (int, bool) {
	if f.all {
		return 0, false
	}
	return f.year, true
}

// SizeFilter selects either one exact size category or all of them.
type SizeFilter struct {
	category SizeCategory
	all      bool
}

// AnySize matches every size category.
func AnySize() SizeFilter { return SizeFilter{all: true} }

// ExactSize matches only the given size category. An unknown category is a
// legal filter that matches no records.
func ExactSize(c SizeCategory) SizeFilter { return SizeFilter{category: c} }

// Matches reports whether a record's size category passes the filter.
func (f SizeFilter) Matches(c SizeCategory) bool { return f.all || f.category == c }

// IsAny reports whether the filter matches all categories.
func (f SizeFilter) IsAny() bool { return f.all }

// Category returns the exact category and true, or "" and false for an
// any-filter.
func (f SizeFilter) Category() (SizeCategory, bool) {
	if f.all {
		return "", false
	}
	return f.category, true
}

// FilterSpec captures one interaction's filter constraints. It is an
// ephemeral value object: build one per request, apply it, discard it.
type FilterSpec struct {
	Year       YearFilter
	Size       SizeFilter
	SampleSize int
	Seed       int64
}

// NewFilterSpec returns the default spec: all years, all sizes, the default
// sample size, and the fixed default seed.
func NewFilterSpec() FilterSpec {
	return FilterSpec{
		Year:       AnyYear(),
		Size:       AnySize(),
		SampleSize: DefaultSampleSize,
		Seed:       DefaultSampleSeed,
	}
}

// FilteredView is the derived, read-only subset of a dataset matching a
// FilterSpec, down-sampled to at most the spec's sample size.
type FilteredView struct {
	// Records holds the selected records in dataset order.
	Records []FireRecord
	// Matched counts records passing the filters before sampling.
	Matched int
	// Sampled is true when Matched exceeded the sample size and a random
	// subset was drawn.
	Sampled bool
	// Clamped is true when the requested sample size was outside
	// [MinSampleSize, MaxSampleSize] and was adjusted.
	Clamped bool
	// SampleSize is the effective (clamped) sample size.
	SampleSize int
}

// Apply filters and samples a dataset. It is a pure function of its inputs:
// no hidden state, deterministic for a fixed spec (including seed). An
// empty or nil dataset yields an empty view, not an error.
func Apply(ds *Dataset, spec FilterSpec) FilteredView {
	size, clamped := clampSampleSize(spec.SampleSize)
	view := FilteredView{Clamped: clamped, SampleSize: size}

	var matched []FireRecord
	for _, r := range ds.Records() {
		if !spec.Year.Matches(r.Year) {
			continue
		}
		if !spec.Size.Matches(r.SizeCategory()) {
			continue
		}
		matched = append(matched, r)
	}
	view.Matched = len(matched)

	if len(matched) <= size {
		view.Records = matched
		return view
	}

	view.Sampled = true
	view.Records = sampleWithoutReplacement(matched, size, spec.Seed)
	return view
}

func clampSampleSize(n int) (int, bool) {
	switch {
	case n < MinSampleSize:
		return MinSampleSize, true
	case n > MaxSampleSize:
		return MaxSampleSize, true
	default:
		return n, false
	}
}

// sampleWithoutReplacement draws a uniform random subset of exactly n
// records via a partial Fisher-Yates shuffle over indices, then restores
// dataset order so views stay stable for rendering.
func sampleWithoutReplacement(records []FireRecord, n int, seed int64) []FireRecord {
	rng := rand.New(rand.NewSource(seed))

	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	picked := idx[:n]
	sort.Ints(picked)

	out := make([]FireRecord, n)
	for i, j := range picked {
		out[i] = records[j]
	}
	return out
}
