package domain

import "sort"

// Aggregate reductions consumed by the rendering layer. All of them are
// stateless and recomputed per call; the only caching in the system is the
// loader's dataset cache.

// CountByCause counts records per detailed cause label.
func CountByCause(records []FireRecord) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Cause]++
	}
	return counts
}

// CountByCauseCategory counts records per coarse cause category. The sum of
// all counts equals len(records): every record maps to exactly one category.
func CountByCauseCategory(records []FireRecord) map[CauseCategory]int {
	counts := make(map[CauseCategory]int)
	for _, r := range records {
		counts[r.CauseCategory()]++
	}
	return counts
}

// CountByState counts records per reporting state. Records without a state
// are grouped under the empty key.
func CountByState(records []FireRecord) map[string]int {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.State]++
	}
	return counts
}

// YearTotal is one year's fire count and burned acreage.
type YearTotal struct {
	Year  int     `json:"year"`
	Fires int     `json:"fires"`
	Acres float64 `json:"acres"`
}

// YearlyTotals reduces records to per-year count and acreage totals,
// ascending by year.
func YearlyTotals(records []FireRecord) []YearTotal {
	byYear := make(map[int]*YearTotal)
	for _, r := range records {
		t, ok := byYear[r.Year]
		if !ok {
			t = &YearTotal{Year: r.Year}
			byYear[r.Year] = t
		}
		t.Fires++
		t.Acres += r.SizeAcres
	}

	totals := make([]YearTotal, 0, len(byYear))
	for _, t := range byYear {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Year < totals[j].Year })
	return totals
}

// CauseSizeMatrix builds the cause x size-category count matrix. The grand
// total over all cells equals len(records).
func CauseSizeMatrix(records []FireRecord) map[string]map[SizeCategory]int {
	matrix := make(map[string]map[SizeCategory]int)
	for _, r := range records {
		row, ok := matrix[r.Cause]
		if !ok {
			row = make(map[SizeCategory]int)
			matrix[r.Cause] = row
		}
		row[r.SizeCategory()]++
	}
	return matrix
}

// Summary holds the headline statistics shown on the dashboard overview.
type Summary struct {
	TotalFires     int     `json:"total_fires"`
	TotalAcres     float64 `json:"total_acres"`
	MeanAcres      float64 `json:"mean_acres"`
	LargestAcres   float64 `json:"largest_acres"`
	FirstYear      int     `json:"first_year"`
	LastYear       int     `json:"last_year"`
	LargeFires     int     `json:"large_fires"` // above 1000 acres
	MegaFires      int     `json:"mega_fires"`  // above 10000 acres
	TopCause       string  `json:"top_cause,omitempty"`
	TopState       string  `json:"top_state,omitempty"`
	StatesAffected int     `json:"states_affected"`
}

// Summarize computes headline statistics over a record set. An empty set
// yields the zero Summary.
func Summarize(records []FireRecord) Summary {
	var s Summary
	if len(records) == 0 {
		return s
	}

	s.TotalFires = len(records)
	s.FirstYear = records[0].Year
	s.LastYear = records[0].Year
	for _, r := range records {
		s.TotalAcres += r.SizeAcres
		if r.SizeAcres > s.LargestAcres {
			s.LargestAcres = r.SizeAcres
		}
		if r.Year < s.FirstYear {
			s.FirstYear = r.Year
		}
		if r.Year > s.LastYear {
			s.LastYear = r.Year
		}
		if r.SizeAcres > 1000 {
			s.LargeFires++
		}
		if r.SizeAcres > 10000 {
			s.MegaFires++
		}
	}
	s.MeanAcres = s.TotalAcres / float64(s.TotalFires)
	s.TopCause = topKey(CountByCause(records))

	states := CountByState(records)
	delete(states, "")
	s.StatesAffected = len(states)
	s.TopState = topKey(states)
	return s
}

// topKey returns the key with the highest count, breaking ties by the
// lexicographically smaller key so results are deterministic.
func topKey(counts map[string]int) string {
	var best string
	bestCount := -1
	for k, c := range counts {
		if c > bestCount || (c == bestCount && k < best) {
			best, bestCount = k, c
		}
	}
	if bestCount <= 0 {
		return ""
	}
	return best
}
