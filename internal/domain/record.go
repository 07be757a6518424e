package domain

import "time"

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinates are inside WGS-84 bounds. The
// (0, 0) null-island point is accepted; upstream exports never emit it for
// US wildfire data, and rejecting it here would silently shrink datasets
// that legitimately contain it.
func (g Geo) Valid() bool {
	return g.Lat >= -90 && g.Lat <= 90 && g.Lon >= -180 && g.Lon <= 180
}

// CauseCategory is the coarse grouping of detailed cause labels.
type CauseCategory string

const (
	CauseNatural CauseCategory = "Natural"
	CauseHuman   CauseCategory = "Human"
	CauseUnknown CauseCategory = "Unknown"
)

// CauseCategories lists all coarse categories in display order.
var CauseCategories = []CauseCategory{CauseNatural, CauseHuman, CauseUnknown}

var causeCategoryByLabel = map[string]CauseCategory{
	"Lightning":      CauseNatural,
	"Equipment Use":  CauseHuman,
	"Smoking":        CauseHuman,
	"Campfire":       CauseHuman,
	"Debris Burning": CauseHuman,
	"Railroad":       CauseHuman,
	"Arson":          CauseHuman,
	"Children":       CauseHuman,
	"Fireworks":      CauseHuman,
	"Powerline":      CauseHuman,
}

// CategorizeCause maps a detailed cause label to its coarse category.
// Unmapped labels (including "Miscellaneous" and the empty string) are
// Unknown, so every record lands in exactly one category.
func CategorizeCause(cause string) CauseCategory {
	if c, ok := causeCategoryByLabel[cause]; ok {
		return c
	}
	return CauseUnknown
}

// SizeCategory buckets burned acreage for display and filtering.
type SizeCategory string

const (
	SizeSmall     SizeCategory = "Small"
	SizeMedium    SizeCategory = "Medium"
	SizeLarge     SizeCategory = "Large"
	SizeVeryLarge SizeCategory = "Very Large"
	SizeMega      SizeCategory = "Mega"
)

// SizeCategories lists all size buckets in ascending order.
var SizeCategories = []SizeCategory{SizeSmall, SizeMedium, SizeLarge, SizeVeryLarge, SizeMega}

// SizeCategoryFor maps acreage to its bucket. Breakpoints are the fixed
// 10/100/1000/10000 thresholds; boundaries belong to the smaller bucket.
func SizeCategoryFor(acres float64) SizeCategory {
	switch {
	case acres <= 10:
		return SizeSmall
	case acres <= 100:
		return SizeMedium
	case acres <= 1000:
		return SizeLarge
	case acres <= 10000:
		return SizeVeryLarge
	default:
		return SizeMega
	}
}

// FireRecord is one wildfire incident.
type FireRecord struct {
	ID        string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	Year      int     `json:"year"`
	SizeAcres float64 `json:"size_acres"`
	Cause     string  `json:"cause"`
	State     string  `json:"state,omitempty"`
	Geo       Geo     `json:"geo"`
}

// SizeCategory derives the record's size bucket from its acreage.
func (r FireRecord) SizeCategory() SizeCategory {
	return SizeCategoryFor(r.SizeAcres)
}

// CauseCategory derives the record's coarse cause category.
func (r FireRecord) CauseCategory() CauseCategory {
	return CategorizeCause(r.Cause)
}

// DropReport counts records excluded during parsing, keyed by reason.
type DropReport struct {
	Total    int            `json:"total"`
	ByReason map[string]int `json:"by_reason,omitempty"`
}

func (d *DropReport) add(reason string) {
	if d.ByReason == nil {
		d.ByReason = make(map[string]int)
	}
	d.ByReason[reason]++
	d.Total++
}

// Dataset is the full, ordered, immutable-after-load collection of fire
// records, uniquely keyed by ID. It is built once by ParseDataset and must
// not be mutated afterwards; the loader shares one instance across all
// concurrent readers.
type Dataset struct {
	records  []FireRecord
	index    map[string]int
	source   string
	loadedAt time.Time
	dropped  DropReport
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Records returns the backing record slice in load order. Callers must
// treat it as read-only.
func (d *Dataset) Records() []FireRecord {
	if d == nil {
		return nil
	}
	return d.records
}

// Record looks up a record by ID.
func (d *Dataset) Record(id string) (FireRecord, bool) {
	if d == nil {
		return FireRecord{}, false
	}
	i, ok := d.index[id]
	if !ok {
		return FireRecord{}, false
	}
	return d.records[i], true
}

// Years returns the distinct reporting years in ascending order.
func (d *Dataset) Years() []int {
	if d == nil || len(d.records) == 0 {
		return nil
	}
	seen := make(map[int]struct{})
	var years []int
	for _, r := range d.records {
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		years = append(years, r.Year)
	}
	sortInts(years)
	return years
}

// Source identifies where the dataset was loaded from.
func (d *Dataset) Source() string {
	if d == nil {
		return ""
	}
	return d.source
}

// LoadedAt is the parse time, from the package clock.
func (d *Dataset) LoadedAt() time.Time {
	if d == nil {
		return time.Time{}
	}
	return d.loadedAt
}

// Dropped reports the records excluded during parsing.
func (d *Dataset) Dropped() DropReport {
	if d == nil {
		return DropReport{}
	}
	return d.dropped
}

func sortInts(vals []int) {
	// Insertion sort: year lists are tiny (a few decades at most).
	for i := 1; i < len(vals); i++ {
		for j := i; j > 0 && vals[j] < vals[j-1]; j-- {
			vals[j], vals[j-1] = vals[j-1], vals[j]
		}
	}
}
