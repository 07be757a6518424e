// Command validate runs data integrity checks over a wildfire GeoJSON
// dataset file: parseability, drop-rate sanity, invariant checks on the
// loaded records, and aggregate consistency. Intended for vetting a new
// export before it is published to the bucket.
//
// Usage:
//
//	go run ./cmd/validate -data testdata/fires_mock.geojson
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/couchcryptid/wildfire-data-service/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataPath := flag.String("data", "", "path to the GeoJSON dataset file")
	maxDropRate := flag.Float64("max-drop-rate", 0.05, "maximum tolerated fraction of dropped records")
	flag.Parse()

	if *dataPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*dataPath, *maxDropRate))
}

func run(dataPath string, maxDropRate float64) int {
	fmt.Println("=== Wildfire Dataset Validation ===")
	fmt.Println()

	data, err := os.ReadFile(dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read dataset: %v\n", err)
		return 1
	}

	ds, err := domain.ParseDataset(data, dataPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: parse dataset: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateDropRate(ds, maxDropRate),
		validateRecordInvariants(ds),
		validateAggregateConsistency(ds),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	dropped := ds.Dropped()
	fmt.Println()
	fmt.Printf("Records: %d loaded, %d dropped", ds.Len(), dropped.Total)
	if dropped.Total > 0 {
		fmt.Printf(" %v", dropped.ByReason)
	}
	fmt.Println()

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func validateDropRate(ds *domain.Dataset, maxDropRate float64) *phase {
	p := &phase{name: "Drop rate"}

	total := ds.Len() + ds.Dropped().Total
	if total == 0 {
		p.errorf("dataset contains no features")
		return p
	}
	rate := float64(ds.Dropped().Total) / float64(total)
	if rate > maxDropRate {
		p.errorf("drop rate %.2f%% exceeds limit %.2f%% (%v)",
			rate*100, maxDropRate*100, ds.Dropped().ByReason)
	}
	return p
}

// validateRecordInvariants re-checks what the parser promises: coordinates
// in bounds, non-negative acreage, unique IDs, categories drawn from the
// fixed sets.
func validateRecordInvariants(ds *domain.Dataset) *phase {
	p := &phase{name: "Record invariants"}

	sizeSet := make(map[domain.SizeCategory]bool)
	for _, c := range domain.SizeCategories {
		sizeSet[c] = true
	}
	causeSet := make(map[domain.CauseCategory]bool)
	for _, c := range domain.CauseCategories {
		causeSet[c] = true
	}

	seen := make(map[string]bool, ds.Len())
	for _, r := range ds.Records() {
		if !r.Geo.Valid() {
			p.errorf("record %s: coordinates out of bounds (%.4f, %.4f)", r.ID, r.Geo.Lat, r.Geo.Lon)
		}
		if r.SizeAcres < 0 {
			p.errorf("record %s: negative acreage %g", r.ID, r.SizeAcres)
		}
		if seen[r.ID] {
			p.errorf("duplicate record ID %s", r.ID)
		}
		seen[r.ID] = true
		if !sizeSet[r.SizeCategory()] {
			p.errorf("record %s: unknown size category %q", r.ID, r.SizeCategory())
		}
		if !causeSet[r.CauseCategory()] {
			p.errorf("record %s: unknown cause category %q", r.ID, r.CauseCategory())
		}
	}
	return p
}

// validateAggregateConsistency checks that every reduction partitions the
// record set: category counts, yearly totals, and the cause/size matrix
// must each sum back to the record count.
func validateAggregateConsistency(ds *domain.Dataset) *phase {
	p := &phase{name: "Aggregate consistency"}
	records := ds.Records()

	sum := 0
	for _, n := range domain.CountByCauseCategory(records) {
		sum += n
	}
	if sum != len(records) {
		p.errorf("cause category counts sum to %d, want %d", sum, len(records))
	}

	sum = 0
	for _, t := range domain.YearlyTotals(records) {
		sum += t.Fires
	}
	if sum != len(records) {
		p.errorf("yearly totals sum to %d, want %d", sum, len(records))
	}

	sum = 0
	for _, row := range domain.CauseSizeMatrix(records) {
		for _, n := range row {
			sum += n
		}
	}
	if sum != len(records) {
		p.errorf("cause/size matrix sums to %d, want %d", sum, len(records))
	}

	return p
}
