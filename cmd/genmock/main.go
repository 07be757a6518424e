// Command genmock generates a mock wildfire GeoJSON dataset for local
// development and tests. It uses the actual domain cause and size category
// sets so generated fixtures exercise every aggregation bucket.
//
// Usage:
//
//	go run ./cmd/genmock -out testdata/fires_mock.geojson -count 2000 -seed 7
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
)

// causes mirror the detailed labels seen in USFS exports, including ones
// that map to the Unknown coarse category.
var causes = []string{
	"Lightning",
	"Equipment Use",
	"Smoking",
	"Campfire",
	"Debris Burning",
	"Railroad",
	"Arson",
	"Children",
	"Fireworks",
	"Powerline",
	"Miscellaneous",
	"Unknown",
}

var states = []string{
	"California", "Oregon", "Washington", "Idaho", "Montana",
	"Arizona", "New Mexico", "Colorado", "Utah", "Nevada",
}

type feature struct {
	Type       string         `json:"type"`
	Geometry   geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [lon, lat]
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the GeoJSON fixture")
	count := flag.Int("count", 2000, "number of fire records to generate")
	seed := flag.Int64("seed", 42, "random seed for reproducible fixtures")
	startYear := flag.Int("start-year", 1990, "earliest reporting year")
	endYear := flag.Int("end-year", 2020, "latest reporting year")
	invalid := flag.Int("invalid", 0, "number of additional invalid records to mix in")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *endYear < *startYear {
		return fmt.Errorf("end-year %d before start-year %d", *endYear, *startYear)
	}

	rng := rand.New(rand.NewSource(*seed))

	fc := featureCollection{Type: "FeatureCollection"}
	for i := 0; i < *count; i++ {
		fc.Features = append(fc.Features, validFeature(rng, i, *startYear, *endYear))
	}
	for i := 0; i < *invalid; i++ {
		fc.Features = append(fc.Features, invalidFeature(rng, i))
	}

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}

	log.Printf("wrote %d features (%d invalid) to %s", len(fc.Features), *invalid, *out)
	return nil
}

func validFeature(rng *rand.Rand, i, startYear, endYear int) feature {
	// Log-uniform acreage so every size bucket from Small to Mega appears.
	acres := float64(0)
	if rng.Float64() > 0.1 {
		acres = math.Pow(10, rng.Float64()*5.5) // up to ~300k acres
	}

	return feature{
		Type: "Feature",
		Geometry: geometry{
			Type: "Point",
			// Continental US-ish bounding box.
			Coordinates: []float64{
				-125 + rng.Float64()*58, // lon -125..-67
				25 + rng.Float64()*24,   // lat 25..49
			},
		},
		Properties: map[string]any{
			"UNIQFIREID": fmt.Sprintf("MOCK-%06d", i),
			"FIRENAME":   fmt.Sprintf("MOCK FIRE %d", i),
			"FIREYEAR":   startYear + rng.Intn(endYear-startYear+1),
			"TOTALACRES": acres,
			"STATCAUSE":  causes[rng.Intn(len(causes))],
			"STATENAME":  states[rng.Intn(len(states))],
		},
	}
}

// invalidFeature produces records the parser must drop, cycling through the
// validation reasons.
func invalidFeature(rng *rand.Rand, i int) feature {
	f := validFeature(rng, 1_000_000+i, 1990, 2020)
	switch i % 3 {
	case 0:
		f.Geometry.Coordinates = []float64{-98.4, 200} // latitude out of range
	case 1:
		f.Properties["FIREYEAR"] = "not-a-year"
	default:
		f.Properties["TOTALACRES"] = -50.0
	}
	return f
}
