package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Earliest year accepted by the loader. US wildfire occurrence records do
// not predate organized reporting; anything earlier is a data entry error.
const minFireYear = 1800

// Property names expected in every feature of the source export.
var requiredProperties = []string{"FIREYEAR", "TOTALACRES", "STATCAUSE"}

// ValidationError describes why a single record was excluded at load time.
// Record-level failures are handled locally: the record is dropped and
// counted, the load continues.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid record: %s: %s", e.Field, e.Reason)
}

// featureCollection mirrors the GeoJSON container produced by the exporter.
type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	ID         any            `json:"id,omitempty"`
	Geometry   *geometry      `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"` // [lon, lat]
}

// ParseDataset parses a GeoJSON FeatureCollection into a Dataset.
// Malformed JSON, a non-FeatureCollection payload, or a feature set missing
// a required property column fail the whole parse with no partial dataset.
// Individual invalid records are dropped and counted in the drop report.
func ParseDataset(data []byte, source string) (*Dataset, error) {
	var fc featureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("parse dataset: unexpected GeoJSON type %q", fc.Type)
	}
	if err := checkSchema(fc.Features); err != nil {
		return nil, err
	}

	ds := &Dataset{
		index:    make(map[string]int, len(fc.Features)),
		source:   source,
		loadedAt: clock.Now(),
	}

	maxYear := clock.Now().Year()
	for _, f := range fc.Features {
		rec, err := parseFeature(f, maxYear)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				ds.dropped.add(verr.Reason)
				continue
			}
			return nil, err
		}
		if _, dup := ds.index[rec.ID]; dup {
			ds.dropped.add("duplicate_id")
			continue
		}
		ds.index[rec.ID] = len(ds.records)
		ds.records = append(ds.records, rec)
	}

	return ds, nil
}

// checkSchema verifies each required property appears somewhere in the
// feature set. A column absent from every feature means the export schema
// changed and the whole load must fail rather than silently drop everything.
func checkSchema(features []feature) error {
	if len(features) == 0 {
		return nil
	}
	for _, name := range requiredProperties {
		found := false
		for _, f := range features {
			if _, ok := f.Properties[name]; ok {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("parse dataset: schema mismatch: missing property %q", name)
		}
	}
	return nil
}

func parseFeature(f feature, maxYear int) (FireRecord, error) {
	if f.Geometry == nil || f.Geometry.Type != "Point" || len(f.Geometry.Coordinates) < 2 {
		return FireRecord{}, &ValidationError{Field: "geometry", Reason: "missing_geometry"}
	}
	geo := Geo{Lat: f.Geometry.Coordinates[1], Lon: f.Geometry.Coordinates[0]}
	if !geo.Valid() {
		return FireRecord{}, &ValidationError{Field: "geometry", Reason: "invalid_coordinates"}
	}

	year, ok := coerceInt(f.Properties["FIREYEAR"])
	if !ok {
		return FireRecord{}, &ValidationError{Field: "FIREYEAR", Reason: "invalid_year"}
	}
	if year < minFireYear || year > maxYear {
		return FireRecord{}, &ValidationError{Field: "FIREYEAR", Reason: "invalid_year"}
	}

	// Missing or unparseable acreage means unmeasured, not invalid; only a
	// negative value drops the record.
	acres, ok := coerceFloat(f.Properties["TOTALACRES"])
	if !ok {
		acres = 0
	}
	if acres < 0 {
		return FireRecord{}, &ValidationError{Field: "TOTALACRES", Reason: "negative_size"}
	}

	cause := strings.TrimSpace(coerceString(f.Properties["STATCAUSE"]))
	if cause == "" {
		cause = "Unknown"
	}

	rec := FireRecord{
		Name:      strings.TrimSpace(coerceString(f.Properties["FIRENAME"])),
		Year:      year,
		SizeAcres: acres,
		Cause:     cause,
		State:     strings.TrimSpace(coerceString(f.Properties["STATENAME"])),
		Geo:       geo,
	}
	rec.ID = recordID(f, rec)
	return rec, nil
}

// recordID picks the feature's own identifier when present, falling back to
// a deterministic hash of the key fields.
func recordID(f feature, rec FireRecord) string {
	if id := strings.TrimSpace(coerceString(f.ID)); id != "" {
		return id
	}
	if id := strings.TrimSpace(coerceString(f.Properties["UNIQFIREID"])); id != "" {
		return id
	}
	return generateID(rec)
}

// generateID produces a deterministic ID from the record's key fields, so
// reparsing identical source bytes yields identical IDs.
func generateID(rec FireRecord) string {
	input := fmt.Sprintf("%d|%s|%g|%.5f|%.5f", rec.Year, rec.Cause, rec.SizeAcres, rec.Geo.Lat, rec.Geo.Lon)
	hash := sha256.Sum256([]byte(input))
	return "fire-" + hex.EncodeToString(hash[:8])
}

// coerceFloat accepts the numeric encodings seen in real exports: JSON
// numbers, numeric strings, and json.Number. NaN is treated as missing.
func coerceFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) {
			return 0, false
		}
		return t, true
	case int:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// coerceInt parses integers that may arrive as floats ("2011.0") or
// strings. Fractional values are rejected rather than truncated.
func coerceInt(v any) (int, bool) {
	f, ok := coerceFloat(v)
	if !ok {
		return 0, false
	}
	if f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
