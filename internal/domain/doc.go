// Package domain models US Forest Service wildfire occurrence data.
//
// # Data Source
//
// Fire records originate from the USFS Fire Occurrence point dataset,
// exported as a GeoJSON FeatureCollection and published to an S3 bucket.
// Each feature is one wildfire incident: a Point geometry plus flat
// properties carrying the reporting attributes.
//
// # Property Conventions
//
// Required properties (records missing the column set fail the load):
//
//	FIREYEAR    reporting year; numeric, sometimes serialized as a string
//	            or with a decimal suffix ("2011.0"). Coerced to int.
//	TOTALACRES  burned area in acres; numeric or string. Missing or
//	            unparseable values are treated as 0 (unmeasured), negative
//	            values drop the record.
//	STATCAUSE   statistical cause label, e.g. "Lightning", "Campfire".
//	            Missing values become "Unknown".
//
// Optional properties:
//
//	FIRENAME    incident name.
//	STATENAME   reporting state.
//	UNIQFIREID  agency-assigned unique fire identifier, used as the record
//	            ID when present.
//
// Coordinates come from the Point geometry in GeoJSON [lon, lat] order.
// Records with missing geometry or coordinates outside WGS-84 bounds
// (lat -90..90, lon -180..180) are dropped, never flagged.
//
// # Coarse Cause Categories
//
// Detailed cause labels map to exactly one of three coarse categories used
// for user-facing breakdowns:
//
//	Natural  Lightning
//	Human    Equipment Use, Smoking, Campfire, Debris Burning, Railroad,
//	         Arson, Children, Fireworks, Powerline
//	Unknown  everything else, including "Miscellaneous" and absent causes
//
// # Size Categories
//
// Derived from TOTALACRES via fixed breakpoints, never stored:
//
//	Small <= 10 | Medium <= 100 | Large <= 1000 | Very Large <= 10000 | Mega above
//
// # ID Generation
//
// When a feature carries neither a GeoJSON id nor UNIQFIREID, the record ID
// is a deterministic SHA-256 hash of year|cause|acres|lat|lon. Reparsing the
// same source bytes therefore yields the same IDs, which keeps duplicate
// detection stable across reloads. See [generateID].
package domain
