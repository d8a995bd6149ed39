// Package scoring turns raw conflict intensity metrics into an underreporting
// multiplier per country.
//
// The normalization range is taken from the records passed in on each run.
// Adding or removing countries from the conflict index therefore shifts the
// scores of every other country; scores are comparable within one run only.
package scoring

import (
	"math"

	"shadowgap.org/internal/models"
)

const (
	// DangerCap and DeadlinessCap bound raw values before compression so a
	// single extreme country cannot flatten the range for the rest.
	DangerCap     = 2000.0
	DeadlinessCap = 10000.0
)

// Normalized holds the [0,1] measures derived from one country's raw metrics.
type Normalized struct {
	Danger     float64
	Deadliness float64
}

// Compress clamps v to [0, cap] and applies log(1+x). Negative and NaN
// inputs are treated as missing.
func Compress(v, cap float64) float64 {
	if math.IsNaN(v) || v < 0 {
		v = 0
	}
	if v > cap {
		v = cap
	}
	return math.Log1p(v)
}

// MinMax rescales values to [0,1] using their own minimum and maximum.
// A column with no spread maps to all zeros.
func MinMax(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	span := hi - lo
	if span <= 0 {
		return out
	}
	for i, v := range values {
		out[i] = clamp01((v - lo) / span)
	}
	return out
}

// Transform caps, compresses and min-max normalizes danger and deadliness
// independently across all records. The result is index-aligned with records.
func Transform(records []models.ConflictIndexRecord) []Normalized {
	cd := make([]float64, len(records))
	cl := make([]float64, len(records))
	for i, rec := range records {
		cd[i] = Compress(rec.DangerValue, DangerCap)
		cl[i] = Compress(rec.DeadlinessValue, DeadlinessCap)
	}

	nd := MinMax(cd)
	nl := MinMax(cl)

	out := make([]Normalized, len(records))
	for i := range out {
		out[i] = Normalized{Danger: nd[i], Deadliness: nl[i]}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
