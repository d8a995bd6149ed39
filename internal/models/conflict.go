package models

import (
	"fmt"
	"strings"
)

// IndexLevel is the categorical severity assigned by the conflict index.
type IndexLevel string

const (
	IndexExtreme     IndexLevel = "Extreme"
	IndexHigh        IndexLevel = "High"
	IndexTurbulent   IndexLevel = "Turbulent"
	IndexLowInactive IndexLevel = "Low/Inactive"
)

// ParseIndexLevel maps a raw index level cell to an IndexLevel.
// An empty cell is treated as Low/Inactive.
func ParseIndexLevel(raw string) (IndexLevel, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "extreme":
		return IndexExtreme, nil
	case "high":
		return IndexHigh, nil
	case "turbulent":
		return IndexTurbulent, nil
	case "", "low/inactive", "low", "inactive", "low / inactive":
		return IndexLowInactive, nil
	default:
		return "", fmt.Errorf("unknown index level %q", raw)
	}
}

// Peaceful reports whether the index classifies the country as inactive.
func (l IndexLevel) Peaceful() bool {
	return l == IndexLowInactive
}

// ConflictIndexRecord holds the raw severity metrics for one canonical country.
type ConflictIndexRecord struct {
	Country         string
	DangerValue     float64
	DeadlinessValue float64
	Level           IndexLevel
}
