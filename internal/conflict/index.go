// Package conflict loads the conflict intensity index and exposes its raw
// severity metrics keyed by canonical country.
package conflict

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"shadowgap.org/internal/countries"
	"shadowgap.org/internal/logging"
	"shadowgap.org/internal/models"
	"shadowgap.org/internal/utils"
)

const (
	ColumnCountry    = "Country"
	ColumnDanger     = "Danger Value"
	ColumnDeadliness = "Deadliness Value"
	ColumnLevel      = "Index Level"
)

var (
	ErrDuplicateCountry = errors.New("duplicate country in conflict index")
	ErrInvalidNumber    = errors.New("invalid numeric value")
	ErrInvalidLevel     = errors.New("invalid index level")
)

// Index is the loaded conflict index. It is read-only after Parse returns.
type Index struct {
	records   map[string]models.ConflictIndexRecord
	countries []string

	// SkippedRows counts rows without a country name.
	SkippedRows int
}

// Load opens path and parses it as a conflict index CSV.
func Load(path string, n *countries.Normalizer) (ix *Index, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer logging.HandleDeferredError(&err, f.Close, nil, "close conflict index")

	return Parse(f, n)
}

// Parse reads a conflict index CSV. Every country name is canonicalized
// through n before it is used as a key. Missing metric cells read as 0.
func Parse(r io.Reader, n *countries.Normalizer) (*Index, error) {
	table, err := utils.ReadTable(r, ColumnCountry, ColumnDanger, ColumnDeadliness, ColumnLevel)
	if err != nil {
		return nil, fmt.Errorf("conflict index: %w", err)
	}

	ix := &Index{records: make(map[string]models.ConflictIndexRecord, len(table.Rows))}

	for i, row := range table.Rows {
		line := i + 2

		raw := table.Get(row, ColumnCountry)
		if raw == "" {
			ix.SkippedRows++
			continue
		}
		country := n.Canonical(raw)

		danger, err := ParseMetric(table.Get(row, ColumnDanger))
		if err != nil {
			return nil, fmt.Errorf("line %d %s %s: %w", line, country, ColumnDanger, err)
		}
		deadliness, err := ParseMetric(table.Get(row, ColumnDeadliness))
		if err != nil {
			return nil, fmt.Errorf("line %d %s %s: %w", line, country, ColumnDeadliness, err)
		}
		level, err := models.ParseIndexLevel(table.Get(row, ColumnLevel))
		if err != nil {
			return nil, fmt.Errorf("line %d %s: %w: %v", line, country, ErrInvalidLevel, err)
		}

		if _, ok := ix.records[country]; ok {
			return nil, fmt.Errorf("line %d: %w: %q resolves to %q which is already present", line, ErrDuplicateCountry, raw, country)
		}

		ix.records[country] = models.ConflictIndexRecord{
			Country:         country,
			DangerValue:     danger,
			DeadlinessValue: deadliness,
			Level:           level,
		}
		ix.countries = append(ix.countries, country)
	}

	sort.Strings(ix.countries)
	return ix, nil
}

// ParseMetric parses a non-negative metric cell. Empty and NaN-like cells are
// missing values and read as 0.
func ParseMetric(cell string) (float64, error) {
	cell = strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	switch strings.ToLower(cell) {
	case "", "nan", "na", "n/a", "null":
		return 0, nil
	}

	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, cell)
	}
	if math.IsNaN(v) {
		return 0, nil
	}
	if v < 0 || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, cell)
	}
	return v, nil
}

// Get returns the record for a canonical country.
func (ix *Index) Get(country string) (models.ConflictIndexRecord, bool) {
	rec, ok := ix.records[country]
	return rec, ok
}

// Level returns the index level of country, or Low/Inactive if absent.
func (ix *Index) Level(country string) models.IndexLevel {
	if rec, ok := ix.records[country]; ok {
		return rec.Level
	}
	return models.IndexLowInactive
}

// DangerValue returns the raw danger value of country, or 0 if absent.
func (ix *Index) DangerValue(country string) float64 {
	return ix.records[country].DangerValue
}

// Countries returns the canonical countries in the index, sorted.
func (ix *Index) Countries() []string {
	return append([]string(nil), ix.countries...)
}

// Records returns all records sorted by country.
func (ix *Index) Records() []models.ConflictIndexRecord {
	out := make([]models.ConflictIndexRecord, 0, len(ix.countries))
	for _, c := range ix.countries {
		out = append(out, ix.records[c])
	}
	return out
}

// MaxDanger is the largest raw danger value in the index, 0 when empty.
func (ix *Index) MaxDanger() float64 {
	max := 0.0
	for _, rec := range ix.records {
		if rec.DangerValue > max {
			max = rec.DangerValue
		}
	}
	return max
}

// Len is the number of countries in the index.
func (ix *Index) Len() int {
	return len(ix.records)
}
