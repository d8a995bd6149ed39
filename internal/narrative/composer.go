// Package narrative composes the impunity map and the narrative breakdowns
// built on top of the projection.
package narrative

import (
	"sort"

	"shadowgap.org/internal/conflict"
	"shadowgap.org/internal/countries"
	"shadowgap.org/internal/incidents"
	"shadowgap.org/internal/models"
)

const (
	// DangerThreshold and MultiplierThreshold split the impunity quadrants.
	DangerThreshold     = 50.0
	MultiplierThreshold = 50
)

// Options selects the countries the narrative singles out.
type Options struct {
	// DeepDives are excluded from the shadow gap.
	DeepDives []string
	// TextureCountries get a location category breakdown.
	TextureCountries []string
	// ShadowGapSize is how many countries the shadow gap keeps.
	ShadowGapSize int
}

// Composer builds map and narrative datasets from loaded inputs.
type Composer struct {
	incidents  *incidents.Dataset
	index      *conflict.Index
	tables     *countries.Tables
	projection map[string]models.ProjectionLookup
}

func NewComposer(ds *incidents.Dataset, ix *conflict.Index, tables *countries.Tables, projection map[string]models.ProjectionLookup) *Composer {
	return &Composer{
		incidents:  ds,
		index:      ix,
		tables:     tables,
		projection: projection,
	}
}

// Countries is the union of incident and index countries, sorted.
func (c *Composer) Countries() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range [][]string{c.incidents.Countries(), c.index.Countries()} {
		for _, country := range list {
			if _, ok := seen[country]; ok {
				continue
			}
			seen[country] = struct{}{}
			out = append(out, country)
		}
	}
	sort.Strings(out)
	return out
}

// MapRecords returns one record per country in Countries, sorted by country.
// Countries missing from the projection keep Projected=Reported and
// Multiplier=1. DangerValue is truncated to an integer; NormalizedDanger is
// computed from the raw value.
func (c *Composer) MapRecords() []models.MapRecord {
	maxDanger := c.index.MaxDanger()

	countryList := c.Countries()
	out := make([]models.MapRecord, 0, len(countryList))
	for _, country := range countryList {
		reported := c.incidents.Reported(country)
		danger := c.index.DangerValue(country)

		proj, ok := c.projection[country]
		if !ok {
			proj = models.ProjectionLookup{Projected: reported, Multiplier: models.DefaultMultiplier}
		}

		normalized := NormalizeDanger(danger, maxDanger)
		out = append(out, models.MapRecord{
			Country:          country,
			ISO:              c.incidents.ISO(country),
			Reported:         reported,
			Level:            c.index.Level(country),
			Continent:        c.tables.Continent(country),
			DangerValue:      int(danger),
			NormalizedDanger: normalized,
			Projected:        proj.Projected,
			Multiplier:       proj.Multiplier,
			Status:           StatusOf(normalized),
			Quadrant:         Classify(normalized, proj.Multiplier),
		})
	}
	return out
}

// Geo returns the map stage dataset.
func (c *Composer) Geo() models.GeoDataset {
	return models.GeoDataset{
		CountryStats: c.MapRecords(),
		Incidents:    c.incidents.Points(),
	}
}

// Narrative returns the narrative stage dataset for the given map records.
func (c *Composer) Narrative(records []models.MapRecord, opts Options) models.NarrativeDataset {
	return models.NarrativeDataset{
		ShadowGap:     ShadowGap(records, opts.DeepDives, opts.ShadowGapSize),
		TextureData:   c.Texture(opts.TextureCountries),
		PrognosisData: Prognosis(records),
	}
}

// NormalizeDanger scales danger to [0,100] against max. A max of 0 yields 0.
func NormalizeDanger(danger, max float64) float64 {
	if max <= 0 || danger <= 0 {
		return 0
	}
	v := 100 * danger / max
	if v > 100 {
		return 100
	}
	return v
}

func StatusOf(normalizedDanger float64) models.Status {
	if normalizedDanger > DangerThreshold {
		return models.StatusOngoing
	}
	return models.StatusLatent
}

// Classify places a country in an impunity quadrant. The multiplier is
// floored at 1 first.
func Classify(normalizedDanger float64, multiplier int) models.Quadrant {
	if multiplier < 1 {
		multiplier = 1
	}
	dangerHigh := normalizedDanger > DangerThreshold
	suppressed := multiplier > MultiplierThreshold

	switch {
	case dangerHigh && suppressed:
		return models.QuadrantBlackHole
	case dangerHigh:
		return models.QuadrantFrontline
	case suppressed:
		return models.QuadrantNeglected
	default:
		return models.QuadrantMonitored
	}
}
