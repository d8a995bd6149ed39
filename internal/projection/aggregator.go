// Package projection joins per-country incident counts with conflict scoring
// to estimate the true incidence of conflict-related sexual violence.
package projection

import (
	"sort"

	"shadowgap.org/internal/conflict"
	"shadowgap.org/internal/countries"
	"shadowgap.org/internal/incidents"
	"shadowgap.org/internal/models"
	"shadowgap.org/internal/scoring"
)

// Result is the projection table plus the join statistics the pipeline logs.
type Result struct {
	Rows []models.ProjectionRecord

	// Defaulted counts incident countries with no conflict index entry.
	Defaulted int
	// Floored counts rows where the blackout rule raised the reported count.
	Floored int
}

// Top returns the first row, the country with the largest projection.
func (r Result) Top() (models.ProjectionRecord, bool) {
	if len(r.Rows) == 0 {
		return models.ProjectionRecord{}, false
	}
	return r.Rows[0], true
}

// Build produces one row per canonical country with at least one incident.
// Countries absent from the index get Low/Inactive, multiplier 1 and danger 0.
func Build(ds *incidents.Dataset, ix *conflict.Index, tables *countries.Tables) Result {
	assessed := scoring.Assess(ix.Records())

	res := Result{Rows: []models.ProjectionRecord{}}
	for _, country := range ds.Countries() {
		reported := ds.Reported(country)

		level := models.IndexLowInactive
		multiplier := models.DefaultMultiplier
		danger := 0.0
		if a, ok := assessed[country]; ok {
			level = a.Level
			multiplier = a.Multiplier
			danger = a.DangerValue
		} else {
			res.Defaulted++
		}

		adjusted := scoring.AdjustReported(reported, danger)
		if adjusted != reported {
			res.Floored++
		}

		res.Rows = append(res.Rows, models.ProjectionRecord{
			Country:          country,
			Reported:         reported,
			AdjustedReported: adjusted,
			Level:            level,
			Multiplier:       multiplier,
			Projected:        scoring.Project(adjusted, multiplier),
			Continent:        tables.Continent(country),
		})
	}

	Sort(res.Rows)
	return res
}

// Sort orders rows by Projected descending, then Country ascending.
func Sort(rows []models.ProjectionRecord) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Projected != rows[j].Projected {
			return rows[i].Projected > rows[j].Projected
		}
		return rows[i].Country < rows[j].Country
	})
}
