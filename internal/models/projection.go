package models

// ProjectionRecord is the projected true incident count for one country.
// Projected is always AdjustedReported * Multiplier.
type ProjectionRecord struct {
	Country          string     `json:"Country"`
	Reported         int        `json:"Reported"`
	AdjustedReported int        `json:"-"`
	Level            IndexLevel `json:"Index Level"`
	Multiplier       int        `json:"Multiplier"`
	Projected        int        `json:"Projected"`
	Continent        string     `json:"Continent"`
}

// ProjectionLookup is the subset of a projection the map stage consumes.
type ProjectionLookup struct {
	Projected  int
	Multiplier int
}

// NewProjectionLookup indexes projection rows by country.
func NewProjectionLookup(rows []ProjectionRecord) map[string]ProjectionLookup {
	lookup := make(map[string]ProjectionLookup, len(rows))
	for _, r := range rows {
		lookup[r.Country] = ProjectionLookup{Projected: r.Projected, Multiplier: r.Multiplier}
	}
	return lookup
}
