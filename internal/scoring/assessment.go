package scoring

import "shadowgap.org/internal/models"

// Assessment is the scoring outcome for one conflict index country.
type Assessment struct {
	Country     string
	Level       models.IndexLevel
	DangerValue float64
	Normalized  Normalized
	Score       float64
	Multiplier  int
}

// Assess scores every record. Normalization uses the full record set, so
// records must be the complete index for the run, not a subset.
func Assess(records []models.ConflictIndexRecord) map[string]Assessment {
	normalized := Transform(records)

	out := make(map[string]Assessment, len(records))
	for i, rec := range records {
		score := SuppressionScore(normalized[i])
		out[rec.Country] = Assessment{
			Country:     rec.Country,
			Level:       rec.Level,
			DangerValue: rec.DangerValue,
			Normalized:  normalized[i],
			Score:       score,
			Multiplier:  Multiplier(score, rec.Level),
		}
	}
	return out
}
