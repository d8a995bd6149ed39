package narrative

import (
	"math"
	"sort"
	"strings"

	"shadowgap.org/internal/models"
)

// LocationCategory groups free-text incident locations.
type LocationCategory string

const (
	LocationPublic   LocationCategory = "Public"
	LocationSystemic LocationCategory = "Systemic"
	LocationOther    LocationCategory = "Private/Other"
)

// Public keywords are checked before systemic ones.
var (
	publicKeywords   = []string{"street", "road", "field", "market", "open", "forest", "village"}
	systemicKeywords = []string{"detention", "prison", "camp", "captivity", "police", "checkpoint", "barracks", "base"}
)

// ShadowGap returns the n records with the highest multiplier, skipping
// excluded countries. Ties are broken by country name.
func ShadowGap(records []models.MapRecord, excluded []string, n int) []models.MapRecord {
	skip := make(map[string]bool, len(excluded))
	for _, c := range excluded {
		skip[c] = true
	}

	pool := make([]models.MapRecord, 0, len(records))
	for _, r := range records {
		if !skip[r.Country] {
			pool = append(pool, r)
		}
	}

	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].Multiplier != pool[j].Multiplier {
			return pool[i].Multiplier > pool[j].Multiplier
		}
		return pool[i].Country < pool[j].Country
	})

	if n < 0 {
		n = 0
	}
	if len(pool) > n {
		pool = pool[:n]
	}
	return pool
}

// Categorize assigns a location description to a category by keyword.
func Categorize(location string) LocationCategory {
	l := strings.ToLower(location)
	if containsAny(l, publicKeywords) {
		return LocationPublic
	}
	if containsAny(l, systemicKeywords) {
		return LocationSystemic
	}
	return LocationOther
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// Texture returns the location category split for each country that has
// incidents, in the order given.
func (c *Composer) Texture(countryList []string) []models.TextureRecord {
	out := []models.TextureRecord{}
	for _, country := range countryList {
		locations := c.incidents.Locations(country)
		if len(locations) == 0 {
			continue
		}

		counts := make(map[LocationCategory]int, 3)
		for _, loc := range locations {
			counts[Categorize(loc)]++
		}

		total := float64(len(locations))
		out = append(out, models.TextureRecord{
			Country:  country,
			Public:   percent(counts[LocationPublic], total),
			Systemic: percent(counts[LocationSystemic], total),
			Other:    percent(counts[LocationOther], total),
		})
	}
	return out
}

// Prognosis returns one quadrant entry per map record, in record order.
func Prognosis(records []models.MapRecord) []models.PrognosisRecord {
	out := make([]models.PrognosisRecord, 0, len(records))
	for _, r := range records {
		mult := r.Multiplier
		if mult < 1 {
			mult = 1
		}
		out = append(out, models.PrognosisRecord{
			Country:    r.Country,
			Danger:     round1(r.NormalizedDanger),
			Multiplier: mult,
			Projected:  r.Projected,
			Category:   Classify(r.NormalizedDanger, mult),
		})
	}
	return out
}

// CountQuadrant counts prognosis entries in quadrant q.
func CountQuadrant(records []models.PrognosisRecord, q models.Quadrant) int {
	n := 0
	for _, r := range records {
		if r.Category == q {
			n++
		}
	}
	return n
}

func percent(n int, total float64) float64 {
	return round1(float64(n) / total * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
