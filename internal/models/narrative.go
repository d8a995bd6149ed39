package models

// Status tells whether a country's conflict is currently visible.
type Status string

const (
	StatusOngoing Status = "Ongoing"
	StatusLatent  Status = "Latent"
)

// Quadrant is the impunity quadrant crossing normalized danger with multiplier.
type Quadrant string

const (
	QuadrantBlackHole Quadrant = "Black Hole"
	QuadrantFrontline Quadrant = "Frontline"
	QuadrantNeglected Quadrant = "Neglected"
	QuadrantMonitored Quadrant = "Monitored"
)

// MapRecord is one country on the impunity map.
type MapRecord struct {
	Country          string     `json:"Country"`
	ISO              string     `json:"ISO"`
	Reported         int        `json:"Reported"`
	Level            IndexLevel `json:"Index Level"`
	Continent        string     `json:"Continent"`
	DangerValue      int        `json:"Danger_Value"`
	NormalizedDanger float64    `json:"Normalized_Danger"`
	Projected        int        `json:"Projected"`
	Multiplier       int        `json:"Multiplier"`
	Status           Status     `json:"Status"`
	Quadrant         Quadrant   `json:"Quadrant"`
}

// TextureRecord is the percentage split of incident location categories.
type TextureRecord struct {
	Country  string  `json:"Country"`
	Public   float64 `json:"Public"`
	Systemic float64 `json:"Systemic"`
	Other    float64 `json:"Other"`
}

// PrognosisRecord places a country in the impunity quadrant chart.
type PrognosisRecord struct {
	Country    string   `json:"Country"`
	Danger     float64  `json:"Danger"`
	Multiplier int      `json:"Multiplier"`
	Projected  int      `json:"Projected"`
	Category   Quadrant `json:"Category"`
}

// GeoDataset is the map stage output.
type GeoDataset struct {
	CountryStats []MapRecord     `json:"country_stats"`
	Incidents    []IncidentPoint `json:"incidents"`
}

// NarrativeDataset is the narrative stage output.
type NarrativeDataset struct {
	ShadowGap     []MapRecord       `json:"shadow_gap"`
	TextureData   []TextureRecord   `json:"texture_data"`
	PrognosisData []PrognosisRecord `json:"prognosis_data"`
}
