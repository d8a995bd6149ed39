package models

// CoordinatePoint is a WGS84 position.
type CoordinatePoint struct {
	Lat float64
	Lon float64
}

// IncidentPoint is one geolocated incident on the map.
type IncidentPoint struct {
	Latitude  float64 `json:"Latitude"`
	Longitude float64 `json:"Longitude"`
	Country   string  `json:"Country"`
}

// NewIncidentPoint creates a new IncidentPoint for a canonical country.
func NewIncidentPoint(country string, p CoordinatePoint) IncidentPoint {
	return IncidentPoint{
		Latitude:  p.Lat,
		Longitude: p.Lon,
		Country:   country,
	}
}
