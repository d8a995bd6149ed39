package models

import "time"

// IncidentRecord is one verified incident after country canonicalization.
// Latitude, Longitude and ISO are optional in the source data.
type IncidentRecord struct {
	Date     time.Time
	Country  string
	Location string
	ISO      string
	Point    *CoordinatePoint
}

// HasPoint reports whether the incident carries a usable position.
func (r IncidentRecord) HasPoint() bool {
	return r.Point != nil
}
