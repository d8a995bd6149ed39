// Package incidents loads the verified incident log and aggregates it per
// canonical country.
package incidents

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"shadowgap.org/internal/countries"
	"shadowgap.org/internal/logging"
	"shadowgap.org/internal/models"
	"shadowgap.org/internal/utils"
)

const (
	ColumnDate      = "Date"
	ColumnCountry   = "Country"
	ColumnISO       = "Country ISO"
	ColumnLatitude  = "Latitude"
	ColumnLongitude = "Longitude"
	ColumnLocation  = "Location Where Sexual Violence Was Committed"
)

// Options controls which incidents are kept.
type Options struct {
	YearFrom int
	YearTo   int
}

// Dataset is the filtered incident log. It is read-only after Parse returns.
type Dataset struct {
	records []models.IncidentRecord
	counts  map[string]int
	iso     map[string]string

	Undated       int
	OutOfWindow   int
	NoCountry     int
	InvalidPoints int
}

// Load opens path and parses it as an incident CSV.
func Load(path string, n *countries.Normalizer, opts Options) (ds *Dataset, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer logging.HandleDeferredError(&err, f.Close, nil, "close incident log")

	return Parse(f, n, opts)
}

// Parse reads an incident CSV. Rows with unparsable dates or dates outside
// the year window are dropped. Country names are canonicalized through n.
func Parse(r io.Reader, n *countries.Normalizer, opts Options) (*Dataset, error) {
	table, err := utils.ReadTable(r, ColumnDate, ColumnCountry)
	if err != nil {
		return nil, fmt.Errorf("incident log: %w", err)
	}

	ds := &Dataset{
		counts: make(map[string]int),
		iso:    make(map[string]string),
	}

	for _, row := range table.Rows {
		date, err := utils.ParseIncidentDate(table.Get(row, ColumnDate))
		if err != nil {
			ds.Undated++
			continue
		}
		if !utils.InYearWindow(date, opts.YearFrom, opts.YearTo) {
			ds.OutOfWindow++
			continue
		}

		raw := table.Get(row, ColumnCountry)
		if raw == "" {
			ds.NoCountry++
			continue
		}

		rec := models.IncidentRecord{
			Date:     date,
			Country:  n.Canonical(raw),
			Location: table.Get(row, ColumnLocation),
			ISO:      table.Get(row, ColumnISO),
		}

		point, ok, valid := parsePoint(table.Get(row, ColumnLatitude), table.Get(row, ColumnLongitude))
		if !valid {
			ds.InvalidPoints++
		} else if ok {
			rec.Point = &point
		}

		ds.counts[rec.Country]++
		if rec.ISO != "" {
			ds.iso[rec.Country] = rec.ISO
		}
		ds.records = append(ds.records, rec)
	}

	return ds, nil
}

// parsePoint returns ok=false when either coordinate is blank, and
// valid=false when a coordinate is present but unusable.
func parsePoint(latCell, lonCell string) (p models.CoordinatePoint, ok bool, valid bool) {
	if latCell == "" || lonCell == "" {
		return p, false, true
	}

	lat, err := strconv.ParseFloat(latCell, 64)
	if err != nil || utils.ValidateLatitude(lat) != nil {
		return p, false, false
	}
	lon, err := strconv.ParseFloat(lonCell, 64)
	if err != nil || utils.ValidateLongitude(lon) != nil {
		return p, false, false
	}

	return models.CoordinatePoint{Lat: lat, Lon: lon}, true, true
}

// Len is the number of incidents kept.
func (ds *Dataset) Len() int {
	return len(ds.records)
}

// Reported is the number of incidents for a canonical country.
func (ds *Dataset) Reported(country string) int {
	return ds.counts[country]
}

// Countries returns every canonical country with at least one incident, sorted.
func (ds *Dataset) Countries() []string {
	out := make([]string, 0, len(ds.counts))
	for c := range ds.counts {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// ISO returns the last non-empty ISO code seen for country.
func (ds *Dataset) ISO(country string) string {
	return ds.iso[country]
}

// Points returns the geolocated incidents in file order.
func (ds *Dataset) Points() []models.IncidentPoint {
	out := make([]models.IncidentPoint, 0, len(ds.records))
	for _, rec := range ds.records {
		if rec.HasPoint() {
			out = append(out, models.NewIncidentPoint(rec.Country, *rec.Point))
		}
	}
	return out
}

// Locations returns the location descriptions recorded for country.
func (ds *Dataset) Locations(country string) []string {
	var out []string
	for _, rec := range ds.records {
		if rec.Country == country {
			out = append(out, rec.Location)
		}
	}
	return out
}
