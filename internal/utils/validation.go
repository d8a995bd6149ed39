package utils

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ValidateLatitude validates latitude values
func ValidateLatitude(lat float64) error {
	if math.IsNaN(lat) || lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

// ValidateLongitude validates longitude values
func ValidateLongitude(lon float64) error {
	if math.IsNaN(lon) || lon < -180.0 || lon > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// ParseIncidentDate parses a date cell whose layout is not known in advance.
// Dates without a zone are read as UTC; slash dates are month first.
func ParseIncidentDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("date is empty")
	}
	// dateparse echoes unmatched text back as a layout, so a cell with no
	// digits would come back as the zero time.
	if !strings.ContainsAny(value, "0123456789") {
		return time.Time{}, fmt.Errorf("unrecognized date %q", value)
	}

	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q: %w", value, err)
	}
	return t, nil
}

// InYearWindow reports whether t falls within [from, to] by calendar year.
func InYearWindow(t time.Time, from, to int) bool {
	y := t.Year()
	return y >= from && y <= to
}
