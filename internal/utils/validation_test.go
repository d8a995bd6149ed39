package utils

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLatitude(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		wantErr bool
	}{
		{"valid latitude", 15.5007, false},
		{"south pole", -90, false},
		{"north pole", 90, false},
		{"too small", -90.1, true},
		{"too large", 91, true},
		{"not a number", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLatitude(tt.lat)
			if tt.wantErr {
				assert.EqualError(t, err, "latitude must be between -90 and 90")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateLongitude(t *testing.T) {
	tests := []struct {
		name    string
		lon     float64
		wantErr bool
	}{
		{"valid longitude", 32.5599, false},
		{"antimeridian west", -180, false},
		{"antimeridian east", 180, false},
		{"too small", -180.5, true},
		{"too large", 200, true},
		{"not a number", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLongitude(tt.lon)
			if tt.wantErr {
				assert.EqualError(t, err, "longitude must be between -180 and 180")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseIncidentDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{"iso date", "2023-04-15", time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC), false},
		{"sql datetime", "2021-01-02 10:30:00", time.Date(2021, 1, 2, 10, 30, 0, 0, time.UTC), false},
		{"us date", "04/15/2023", time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC), false},
		{"us date without padding", "4/5/2022", time.Date(2022, 4, 5, 0, 0, 0, 0, time.UTC), false},
		{"rfc3339", "2022-06-01T08:00:00Z", time.Date(2022, 6, 1, 8, 0, 0, 0, time.UTC), false},
		{"month name", "March 7, 2024", time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), false},
		{"slash year first", "2023/11/20", time.Date(2023, 11, 20, 0, 0, 0, 0, time.UTC), false},
		{"surrounding whitespace", "  2020-12-31 ", time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{"empty", "", time.Time{}, true},
		{"impossible month", "2024-13-45", time.Time{}, true},
		{"no digits", "not-a-date", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIncidentDate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestInYearWindow(t *testing.T) {
	assert.True(t, InYearWindow(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 2020, 2025))
	assert.True(t, InYearWindow(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), 2020, 2025))
	assert.False(t, InYearWindow(time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC), 2020, 2025))
	assert.False(t, InYearWindow(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 2020, 2025))
}
