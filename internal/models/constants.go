package models

// Common constants used across the application
const (
	// OtherContinent is the region tag for countries missing from the continent table.
	OtherContinent = "Other"

	// DefaultMultiplier applies when a country has no conflict index signal.
	DefaultMultiplier = 1
)
