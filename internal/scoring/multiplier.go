package scoring

import (
	"math"

	"shadowgap.org/internal/models"
)

const (
	DangerWeight     = 0.7
	DeadlinessWeight = 0.3

	// MaxMultiplier is the multiplier reached at a suppression score of 1.
	MaxMultiplier = 2000.0

	// ConflictZoneDanger and MinLatentCases define the blackout rule.
	ConflictZoneDanger = 500.0
	MinLatentCases     = 10
)

// SuppressionScore weights normalized danger over deadliness. The result is
// in [0,1] for inputs in [0,1].
func SuppressionScore(n Normalized) float64 {
	return clamp01(DangerWeight*n.Danger + DeadlinessWeight*n.Deadliness)
}

// Multiplier maps a suppression score to floor(MaxMultiplier^score). A
// country the index classifies as Low/Inactive always gets 1.
func Multiplier(score float64, level models.IndexLevel) int {
	if level.Peaceful() {
		return models.DefaultMultiplier
	}

	m := int(math.Floor(math.Pow(MaxMultiplier, clamp01(score))))
	if m < 1 {
		return 1
	}
	return m
}

// AdjustReported applies the blackout rule: in a conflict zone with fewer
// than MinLatentCases reports, assume MinLatentCases. It never lowers a count.
func AdjustReported(reported int, danger float64) int {
	if danger > ConflictZoneDanger && reported < MinLatentCases {
		return MinLatentCases
	}
	return reported
}

// Project multiplies the adjusted count by the multiplier.
func Project(adjusted, multiplier int) int {
	return adjusted * multiplier
}
