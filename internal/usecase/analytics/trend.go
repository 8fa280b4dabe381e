package analytics

import (
	"math"

	"github.com/simaogato/folio-backend/internal/domain"
)

// TrendDirection classifies the regression slope of an account's values
type TrendDirection string

const (
	TrendUpward   TrendDirection = "UPWARD"
	TrendDownward TrendDirection = "DOWNWARD"
	TrendStable   TrendDirection = "STABLE"
)

// trendThreshold is the absolute slope (value units per snapshot) above which a trend is directional
const trendThreshold = 0.5

// AccountTrend is the least-squares trend of an account's values against snapshot index
type AccountTrend struct {
	Account       *domain.Account
	Direction     TrendDirection
	Slope         float64
	TrendStrength float64 // min(|slope|, 1)
	DataPoints    int
}

// RegressionSlope fits y = a + b*x with x = 0..n-1 by ordinary least squares and returns b.
// A zero denominator (fewer than two points) yields 0.
func RegressionSlope(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	meanX := float64(n-1) / 2
	meanY := mean(values)

	var num, den float64
	for i, y := range values {
		dx := float64(i) - meanX
		num += dx * (y - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// ClassifyTrend maps a slope to a direction and a strength clamped to [0, 1]
func ClassifyTrend(slope float64) (TrendDirection, float64) {
	direction := TrendStable
	switch {
	case slope > trendThreshold:
		direction = TrendUpward
	case slope < -trendThreshold:
		direction = TrendDownward
	}
	return direction, math.Min(math.Abs(slope), 1.0)
}

// CalculateTrend computes the trend of an account over its snapshots (sorted internally)
func CalculateTrend(account *domain.Account, snapshots []*domain.AccountValueSnapshot) AccountTrend {
	sorted := sortedByTime(snapshots)
	values := make([]float64, len(sorted))
	for i, s := range sorted {
		values[i] = s.Value.InexactFloat64()
	}

	slope := RegressionSlope(values)
	direction, strength := ClassifyTrend(slope)

	return AccountTrend{
		Account:       account,
		Direction:     direction,
		Slope:         slope,
		TrendStrength: strength,
		DataPoints:    len(values),
	}
}
