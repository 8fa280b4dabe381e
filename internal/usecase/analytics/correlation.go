package analytics

import (
	"math"

	"github.com/simaogato/folio-backend/internal/domain"
)

// maxPairGapMillis is the largest time gap (exclusive) between two snapshots paired for correlation
const maxPairGapMillis = 24 * 60 * 60 * 1000

// AccountCorrelation is the Pearson correlation between two accounts' time-matched values
type AccountCorrelation struct {
	AccountA               *domain.Account
	AccountB               *domain.Account
	CorrelationCoefficient float64
	DataPoints             int
}

// PairByTime pairs every snapshot of a with the nearest-in-time snapshot of b.
// A pair is kept only when the gap is under 24 hours. The earliest b wins on equal gaps.
func PairByTime(a, b []*domain.AccountValueSnapshot) (xs, ys []float64) {
	sortedA := sortedByTime(a)
	sortedB := sortedByTime(b)
	if len(sortedB) == 0 {
		return nil, nil
	}

	for _, sa := range sortedA {
		var nearest *domain.AccountValueSnapshot
		var bestGap int64
		for _, sb := range sortedB {
			gap := abs64(sa.Timestamp - sb.Timestamp)
			if nearest == nil || gap < bestGap {
				nearest = sb
				bestGap = gap
			}
		}
		if bestGap < maxPairGapMillis {
			xs = append(xs, sa.Value.InexactFloat64())
			ys = append(ys, nearest.Value.InexactFloat64())
		}
	}
	return xs, ys
}

// PearsonCorrelation returns r over two equal-length series.
// If either series has zero variance the coefficient is 0.
func PearsonCorrelation(xs, ys []float64) float64 {
	n := len(xs)
	if n == 0 || n != len(ys) {
		return 0
	}

	meanX := mean(xs)
	meanY := mean(ys)

	var num, sumSqX, sumSqY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		num += dx * dy
		sumSqX += dx * dx
		sumSqY += dy * dy
	}

	den := math.Sqrt(sumSqX) * math.Sqrt(sumSqY)
	if den == 0 {
		return 0
	}
	return num / den
}

// CalculateCorrelation correlates two accounts' snapshots.
// Returns nil when fewer than two time-matched pairs exist.
func CalculateCorrelation(accountA, accountB *domain.Account, a, b []*domain.AccountValueSnapshot) *AccountCorrelation {
	xs, ys := PairByTime(a, b)
	if len(xs) < 2 {
		return nil
	}

	return &AccountCorrelation{
		AccountA:               accountA,
		AccountB:               accountB,
		CorrelationCoefficient: PearsonCorrelation(xs, ys),
		DataPoints:             len(xs),
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
