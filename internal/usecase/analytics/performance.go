package analytics

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/simaogato/folio-backend/internal/domain"
	"github.com/simaogato/folio-backend/internal/usecase/currency"
)

const (
	millisPerDay     = int64(24 * 60 * 60 * 1000)
	growthRateWindow = 30.0 // days the growth rate is normalised to
)

// AccountPerformance describes how one account moved over a period.
// Values are in the account's own currency.
type AccountPerformance struct {
	Account             *domain.Account
	StartValue          float64
	EndValue            float64
	TotalGain           float64
	TotalGainPercentage float64
	AverageDailyChange  float64
	Volatility          float64
	GrowthRate          float64 // percent per 30 days
	DataPoints          int
	DaysTracked         int64
}

// PortfolioAnalytics aggregates account performances.
// Best/Worst and the averages only consider accounts with at least two data points.
type PortfolioAnalytics struct {
	Period               domain.TimePeriod
	Start                int64
	End                  int64
	BaseCurrency         string
	Performances         []AccountPerformance
	AccountsAnalyzed     int
	BestPerformer        *AccountPerformance
	WorstPerformer       *AccountPerformance
	AverageGrowthRate    float64
	TotalPortfolioGrowth float64
}

// sortedByTime returns a copy of snapshots ordered by timestamp ascending (stable)
func sortedByTime(snapshots []*domain.AccountValueSnapshot) []*domain.AccountValueSnapshot {
	sorted := make([]*domain.AccountValueSnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if s != nil {
			sorted = append(sorted, s)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp < sorted[j].Timestamp
	})
	return sorted
}

// CalculatePerformance computes performance metrics for one account.
// Logic:
//   - Sort snapshots by timestamp
//   - Fewer than 2 points: degenerate record, every rate is zero
//   - Deltas between consecutive snapshots drive the average change and volatility
//   - Growth rate is the total gain percentage normalised to 30 days
func CalculatePerformance(account *domain.Account, snapshots []*domain.AccountValueSnapshot) AccountPerformance {
	sorted := sortedByTime(snapshots)
	perf := AccountPerformance{Account: account, DataPoints: len(sorted)}

	if len(sorted) < 2 {
		if len(sorted) == 1 {
			v := sorted[0].Value.InexactFloat64()
			perf.StartValue = v
			perf.EndValue = v
		}
		return perf
	}

	first := sorted[0]
	last := sorted[len(sorted)-1]
	perf.StartValue = first.Value.InexactFloat64()
	perf.EndValue = last.Value.InexactFloat64()

	perf.TotalGain = perf.EndValue - perf.StartValue
	if perf.StartValue != 0 {
		perf.TotalGainPercentage = perf.TotalGain / perf.StartValue * 100
	}

	changes := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		changes = append(changes, sorted[i].Value.InexactFloat64()-sorted[i-1].Value.InexactFloat64())
	}
	perf.AverageDailyChange = mean(changes)
	perf.Volatility = populationStdDev(changes)

	perf.DaysTracked = (last.Timestamp - first.Timestamp) / millisPerDay
	if perf.DaysTracked > 0 && perf.StartValue > 0 {
		perf.GrowthRate = perf.TotalGainPercentage / float64(perf.DaysTracked) * growthRateWindow
	} else {
		perf.GrowthRate = perf.TotalGainPercentage
	}

	return perf
}

// AggregatePerformances builds the portfolio view over per-account performances.
// Start and end values are converted into baseCurrency before the portfolio growth is summed.
func AggregatePerformances(perfs []AccountPerformance, rates currency.RateTable, baseCurrency string) PortfolioAnalytics {
	result := PortfolioAnalytics{
		BaseCurrency: baseCurrency,
		Performances: perfs,
	}
	if result.Performances == nil {
		result.Performances = []AccountPerformance{}
	}

	var (
		growthSum  float64
		startSum   float64
		endSum     float64
		bestIndex  = -1
		worstIndex = -1
	)

	for i := range result.Performances {
		p := &result.Performances[i]
		if p.DataPoints < 2 {
			continue
		}
		result.AccountsAnalyzed++
		growthSum += p.GrowthRate

		// first encountered wins ties
		if bestIndex < 0 || p.GrowthRate > result.Performances[bestIndex].GrowthRate {
			bestIndex = i
		}
		if worstIndex < 0 || p.GrowthRate < result.Performances[worstIndex].GrowthRate {
			worstIndex = i
		}

		code := baseCurrency
		if p.Account != nil {
			code = p.Account.Currency
		}
		startSum += toBase(rates, p.StartValue, code, baseCurrency)
		endSum += toBase(rates, p.EndValue, code, baseCurrency)
	}

	if result.AccountsAnalyzed == 0 {
		return result
	}

	best := result.Performances[bestIndex]
	worst := result.Performances[worstIndex]
	result.BestPerformer = &best
	result.WorstPerformer = &worst
	result.AverageGrowthRate = growthSum / float64(result.AccountsAnalyzed)

	if startSum != 0 {
		result.TotalPortfolioGrowth = (endSum - startSum) / startSum * 100
	}

	return result
}

func toBase(rates currency.RateTable, value float64, from, to string) float64 {
	if from == to {
		return value
	}
	return rates.Convert(decimal.NewFromFloat(value), from, to).InexactFloat64()
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStdDev is the square root of the mean squared deviation
func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sq float64
	for _, v := range values {
		d := v - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)))
}
