package grpc

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/folio-backend/internal/domain"
	"github.com/simaogato/folio-backend/internal/usecase/analytics"
	"github.com/simaogato/folio-backend/internal/usecase/currency"
	"github.com/simaogato/folio-backend/internal/usecase/statistics"
)

// Request fields are read leniently: a missing optional field yields its zero value.

func stringField(req *structpb.Struct, key string) string {
	v, ok := req.GetFields()[key]
	if !ok {
		return ""
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return strings.TrimSpace(k.StringValue)
	case *structpb.Value_NumberValue:
		return decimal.NewFromFloat(k.NumberValue).String()
	default:
		return ""
	}
}

func parsePeriod(req *structpb.Struct) (domain.TimePeriod, error) {
	period, err := domain.ParseTimePeriod(stringField(req, "period"))
	if err != nil {
		return 0, status.Errorf(codes.InvalidArgument, "%v", err)
	}
	return period, nil
}

func parseUUID(req *structpb.Struct, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(stringField(req, key))
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", key, err)
	}
	return id, nil
}

// parseDecimal accepts decimal strings (preferred, exact) and JSON numbers
func parseDecimal(req *structpb.Struct, key string) (decimal.Decimal, error) {
	raw := stringField(req, key)
	if raw == "" {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "%s is required", key)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", key, err)
	}
	return d, nil
}

func optionalString(req *structpb.Struct, key string) *string {
	if _, ok := req.GetFields()[key]; !ok {
		return nil
	}
	s := stringField(req, key)
	return &s
}

// parseTimestamp reads epoch millis; absent means zero time
func parseTimestamp(req *structpb.Struct, key string) (time.Time, error) {
	v, ok := req.GetFields()[key]
	if !ok {
		return time.Time{}, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || n.NumberValue <= 0 || n.NumberValue != math.Trunc(n.NumberValue) {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "invalid %s: must be positive epoch milliseconds", key)
	}
	return time.UnixMilli(int64(n.NumberValue)), nil
}

func toStruct(m map[string]interface{}) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return s, nil
}

func decimalPtr(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

func floatPtr(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}

func accountToMap(a *domain.Account) map[string]interface{} {
	if a == nil {
		return nil
	}
	return map[string]interface{}{
		"id":         a.ID.String(),
		"name":       a.Name,
		"currency":   a.Currency,
		"created_at": a.CreatedAt.UnixMilli(),
		"updated_at": a.UpdatedAt.UnixMilli(),
	}
}

func snapshotToMap(s *domain.AccountValueSnapshot) map[string]interface{} {
	m := map[string]interface{}{
		"id":         s.ID.String(),
		"account_id": s.AccountID.String(),
		"value":      s.Value.String(),
		"timestamp":  s.Timestamp,
		"note":       nil,
	}
	if s.Note != nil {
		m["note"] = *s.Note
	}
	return m
}

func statisticsToMap(stats *statistics.PortfolioStatistics) map[string]interface{} {
	accounts := make([]interface{}, 0, len(stats.Accounts))
	for _, a := range stats.Accounts {
		accounts = append(accounts, map[string]interface{}{
			"account":           accountToMap(a.Account),
			"current_value":     a.CurrentValue.String(),
			"first_value":       decimalPtr(a.FirstValue),
			"value_change":      decimalPtr(a.ValueChange),
			"percentage_change": floatPtr(a.PercentageChange),
			"value_count":       a.ValueCount,
			"formatted_current": currency.Format(a.CurrentValue, a.Account.Currency),
		})
	}
	return map[string]interface{}{
		"period":                       stats.Period.String(),
		"start":                        stats.Start,
		"end":                          stats.End,
		"total_accounts":               stats.TotalAccounts,
		"total_value_in_base_currency": stats.TotalValueInBaseCurrency.String(),
		"base_currency":                stats.BaseCurrency,
		"formatted_total":              stats.FormattedTotal,
		"accounts":                     accounts,
	}
}

func performanceToMap(p *analytics.AccountPerformance) map[string]interface{} {
	if p == nil {
		return nil
	}
	return map[string]interface{}{
		"account":               accountToMap(p.Account),
		"start_value":           p.StartValue,
		"end_value":             p.EndValue,
		"total_gain":            p.TotalGain,
		"total_gain_percentage": p.TotalGainPercentage,
		"average_daily_change":  p.AverageDailyChange,
		"volatility":            p.Volatility,
		"growth_rate":           p.GrowthRate,
		"data_points":           p.DataPoints,
		"days_tracked":          p.DaysTracked,
	}
}

func analyticsToMap(a *analytics.PortfolioAnalytics) map[string]interface{} {
	perfs := make([]interface{}, 0, len(a.Performances))
	for i := range a.Performances {
		perfs = append(perfs, performanceToMap(&a.Performances[i]))
	}

	m := map[string]interface{}{
		"period":                 a.Period.String(),
		"start":                  a.Start,
		"end":                    a.End,
		"base_currency":          a.BaseCurrency,
		"performances":           perfs,
		"accounts_analyzed":      a.AccountsAnalyzed,
		"average_growth_rate":    a.AverageGrowthRate,
		"total_portfolio_growth": a.TotalPortfolioGrowth,
		"best_performer":         nil,
		"worst_performer":        nil,
	}
	if a.BestPerformer != nil {
		m["best_performer"] = performanceToMap(a.BestPerformer)
	}
	if a.WorstPerformer != nil {
		m["worst_performer"] = performanceToMap(a.WorstPerformer)
	}
	return m
}

func trendToMap(t *analytics.AccountTrend) map[string]interface{} {
	return map[string]interface{}{
		"account":        accountToMap(t.Account),
		"direction":      string(t.Direction),
		"slope":          t.Slope,
		"trend_strength": t.TrendStrength,
		"data_points":    t.DataPoints,
	}
}

func correlationToMap(c *analytics.AccountCorrelation) interface{} {
	if c == nil {
		return nil
	}
	return map[string]interface{}{
		"account_a":               accountToMap(c.AccountA),
		"account_b":               accountToMap(c.AccountB),
		"correlation_coefficient": c.CorrelationCoefficient,
		"data_points":             c.DataPoints,
	}
}
