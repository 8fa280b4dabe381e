package grpc

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/folio-backend/internal/domain"
	"github.com/simaogato/folio-backend/internal/events"
	"github.com/simaogato/folio-backend/internal/usecase/accounts"
	"github.com/simaogato/folio-backend/internal/usecase/analytics"
	"github.com/simaogato/folio-backend/internal/usecase/currency"
	"github.com/simaogato/folio-backend/internal/usecase/statistics"
)

// watchBuffer is the per-stream event buffer; bursts beyond it collapse into one refresh
const watchBuffer = 8

// Server implements PortfolioServiceServer
type Server struct {
	StatisticsService *statistics.StatisticsService
	AnalyticsService  *analytics.AnalyticsService
	AccountService    *accounts.AccountService
	CurrencyService   *currency.CurrencyService
	Hub               *events.Hub

	logger *zap.Logger
}

var _ PortfolioServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(
	statisticsService *statistics.StatisticsService,
	analyticsService *analytics.AnalyticsService,
	accountService *accounts.AccountService,
	currencyService *currency.CurrencyService,
	hub *events.Hub,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		StatisticsService: statisticsService,
		AnalyticsService:  analyticsService,
		AccountService:    accountService,
		CurrencyService:   currencyService,
		Hub:               hub,
		logger:            logger,
	}
}

// GetPortfolioStatistics handles the GetPortfolioStatistics RPC
func (s *Server) GetPortfolioStatistics(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	period, err := parsePeriod(req)
	if err != nil {
		return nil, err
	}

	stats, err := s.StatisticsService.GetPortfolioStatistics(ctx, period)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(statisticsToMap(stats))
}

// GetPortfolioAnalytics handles the GetPortfolioAnalytics RPC
func (s *Server) GetPortfolioAnalytics(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	period, err := parsePeriod(req)
	if err != nil {
		return nil, err
	}

	result, err := s.AnalyticsService.GetPortfolioAnalytics(ctx, period)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(analyticsToMap(result))
}

// GetAccountTrend handles the GetAccountTrend RPC
func (s *Server) GetAccountTrend(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountID, err := parseUUID(req, "account_id")
	if err != nil {
		return nil, err
	}
	period, err := parsePeriod(req)
	if err != nil {
		return nil, err
	}

	trend, err := s.AnalyticsService.GetAccountTrend(ctx, accountID, period)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(trendToMap(trend))
}

// GetAccountsCorrelation handles the GetAccountsCorrelation RPC.
// "correlation" is null when the accounts have fewer than two time-matched points.
func (s *Server) GetAccountsCorrelation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountA, err := parseUUID(req, "account_a_id")
	if err != nil {
		return nil, err
	}
	accountB, err := parseUUID(req, "account_b_id")
	if err != nil {
		return nil, err
	}
	period, err := parsePeriod(req)
	if err != nil {
		return nil, err
	}

	corr, err := s.AnalyticsService.GetAccountsCorrelation(ctx, accountA, accountB, period)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(map[string]interface{}{
		"correlation": correlationToMap(corr),
	})
}

// ConvertCurrency handles the ConvertCurrency RPC
func (s *Server) ConvertCurrency(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	amount, err := parseDecimal(req, "amount")
	if err != nil {
		return nil, err
	}
	from := domain.NormalizeCurrency(stringField(req, "from"))
	to := domain.NormalizeCurrency(stringField(req, "to"))
	if from == "" || to == "" {
		return nil, status.Errorf(codes.InvalidArgument, "from and to currencies are required")
	}

	converted, err := s.CurrencyService.Convert(ctx, amount, from, to)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(map[string]interface{}{
		"amount":    amount.String(),
		"from":      from,
		"to":        to,
		"converted": converted.String(),
		"formatted": currency.Format(converted, to),
	})
}

// CreateAccount handles the CreateAccount RPC
func (s *Server) CreateAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	account, err := s.AccountService.CreateAccount(ctx, stringField(req, "name"), stringField(req, "currency"))
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(map[string]interface{}{
		"account": accountToMap(account),
	})
}

// ListAccounts handles the ListAccounts RPC
func (s *Server) ListAccounts(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	list, err := s.AccountService.ListAccounts(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	out := make([]interface{}, 0, len(list))
	for _, account := range list {
		out = append(out, accountToMap(account))
	}

	return toStruct(map[string]interface{}{
		"accounts": out,
	})
}

// DeleteAccount handles the DeleteAccount RPC
func (s *Server) DeleteAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountID, err := parseUUID(req, "account_id")
	if err != nil {
		return nil, err
	}

	if err := s.AccountService.DeleteAccount(ctx, accountID); err != nil {
		return nil, mapError(err)
	}

	return toStruct(map[string]interface{}{
		"deleted": true,
	})
}

// RecordSnapshot handles the RecordSnapshot RPC
func (s *Server) RecordSnapshot(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	accountID, err := parseUUID(req, "account_id")
	if err != nil {
		return nil, err
	}
	value, err := parseDecimal(req, "value")
	if err != nil {
		return nil, err
	}
	at, err := parseTimestamp(req, "timestamp")
	if err != nil {
		return nil, err
	}

	snapshot, err := s.AccountService.RecordSnapshot(ctx, accountID, value, optionalString(req, "note"), at)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(map[string]interface{}{
		"snapshot": snapshotToMap(snapshot),
	})
}

// WatchPortfolioStatistics sends the statistics once, then again after every change event
// until the client goes away or the hub closes.
func (s *Server) WatchPortfolioStatistics(req *structpb.Struct, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	period, err := parsePeriod(req)
	if err != nil {
		return err
	}
	if s.Hub == nil {
		return status.Error(codes.Unavailable, "change notifications are disabled")
	}

	ctx := stream.Context()
	changes, cancel := s.Hub.Subscribe(watchBuffer)
	defer cancel()

	send := func() error {
		stats, err := s.StatisticsService.GetPortfolioStatistics(ctx, period)
		if err != nil {
			return mapError(err)
		}
		msg, err := toStruct(statisticsToMap(stats))
		if err != nil {
			return err
		}
		return stream.Send(msg)
	}

	if err := send(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-changes:
			if !ok {
				return nil
			}
			drain(changes)
			s.logger.Debug("pushing statistics after change", zap.String("kind", string(ev.Kind)))
			if err := send(); err != nil {
				return err
			}
		}
	}
}

// drain discards queued events so a burst produces a single refresh
func drain(ch <-chan events.Event) {
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	errorMsg := err.Error()

	if errors.Is(err, domain.ErrNotFound) {
		return status.Errorf(codes.NotFound, "%s", errorMsg)
	}

	// Map validation errors to InvalidArgument
	if strings.Contains(errorMsg, "must ") ||
		strings.Contains(errorMsg, "invalid") ||
		strings.Contains(errorMsg, "cannot be empty") {
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", errorMsg)
}
