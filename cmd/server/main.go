package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	grpcadapter "github.com/simaogato/folio-backend/internal/adapter/grpc"
	"github.com/simaogato/folio-backend/internal/adapter/ratefeed"
	"github.com/simaogato/folio-backend/internal/adapter/repository/memory"
	"github.com/simaogato/folio-backend/internal/adapter/repository/sqlstore"
	"github.com/simaogato/folio-backend/internal/config"
	"github.com/simaogato/folio-backend/internal/domain"
	"github.com/simaogato/folio-backend/internal/events"
	"github.com/simaogato/folio-backend/internal/logger"
	"github.com/simaogato/folio-backend/internal/scheduler"
	"github.com/simaogato/folio-backend/internal/usecase/accounts"
	"github.com/simaogato/folio-backend/internal/usecase/analytics"
	"github.com/simaogato/folio-backend/internal/usecase/currency"
	"github.com/simaogato/folio-backend/internal/usecase/ratesync"
	"github.com/simaogato/folio-backend/internal/usecase/seeder"
	"github.com/simaogato/folio-backend/internal/usecase/statistics"
)

// repositories groups the store implementations selected by config
type repositories struct {
	accounts    domain.AccountRepository
	snapshots   domain.SnapshotRepository
	rates       domain.ExchangeRateRepository
	preferences domain.PreferenceRepository
	close       func() error
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	// 1. Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 2. Setup storage
	repos, err := openRepositories(ctx, cfg.Database)
	if err != nil {
		zlog.Fatal("failed to open store", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer func() {
		if err := repos.close(); err != nil {
			zlog.Warn("failed to close store", zap.Error(err))
		}
	}()
	zlog.Info("store ready", zap.String("driver", cfg.Database.Driver))

	// 3. Initialize services
	hub := events.NewHub(zlog.Named("events"))
	defer hub.Close()

	currencyService := currency.NewCurrencyService(repos.rates)
	statisticsService := statistics.NewStatisticsService(repos.accounts, repos.snapshots, repos.preferences, currencyService)
	analyticsService := analytics.NewAnalyticsService(repos.accounts, repos.snapshots, repos.preferences, currencyService)
	accountService := accounts.NewAccountService(repos.accounts, repos.snapshots, hub)

	// Seed default rates and preferences on first start
	result, err := seeder.NewSystemSeeder(currencyService, repos.preferences).Seed(ctx)
	if err != nil {
		zlog.Fatal("failed to seed defaults", zap.Error(err))
	}
	zlog.Info("defaults seeded",
		zap.Int("rates", result.RatesSeeded),
		zap.Bool("preferences", result.PreferencesSeeded),
	)

	// 4. Exchange rate refresher (optional)
	sched := scheduler.NewScheduler(ctx, zlog.Named("scheduler"))
	if cfg.Rates.FeedURL != "" {
		client := ratefeed.NewClient(cfg.Rates.FeedURL, cfg.Rates.Timeout, cfg.Rates.MaxAttempts, zlog.Named("ratefeed"))
		refresher := ratesync.NewRefresher(client, repos.rates, hub, zlog.Named("ratesync"))
		if err := sched.Register("refresh-rates", cfg.Rates.RefreshCron, refresher.Run); err != nil {
			zlog.Fatal("failed to schedule rate refresh", zap.Error(err))
		}
		if cfg.Rates.RefreshOnBoot {
			go refresher.Run(ctx)
		}
	} else {
		zlog.Info("rate feed disabled, using stored rates")
	}
	sched.Start()
	defer sched.Stop()

	// 5. Start gRPC server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(zlog.Named("grpc")),
			grpcadapter.AuthInterceptor(cfg.Server.APIToken),
		),
		grpclib.ChainStreamInterceptor(
			grpcadapter.StreamLoggingInterceptor(zlog.Named("grpc")),
			grpcadapter.StreamAuthInterceptor(cfg.Server.APIToken),
		),
	)

	grpcAdapter := grpcadapter.NewServer(statisticsService, analyticsService, accountService, currencyService, hub, zlog.Named("grpc"))
	grpcadapter.RegisterPortfolioServiceServer(grpcServer, grpcAdapter)

	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		zlog.Fatal("failed to listen", zap.String("addr", cfg.Server.GRPCAddr), zap.Error(err))
	}

	go func() {
		zlog.Info("gRPC server listening", zap.String("addr", cfg.Server.GRPCAddr))
		if err := grpcServer.Serve(lis); err != nil {
			zlog.Error("gRPC server stopped with error", zap.Error(err))
			cancel()
		}
	}()

	// Graceful shutdown
	waitForShutdown(ctx, grpcServer, hub, zlog)
}

func openRepositories(ctx context.Context, cfg config.DatabaseConfig) (*repositories, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		return &repositories{
			accounts:    store.Accounts(),
			snapshots:   store.Snapshots(),
			rates:       store.ExchangeRates(),
			preferences: store.Preferences(),
			close:       func() error { return nil },
		}, nil
	case config.DriverSQLite, config.DriverPostgres:
		var (
			db  *sqlstore.DB
			err error
		)
		if cfg.Driver == config.DriverSQLite {
			db, err = sqlstore.NewSQLite(ctx, cfg.SQLitePath)
		} else {
			db, err = sqlstore.NewPostgres(ctx, cfg.PostgresDSN())
		}
		if err != nil {
			return nil, err
		}
		return &repositories{
			accounts:    sqlstore.NewAccountRepository(db),
			snapshots:   sqlstore.NewSnapshotRepository(db),
			rates:       sqlstore.NewExchangeRateRepository(db),
			preferences: sqlstore.NewPreferenceRepository(db),
			close:       db.Close,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// waitForShutdown waits for SIGTERM, SIGINT or a fatal serve error and stops the server.
// Open watch streams are ended by closing the hub first so GracefulStop does not block on them.
func waitForShutdown(ctx context.Context, grpcServer *grpclib.Server, hub *events.Hub, zlog *zap.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		zlog.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case <-ctx.Done():
	}

	hub.Close()
	grpcServer.GracefulStop()
	zlog.Info("gRPC server stopped")
}
