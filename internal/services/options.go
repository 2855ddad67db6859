package services

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/light-bringer/quote-pricing-service/internal/app/quote/calculation"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/contracts"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/linking"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/queries/calculate_price"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/queries/get_price_history"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/queries/get_quote"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/queries/list_events"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/repo"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/add_event"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/change_parameters"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/create_quote"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/quote_writer"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/remove_event"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/reset_price"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/save_quote"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/select_package"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/set_manual_price"
	"github.com/light-bringer/quote-pricing-service/internal/app/quote/usecases/unlink_package"
	"github.com/light-bringer/quote-pricing-service/internal/config"
	"github.com/light-bringer/quote-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/quote-pricing-service/internal/pkg/committer"
	"github.com/light-bringer/quote-pricing-service/internal/transport/http/quote"
)

const connectTimeout = 10 * time.Second

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client
	MongoClient   *mongo.Client
	RedisClient   *redis.Client

	Calculator   *calculation.Service
	QuoteHandler *quote.Handler

	logger *zap.Logger
}

// NewServiceOptions creates and wires up all application dependencies.
func NewServiceOptions(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ServiceOptions, error) {
	s := &ServiceOptions{logger: logger}

	// 1. Initialize Spanner client
	spannerClient, err := spanner.NewClient(ctx, cfg.SpannerDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to create Spanner client: %w", err)
	}
	s.SpannerClient = spannerClient

	// 2. Create infrastructure components
	clk := clock.NewRealClock()
	comm := committer.NewCommitter(spannerClient)

	// 3. Create repositories
	quoteRepo := repo.NewQuoteRepo(spannerClient, clk)
	historyRepo := repo.NewPriceHistoryRepo(spannerClient)
	outboxRepo := repo.NewOutboxRepo(spannerClient)

	packageReader, err := s.newPackageReader(ctx, cfg, spannerClient)
	if err != nil {
		s.Close()
		return nil, err
	}

	// 4. Create pricing components
	s.Calculator = calculation.NewService(packageReader, clk, logger, calculation.Config{
		DebounceWindow: cfg.DebounceWindow,
		FetchTimeout:   cfg.FetchTimeout,
		PackageTTL:     cfg.PackageTTL,
		StrictMode:     cfg.StrictMode,
	})
	manager := linking.NewManager(s.Calculator, logger)
	writer := quote_writer.NewWriter(quoteRepo, historyRepo, outboxRepo, comm, clk)

	// 5. Create command use cases (write operations)
	commands := quote.Commands{
		CreateQuote:      create_quote.NewInteractor(writer, clk),
		SelectPackage:    select_package.NewInteractor(quoteRepo, manager, writer),
		ChangeParameters: change_parameters.NewInteractor(quoteRepo, manager, writer),
		SetManualPrice:   set_manual_price.NewInteractor(quoteRepo, manager, writer),
		ResetPrice:       reset_price.NewInteractor(quoteRepo, manager, writer),
		UnlinkPackage:    unlink_package.NewInteractor(quoteRepo, manager, writer),
		AddEvent:         add_event.NewInteractor(quoteRepo, writer),
		RemoveEvent:      remove_event.NewInteractor(quoteRepo, writer),
		SaveQuote:        save_quote.NewInteractor(quoteRepo, writer),
	}

	// 6. Create query use cases (read operations)
	queries := quote.Queries{
		GetQuote:        get_quote.NewQuery(quoteRepo),
		CalculatePrice:  calculate_price.NewQuery(quoteRepo, s.Calculator),
		GetPriceHistory: get_price_history.NewQuery(historyRepo),
		ListEvents:      list_events.NewQuery(outboxRepo),
	}

	// 7. Create HTTP handler
	s.QuoteHandler = quote.NewHandler(commands, queries, logger)

	return s, nil
}

// newPackageReader selects the package catalog and fronts it with Redis when configured.
func (s *ServiceOptions) newPackageReader(ctx context.Context, cfg *config.Config, spannerClient *spanner.Client) (contracts.PackageReader, error) {
	var reader contracts.PackageReader

	switch cfg.PackageSource {
	case config.PackageSourceMongo:
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		s.MongoClient = client
		if err := client.Ping(connectCtx, nil); err != nil {
			return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
		}

		mongoReader := repo.NewMongoPackageReader(client.Database(cfg.MongoDatabase))
		if err := mongoReader.EnsureIndexes(connectCtx); err != nil {
			return nil, err
		}
		reader = mongoReader
		s.logger.Info("Reading packages from MongoDB", zap.String("database", cfg.MongoDatabase))

	default:
		reader = repo.NewSpannerPackageReader(spannerClient)
	}

	if cfg.RedisAddr == "" {
		return reader, nil
	}

	s.RedisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := s.RedisClient.Ping(pingCtx).Result(); err != nil {
		// the cache is best effort; reads fall through until Redis is reachable
		s.logger.Warn("Redis package cache unreachable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	return repo.NewCachedPackageReader(reader, s.RedisClient, cfg.PackageCacheTTL, s.logger), nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.RedisClient != nil {
		if err := s.RedisClient.Close(); err != nil {
			s.logger.Warn("Failed to close Redis client", zap.Error(err))
		}
	}
	if s.MongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := s.MongoClient.Disconnect(ctx); err != nil {
			s.logger.Warn("Failed to disconnect MongoDB", zap.Error(err))
		}
	}
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
