// Package app assembles the service from its parts: provider client,
// repositories, usecase services, and the HTTP surface.
package app

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/matchdata/external/statsbomb"
	"github.com/riskibarqy/matchdata/internal/config"
	"github.com/riskibarqy/matchdata/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/matchdata/internal/interfaces/httpapi"
	"github.com/riskibarqy/matchdata/internal/platform/cache"
	"github.com/riskibarqy/matchdata/internal/platform/logging"
	"github.com/riskibarqy/matchdata/internal/platform/resilience"
	"github.com/riskibarqy/matchdata/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	cleanup := func() error { return nil }

	source := statsbomb.NewClient(statsbomb.ClientConfig{
		BaseURL:    cfg.StatsBombBaseURL,
		Timeout:    cfg.StatsBombTimeout,
		MaxRetries: cfg.StatsBombMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.BreakerConfig{
			Enabled:          cfg.StatsBombCircuitEnabled,
			FailureThreshold: cfg.StatsBombCircuitFailures,
			OpenTimeout:      cfg.StatsBombCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.StatsBombCircuitHalfOpenReq,
		},
		Trace: true,
	})

	catalogSvc := usecase.NewCatalogService(source, logger)
	eventSvc := usecase.NewEventService(source, logger)
	lineupSvc := usecase.NewLineupService(source, eventSvc, logger)

	var ingestSvc *usecase.IngestService
	if cfg.DBEnabled {
		db, err := newDB(cfg)
		if err != nil {
			return nil, nil, err
		}
		cleanup = db.Close

		ingestSvc = usecase.NewIngestService(
			catalogSvc,
			lineupSvc,
			eventSvc,
			postgres.NewCompetitionRepository(db),
			postgres.NewGameRepository(db),
			postgres.NewPlayerGameRepository(db),
			postgres.NewEventRepository(db),
			logger,
		)
	} else {
		logger.Warn("database disabled, ingest jobs unavailable")
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	handler := httpapi.NewHandler(catalogSvc, lineupSvc, eventSvc, ingestSvc, store, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func newDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Connect("postgres", cfg.DBURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(4)
	return db, nil
}
