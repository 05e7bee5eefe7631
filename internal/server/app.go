// Package server wires the data protection core together: configuration,
// logging, the PostgreSQL connection, schema migrations, and the service
// layer. Transport is intentionally absent; embedders mount the services
// behind whatever surface they run.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/secureportal/internal/logging"
	"github.com/dmitrijs2005/secureportal/internal/server/config"
	"github.com/dmitrijs2005/secureportal/internal/server/fieldcrypt"
	"github.com/dmitrijs2005/secureportal/internal/server/integrity"
	"github.com/dmitrijs2005/secureportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/secureportal/internal/server/services"
)

// App is the composition root of the core.
type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	rm     repomanager.RepositoryManager

	Auth       *services.AuthService
	CSRF       *services.CSRFService
	RateLimit  *services.RateLimitService
	Records    *services.RecordService
	Identities *services.IdentityService
	Audit      *services.AuditService
}

// NewApp builds the full service graph from configuration. The database is
// opened but not pinged; call Bootstrap before serving.
func NewApp(cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	aesKey, err := cfg.AESKey()
	if err != nil {
		return nil, err
	}
	hmacSecret, err := cfg.HMACSecret()
	if err != nil {
		return nil, err
	}

	cipher, err := fieldcrypt.NewCipher(aesKey)
	if err != nil {
		return nil, fmt.Errorf("cipher init error: %w", err)
	}
	tagger := integrity.NewTagger(hmacSecret)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	audit := services.NewAuditService(db, rm, logger)
	limiter := services.NewRateLimitService(db, rm, logger)
	csrf := services.NewCSRFService(db, rm)

	return &App{
		config:     cfg,
		logger:     logger,
		db:         db,
		rm:         rm,
		Auth:       services.NewAuthService(db, rm, cfg, tagger, audit, limiter, logger),
		CSRF:       csrf,
		RateLimit:  limiter,
		Records:    services.NewRecordService(db, rm, cipher, tagger, csrf, audit, logger),
		Identities: services.NewIdentityService(db, rm, tagger, csrf, audit, logger),
		Audit:      audit,
	}, nil
}

// Logger exposes the application logger for embedders.
func (app *App) Logger() logging.Logger {
	return app.logger
}

// Bootstrap verifies database connectivity and applies pending migrations.
func (app *App) Bootstrap(ctx context.Context) error {
	if err := app.db.PingContext(ctx); err != nil {
		return fmt.Errorf("db ping error: %w", err)
	}
	if err := app.rm.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	app.logger.Info(ctx, "database ready")
	return nil
}

// Close releases the database connection pool.
func (app *App) Close() error {
	return app.db.Close()
}
