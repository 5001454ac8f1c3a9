package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"replayrng/adapters/db/postgres/migrations"
	"replayrng/adapters/postgres"
	"replayrng/adapters/stream"
	"replayrng/app"
	"replayrng/internal"
	"replayrng/internal/config"
	"replayrng/internal/errors"
	"replayrng/internal/testkit"
	"replayrng/internal/validation"
	"replayrng/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	SnapshotRepo ports.SnapshotRepository

	// Ports
	Streams ports.StreamPort

	// Services
	GeneratorService *app.GeneratorService
	Verifier         *validation.Verifier
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel))
	}

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Streams: stream.NewAdapter(),
	}, nil
}

// Init connects storage and builds the services. Without a database URL the
// snapshot store is kept in memory and lost on exit.
func (c *Container) Init(ctx context.Context) error {
	if c.Config.UsePostgres() {
		db, err := sqlx.Connect("postgres", c.Config.Database.URL)
		if err != nil {
			return errors.DatabaseError("failed to connect to database", err)
		}
		if err := c.InitWithDatabase(ctx, db); err != nil {
			db.Close()
			return err
		}
		return nil
	}

	c.Logger.Warn("DATABASE_URL not set, snapshots are kept in memory")
	c.SnapshotRepo = testkit.NewInMemorySnapshotRepository()
	c.initServices()
	return nil
}

// InitWithDatabase initializes components that require database access
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	if err := db.PingContext(ctx); err != nil {
		return errors.DatabaseError("failed to ping database", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)

	if err := migrations.NewMigrator(db, c.Logger).Up(ctx); err != nil {
		return errors.Wrap(err, "database migration failed")
	}

	c.DB = db
	c.SnapshotRepo = postgres.NewSnapshotRepository(db)
	c.initServices()
	c.Logger.Info("Snapshots stored in PostgreSQL")
	return nil
}

func (c *Container) initServices() {
	c.GeneratorService = app.NewGeneratorService(c.SnapshotRepo, app.ServiceLimits{
		MaxRestoreDistance: c.Config.Engine.MaxRestoreDistance,
		MaxBatch:           c.Config.Engine.MaxBatch,
	}, c.Logger)
	c.Verifier = validation.NewVerifier(validation.Config{
		Draws:    validation.DefaultConfig.Draws,
		Capacity: int64(c.Config.Audit.Workers) * 2,
	}, c.Logger)
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		c.Logger.Info("Closing database connection")
		return c.DB.Close()
	}
	return nil
}
