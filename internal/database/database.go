package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-listing/internal/config"
	"ms-listing/internal/logger"
	"ms-listing/internal/models"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

var retryDelay = 2 * time.Second

// Open connects to the configured backend, retrying the ping up to
// cfg.ConnectRetries times.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	driverName, dsn, err := driverAndDSN(cfg)
	if err != nil {
		return nil, err
	}

	retries := cfg.ConnectRetries
	if retries < 1 {
		retries = 1
	}

	var sqldb *sql.DB
	for i := 0; i < retries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to %s (attempt %d/%d)", cfg.Driver, i+1, retries))
		sqldb, err = sql.Open(driverName, dsn)
		if err != nil {
			log.Error("DATABASE", fmt.Sprintf("Failed to open %s: %v", cfg.Driver, err))
		} else if err = sqldb.PingContext(ctx); err == nil {
			break
		} else {
			log.Error("DATABASE", fmt.Sprintf("Failed to connect to %s: %v", cfg.Driver, err))
			sqldb.Close()
		}
		if i < retries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s after %d attempts: %w", cfg.Driver, retries, err)
	}

	if cfg.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		sqldb.SetConnMaxLifetime(cfg.MaxLifetime)
	}

	log.Info("DATABASE", fmt.Sprintf("✅ %s connection successful", cfg.Driver))
	return NewBunDB(sqldb, cfg.Driver), nil
}

// NewBunDB wraps an open pool with the dialect matching driver.
func NewBunDB(sqldb *sql.DB, driver string) *bun.DB {
	switch driver {
	case DriverMySQL:
		return bun.NewDB(sqldb, mysqldialect.New())
	case DriverSQLite:
		return bun.NewDB(sqldb, sqlitedialect.New())
	default:
		return bun.NewDB(sqldb, pgdialect.New())
	}
}

func driverAndDSN(cfg config.DatabaseConfig) (string, string, error) {
	switch cfg.Driver {
	case DriverPostgres, "":
		return "postgres", cfg.PostgresDSN, nil
	case DriverMySQL:
		return "mysql", cfg.MySQLDSN, nil
	case DriverSQLite:
		return sqliteshim.ShimName, cfg.SQLiteDSN, nil
	default:
		return "", "", fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}
}

// CreateSchema creates the listing tables from the bun models. Postgres
// deployments use the SQL migrations instead; this path serves mysql, sqlite,
// tests and the seeder.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewCreateTable().Model((*models.Venue)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create venues: %w", err)
	}
	if _, err := db.NewCreateTable().Model((*models.Artist)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create artists: %w", err)
	}
	_, err := db.NewCreateTable().
		Model((*models.Show)(nil)).
		IfNotExists().
		ForeignKey("(artist_id) REFERENCES artists (id) ON DELETE CASCADE").
		ForeignKey("(venue_id) REFERENCES venues (id) ON DELETE CASCADE").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create shows: %w", err)
	}
	return nil
}

// DropSchema removes the listing tables in reverse dependency order.
func DropSchema(ctx context.Context, db bun.IDB) error {
	tables := []interface{}{(*models.Show)(nil), (*models.Artist)(nil), (*models.Venue)(nil)}
	for _, m := range tables {
		if _, err := db.NewDropTable().Model(m).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("drop %T: %w", m, err)
		}
	}
	return nil
}
