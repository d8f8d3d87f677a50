package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/akeren/tablebook/internal/log"
	"github.com/akeren/tablebook/pkg/retry"
	"github.com/akeren/tablebook/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLitePath = "tablebook.db"
)

type DBConfig struct {
	Driver          string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	SSLMode         string // Default: "require" for prod safety
	SQLitePath      string
	PingRetry       *retry.Config
}

// NewDBConfigFromEnv reads DB_DRIVER, SQLITE_PATH and the pool sizes.
func NewDBConfigFromEnv() *DBConfig {
	return &DBConfig{
		Driver:          normalizeDriver(utils.GetEnvTrimmed("DB_DRIVER")),
		MaxIdleConns:    utils.GetEnvPositiveInt("DB_MAX_IDLE_CONNS", 10),
		MaxOpenConns:    utils.GetEnvPositiveInt("DB_MAX_OPEN_CONNS", 100),
		ConnMaxLifetime: utils.GetEnvPositiveDuration("DB_CONN_MAX_LIFETIME", time.Minute),
		SSLMode:         "require",
		SQLitePath:      sanitizeEnv(utils.GetEnvTrimmedOrDefault("SQLITE_PATH", defaultSQLitePath)),
		PingRetry: &retry.Config{
			MaxAttempts: utils.GetEnvPositiveInt("DB_PING_ATTEMPTS", 5),
			BaseDelay:   500 * time.Millisecond,
			MaxDelay:    10 * time.Second,
			Multiplier:  2,
		},
	}
}

func normalizeDriver(raw string) string {
	switch strings.ToLower(sanitizeEnv(raw)) {
	case "sqlite", "sqlite3":
		return DriverSQLite
	default:
		return DriverPostgres
	}
}

// NewDatabase opens the pool for cfg.Driver and pings it, retrying transient failures.
func NewDatabase(logger *log.Logger, cfg *DBConfig) (*gorm.DB, error) {
	if cfg == nil {
		cfg = NewDBConfigFromEnv()
	}

	dialector, err := openDialector(logger, cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to database", "driver", cfg.Driver, "error", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		logger.Error("Failed to get database instance", "error", err)
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		// SQLite allows a single writer; one connection keeps reservation transactions serialised.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	err = retry.NewExponentialBackoff(cfg.PingRetry).Execute(ctx, func() error {
		pingErr := sqlDB.PingContext(ctx)
		if pingErr != nil {
			logger.Warn("Database ping failed", "error", pingErr)
		}
		return pingErr
	})
	if err != nil {
		logger.Error("Database unreachable", "error", err)
		_ = sqlDB.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Database connection established successfully", "driver", cfg.Driver)
	return gdb, nil
}

func openDialector(logger *log.Logger, cfg *DBConfig) (gorm.Dialector, error) {
	if cfg.Driver == DriverSQLite {
		path := cfg.SQLitePath
		if path == "" {
			path = defaultSQLitePath
		}
		logger.Info("Using SQLite database", "path", path)
		return sqlite.Open(path), nil
	}

	if appDatabaseURL := envValue("APP_DATABASE_URL"); appDatabaseURL != "" {
		logger.Info("Using APP_DATABASE_URL for database connection")
		return postgres.Open(appDatabaseURL), nil
	}

	params := getDatabaseEnvParams()
	if params.sslMode == "" {
		params.sslMode = cfg.SSLMode
	}

	dsn, err := buildPostgresDSN(params)
	if err != nil {
		logger.Error("Invalid database configuration", "error", err)
		return nil, err
	}

	logger.Info("Connecting to database",
		"host", params.host,
		"port", params.port,
		"user", params.user,
		"dbname", params.dbName,
		"sslmode", params.sslMode,
	)
	return postgres.Open(dsn), nil
}

type postgresParams struct {
	host, port, user, password, dbName, sslMode string
}

func buildPostgresDSN(p postgresParams) (string, error) {
	var missing []string

	if p.host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if p.port == "" {
		missing = append(missing, "POSTGRES_PORT")
	}
	if p.user == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if p.dbName == "" {
		missing = append(missing, "POSTGRES_DB_NAME")
	}

	if len(missing) > 0 {
		return "", fmt.Errorf("missing required database env vars: %s", strings.Join(missing, ", "))
	}

	port, err := strconv.Atoi(p.port)
	if err != nil {
		return "", fmt.Errorf("invalid POSTGRES_PORT %q: %w", p.port, err)
	}

	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.host, port, p.user, p.password, p.dbName, p.sslMode,
	), nil
}

func getDatabaseEnvParams() postgresParams {
	return postgresParams{
		host:     envValue("POSTGRES_HOST"),
		port:     envValue("POSTGRES_PORT"),
		user:     envValue("POSTGRES_USER"),
		password: envValue("POSTGRES_PASSWORD"),
		dbName:   envValue("POSTGRES_DB_NAME"),
		sslMode:  envValue("POSTGRES_SSLMODE"),
	}
}

func AutoMigrate(logger *log.Logger, db *gorm.DB, models ...interface{}) error {
	if db == nil {
		logger.Error("Cannot migrate: db is empty")
		return fmt.Errorf("cannot migrate: db is empty")
	}

	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Database migration failed", "error", err)
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	logger.Info("Database migration completed successfully")

	return nil
}

func CloseDatabase(db *gorm.DB, logger *log.Logger) {
	if db == nil {
		return
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Error("Failed to get SQL DB instance", "error", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	} else {
		logger.Info("Database closed successfully")
	}
}
