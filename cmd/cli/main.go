package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/akeren/tablebook/config"
	"github.com/akeren/tablebook/internal/log"
	"github.com/akeren/tablebook/pkg/migrations"
	"github.com/akeren/tablebook/pkg/utils"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	config.InitializeEnvFile(logger) // Load envs early for CLI consistency

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "migrate":
		dbCfg := config.NewDBConfigFromEnv()
		db, err := config.NewDatabase(logger, dbCfg)
		if err != nil {
			logger.Error("Failed to connect to database for migration", "error", err.Error())

			os.Exit(1)
		}

		sqlDB, err := db.DB()
		if err != nil {
			logger.Error("Failed to get SQL DB instance for migration", "error", err.Error())
			os.Exit(1)
		}
		defer func() {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("Failed to close SQL DB after migration", "error", err.Error())
			}
		}()

		driver, defaultDir := migrationTarget(dbCfg.Driver)
		migrationsDir := utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", defaultDir)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		err = migrations.Up(ctx, sqlDB, migrations.Config{Dir: migrationsDir, Driver: driver, Logger: logger})
		if err != nil {
			logger.Error("Database migration failed", "error", err.Error())
			os.Exit(1)
		}

		logger.Info("Database migrations completed")
		return

	case "generate-domain", "gendomain", "gen-domain":
		GenerateDomain()
		return

	case "help", "-h", "--help":
		printUsage()
		return

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

// migrationTarget maps DB_DRIVER onto the golang-migrate driver and its SQL directory.
func migrationTarget(dbDriver string) (driver, dir string) {
	if dbDriver == config.DriverSQLite {
		return migrations.DriverSQLite, filepath.Join("migrations", "sqlite")
	}
	return migrations.DriverPostgres, filepath.Join("migrations", "postgres")
}

func printUsage() {
	fmt.Println("Usage: cli <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate          Run database migrations and exit")
	fmt.Println("  generate-domain  Interactively scaffolds a new domain/module (repository, service, controller, routes)")
}
