package db

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func setupGoose() error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	migrationsDir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("get migrations dir: %w", err)
	}
	goose.SetBaseFS(migrationsDir)
	return nil
}

// Migrate opens a short lived database/sql connection and applies all
// pending migrations.
func Migrate(params NewDBPoolParams) (err error) {
	sqlDB, err := sql.Open("postgres", params.ConnString())
	if err != nil {
		return fmt.Errorf("open db for migrations: %w", err)
	}
	defer func() {
		if closeErr := sqlDB.Close(); closeErr != nil {
			log.Warnf("close migrations db: %s", closeErr)
		}
	}()

	return RunMigrations(sqlDB)
}

func RunMigrations(sqlDB *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}

	if err := goose.Up(sqlDB, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	log.Infoln("db migrations completed")
	return nil
}
