package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	dbdriver "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	src "github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// users、posts、categories 三張表
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

type migrator interface {
	Up() error
	Down() error
}

var (
	pgxpoolNew     = pgxpool.New
	sqlOpen        = sql.Open
	postgresDriver = postgres.WithInstance
	embeddedSource = func() (src.Driver, error) { return iofs.New(migrationsFS, "migrations") }
	newMigrate     = func(source src.Driver, driver dbdriver.Driver) (migrator, error) {
		return migrate.NewWithInstance("iofs", source, "postgres", driver)
	}
)

// NewPgxPool 建立連線池，main 只呼叫一次
func NewPgxPool(ctx context.Context, url string) (DB, error) {
	pool, err := pgxpoolNew(ctx, url)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// withMigrator 開一條 database/sql 連線給 golang-migrate 用，step 結束即關閉
func withMigrator(dbURL string, step func(migrator) error) error {
	sqlDB, err := sqlOpen("pgx", dbURL)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	driver, err := postgresDriver(sqlDB, &postgres.Config{})
	if err != nil {
		return err
	}
	source, err := embeddedSource()
	if err != nil {
		return err
	}
	m, err := newMigrate(source, driver)
	if err != nil {
		return err
	}
	if err := step(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// RunMigrations 套用所有尚未執行的 migration
func RunMigrations(dbURL string) error {
	return withMigrator(dbURL, migrator.Up)
}

// RollbackAll 退回到版本 0，資料會全部清除
func RollbackAll(dbURL string) error {
	return withMigrator(dbURL, migrator.Down)
}
