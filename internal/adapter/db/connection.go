package db

import (
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Syed-muhammad-huzaifa/Hackathon-2-sub000/internal/config"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

func ConnectDB(conf *config.Config) (*sqlx.DB, error) {
	dsn, err := buildDSN(conf)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect(conf.DbDriver, dsn)
	if err != nil {
		return nil, err
	}

	if conf.DbDriver == DriverSQLite {
		// A single connection keeps in-memory databases shared and serializes writers.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(conf.DbMaxOpenConns)
		db.SetMaxIdleConns(conf.DbMaxIdleConns)
		db.SetConnMaxLifetime(conf.DbConnMaxLifetime)
	}

	return db, nil
}

func buildDSN(conf *config.Config) (string, error) {
	switch conf.DbDriver {
	case DriverMySQL:
		params := conf.DbParams
		if params == "" {
			params = "parseTime=true&multiStatements=true"
		}
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?%s",
			conf.DbUser,
			conf.DbPassword,
			conf.DbHost,
			conf.DbPort,
			conf.DbName,
			params,
		), nil
	case DriverPostgres, DriverSQLite:
		if conf.DatabaseURL == "" {
			return "", fmt.Errorf("DATABASE_URL is required for driver %q", conf.DbDriver)
		}
		return conf.DatabaseURL, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", conf.DbDriver)
	}
}

// OpenSQLite opens an isolated in-memory database with the schema applied.
// It backs local runs and repository tests.
func OpenSQLite(name string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=%d", name, (5*time.Second).Milliseconds()))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
