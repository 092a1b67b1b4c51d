package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

var mysqlSchema = []string{`
CREATE TABLE IF NOT EXISTS tasks (
  id CHAR(36) NOT NULL PRIMARY KEY,
  owner_id VARCHAR(255) NOT NULL,
  title VARCHAR(500) NOT NULL,
  description TEXT NULL,
  status VARCHAR(32) NOT NULL DEFAULT 'pending',
  priority VARCHAR(16) NOT NULL DEFAULT 'medium',
  created_at DATETIME(6) NOT NULL,
  updated_at DATETIME(6) NOT NULL,
  INDEX idx_tasks_owner_status_created (owner_id, status, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
}

var postgresSchema = []string{`
CREATE TABLE IF NOT EXISTS tasks (
  id UUID PRIMARY KEY,
  owner_id VARCHAR(255) NOT NULL,
  title VARCHAR(500) NOT NULL,
  description TEXT NULL,
  status VARCHAR(32) NOT NULL DEFAULT 'pending',
  priority VARCHAR(16) NOT NULL DEFAULT 'medium',
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_owner_status_created ON tasks (owner_id, status, created_at)`,
}

var sqliteSchema = []string{`
CREATE TABLE IF NOT EXISTS tasks (
  id TEXT NOT NULL PRIMARY KEY,
  owner_id TEXT NOT NULL,
  title TEXT NOT NULL,
  description TEXT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  priority TEXT NOT NULL DEFAULT 'medium',
  created_at DATETIME NOT NULL,
  updated_at DATETIME NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_owner_status_created ON tasks (owner_id, status, created_at)`,
}

// EnsureSchema creates the tasks table for the connected driver when it does
// not exist yet.
func EnsureSchema(db *sqlx.DB) error {
	var statements []string
	switch db.DriverName() {
	case DriverMySQL:
		statements = mysqlSchema
	case DriverPostgres:
		statements = postgresSchema
	case DriverSQLite:
		statements = sqliteSchema
	default:
		return fmt.Errorf("no schema for driver %q", db.DriverName())
	}

	for _, statement := range statements {
		if _, err := db.Exec(statement); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
