package migration

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/go-sql-driver/mysql"

	"cth/internal/config"
)

var databaseNamePattern = regexp.MustCompile(`^[A-Za-z0-9_$]{1,64}$`)

// DatabaseManager manages the results database
type DatabaseManager struct {
	serverDSN string
	dbName    string
}

// NewDatabaseManager creates a new DatabaseManager from the configured
// connection settings
func NewDatabaseManager(cfg *config.Config) (*DatabaseManager, error) {
	serverDSN, dbName, err := cfg.GetServerDSN()
	if err != nil {
		return nil, err
	}
	if !isValidDatabaseName(dbName) {
		return nil, fmt.Errorf("invalid database name: %q", dbName)
	}
	return &DatabaseManager{serverDSN: serverDSN, dbName: dbName}, nil
}

// Name returns the results database name
func (dm *DatabaseManager) Name() string {
	return dm.dbName
}

// EnsureDatabase creates the results database if it does not exist and
// reports whether it was created
func (dm *DatabaseManager) EnsureDatabase(ctx context.Context) (bool, error) {
	// Connect to MySQL server (without specifying database)
	db, err := sql.Open("mysql", dm.serverDSN)
	if err != nil {
		return false, fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return false, fmt.Errorf("failed to ping database server: %w", err)
	}

	exists, err := dm.databaseExists(ctx, db)
	if err != nil {
		return false, fmt.Errorf("failed to check database %s: %w", dm.dbName, err)
	}
	if exists {
		return false, nil
	}

	// The name is validated, identifiers cannot be bound as parameters.
	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4", dm.dbName)); err != nil {
		return false, fmt.Errorf("failed to create database %s: %w", dm.dbName, err)
	}
	return true, nil
}

// Open connects to the results database
func (dm *DatabaseManager) Open(ctx context.Context) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dm.serverDSN)
	if err != nil {
		return nil, fmt.Errorf("invalid DSN: %w", err)
	}
	cfg.DBName = dm.dbName

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func (dm *DatabaseManager) databaseExists(ctx context.Context, db *sql.DB) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRowContext(ctx, query, dm.dbName).Scan(&exists)
	return exists, err
}

func isValidDatabaseName(name string) bool {
	return databaseNamePattern.MatchString(name)
}
