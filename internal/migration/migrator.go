package migration

import (
	"context"

	"cth/internal/storage"
)

// Migrator prepares the results database
type Migrator interface {
	Run(ctx context.Context) error
}

// Migration is one schema step, applied at most once
type Migration struct {
	Name      string
	Statement string
}

// migrationsTable records the applied migrations
const migrationsTable = "cth_migrations"

// Migrations returns the schema steps in the order they are applied
func Migrations() []Migration {
	return []Migration{
		{
			Name: "0001_create_runs",
			Statement: "CREATE TABLE IF NOT EXISTS `" + storage.RunsTable + "` (" +
				"id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY, " +
				"encoder VARCHAR(1024) NOT NULL, " +
				"test_dir VARCHAR(1024) NOT NULL, " +
				"pattern VARCHAR(255) NOT NULL DEFAULT '', " +
				"round_trip BOOLEAN NOT NULL, " +
				"stopped BOOLEAN NOT NULL DEFAULT FALSE, " +
				"total_cases INT NOT NULL, " +
				"passed_cases INT NOT NULL, " +
				"failed_cases INT NOT NULL, " +
				"duration_seconds DOUBLE NOT NULL, " +
				"run_at VARCHAR(64) NOT NULL" +
				") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
		},
		{
			Name: "0002_create_failures",
			Statement: "CREATE TABLE IF NOT EXISTS `" + storage.FailuresTable + "` (" +
				"id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY, " +
				"run_id BIGINT UNSIGNED NOT NULL, " +
				"test_name VARCHAR(255) NOT NULL, " +
				"input_path VARCHAR(1024) NOT NULL, " +
				"reason VARCHAR(1024) NOT NULL, " +
				"phase VARCHAR(32) NOT NULL, " +
				"input MEDIUMTEXT NOT NULL, " +
				"looped_input MEDIUMTEXT NOT NULL, " +
				"stderr MEDIUMTEXT NOT NULL, " +
				"expected MEDIUMTEXT NOT NULL, " +
				"output MEDIUMTEXT NOT NULL, " +
				"resolved BOOLEAN NOT NULL DEFAULT FALSE, " +
				"CONSTRAINT fk_cth_failures_run FOREIGN KEY (run_id) REFERENCES `" + storage.RunsTable + "` (id) ON DELETE CASCADE" +
				") ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
		},
		{
			Name:      "0003_index_failures_name",
			Statement: "CREATE INDEX idx_cth_failures_test_name ON `" + storage.FailuresTable + "` (test_name)",
		},
	}
}
