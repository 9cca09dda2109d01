package migration

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// SchemaMigrator creates the results tables
type SchemaMigrator struct {
	databaseManager *DatabaseManager
	migrations      []Migration
	out             io.Writer
}

// NewSchemaMigrator creates a new SchemaMigrator. Progress and the summary
// are written to out.
func NewSchemaMigrator(dbManager *DatabaseManager, out io.Writer) *SchemaMigrator {
	return &SchemaMigrator{
		databaseManager: dbManager,
		migrations:      Migrations(),
		out:             out,
	}
}

// Run creates the database if needed and applies the pending migrations
func (sm *SchemaMigrator) Run(ctx context.Context) error {
	cyan := color.New(color.FgCyan)
	cyan.Fprintln(sm.out, "\n╔════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(sm.out, "║               Preparing Results Database                   ║")
	cyan.Fprintln(sm.out, "╚════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(sm.out)

	startTime := time.Now()
	created, err := sm.databaseManager.EnsureDatabase(ctx)
	if err != nil {
		return fmt.Errorf("failed to check database: %w", err)
	}
	if created {
		color.New(color.FgWhite).Fprintf(sm.out, "Created database %s\n", sm.databaseManager.Name())
	}

	db, err := sm.databaseManager.Open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS `"+migrationsTable+"` (name VARCHAR(255) NOT NULL PRIMARY KEY, applied_at VARCHAR(64) NOT NULL)"); err != nil {
		return fmt.Errorf("failed to create %s: %w", migrationsTable, err)
	}

	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return err
	}
	pending := Pending(sm.migrations, applied)

	color.New(color.FgWhite).Fprintf(sm.out, "Migrations: %d | Pending: %d\n\n", len(sm.migrations), len(pending))

	bar := progressbar.NewOptions(len(pending),
		progressbar.OptionSetDescription(
			color.CyanString("Migrating: ")+
				color.GreenString("[completed: 0/%d]", len(pending)),
		),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(sm.out),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(sm.out, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	for i, m := range pending {
		if err := apply(ctx, db, m); err != nil {
			bar.Exit()
			color.New(color.FgRed).Fprintf(sm.out, "\n✗ Migration %s failed: %v\n", m.Name, err)
			return fmt.Errorf("migration %s failed: %w", m.Name, err)
		}
		bar.Set(i + 1)
		bar.Describe(color.CyanString("Migrating: ") +
			color.GreenString("[completed: %d/%d]", i+1, len(pending)))
	}
	bar.Finish()

	fmt.Fprintln(sm.out)
	color.New(color.FgGreen).Fprintf(sm.out, "✓ Database %s is up to date\n", sm.databaseManager.Name())
	color.New(color.FgWhite).Fprintf(sm.out, "Duration: %s\n", time.Since(startTime).Round(time.Millisecond))
	return nil
}

// Pending returns the migrations not in applied, keeping their order
func Pending(migrations []Migration, applied map[string]bool) []Migration {
	var pending []Migration
	for _, m := range migrations {
		if !applied[m.Name] {
			pending = append(pending, m)
		}
	}
	return pending
}

func appliedMigrations(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM `"+migrationsTable+"`")
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to read applied migrations: %w", err)
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

// apply runs one migration and records it. MySQL commits DDL implicitly,
// so the record is written only once the statement succeeded.
func apply(ctx context.Context, db *sql.DB, m Migration) error {
	if _, err := db.ExecContext(ctx, m.Statement); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx,
		"INSERT INTO `"+migrationsTable+"` (name, applied_at) VALUES (?, ?)",
		m.Name, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}
