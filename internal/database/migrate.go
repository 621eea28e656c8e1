package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gearshed/internal/logger"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const downMarker = "-- Down migration"

var ErrNoDownMigration = errors.New("migration has no down section")

type MigrationStatus struct {
	Filename   string     `json:"filename"`
	Applied    bool       `json:"applied"`
	ExecutedAt *time.Time `json:"executed_at,omitempty"`
}

func ensureMigrationsTable(db *sql.DB) error {
	query := `CREATE TABLE IF NOT EXISTS schema_migrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL UNIQUE,
		executed_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`

	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}
	return nil
}

func listMigrations() ([]string, error) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func appliedMigrations(db *sql.DB) (map[string]time.Time, error) {
	rows, err := db.Query(`SELECT filename, executed_at FROM schema_migrations ORDER BY filename`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]time.Time)
	for rows.Next() {
		var filename string
		var executedAt time.Time
		if err := rows.Scan(&filename, &executedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration: %w", err)
		}
		applied[filename] = executedAt
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating migrations: %w", err)
	}

	return applied, nil
}

// splitMigration returns the up and down halves of a migration file.
func splitMigration(contents string) (up, down string) {
	parts := strings.SplitN(contents, downMarker, 2)
	up = parts[0]
	if len(parts) == 2 {
		down = parts[1]
	}
	return up, down
}

// hasStatements reports whether sql contains anything besides blank lines and comments.
func hasStatements(sqlText string) bool {
	for _, line := range strings.Split(sqlText, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return true
		}
	}
	return false
}

// Migrate applies every embedded migration that schema_migrations does not
// list yet, in filename order. Each file runs in its own transaction together
// with its bookkeeping row.
func Migrate(db *sql.DB) error {
	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	names, err := listMigrations()
	if err != nil {
		return err
	}

	for _, name := range names {
		if _, ok := applied[name]; ok {
			logger.Debug("Skipping migration", "migration", name)
			continue
		}

		contents, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		up, _ := splitMigration(string(contents))

		if err := runInTx(db, up, `INSERT INTO schema_migrations (filename) VALUES (?)`, name); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
		logger.Info("Applied migration", "migration", name)
	}

	return nil
}

// Rollback reverts the most recently applied migration using its down section.
// It returns the filename that was rolled back, or "" if nothing was applied.
func Rollback(db *sql.DB) (string, error) {
	if err := ensureMigrationsTable(db); err != nil {
		return "", err
	}

	var last string
	err := db.QueryRow(`SELECT filename FROM schema_migrations ORDER BY id DESC LIMIT 1`).Scan(&last)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to find last migration: %w", err)
	}

	contents, err := migrationFiles.ReadFile("migrations/" + last)
	if err != nil {
		return "", fmt.Errorf("failed to read migration %s: %w", last, err)
	}

	_, down := splitMigration(string(contents))
	if !hasStatements(down) {
		return "", fmt.Errorf("%s: %w", last, ErrNoDownMigration)
	}

	if err := runInTx(db, down, `DELETE FROM schema_migrations WHERE filename = ?`, last); err != nil {
		return "", fmt.Errorf("failed to roll back %s: %w", last, err)
	}
	logger.Info("Rolled back migration", "migration", last)

	return last, nil
}

func runInTx(db *sql.DB, script, bookkeeping, filename string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(script); err != nil {
		return err
	}

	if _, err := tx.Exec(bookkeeping, filename); err != nil {
		return err
	}

	return tx.Commit()
}

func GetMigrationStatus(db *sql.DB) ([]MigrationStatus, error) {
	if err := ensureMigrationsTable(db); err != nil {
		return nil, err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return nil, err
	}

	names, err := listMigrations()
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(names))
	for _, name := range names {
		status := MigrationStatus{Filename: name}
		if executedAt, ok := applied[name]; ok {
			status.Applied = true
			status.ExecutedAt = &executedAt
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

// CreateMigration writes an empty, numbered migration template into dir and
// returns its path. Numbers continue from the highest existing file.
func CreateMigration(dir, name string, now time.Time) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("migration name is required")
	}
	name = strings.ReplaceAll(name, " ", "_")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read migrations directory: %w", err)
	}

	lastNumber := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		prefix, _, _ := strings.Cut(entry.Name(), "_")
		if n, err := strconv.Atoi(prefix); err == nil && n > lastNumber {
			lastNumber = n
		}
	}

	filename := fmt.Sprintf("%03d_%s.sql", lastNumber+1, name)
	path := filepath.Join(dir, filename)

	template := fmt.Sprintf(`-- Migration: %s
-- Created at: %s

-- Write your migration SQL here


%s
-- Write your rollback SQL here
`, strings.ReplaceAll(name, "_", " "), now.Format("2006-01-02"), downMarker)

	if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
		return "", fmt.Errorf("failed to write migration: %w", err)
	}

	return path, nil
}
