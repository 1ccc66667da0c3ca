package shared

import (
	"cmp"
	"database/sql"
	"embed"
	"fmt"
	"path"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// migrationName matches "0000_create_storage_up.sql" style names.
var migrationName = regexp.MustCompile(`^(\d+)_\w+_(up|down)\.sql$`)

// Migration is one schema version with the scripts that apply and revert it.
type Migration struct {
	Version int
	Up      string
	Down    string
}

// loadMigrations reads the embedded scripts, pairs them by version and sorts them ascending.
func loadMigrations() ([]Migration, error) {
	entries, err := migrationFiles.ReadDir("sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	byVersion := map[int]*Migration{}
	for _, entry := range entries {
		m := migrationName.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		version, _ := strconv.Atoi(m[1])

		content, err := migrationFiles.ReadFile(path.Join("sql", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", entry.Name(), err)
		}

		if byVersion[version] == nil {
			byVersion[version] = &Migration{Version: version}
		}
		if m[2] == "up" {
			byVersion[version].Up = string(content)
		} else {
			byVersion[version].Down = string(content)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, m := range byVersion {
		if m.Up == "" || m.Down == "" {
			return nil, fmt.Errorf("%w: incomplete migration for version %d", ErrStorage, m.Version)
		}
		migrations = append(migrations, *m)
	}
	slices.SortFunc(migrations, func(a, b Migration) int { return cmp.Compare(a.Version, b.Version) })
	return migrations, nil
}

// RunMigrations applies every migration not yet recorded in schema_migrations.
//
// Running it against an initialized store is a no-op.
func RunMigrations(db *sql.DB) error {
	migrations, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if slices.Contains(applied, m.Version) {
			continue
		}
		record := "INSERT INTO schema_migrations (version) VALUES (?)"
		if err := execMigration(db, m.Version, m.Up, record); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", m.Version, err)
		}
	}
	return nil
}

// RollbackMigration reverts the most recently applied migration.
func RollbackMigration(db *sql.DB) error {
	migrations, err := loadMigrations()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}

	applied, err := appliedVersions(db)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		return fmt.Errorf("%w: no migrations to rollback", ErrStorage)
	}

	current := applied[len(applied)-1]
	idx := slices.IndexFunc(migrations, func(m Migration) bool { return m.Version == current })
	if idx < 0 {
		return fmt.Errorf("%w: migration version %d not found", ErrStorage, current)
	}

	record := "DELETE FROM schema_migrations WHERE version = ?"
	if err := execMigration(db, current, migrations[idx].Down, record); err != nil {
		return fmt.Errorf("failed to rollback migration %d: %w", current, err)
	}
	return nil
}

// ResetMigrations reverts every applied migration and then applies them all again, discarding stored data.
func ResetMigrations(db *sql.DB) error {
	for {
		applied, err := appliedVersions(db)
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			break
		}
		if err := RollbackMigration(db); err != nil {
			return err
		}
	}
	return RunMigrations(db)
}

// appliedVersions lists recorded versions ascending. A missing schema_migrations table counts as none.
func appliedVersions(db *sql.DB) ([]int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'").Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check migrations table: %w", err)
	}
	if exists == 0 {
		return nil, nil
	}

	rows, err := db.Query("SELECT version FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to read applied migrations: %w", err)
	}
	defer rows.Close()

	var versions []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// execMigration runs each statement of script and then record, with version as its argument, in one transaction.
func execMigration(db *sql.DB, version int, script, record string) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range strings.Split(stripComments(script), ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute statement: %w\nStatement: %s", err, stmt)
		}
	}

	if _, err := tx.Exec(record, version); err != nil {
		return err
	}
	return tx.Commit()
}

// stripComments drops "--" line comments and blank lines.
func stripComments(script string) string {
	var lines []string
	for _, line := range strings.Split(script, "\n") {
		if idx := strings.Index(line, "--"); idx >= 0 {
			line = line[:idx]
		}
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
