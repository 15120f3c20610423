package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver for goose
)

//go:embed migrations
var migrationFiles embed.FS

const migrationsDir = "migrations"

var registerOnce sync.Once

// OpenSQL opens a database/sql handle through the pgx stdlib driver. goose
// only speaks database/sql.
func OpenSQL(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrator applies the prefixed schema with goose. Migrations are registered
// process-wide on first use, so one process serves one table prefix.
type Migrator struct {
	db     *sql.DB
	tables *TableNames
}

// NewMigrator prepares goose for the given prefix
func NewMigrator(db *sql.DB, tables *TableNames) (*Migrator, error) {
	registerOnce.Do(func() { registerMigrations(tables) })

	goose.SetBaseFS(migrationFiles)
	goose.SetTableName(tables.Prefix + "goose_db_version")
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}

	return &Migrator{db: db, tables: tables}, nil
}

// Up applies all pending migrations
func (m *Migrator) Up(ctx context.Context) error {
	if err := goose.UpContext(ctx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// Down rolls back the most recent migration
func (m *Migrator) Down(ctx context.Context) error {
	if err := goose.DownContext(ctx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// Status logs applied and pending migrations
func (m *Migrator) Status(ctx context.Context) error {
	if err := goose.StatusContext(ctx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("migrate status: %w", err)
	}
	return nil
}

// DropAll drops every table of the prefix, including goose's version table
func (m *Migrator) DropAll(ctx context.Context) error {
	for _, table := range []string{
		m.tables.Documents,
		m.tables.Folders,
		m.tables.Users,
		m.tables.Prefix + "goose_db_version",
	} {
		if _, err := m.db.ExecContext(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}

func registerMigrations(t *TableNames) {
	goose.AddNamedMigrationContext("00001_create_users.go",
		execAll(fmt.Sprintf(`
			CREATE TABLE %s (
				id BIGSERIAL PRIMARY KEY,
				email TEXT NOT NULL,
				name TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT %s_email_key UNIQUE (email)
			)`, t.Users, t.Users)),
		execAll("DROP TABLE IF EXISTS "+t.Users),
	)

	// Folders are flat: no parent reference
	goose.AddNamedMigrationContext("00002_create_folders.go",
		execAll(
			fmt.Sprintf(`
			CREATE TABLE %s (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES %s(id),
				name TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT %s_user_name_key UNIQUE (user_id, name)
			)`, t.Folders, t.Users, t.Folders),
			fmt.Sprintf(`CREATE INDEX idx_%s_user_recent ON %s (user_id, created_at DESC, id DESC)`, t.Folders, t.Folders),
		),
		execAll("DROP TABLE IF EXISTS "+t.Folders),
	)

	// folder_id has no ON DELETE action: a folder row cannot disappear while
	// documents still reference it, so deletion must detach first.
	goose.AddNamedMigrationContext("00003_create_documents.go",
		execAll(
			fmt.Sprintf(`
			CREATE TABLE %s (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES %s(id),
				folder_id BIGINT REFERENCES %s(id),
				name TEXT NOT NULL,
				file_size TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT %s_user_name_key UNIQUE (user_id, name)
			)`, t.Documents, t.Users, t.Folders, t.Documents),
			fmt.Sprintf(`CREATE INDEX idx_%s_user_recent ON %s (user_id, created_at DESC, id DESC)`, t.Documents, t.Documents),
			fmt.Sprintf(`CREATE INDEX idx_%s_folder ON %s (folder_id)`, t.Documents, t.Documents),
		),
		execAll("DROP TABLE IF EXISTS "+t.Documents),
	)
}

// execAll runs statements in order inside goose's migration transaction
func execAll(statements ...string) goose.GoMigrationContext {
	return func(ctx context.Context, tx *sql.Tx) error {
		for _, stmt := range statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}
}
