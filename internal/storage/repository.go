package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dompet/internal/core"
	"dompet/internal/finance"
	applog "dompet/internal/log"

	_ "modernc.org/sqlite"
)

const settingsRowID = 1

// SQLiteRepository persists user settings. Transactions are never stored.
type SQLiteRepository struct {
	db     *sql.DB
	logger *applog.Logger
}

func NewSQLiteRepository(dbPath string, logger *applog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = applog.Discard()
	}
	logger = logger.WithComponent(applog.ComponentStorage)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single writer keeps SQLite away from SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := RunMigrations(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database ready",
		applog.FieldOperation, applog.OpMigrate,
		"path", dbPath,
		"schema_version", version)

	return &SQLiteRepository{db: db, logger: logger}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// GetSettings returns the stored settings or core.ErrSettingsNotFound when
// the user has never saved any.
func (r *SQLiteRepository) GetSettings(ctx context.Context) (core.Settings, error) {
	var (
		s         core.Settings
		ruleJSON  string
		updatedAt string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT monthly_savings, allocation_rule, updated_at FROM settings WHERE id = ?`,
		settingsRowID,
	).Scan(&s.MonthlySavings, &ruleJSON, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Settings{}, core.ErrSettingsNotFound
	}
	if err != nil {
		return core.Settings{}, fmt.Errorf("query settings: %w", err)
	}

	var rule finance.AllocationRule
	if err := json.Unmarshal([]byte(ruleJSON), &rule); err != nil {
		return core.Settings{}, fmt.Errorf("decode allocation rule: %w", err)
	}
	s.Rule = rule

	s.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return core.Settings{}, fmt.Errorf("parse updated_at %q: %w", updatedAt, err)
	}
	return s, nil
}

// SaveSettings upserts the single settings row.
func (r *SQLiteRepository) SaveSettings(ctx context.Context, s core.Settings) error {
	ruleJSON, err := json.Marshal(s.Rule)
	if err != nil {
		return fmt.Errorf("encode allocation rule: %w", err)
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now()
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings (id, monthly_savings, allocation_rule, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			monthly_savings = excluded.monthly_savings,
			allocation_rule = excluded.allocation_rule,
			updated_at = excluded.updated_at`,
		settingsRowID, s.MonthlySavings, string(ruleJSON), s.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}

	r.logger.InfoContext(ctx, "Settings saved",
		applog.FieldOperation, applog.OpUpdate,
		"monthly_savings", s.MonthlySavings,
		"buckets", len(s.Rule))
	return nil
}
