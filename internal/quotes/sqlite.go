package quotes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/me/spq/pkg/model"

	_ "modernc.org/sqlite"
)

// schema contains the DDL for the quotes table.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS quotes (
		id        TEXT PRIMARY KEY,
		quote     TEXT NOT NULL,
		character TEXT NOT NULL
	)`,
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and
// returns a Store. Use ":memory:" for an in-memory database in tests.
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	// WAL keeps concurrent page loads readable during a seed write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.With("component", "quotes-store", "backend", "sqlite"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates the quotes table.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// EnsureSeeded fetches and persists the dataset when the table is empty.
// The seeding inserts run in one transaction, so a partial fetch never
// leaves a half-written dataset. INSERT OR REPLACE keys on id, which
// makes a lost seeding race idempotent.
func (s *SQLiteStore) EnsureSeeded(ctx context.Context, fetch FetchFunc) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quotes`).Scan(&count); err != nil {
		return fmt.Errorf("count quotes: %w", err)
	}
	if count > 0 {
		return nil
	}

	records, err := fetch(ctx)
	if err != nil {
		return fmt.Errorf("seed quotes: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer tx.Rollback()

	for _, q := range records {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO quotes (id, quote, character) VALUES (?, ?, ?)`,
			q.ID, q.Quote, q.Character,
		); err != nil {
			return fmt.Errorf("insert quote %s: %w", q.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	s.logger.Info("quotes dataset seeded", "count", len(records))
	return nil
}

// ReadAll returns every quote in insertion order (rowid order).
func (s *SQLiteStore) ReadAll(ctx context.Context) ([]model.Quote, error) {
	s.logger.Debug("sql", "op", "select", "table", "quotes")

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, quote, character FROM quotes ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Quote
	for rows.Next() {
		var q model.Quote
		if err := rows.Scan(&q.ID, &q.Quote, &q.Character); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// Update overwrites quote and character for the given id.
// Zero affected rows means the id does not exist: model.ErrNotFound.
func (s *SQLiteStore) Update(ctx context.Context, id, quote, character string) (*model.Quote, error) {
	s.logger.Debug("sql", "op", "update", "table", "quotes", "id", id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE quotes SET quote = ?, character = ? WHERE id = ?`,
		quote, character, id)
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("quote %q: %w", id, model.ErrNotFound)
	}

	return &model.Quote{ID: id, Quote: quote, Character: character}, nil
}

// IsNotFound reports whether err marks a strict-update miss.
func IsNotFound(err error) bool {
	return errors.Is(err, model.ErrNotFound)
}
