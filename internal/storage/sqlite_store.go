package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/CongoMusahAdama/rrate/internal/domain"
)

// SQLiteCatalog keeps the listing catalog in a SQLite file.
type SQLiteCatalog struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteCatalog{db: db}, nil
}

func (s *SQLiteCatalog) Close() error { return s.db.Close() }

func (s *SQLiteCatalog) EnsureSchema(ctx context.Context) error {
	const createTable = `
CREATE TABLE IF NOT EXISTS listings (
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  price_amount INTEGER NOT NULL DEFAULT 0 CHECK (price_amount >= 0),
  currency TEXT NOT NULL DEFAULT 'GHS',
  location TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL DEFAULT '',
  beds INTEGER NOT NULL DEFAULT 0,
  baths INTEGER NOT NULL DEFAULT 0,
  area REAL NOT NULL DEFAULT 0,
  image TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL DEFAULT ''
);
`
	if _, err := s.db.ExecContext(ctx, createTable); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_listings_type ON listings(type);`); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_listings_price ON listings(price_amount);`); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteCatalog) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`).Scan(&n)
	return n, err
}

// UpsertMany inserts a dataset without duplicating by id; existing rows win.
func (s *SQLiteCatalog) UpsertMany(ctx context.Context, items []domain.Listing) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT OR IGNORE INTO listings
(id, name, price_amount, currency, location, type, status, beds, baths, area, image, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, l := range items {
		createdAt := ""
		if !l.CreatedAt.IsZero() {
			createdAt = l.CreatedAt.UTC().Format(time.RFC3339)
		}
		currency := l.Price.Currency
		if currency == "" {
			currency = domain.DefaultCurrency
		}

		res, err := stmt.ExecContext(ctx,
			l.ID, l.Name, l.Price.Amount, currency, l.Location, l.Type, l.Status,
			l.Beds, l.Baths, l.Area, l.Image, createdAt,
		)
		if err != nil {
			return 0, fmt.Errorf("insert listing %d: %w", l.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

const selectListing = `
SELECT id, name, price_amount, currency, location, type, status, beds, baths, area, image, created_at
FROM listings`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (domain.Listing, error) {
	var l domain.Listing
	var createdAt string
	if err := row.Scan(
		&l.ID, &l.Name, &l.Price.Amount, &l.Price.Currency, &l.Location, &l.Type, &l.Status,
		&l.Beds, &l.Baths, &l.Area, &l.Image, &createdAt,
	); err != nil {
		return domain.Listing{}, err
	}
	if createdAt != "" {
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return domain.Listing{}, fmt.Errorf("listing %d created_at: %w", l.ID, err)
		}
		l.CreatedAt = t
	}
	return l, nil
}

func (s *SQLiteCatalog) ByID(ctx context.Context, id int64) (domain.Listing, bool, error) {
	l, err := scanListing(s.db.QueryRowContext(ctx, selectListing+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Listing{}, false, nil
	}
	if err != nil {
		return domain.Listing{}, false, err
	}
	return l, true, nil
}

func (s *SQLiteCatalog) All(ctx context.Context) ([]domain.Listing, error) {
	rows, err := s.db.QueryContext(ctx, selectListing+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
