package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/omnishop/omnishop/internal/corpus"
)

// SQLiteRecordStore persists parsed product records. A reload returns the
// record list byte-equivalent to what was stored, in corpus order.
type SQLiteRecordStore struct {
	db *sql.DB
}

const recordSchema = `
CREATE TABLE IF NOT EXISTS records (
	position INTEGER PRIMARY KEY,
	id       TEXT NOT NULL UNIQUE,
	title    TEXT NOT NULL,
	source   TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT '',
	brand    TEXT NOT NULL DEFAULT '',
	price    REAL NOT NULL DEFAULT 0,
	url      TEXT NOT NULL DEFAULT '',
	raw_text TEXT NOT NULL DEFAULT '',
	specs    TEXT NOT NULL DEFAULT '{}',
	rating   TEXT
);
`

// NewSQLiteRecordStore opens (or creates) the record database at path.
// Use ":memory:" for tests.
func NewSQLiteRecordStore(path string) (*SQLiteRecordStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	// The modernc driver serializes access per connection; a single
	// connection avoids table-lock races between writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(recordSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create records table: %w", err)
	}
	return &SQLiteRecordStore{db: db}, nil
}

// ReplaceAll swaps the stored record set wholesale. Records are immutable
// after a corpus load, so there is no per-record update path.
func (s *SQLiteRecordStore) ReplaceAll(ctx context.Context, records []corpus.ProductRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (position, id, title, source, category, brand, price, url, raw_text, specs, rating)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, rec := range records {
		specs, err := json.Marshal(rec.ExtractedSpecs)
		if err != nil {
			return fmt.Errorf("failed to marshal specs for %s: %w", rec.ID, err)
		}
		var rating any
		if rec.Rating != nil {
			data, err := json.Marshal(rec.Rating)
			if err != nil {
				return fmt.Errorf("failed to marshal rating for %s: %w", rec.ID, err)
			}
			rating = string(data)
		}
		if _, err := stmt.ExecContext(ctx, i, rec.ID, rec.Title, rec.Source, rec.Category,
			rec.Brand, rec.Price, rec.URL, rec.RawText, string(specs), rating); err != nil {
			return fmt.Errorf("failed to insert record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}

// LoadAll returns all stored records in corpus order.
func (s *SQLiteRecordStore) LoadAll(ctx context.Context) ([]corpus.ProductRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, source, category, brand, price, url, raw_text, specs, rating
		FROM records ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []corpus.ProductRecord
	for rows.Next() {
		var rec corpus.ProductRecord
		var specs string
		var rating sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Source, &rec.Category, &rec.Brand,
			&rec.Price, &rec.URL, &rec.RawText, &specs, &rating); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		if specs != "" && specs != "null" {
			if err := json.Unmarshal([]byte(specs), &rec.ExtractedSpecs); err != nil {
				return nil, fmt.Errorf("failed to unmarshal specs for %s: %w", rec.ID, err)
			}
		}
		if rating.Valid {
			var r corpus.Rating
			if err := json.Unmarshal([]byte(rating.String), &r); err != nil {
				return nil, fmt.Errorf("failed to unmarshal rating for %s: %w", rec.ID, err)
			}
			rec.Rating = &r
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of stored records.
func (s *SQLiteRecordStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteRecordStore) Close() error {
	return s.db.Close()
}

var _ RecordStore = (*SQLiteRecordStore)(nil)
