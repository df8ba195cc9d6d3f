package meetings

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS meetings (
    currency TEXT NOT NULL,
    date     TEXT NOT NULL,
    PRIMARY KEY (currency, date)
);

CREATE INDEX IF NOT EXISTS idx_meetings_ccy ON meetings(currency, date);
`

// SQLiteStore keeps meeting dates in a sqlite file (pure Go driver, no
// CGo). It implements Source and doubles as the import target for meeting
// calendars maintained elsewhere.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed initializes) a meeting store at dsn;
// ":memory:" works for tests.
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("meetings: open sqlite %q: %w", dsn, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("meetings: init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Add upserts meeting dates for a currency.
func (s *SQLiteStore) Add(currency string, dates ...time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("meetings: begin: %w", err)
	}
	for _, d := range dates {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO meetings (currency, date) VALUES (?, ?)`,
			currency, d.Format(storedDateLayout),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("meetings: insert %s %s: %w", currency, d.Format(storedDateLayout), err)
		}
	}
	return tx.Commit()
}

// MeetingDates implements Source.
func (s *SQLiteStore) MeetingDates(currency string) ([]time.Time, error) {
	rows, err := s.db.Query(`SELECT date FROM meetings WHERE currency = ? ORDER BY date`, currency)
	if err != nil {
		return nil, fmt.Errorf("meetings: query %s: %w", currency, err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("meetings: scan: %w", err)
		}
		d, err := time.Parse(storedDateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("meetings: stored date %q: %w", raw, err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}
