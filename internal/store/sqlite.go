package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/savearn/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLite stores snapshots and entries in a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at dbPath and applies migrations.
func OpenSQLite(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
		return nil, fmt.Errorf("creating db dir: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// LoadSnapshot returns the stored snapshot for userID.
func (s *SQLite) LoadSnapshot(ctx context.Context, userID string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM snapshots WHERE user_id = ?", userID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return data, nil
}

// SaveSnapshot replaces the snapshot for userID.
func (s *SQLite) SaveSnapshot(ctx context.Context, userID string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO snapshots (user_id, data, updated_at)
		VALUES (?, ?, ?)`, userID, data, formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// EraseSnapshot removes the snapshot for userID.
func (s *SQLite) EraseSnapshot(ctx context.Context, userID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM snapshots WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("erasing snapshot: %w", err)
	}
	return nil
}

const entryColumns = `entry_id, date, datetime, category, expensive_option, expensive_amount,
	chosen_option, chosen_amount, earned, description, created_at, updated_at`

// PutEntry inserts or overwrites an entry.
func (s *SQLite) PutEntry(ctx context.Context, userID string, e model.SavingEntry) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO entries
		(user_id, `+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, e.ID, e.Date, e.Datetime, e.Category, e.ExpensiveOption, e.ExpensiveAmount.String(),
		e.ChosenOption, e.ChosenAmount.String(), e.Earned.String(), e.Description,
		formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("putting entry: %w", err)
	}
	return nil
}

// GetEntry returns one entry.
func (s *SQLite) GetEntry(ctx context.Context, userID, id string) (model.SavingEntry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+entryColumns+" FROM entries WHERE user_id = ? AND entry_id = ?", userID, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SavingEntry{}, fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	return e, err
}

// UpdateEntry replaces an existing entry.
func (s *SQLite) UpdateEntry(ctx context.Context, userID string, e model.SavingEntry) error {
	res, err := s.db.ExecContext(ctx, `UPDATE entries SET
		date = ?, datetime = ?, category = ?, expensive_option = ?, expensive_amount = ?,
		chosen_option = ?, chosen_amount = ?, earned = ?, description = ?, updated_at = ?
		WHERE user_id = ? AND entry_id = ?`,
		e.Date, e.Datetime, e.Category, e.ExpensiveOption, e.ExpensiveAmount.String(),
		e.ChosenOption, e.ChosenAmount.String(), e.Earned.String(), e.Description, formatTime(e.UpdatedAt),
		userID, e.ID,
	)
	if err != nil {
		return fmt.Errorf("updating entry: %w", err)
	}
	return requireOneRow(res, e.ID)
}

// DeleteEntry removes an entry.
func (s *SQLite) DeleteEntry(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE user_id = ? AND entry_id = ?", userID, id)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return requireOneRow(res, id)
}

// ListEntries pages through a user's entries, newest first.
func (s *SQLite) ListEntries(ctx context.Context, userID string, limit int, after string) (Page, error) {
	c, err := DecodeCursor(after)
	if err != nil {
		return Page{}, err
	}

	var rows *sql.Rows
	if after == "" {
		rows, err = s.db.QueryContext(ctx, "SELECT "+entryColumns+` FROM entries
			WHERE user_id = ?
			ORDER BY created_at DESC, entry_id DESC LIMIT ?`, userID, limit+1)
	} else {
		rows, err = s.db.QueryContext(ctx, "SELECT "+entryColumns+` FROM entries
			WHERE user_id = ? AND (created_at < ? OR (created_at = ? AND entry_id < ?))
			ORDER BY created_at DESC, entry_id DESC LIMIT ?`,
			userID, c.CreatedAt, c.CreatedAt, c.ID, limit+1)
	}
	if err != nil {
		return Page{}, fmt.Errorf("listing entries: %w", err)
	}

	entries, err := scanEntries(rows)
	if err != nil {
		return Page{}, err
	}

	var page Page
	if len(entries) > limit {
		entries = entries[:limit]
		page.Next = EncodeCursor(entries[len(entries)-1])
	}
	page.Entries = entries
	return page, nil
}

// AllEntries returns every entry for userID, newest first.
func (s *SQLite) AllEntries(ctx context.Context, userID string) ([]model.SavingEntry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+entryColumns+` FROM entries
		WHERE user_id = ? ORDER BY created_at DESC, entry_id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return scanEntries(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (model.SavingEntry, error) {
	var e model.SavingEntry
	var datetime, description sql.NullString
	var created, updated string

	err := row.Scan(&e.ID, &e.Date, &datetime, &e.Category, &e.ExpensiveOption, &e.ExpensiveAmount,
		&e.ChosenOption, &e.ChosenAmount, &e.Earned, &description, &created, &updated)
	if err != nil {
		return e, err
	}
	e.Datetime = datetime.String
	e.Description = description.String
	e.CreatedAt = parseTime(created)
	e.UpdatedAt = parseTime(updated)
	return e, nil
}

func scanEntries(rows *sql.Rows) ([]model.SavingEntry, error) {
	defer func() { _ = rows.Close() }()

	var entries []model.SavingEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func requireOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	return nil
}
