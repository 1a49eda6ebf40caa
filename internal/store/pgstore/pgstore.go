// Package pgstore implements the entry table on PostgreSQL.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/savearn/internal/model"
	"github.com/theirongolddev/savearn/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS savearn_entries (
    user_id           TEXT NOT NULL,
    entry_id          TEXT NOT NULL,
    date              DATE NOT NULL,
    datetime          TEXT,
    category          TEXT NOT NULL,
    expensive_option  TEXT NOT NULL,
    expensive_amount  NUMERIC(14, 2) NOT NULL,
    chosen_option     TEXT NOT NULL,
    chosen_amount     NUMERIC(14, 2) NOT NULL,
    earned            NUMERIC(14, 2) NOT NULL,
    description       TEXT,
    created_at        TIMESTAMPTZ NOT NULL,
    updated_at        TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (user_id, entry_id)
);

CREATE INDEX IF NOT EXISTS idx_savearn_entries_user_created
    ON savearn_entries (user_id, created_at DESC, entry_id DESC);

CREATE TABLE IF NOT EXISTS savearn_snapshots (
    user_id     TEXT PRIMARY KEY,
    data        JSONB NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);
`

// Store is a PostgreSQL-backed entry table and snapshot store.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to dsn and ensures the schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// LoadSnapshot returns the stored snapshot for userID.
func (s *Store) LoadSnapshot(ctx context.Context, userID string) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, "SELECT data::text FROM savearn_snapshots WHERE user_id = $1", userID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}
	return data, nil
}

// SaveSnapshot replaces the snapshot for userID.
func (s *Store) SaveSnapshot(ctx context.Context, userID string, data []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO savearn_snapshots (user_id, data, updated_at) VALUES ($1, $2::jsonb, $3)
		ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		userID, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// EraseSnapshot removes the snapshot for userID.
func (s *Store) EraseSnapshot(ctx context.Context, userID string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM savearn_snapshots WHERE user_id = $1", userID); err != nil {
		return fmt.Errorf("erasing snapshot: %w", err)
	}
	return nil
}

const entryColumns = `entry_id, to_char(date, 'YYYY-MM-DD'), datetime, category, expensive_option,
	expensive_amount::text, chosen_option, chosen_amount::text, earned::text, description, created_at, updated_at`

// PutEntry inserts or overwrites an entry.
func (s *Store) PutEntry(ctx context.Context, userID string, e model.SavingEntry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO savearn_entries
			(user_id, entry_id, date, datetime, category, expensive_option, expensive_amount,
			 chosen_option, chosen_amount, earned, description, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7::numeric, $8, $9::numeric, $10::numeric, $11, $12, $13)
		ON CONFLICT (user_id, entry_id) DO UPDATE SET
			date = EXCLUDED.date, datetime = EXCLUDED.datetime, category = EXCLUDED.category,
			expensive_option = EXCLUDED.expensive_option, expensive_amount = EXCLUDED.expensive_amount,
			chosen_option = EXCLUDED.chosen_option, chosen_amount = EXCLUDED.chosen_amount,
			earned = EXCLUDED.earned, description = EXCLUDED.description, updated_at = EXCLUDED.updated_at`,
		userID, e.ID, e.Date, e.Datetime, e.Category, e.ExpensiveOption, e.ExpensiveAmount.String(),
		e.ChosenOption, e.ChosenAmount.String(), e.Earned.String(), e.Description,
		e.CreatedAt.UTC(), e.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("putting entry: %w", err)
	}
	return nil
}

// GetEntry returns one entry.
func (s *Store) GetEntry(ctx context.Context, userID, id string) (model.SavingEntry, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+entryColumns+" FROM savearn_entries WHERE user_id = $1 AND entry_id = $2", userID, id)
	e, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.SavingEntry{}, fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	return e, err
}

// UpdateEntry replaces an existing entry.
func (s *Store) UpdateEntry(ctx context.Context, userID string, e model.SavingEntry) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE savearn_entries SET
			date = $3::date, datetime = $4, category = $5, expensive_option = $6, expensive_amount = $7::numeric,
			chosen_option = $8, chosen_amount = $9::numeric, earned = $10::numeric, description = $11, updated_at = $12
		WHERE user_id = $1 AND entry_id = $2`,
		userID, e.ID, e.Date, e.Datetime, e.Category, e.ExpensiveOption, e.ExpensiveAmount.String(),
		e.ChosenOption, e.ChosenAmount.String(), e.Earned.String(), e.Description, e.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("updating entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", model.ErrNotFound, e.ID)
	}
	return nil
}

// DeleteEntry removes an entry.
func (s *Store) DeleteEntry(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM savearn_entries WHERE user_id = $1 AND entry_id = $2", userID, id)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	return nil
}

// ListEntries pages through a user's entries, newest first.
func (s *Store) ListEntries(ctx context.Context, userID string, limit int, after string) (store.Page, error) {
	c, err := store.DecodeCursor(after)
	if err != nil {
		return store.Page{}, err
	}

	var rows pgx.Rows
	if after == "" {
		rows, err = s.pool.Query(ctx, "SELECT "+entryColumns+` FROM savearn_entries
			WHERE user_id = $1 ORDER BY created_at DESC, entry_id DESC LIMIT $2`, userID, limit+1)
	} else {
		rows, err = s.pool.Query(ctx, "SELECT "+entryColumns+` FROM savearn_entries
			WHERE user_id = $1 AND (created_at, entry_id) < ($2, $3)
			ORDER BY created_at DESC, entry_id DESC LIMIT $4`, userID, c.Time(), c.ID, limit+1)
	}
	if err != nil {
		return store.Page{}, fmt.Errorf("listing entries: %w", err)
	}

	entries, err := scanEntries(rows)
	if err != nil {
		return store.Page{}, err
	}

	var page store.Page
	if len(entries) > limit {
		entries = entries[:limit]
		page.Next = store.EncodeCursor(entries[len(entries)-1])
	}
	page.Entries = entries
	return page, nil
}

// AllEntries returns every entry for userID, newest first.
func (s *Store) AllEntries(ctx context.Context, userID string) ([]model.SavingEntry, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+entryColumns+` FROM savearn_entries
		WHERE user_id = $1 ORDER BY created_at DESC, entry_id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return scanEntries(rows)
}

func scanEntry(row pgx.Row) (model.SavingEntry, error) {
	var e model.SavingEntry
	var datetime, description *string
	var expensive, chosen, earned string

	err := row.Scan(&e.ID, &e.Date, &datetime, &e.Category, &e.ExpensiveOption, &expensive,
		&e.ChosenOption, &chosen, &earned, &description, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return e, err
	}
	if datetime != nil {
		e.Datetime = *datetime
	}
	if description != nil {
		e.Description = *description
	}
	if e.ExpensiveAmount, err = decimal.NewFromString(expensive); err != nil {
		return e, fmt.Errorf("parsing expensive_amount: %w", err)
	}
	if e.ChosenAmount, err = decimal.NewFromString(chosen); err != nil {
		return e, fmt.Errorf("parsing chosen_amount: %w", err)
	}
	if e.Earned, err = decimal.NewFromString(earned); err != nil {
		return e, fmt.Errorf("parsing earned: %w", err)
	}
	return e, nil
}

func scanEntries(rows pgx.Rows) ([]model.SavingEntry, error) {
	defer rows.Close()

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
