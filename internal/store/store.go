// Package store provides durable storage for savearn: whole-state snapshots
// for the local session and a per-user entry table for the API.
package store

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/savearn/internal/model"

	"github.com/goccy/go-json"
)

// ErrNoSnapshot is returned when a user has never saved a snapshot.
var ErrNoSnapshot = errors.New("store: no snapshot")

// ErrBadCursor is returned for a continuation key that does not decode.
var ErrBadCursor = errors.New("store: invalid continuation key")

// timeLayout is fixed width so stored timestamps compare as strings.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Page is one slice of a user's entries, newest first. Next is empty on the
// last page.
type Page struct {
	Entries []model.SavingEntry
	Next    string
}

// Cursor marks the last entry of a page. It travels as an opaque base64url
// continuation key.
type Cursor struct {
	CreatedAt string `json:"c"`
	ID        string `json:"i"`
}

// EncodeCursor returns the continuation key positioned after e.
func EncodeCursor(e model.SavingEntry) string {
	raw, _ := json.Marshal(Cursor{CreatedAt: formatTime(e.CreatedAt), ID: e.ID})
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a continuation key. The empty key is the zero Cursor.
func DecodeCursor(s string) (Cursor, error) {
	var c Cursor
	if s == "" {
		return c, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return c, fmt.Errorf("%w: %v", ErrBadCursor, err)
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%w: %v", ErrBadCursor, err)
	}
	if c.ID == "" || c.CreatedAt == "" {
		return c, ErrBadCursor
	}
	return c, nil
}

// Time returns the creation time the cursor points at.
func (c Cursor) Time() time.Time {
	return parseTime(c.CreatedAt)
}

// Before reports whether e sorts after the cursor position in newest-first order.
func (c Cursor) Before(e model.SavingEntry) bool {
	ts := formatTime(e.CreatedAt)
	if ts != c.CreatedAt {
		return ts < c.CreatedAt
	}
	return e.ID < c.ID
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}
