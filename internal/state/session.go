package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/theirongolddev/savearn/internal/model"
	"github.com/theirongolddev/savearn/internal/pipeline"
	"github.com/theirongolddev/savearn/internal/store"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// SnapshotStore persists one opaque snapshot blob per user.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context, userID string) ([]byte, error)
	SaveSnapshot(ctx context.Context, userID string, data []byte) error
	EraseSnapshot(ctx context.Context, userID string) error
}

// Session owns one user's state for the lifetime of a CLI command, a TUI run,
// or a request. Every transition is written through to the store before
// Dispatch returns. A Session is not safe for concurrent use.
type Session struct {
	store  SnapshotStore
	userID string
	env    Env
	log    *slog.Logger
	state  State
}

// Option configures a Session.
type Option func(*Session)

// WithEnv overrides the clock and id source.
func WithEnv(env Env) Option {
	return func(s *Session) { s.env = env }
}

// WithLogger sets the logger used for load warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// Open hydrates a session from the store. A missing snapshot yields the empty
// state. An unreadable or corrupt snapshot is logged and also yields the empty
// state; it is not an error.
func Open(ctx context.Context, st SnapshotStore, userID string, opts ...Option) *Session {
	s := &Session{
		store:  st,
		userID: userID,
		env:    DefaultEnv(),
		log:    slog.Default(),
		state:  Empty(),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, err := st.LoadSnapshot(ctx, userID)
	switch {
	case errors.Is(err, store.ErrNoSnapshot):
		return s
	case err != nil:
		s.log.Warn("could not read saved data, starting empty",
			"user", userID, "error", &model.PersistenceError{Op: "load", Err: err})
		return s
	}

	snap, err := Decode(data)
	if err != nil {
		s.log.Warn("saved data is corrupt, starting empty",
			"user", userID, "error", &model.PersistenceError{Op: "load", Err: err})
		return s
	}

	s.state, _ = Reduce(s.state, LoadData{Snapshot: snap}, s.env)
	return s
}

// Dispatch applies an action and persists the result. On a save failure the
// in-memory state keeps the transition and a *model.PersistenceError is
// returned. changed reports whether the action had any effect.
func (s *Session) Dispatch(ctx context.Context, a Action) (changed bool, err error) {
	next, changed := Reduce(s.state, a, s.env)
	if !changed {
		return false, nil
	}
	s.state = next

	if _, ok := a.(ClearData); ok {
		if err := s.store.EraseSnapshot(ctx, s.userID); err != nil {
			return true, &model.PersistenceError{Op: "erase", Err: err}
		}
		return true, nil
	}

	data, err := Encode(next)
	if err != nil {
		return true, &model.PersistenceError{Op: "save", Err: err}
	}
	if err := s.store.SaveSnapshot(ctx, s.userID, data); err != nil {
		return true, &model.PersistenceError{Op: "save", Err: err}
	}
	return true, nil
}

// Add validates in and records a new entry.
func (s *Session) Add(ctx context.Context, in model.EntryInput) (model.SavingEntry, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.SavingEntry{}, err
	}
	_, err := s.Dispatch(ctx, AddEntry{Input: in})
	return s.state.Entries[len(s.state.Entries)-1], err
}

// Update validates in and replaces the entry with id.
func (s *Session) Update(ctx context.Context, id string, in model.EntryInput) (model.SavingEntry, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return model.SavingEntry{}, err
	}
	changed, err := s.Dispatch(ctx, ReplaceEntry{Entry: model.NewEntry(id, in)})
	if !changed {
		return model.SavingEntry{}, fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	e, _ := s.Find(id)
	return e, err
}

// Delete removes the entry with id.
func (s *Session) Delete(ctx context.Context, id string) error {
	changed, err := s.Dispatch(ctx, DeleteEntry{ID: id})
	if !changed {
		return fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	return err
}

// Clear removes every entry and erases the stored snapshot.
func (s *Session) Clear(ctx context.Context) error {
	_, err := s.Dispatch(ctx, ClearData{})
	return err
}

// Restore replaces the state with snap and persists it.
func (s *Session) Restore(ctx context.Context, snap State) error {
	_, err := s.Dispatch(ctx, LoadData{Snapshot: snap})
	return err
}

// State returns a copy of the current state.
func (s *Session) State() State {
	cp := s.state
	cp.Entries = append([]model.SavingEntry(nil), s.state.Entries...)
	return cp
}

// Entries returns the entries in insertion order.
func (s *Session) Entries() []model.SavingEntry {
	return s.State().Entries
}

// Find returns the entry with id.
func (s *Session) Find(id string) (model.SavingEntry, bool) {
	if i := indexOf(s.state.Entries, id); i >= 0 {
		return s.state.Entries[i], true
	}
	return model.SavingEntry{}, false
}

// Summary returns the scalar rollups as of now.
func (s *Session) Summary(now time.Time) model.Summary {
	streak := pipeline.Streak{Current: s.state.CurrentStreak, Best: s.state.BestStreak}
	sum := pipeline.Summarize(s.state.Entries, streak, now)
	sum.TotalEarned = s.state.TotalEarned
	sum.TotalEntries = s.state.TotalEntries
	sum.AverageEarned = pipeline.AverageEarned(s.state.TotalEarned, s.state.TotalEntries)
	return sum
}

// DailyStats groups earnings by day, oldest first.
func (s *Session) DailyStats() []model.DailyStats {
	return pipeline.AggregateDays(s.state.Entries)
}

// CategoryStats groups earnings by category, largest first.
func (s *Session) CategoryStats() []model.CategoryStats {
	return pipeline.AggregateCategories(s.state.Entries)
}

// MonthlyStats groups earnings by month, oldest first.
func (s *Session) MonthlyStats() []model.MonthlyStats {
	return pipeline.AggregateMonths(s.state.Entries)
}

// TodayEarnings sums entries dated today.
func (s *Session) TodayEarnings(now time.Time) decimal.Decimal {
	return pipeline.TodayEarnings(s.state.Entries, now)
}

// ThisMonthEarnings sums entries dated this month.
func (s *Session) ThisMonthEarnings(now time.Time) decimal.Decimal {
	return pipeline.ThisMonthEarnings(s.state.Entries, now)
}

// Encode serializes a state into the snapshot format.
func Encode(st State) ([]byte, error) {
	if st.Entries == nil {
		st.Entries = []model.SavingEntry{}
	}
	return json.Marshal(st)
}

// Decode parses a snapshot.
func Decode(data []byte) (State, error) {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	if st.Entries == nil {
		st.Entries = []model.SavingEntry{}
	}
	return st, nil
}
