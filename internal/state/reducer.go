// Package state owns the aggregate savings state: the entry collection plus
// the running totals and streaks that are kept in step with it.
package state

import (
	"time"

	"github.com/theirongolddev/savearn/internal/model"
	"github.com/theirongolddev/savearn/internal/pipeline"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// State is the aggregate owned by the reducer. TotalEarned and TotalEntries
// always equal a fresh fold over Entries.
type State struct {
	Entries       []model.SavingEntry `json:"entries"`
	TotalEarned   decimal.Decimal     `json:"totalEarned"`
	CurrentStreak int                 `json:"currentStreak"`
	BestStreak    int                 `json:"bestStreak"`
	TotalEntries  int                 `json:"totalEntries"`
}

// Empty returns the initial state.
func Empty() State {
	return State{Entries: []model.SavingEntry{}, TotalEarned: decimal.Zero}
}

// Rebuild derives a consistent state from an entry list, as if every entry
// had been added in turn.
func Rebuild(entries []model.SavingEntry, now time.Time) State {
	s := Empty()
	s.Entries = append(s.Entries, entries...)
	s.TotalEarned = pipeline.TotalEarned(entries)
	s.TotalEntries = len(entries)
	streak := pipeline.CalculateStreak(entries, now)
	s.CurrentStreak = streak.Current
	s.BestStreak = streak.Best
	return s
}

// Env supplies the clock and id source used by transitions.
type Env struct {
	Now   func() time.Time
	NewID func() string
}

// DefaultEnv uses the wall clock and random UUIDs.
func DefaultEnv() Env {
	return Env{Now: time.Now, NewID: uuid.NewString}
}

// Action is a state transition request. The set of actions is closed.
type Action interface {
	action()
}

// AddEntry appends a new entry built from an already validated input.
type AddEntry struct {
	Input model.EntryInput
}

// DeleteEntry removes the entry with ID. Unknown ids are a no-op.
type DeleteEntry struct {
	ID string
}

// ReplaceEntry swaps the entry with the same ID for Entry. Earned is
// recomputed from the amounts. Unknown ids are a no-op.
type ReplaceEntry struct {
	Entry model.SavingEntry
}

// LoadData replaces the whole state with a snapshot.
type LoadData struct {
	Snapshot State
}

// ClearData resets to the empty state.
type ClearData struct{}

func (AddEntry) action()     {}
func (DeleteEntry) action()  {}
func (ReplaceEntry) action() {}
func (LoadData) action()     {}
func (ClearData) action()    {}

// Reduce applies a to s and returns the next state. changed is false when
// the action had no effect, in which case s is returned untouched.
func Reduce(s State, a Action, env Env) (next State, changed bool) {
	switch a := a.(type) {
	case AddEntry:
		now := env.Now()
		e := model.NewEntry(env.NewID(), a.Input)
		e.CreatedAt = now.UTC()
		e.UpdatedAt = e.CreatedAt

		entries := make([]model.SavingEntry, 0, len(s.Entries)+1)
		entries = append(entries, s.Entries...)
		entries = append(entries, e)

		streak := pipeline.CalculateStreak(entries, now)
		return State{
			Entries:       entries,
			TotalEarned:   s.TotalEarned.Add(e.Earned),
			TotalEntries:  s.TotalEntries + 1,
			CurrentStreak: streak.Current,
			BestStreak:    max(s.BestStreak, streak.Best),
		}, true

	case DeleteEntry:
		idx := indexOf(s.Entries, a.ID)
		if idx < 0 {
			return s, false
		}
		removed := s.Entries[idx]

		entries := make([]model.SavingEntry, 0, len(s.Entries)-1)
		entries = append(entries, s.Entries[:idx]...)
		entries = append(entries, s.Entries[idx+1:]...)

		streak := pipeline.CalculateStreak(entries, env.Now())
		return State{
			Entries:       entries,
			TotalEarned:   s.TotalEarned.Sub(removed.Earned),
			TotalEntries:  s.TotalEntries - 1,
			CurrentStreak: streak.Current,
			BestStreak:    streak.Best,
		}, true

	case ReplaceEntry:
		idx := indexOf(s.Entries, a.Entry.ID)
		if idx < 0 {
			return s, false
		}
		old := s.Entries[idx]
		now := env.Now()

		e := model.NewEntry(old.ID, a.Entry.Input())
		e.CreatedAt = old.CreatedAt
		e.UpdatedAt = now.UTC()

		entries := make([]model.SavingEntry, len(s.Entries))
		copy(entries, s.Entries)
		entries[idx] = e

		streak := pipeline.CalculateStreak(entries, now)
		return State{
			Entries:       entries,
			TotalEarned:   s.TotalEarned.Sub(old.Earned).Add(e.Earned),
			TotalEntries:  s.TotalEntries,
			CurrentStreak: streak.Current,
			BestStreak:    streak.Best,
		}, true

	case LoadData:
		snap := a.Snapshot
		if snap.Entries == nil {
			snap.Entries = []model.SavingEntry{}
		}
		return snap, true

	case ClearData:
		return Empty(), true
	}

	return s, false
}

func indexOf(entries []model.SavingEntry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
