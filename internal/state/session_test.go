package state

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/theirongolddev/savearn/internal/model"
	"github.com/theirongolddev/savearn/internal/store"

	"github.com/shopspring/decimal"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// flakyStore wraps a Memory and fails writes while broken is set.
type flakyStore struct {
	*store.Memory
	broken  bool
	loadErr error
}

var errDiskFull = errors.New("disk full")

func (f *flakyStore) LoadSnapshot(ctx context.Context, userID string) ([]byte, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.Memory.LoadSnapshot(ctx, userID)
}

func (f *flakyStore) SaveSnapshot(ctx context.Context, userID string, data []byte) error {
	if f.broken {
		return errDiskFull
	}
	return f.Memory.SaveSnapshot(ctx, userID, data)
}

func (f *flakyStore) EraseSnapshot(ctx context.Context, userID string) error {
	if f.broken {
		return errDiskFull
	}
	return f.Memory.EraseSnapshot(ctx, userID)
}

func openSession(t *testing.T, st SnapshotStore, day string) *Session {
	t.Helper()
	return Open(context.Background(), st, "alice", WithEnv(fixedEnv(t, day)), WithLogger(quiet))
}

func TestSessionPersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	s := openSession(t, mem, "2025-01-02")
	if _, err := s.Add(ctx, input("2025-01-01", "12", "4")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	e, err := s.Add(ctx, input("2025-01-02", "3", "1"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	reopened := openSession(t, mem, "2025-01-02")
	got := reopened.State()
	if got.TotalEntries != 2 {
		t.Fatalf("TotalEntries = %d, want 2", got.TotalEntries)
	}
	if !got.TotalEarned.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("TotalEarned = %s, want 10", got.TotalEarned)
	}
	if got.BestStreak != 2 {
		t.Fatalf("BestStreak = %d, want 2", got.BestStreak)
	}
	if _, ok := reopened.Find(e.ID); !ok {
		t.Fatalf("entry %s missing after reopen", e.ID)
	}
}

func TestSessionOpenMissingOrCorrupt(t *testing.T) {
	ctx := context.Background()

	mem := store.NewMemory()
	if s := openSession(t, mem, "2025-01-01"); s.State().TotalEntries != 0 {
		t.Fatal("missing snapshot did not yield empty state")
	}

	if err := mem.SaveSnapshot(ctx, "alice", []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	s := openSession(t, mem, "2025-01-01")
	if got := s.State(); got.TotalEntries != 0 || len(got.Entries) != 0 {
		t.Fatalf("corrupt snapshot gave %+v, want empty", got)
	}

	broken := &flakyStore{Memory: store.NewMemory(), loadErr: errors.New("permission denied")}
	if s := openSession(t, broken, "2025-01-01"); s.State().TotalEntries != 0 {
		t.Fatal("unreadable snapshot did not yield empty state")
	}
}

func TestSessionSaveFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	st := &flakyStore{Memory: store.NewMemory()}
	s := openSession(t, st, "2025-01-01")

	st.broken = true
	_, err := s.Add(ctx, input("2025-01-01", "5", "2"))

	var perr *model.PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("Add error = %v, want *model.PersistenceError", err)
	}
	if !errors.Is(err, errDiskFull) {
		t.Fatalf("Add error = %v, want wrapping %v", err, errDiskFull)
	}
	if s.State().TotalEntries != 1 {
		t.Fatalf("TotalEntries = %d, want 1 after failed save", s.State().TotalEntries)
	}
	if _, err := st.Memory.LoadSnapshot(ctx, "alice"); !errors.Is(err, store.ErrNoSnapshot) {
		t.Fatalf("snapshot written despite failure: %v", err)
	}

	st.broken = false
	if _, err := s.Add(ctx, input("2025-01-01", "2", "1")); err != nil {
		t.Fatalf("Add after recovery: %v", err)
	}
	if got := openSession(t, st, "2025-01-01").State().TotalEntries; got != 2 {
		t.Fatalf("persisted TotalEntries = %d, want 2", got)
	}
}

func TestSessionValidation(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, store.NewMemory(), "2025-01-01")

	_, err := s.Add(ctx, input("2025-01-01", "5", "5"))
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Add error = %v, want *model.ValidationError", err)
	}
	if verr.Field != "chosenAmount" {
		t.Fatalf("Field = %q, want chosenAmount", verr.Field)
	}
	if s.State().TotalEntries != 0 {
		t.Fatal("invalid input changed state")
	}
}

func TestSessionUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, store.NewMemory(), "2025-01-01")

	e, err := s.Add(ctx, input("2025-01-01", "20", "5"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	edit := input("2025-01-01", "20", "15")
	edit.Description = "  walked halfway  "
	got, err := s.Update(ctx, e.ID, edit)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !got.Earned.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("Earned = %s, want 5", got.Earned)
	}
	if got.Description != "walked halfway" {
		t.Fatalf("Description = %q, want trimmed", got.Description)
	}
	if !s.State().TotalEarned.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("TotalEarned = %s, want 5", s.State().TotalEarned)
	}

	if _, err := s.Update(ctx, "missing", edit); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Update(missing) = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "missing"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Delete(missing) = %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if st := s.State(); st.TotalEntries != 0 || !st.TotalEarned.IsZero() {
		t.Fatalf("state after delete = %+v, want empty totals", st)
	}
}

func TestSessionClearErasesSnapshot(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	s := openSession(t, mem, "2025-01-01")

	if _, err := s.Add(ctx, input("2025-01-01", "9", "1")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := mem.LoadSnapshot(ctx, "alice"); !errors.Is(err, store.ErrNoSnapshot) {
		t.Fatalf("LoadSnapshot after Clear = %v, want ErrNoSnapshot", err)
	}
	if s.State().TotalEntries != 0 {
		t.Fatal("Clear left entries behind")
	}
}

func TestSessionRestore(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	src := openSession(t, mem, "2025-01-02")
	for _, day := range []string{"2025-01-01", "2025-01-02"} {
		if _, err := src.Add(ctx, input(day, "4", "1")); err != nil {
			t.Fatal(err)
		}
	}
	snap := src.State()

	other := Open(ctx, mem, "bob", WithEnv(fixedEnv(t, "2025-01-02")), WithLogger(quiet))
	if err := other.Restore(ctx, snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	reopened := Open(ctx, mem, "bob", WithLogger(quiet))
	if got := reopened.State(); got.TotalEntries != 2 || !got.TotalEarned.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("restored state = %+v", got)
	}
}

func TestSessionStateIsACopy(t *testing.T) {
	ctx := context.Background()
	s := openSession(t, store.NewMemory(), "2025-01-01")
	if _, err := s.Add(ctx, input("2025-01-01", "3", "1")); err != nil {
		t.Fatal(err)
	}

	snap := s.State()
	snap.Entries[0].Description = "tampered"
	if e := s.Entries()[0]; e.Description == "tampered" {
		t.Fatal("State() exposed the internal slice")
	}
}

func TestSessionSummary(t *testing.T) {
	ctx := context.Background()
	env := fixedEnv(t, "2025-03-15")
	s := Open(ctx, store.NewMemory(), "alice", WithEnv(env), WithLogger(quiet))

	for _, in := range []model.EntryInput{
		input("2025-03-15", "10", "4"),
		input("2025-03-14", "5", "1"),
		input("2025-02-28", "3", "1"),
	} {
		if _, err := s.Add(ctx, in); err != nil {
			t.Fatal(err)
		}
	}

	sum := s.Summary(env.Now())
	if !sum.TotalEarned.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("TotalEarned = %s, want 12", sum.TotalEarned)
	}
	if !sum.TodayEarned.Equal(decimal.NewFromInt(6)) {
		t.Fatalf("TodayEarned = %s, want 6", sum.TodayEarned)
	}
	if !sum.MonthEarned.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("MonthEarned = %s, want 10", sum.MonthEarned)
	}
	if !sum.AverageEarned.Equal(decimal.NewFromInt(4)) {
		t.Fatalf("AverageEarned = %s, want 4", sum.AverageEarned)
	}
	if sum.CurrentStreak != 2 {
		t.Fatalf("CurrentStreak = %d, want 2", sum.CurrentStreak)
	}
	if got := len(s.MonthlyStats()); got != 2 {
		t.Fatalf("MonthlyStats len = %d, want 2", got)
	}
	if got := len(s.DailyStats()); got != 3 {
		t.Fatalf("DailyStats len = %d, want 3", got)
	}
}
