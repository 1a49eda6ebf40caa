package state

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/theirongolddev/savearn/internal/model"
	"github.com/theirongolddev/savearn/internal/pipeline"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
)

// fixedEnv returns an Env pinned to day with sequential ids.
func fixedEnv(t *testing.T, day string) Env {
	t.Helper()
	d, err := time.ParseInLocation(model.DateLayout, day, time.Local)
	if err != nil {
		t.Fatalf("parse %q: %v", day, err)
	}
	now := d.Add(12 * time.Hour)
	n := 0
	return Env{
		Now: func() time.Time { return now },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

func input(date, expensive, chosen string) model.EntryInput {
	return model.EntryInput{
		Date:            date,
		Category:        "food",
		ExpensiveOption: "taxi",
		ExpensiveAmount: decimal.RequireFromString(expensive),
		ChosenOption:    "bus",
		ChosenAmount:    decimal.RequireFromString(chosen),
	}
}

func mustReduce(t *testing.T, s State, a Action, env Env) State {
	t.Helper()
	next, changed := Reduce(s, a, env)
	if !changed {
		t.Fatalf("Reduce(%T) reported no change", a)
	}
	return next
}

func TestReduceAdd(t *testing.T) {
	env := fixedEnv(t, "2025-01-01")
	s := mustReduce(t, Empty(), AddEntry{Input: input("2025-01-01", "5.50", "0.50")}, env)

	if len(s.Entries) != 1 || s.TotalEntries != 1 {
		t.Fatalf("entries = %d/%d, want 1/1", len(s.Entries), s.TotalEntries)
	}
	e := s.Entries[0]
	if e.ID != "id-1" {
		t.Fatalf("ID = %q, want id-1", e.ID)
	}
	if !e.Earned.Equal(decimal.RequireFromString("5.00")) {
		t.Fatalf("Earned = %s, want 5.00", e.Earned)
	}
	if !s.TotalEarned.Equal(e.Earned) {
		t.Fatalf("TotalEarned = %s, want %s", s.TotalEarned, e.Earned)
	}
	if s.CurrentStreak != 1 || s.BestStreak != 1 {
		t.Fatalf("streak = %d/%d, want 1/1", s.CurrentStreak, s.BestStreak)
	}
	if e.CreatedAt.IsZero() {
		t.Fatal("CreatedAt not stamped")
	}
}

func TestReduceAddDoesNotMutateInput(t *testing.T) {
	env := fixedEnv(t, "2025-01-02")
	s1 := mustReduce(t, Empty(), AddEntry{Input: input("2025-01-01", "3", "1")}, env)
	s2 := mustReduce(t, s1, AddEntry{Input: input("2025-01-02", "3", "1")}, env)

	if len(s1.Entries) != 1 {
		t.Fatalf("previous state grew to %d entries", len(s1.Entries))
	}
	if len(s2.Entries) != 2 {
		t.Fatalf("next state has %d entries, want 2", len(s2.Entries))
	}
}

func TestReduceStreakScenario(t *testing.T) {
	s := Empty()
	for _, day := range []string{"2025-01-01", "2025-01-02", "2025-01-03"} {
		s = mustReduce(t, s, AddEntry{Input: input(day, "2", "1")}, fixedEnv(t, day))
	}
	if s.CurrentStreak != 3 || s.BestStreak != 3 {
		t.Fatalf("streak = %d/%d, want 3/3", s.CurrentStreak, s.BestStreak)
	}

	s = mustReduce(t, s, AddEntry{Input: input("2025-01-05", "2", "1")}, fixedEnv(t, "2025-01-05"))
	if s.CurrentStreak != 1 {
		t.Fatalf("CurrentStreak = %d, want 1", s.CurrentStreak)
	}
	if s.BestStreak != 3 {
		t.Fatalf("BestStreak = %d, want 3", s.BestStreak)
	}
}

func TestReduceDeleteUnknownIsNoop(t *testing.T) {
	env := fixedEnv(t, "2025-01-01")
	s := mustReduce(t, Empty(), AddEntry{Input: input("2025-01-01", "9", "4")}, env)

	before, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	next, changed := Reduce(s, DeleteEntry{ID: "nope"}, env)
	if changed {
		t.Fatal("deleting an unknown id reported a change")
	}
	after, _ := Encode(next)
	if !bytes.Equal(before, after) {
		t.Fatalf("state changed:\n before %s\n after  %s", before, after)
	}
}

func TestReduceAddThenDeleteRestores(t *testing.T) {
	env := fixedEnv(t, "2025-01-03")
	s := Empty()
	for _, day := range []string{"2025-01-01", "2025-01-02", "2025-01-03"} {
		s = mustReduce(t, s, AddEntry{Input: input(day, "10", "2.5")}, env)
	}

	added := mustReduce(t, s, AddEntry{Input: input("2024-12-31", "4", "1")}, env)
	id := added.Entries[len(added.Entries)-1].ID
	restored := mustReduce(t, added, DeleteEntry{ID: id}, env)

	if !restored.TotalEarned.Equal(s.TotalEarned) {
		t.Fatalf("TotalEarned = %s, want %s", restored.TotalEarned, s.TotalEarned)
	}
	if restored.TotalEntries != s.TotalEntries {
		t.Fatalf("TotalEntries = %d, want %d", restored.TotalEntries, s.TotalEntries)
	}
	if restored.CurrentStreak != s.CurrentStreak {
		t.Fatalf("CurrentStreak = %d, want %d", restored.CurrentStreak, s.CurrentStreak)
	}
}

func TestReduceDeleteOverwritesBest(t *testing.T) {
	env := fixedEnv(t, "2025-01-10")
	s := Empty()
	for _, day := range []string{"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-10"} {
		s = mustReduce(t, s, AddEntry{Input: input(day, "2", "1")}, env)
	}
	if s.BestStreak != 3 {
		t.Fatalf("BestStreak = %d, want 3", s.BestStreak)
	}

	s = mustReduce(t, s, DeleteEntry{ID: s.Entries[1].ID}, env)
	if s.BestStreak != 1 {
		t.Fatalf("BestStreak after breaking the run = %d, want 1", s.BestStreak)
	}
}

func TestReduceReplace(t *testing.T) {
	env := fixedEnv(t, "2025-02-02")
	s := mustReduce(t, Empty(), AddEntry{Input: input("2025-02-01", "10", "4")}, env)
	s = mustReduce(t, s, AddEntry{Input: input("2025-02-02", "3", "2")}, env)
	orig := s.Entries[0]

	edited := model.NewEntry(orig.ID, input("2025-02-01", "10", "9"))
	s = mustReduce(t, s, ReplaceEntry{Entry: edited}, env)

	if !s.Entries[0].Earned.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("Earned = %s, want 1", s.Entries[0].Earned)
	}
	if !s.TotalEarned.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("TotalEarned = %s, want 2", s.TotalEarned)
	}
	if !s.Entries[0].CreatedAt.Equal(orig.CreatedAt) {
		t.Fatal("CreatedAt changed on replace")
	}

	if _, changed := Reduce(s, ReplaceEntry{Entry: model.NewEntry("ghost", input("2025-02-01", "2", "1"))}, env); changed {
		t.Fatal("replacing an unknown id reported a change")
	}
}

func TestReduceLoadAndClear(t *testing.T) {
	env := fixedEnv(t, "2025-03-01")
	snap := State{
		Entries:       []model.SavingEntry{model.NewEntry("x", input("2025-02-27", "8", "3"))},
		TotalEarned:   decimal.NewFromInt(5),
		CurrentStreak: 0,
		BestStreak:    7,
		TotalEntries:  1,
	}

	s := mustReduce(t, Empty(), LoadData{Snapshot: snap}, env)
	if s.BestStreak != 7 || s.TotalEntries != 1 || !s.TotalEarned.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("loaded state = %+v, want snapshot verbatim", s)
	}

	s = mustReduce(t, s, ClearData{}, env)
	if len(s.Entries) != 0 || !s.TotalEarned.IsZero() || s.BestStreak != 0 {
		t.Fatalf("cleared state = %+v, want empty", s)
	}
}

func TestReduceRandomSequencesKeepTotalsInSync(t *testing.T) {
	faker := gofakeit.New(42)
	env := fixedEnv(t, "2025-06-30")

	s := Empty()
	for step := 0; step < 400; step++ {
		if len(s.Entries) > 0 && faker.Number(0, 2) == 0 {
			victim := s.Entries[faker.Number(0, len(s.Entries)-1)]
			s = mustReduce(t, s, DeleteEntry{ID: victim.ID}, env)
		} else {
			day := faker.DateRange(
				time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
			).Format(model.DateLayout)
			expensive := decimal.NewFromFloat(faker.Price(1, 200)).Round(2)
			chosen := expensive.Mul(decimal.NewFromFloat(faker.Float64Range(0, 0.95))).Round(2)
			if chosen.GreaterThanOrEqual(expensive) {
				chosen = decimal.Zero
			}
			in := model.EntryInput{
				Date:            day,
				Category:        faker.RandomString(model.CategoryIDs()),
				ExpensiveOption: faker.ProductName(),
				ExpensiveAmount: expensive,
				ChosenOption:    faker.ProductName(),
				ChosenAmount:    chosen,
			}.Normalize()
			if err := in.Validate(); err != nil {
				t.Fatalf("generated invalid input %+v: %v", in, err)
			}
			s = mustReduce(t, s, AddEntry{Input: in}, env)
		}

		if got := pipeline.TotalEarned(s.Entries); !got.Equal(s.TotalEarned) {
			t.Fatalf("step %d: TotalEarned = %s, fold = %s", step, s.TotalEarned, got)
		}
		if s.TotalEntries != len(s.Entries) {
			t.Fatalf("step %d: TotalEntries = %d, len = %d", step, s.TotalEntries, len(s.Entries))
		}
		for _, e := range s.Entries {
			if !e.Earned.IsPositive() {
				t.Fatalf("step %d: entry %s has earned %s", step, e.ID, e.Earned)
			}
		}
		if s.BestStreak < s.CurrentStreak {
			t.Fatalf("step %d: best %d < current %d", step, s.BestStreak, s.CurrentStreak)
		}
	}
}
