package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/savearn/internal/model"
	"github.com/theirongolddev/savearn/internal/state"
	"github.com/theirongolddev/savearn/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)

var seedEntries = []model.EntryInput{
	{Date: "2025-03-08", Category: "lifestyle", ExpensiveOption: "Latte", ExpensiveAmount: decimal.RequireFromString("5.50"),
		ChosenOption: "Office coffee", ChosenAmount: decimal.Zero},
	{Date: "2025-03-09", Category: "food", ExpensiveOption: "Delivery", ExpensiveAmount: decimal.RequireFromString("24"),
		ChosenOption: "Leftovers", ChosenAmount: decimal.RequireFromString("3"), Description: "pasta from sunday"},
	{Date: "2025-03-10", Category: "transport", ExpensiveOption: "Taxi", ExpensiveAmount: decimal.RequireFromString("18"),
		ChosenOption: "Bus", ChosenAmount: decimal.RequireFromString("2.75")},
}

func testOptions(st state.SnapshotStore) Options {
	return Options{
		Store:  st,
		User:   "alice",
		Days:   7,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return testNow },
	}
}

// loadedApp returns an app whose session has been loaded from a memory
// store pre-filled with seed.
func loadedApp(t *testing.T, seed ...model.EntryInput) App {
	t.Helper()
	st := store.NewMemory()
	opts := testOptions(st)
	if len(seed) > 0 {
		sess := state.Open(context.Background(), st, opts.User, state.WithLogger(opts.Logger),
			state.WithEnv(state.Env{Now: opts.Now, NewID: state.DefaultEnv().NewID}))
		for _, in := range seed {
			if _, err := sess.Add(context.Background(), in); err != nil {
				t.Fatalf("seeding: %v", err)
			}
		}
	}

	a := NewApp(opts)
	a = update(t, a, tea.WindowSizeMsg{Width: 140, Height: 45})
	return update(t, a, openSessionCmd(opts)())
}

func update(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	next, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T", m)
	}
	return next
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestLoadDerivesViews(t *testing.T) {
	a := loadedApp(t, seedEntries...)

	if !a.loaded {
		t.Fatal("app not loaded")
	}
	if got := a.summary.TotalEarned.StringFixed(2); got != "41.75" {
		t.Errorf("total earned = %s, want 41.75", got)
	}
	if a.summary.CurrentStreak != 3 {
		t.Errorf("current streak = %d, want 3", a.summary.CurrentStreak)
	}
	if len(a.daily) != 7 || a.daily[6].Date != "2025-03-10" {
		t.Errorf("daily window = %d days ending %q", len(a.daily), a.daily[len(a.daily)-1].Date)
	}
	if a.entries[0].Date != "2025-03-10" {
		t.Errorf("entries not newest first: %s", a.entries[0].Date)
	}
	if len(a.categories) != 3 || a.categories[0].Category != "food" {
		t.Errorf("categories = %+v", a.categories)
	}
}

func TestSubmitFormAddsEntry(t *testing.T) {
	a := loadedApp(t)

	m, _ := a.openForm("New smart choice", "", model.EntryInput{})
	a = m.(App)
	if a.form == nil {
		t.Fatal("form not opened")
	}
	a.formVals.Date = "2025-03-10"
	a.formVals.Category = "shopping"
	a.formVals.Instead = "New jacket"
	a.formVals.Price = "$120"
	a.formVals.Chose = "Repaired old one"
	a.formVals.Paid = "15"

	a.form = nil
	m, _ = a.submitForm()
	a = m.(App)

	if a.summary.TotalEntries != 1 {
		t.Fatalf("entries = %d, want 1", a.summary.TotalEntries)
	}
	if got := a.summary.TotalEarned.StringFixed(2); got != "105.00" {
		t.Errorf("earned = %s, want 105.00", got)
	}
	if !strings.HasPrefix(a.flash, "Added") || a.flashErr {
		t.Errorf("flash = %q (err=%v)", a.flash, a.flashErr)
	}
}

func TestSubmitFormRejectsAndReopens(t *testing.T) {
	a := loadedApp(t)

	m, _ := a.openForm("New smart choice", "", model.EntryInput{})
	a = m.(App)
	a.formVals.Instead = "Taxi"
	a.formVals.Price = "10"
	a.formVals.Chose = "Limo"
	a.formVals.Paid = "40"

	a.form = nil
	m, _ = a.submitForm()
	a = m.(App)

	if a.form == nil {
		t.Fatal("rejected entry should reopen the form")
	}
	if a.formVals.Chose != "Limo" {
		t.Errorf("typed values lost: %+v", a.formVals)
	}
	if a.summary.TotalEntries != 0 {
		t.Errorf("rejected entry was stored")
	}
}

func TestEditKeepsIDAndUpdatesTotals(t *testing.T) {
	a := loadedApp(t, seedEntries...)
	a.activeTab = tabEntries
	target := a.visibleEntries()[0]

	m, _ := a.openForm("Edit smart choice", target.ID, target.Input())
	a = m.(App)
	a.formVals.Paid = "0"

	a.form = nil
	m, _ = a.submitForm()
	a = m.(App)

	got, ok := a.sess.Find(target.ID)
	if !ok {
		t.Fatal("edited entry missing")
	}
	if got.Earned.StringFixed(2) != "18.00" {
		t.Errorf("earned = %s, want 18.00", got.Earned.StringFixed(2))
	}
	if a.summary.TotalEntries != 3 {
		t.Errorf("entries = %d, want 3", a.summary.TotalEntries)
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	a := loadedApp(t, seedEntries...)
	a = update(t, a, key("e"))
	if a.activeTab != tabEntries {
		t.Fatalf("activeTab = %d", a.activeTab)
	}

	a = update(t, a, key("d"))
	if !a.list.confirmDelete {
		t.Fatal("d should ask for confirmation")
	}
	a = update(t, a, key("n"))
	if a.summary.TotalEntries != 3 {
		t.Fatalf("declined delete removed an entry")
	}

	a = update(t, a, key("j"))
	victim := a.visibleEntries()[1]
	a = update(t, a, key("d"))
	a = update(t, a, key("y"))
	if a.summary.TotalEntries != 2 {
		t.Fatalf("entries = %d, want 2", a.summary.TotalEntries)
	}
	if _, ok := a.sess.Find(victim.ID); ok {
		t.Fatal("wrong entry deleted")
	}
}

func TestSearchFiltersEntries(t *testing.T) {
	a := loadedApp(t, seedEntries...)
	a = update(t, a, key("e"))
	a = update(t, a, key("/"))
	if !a.list.searching {
		t.Fatal("/ should start a search")
	}
	for _, r := range "pasta" {
		a = update(t, a, key(string(r)))
	}
	a = update(t, a, key("enter"))

	got := a.visibleEntries()
	if len(got) != 1 || got[0].ChosenOption != "Leftovers" {
		t.Fatalf("search results = %+v", got)
	}

	a = update(t, a, key("esc"))
	if len(a.visibleEntries()) != 3 {
		t.Fatal("esc should clear the search")
	}
}

func TestFilterEntriesMatchesEveryWord(t *testing.T) {
	entries := []model.SavingEntry{
		{ID: "1", Category: "lifestyle", ExpensiveOption: "Latte", ChosenOption: "Drip"},
		{ID: "2", Category: "food", ExpensiveOption: "Sushi", ChosenOption: "Rice bowl"},
	}
	if got := filterEntries(entries, "LIFESTYLE drip"); len(got) != 1 || got[0].ID != "1" {
		t.Errorf("category+option match = %+v", got)
	}
	if got := filterEntries(entries, "latte rice"); len(got) != 0 {
		t.Errorf("words across entries should not match: %+v", got)
	}
	if got := filterEntries(entries, "  "); len(got) != 2 {
		t.Errorf("blank query should keep everything")
	}
}

func TestEntryFormKeepsDatetimeOnlyForSameDay(t *testing.T) {
	in := model.EntryInput{
		Date: "2025-03-01", Datetime: "2025-03-01T08:15:00Z", ExpensiveOption: "A",
		ExpensiveAmount: decimal.NewFromInt(3), ChosenOption: "B",
	}
	f := NewEntryForm(in)
	got, err := f.Input()
	if err != nil {
		t.Fatal(err)
	}
	if got.Datetime != in.Datetime {
		t.Errorf("datetime dropped for unchanged date")
	}

	f.Date = "2025-03-02"
	got, _ = f.Input()
	if got.Datetime != "" {
		t.Errorf("datetime %q kept after the date changed", got.Datetime)
	}

	f.Price = "abc"
	if _, err := f.Input(); err == nil {
		t.Error("bad price accepted")
	}
}

func TestChartDateLabels(t *testing.T) {
	days := []model.DailyStats{
		{Date: "2025-02-27"}, {Date: "2025-02-28"}, {Date: "2025-03-01"}, {Date: "2025-03-02"},
	}
	got := chartDateLabels(days)
	want := []string{"Feb", "28", "Mar", "2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("labels = %v, want %v", got, want)
		}
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a := loadedApp(t, seedEntries...)
	for _, tab := range []int{tabOverview, tabEntries, tabBreakdown} {
		a.activeTab = tab
		out := a.View()
		if !strings.Contains(out, "savearn") {
			t.Errorf("tab %d: missing brand", tab)
		}
		if lines := strings.Count(out, "\n") + 1; lines != a.height {
			t.Errorf("tab %d: %d lines, want %d", tab, lines, a.height)
		}
	}

	a.showHelp = true
	if out := a.View(); !strings.Contains(out, "Keyboard Shortcuts") {
		t.Error("help overlay missing")
	}

	empty := loadedApp(t)
	empty.activeTab = tabEntries
	if out := empty.View(); !strings.Contains(out, "No smart choices yet") {
		t.Error("empty state missing")
	}
}
