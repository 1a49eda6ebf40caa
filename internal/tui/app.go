// Package tui provides the interactive Bubble Tea dashboard for savearn.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/theirongolddev/savearn/internal/cli"
	"github.com/theirongolddev/savearn/internal/model"
	"github.com/theirongolddev/savearn/internal/pipeline"
	"github.com/theirongolddev/savearn/internal/state"
	"github.com/theirongolddev/savearn/internal/tui/components"
	"github.com/theirongolddev/savearn/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Options configures the dashboard.
type Options struct {
	Store  state.SnapshotStore
	User   string
	Days   int // width of the daily chart
	Logger *slog.Logger
	Now    func() time.Time
}

// sessionLoadedMsg is sent when the snapshot has been read.
type sessionLoadedMsg struct {
	sess *state.Session
	took time.Duration
}

// flashExpiredMsg clears the status flash if nothing newer replaced it.
type flashExpiredMsg struct{ seq int }

// App is the root Bubble Tea model.
type App struct {
	opts Options
	sess *state.Session

	loaded   bool
	loadTime time.Duration

	// Derived from the session after every change.
	summary    model.Summary
	entries    []model.SavingEntry // newest first
	daily      []model.DailyStats  // exactly opts.Days days ending today
	categories []model.CategoryStats
	months     []model.MonthlyStats

	width     int
	height    int
	activeTab int
	showHelp  bool

	list entriesState

	// Add/edit form. editID is empty when adding.
	form     *huh.Form
	formVals *EntryForm
	editID   string

	flash    string
	flashErr bool
	flashSeq int

	spinner spinner.Model
}

const (
	minTerminalWidth = 70
	compactWidth     = 110
	maxContentWidth  = 160
	minContentHeight = 5
	flashDuration    = 4 * time.Second
)

// NewApp creates the dashboard model. The session is opened from
// opts.Store once the program starts.
func NewApp(opts Options) App {
	if opts.Days < 1 {
		opts.Days = 14
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		opts:    opts,
		spinner: sp,
		list:    newEntriesState(),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		openSessionCmd(a.opts),
		a.spinner.Tick,
	)
}

func openSessionCmd(opts Options) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		sess := state.Open(ctx, opts.Store, opts.User,
			state.WithLogger(opts.Logger),
			state.WithEnv(state.Env{Now: opts.Now, NewID: state.DefaultEnv().NewID}))
		return sessionLoadedMsg{sess: sess, took: time.Since(start)}
	}
}

// recompute refreshes every derived view of the session.
func (a *App) recompute() {
	now := a.opts.Now()
	a.summary = a.sess.Summary(now)
	a.entries = pipeline.SortNewestFirst(a.sess.Entries())
	a.daily = pipeline.FillDays(a.sess.DailyStats(), now, a.opts.Days)
	a.categories = a.sess.CategoryStats()
	a.months = a.sess.MonthlyStats()
	a.list.clamp(len(a.visibleEntries()))
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(min(msg.Width, 80)).WithHeight(msg.Height)
		}
		return a, nil

	case sessionLoadedMsg:
		a.sess = msg.sess
		a.loaded = true
		a.loadTime = msg.took
		a.recompute()
		return a, nil

	case flashExpiredMsg:
		if msg.seq == a.flashSeq {
			a.flash = ""
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.MouseMsg:
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		return a.updateKeys(msg)
	}

	// Cursor blinks and other internal messages belong to whichever input
	// currently has focus.
	if a.form != nil {
		return a.updateForm(msg)
	}
	if a.list.searching {
		var cmd tea.Cmd
		a.list.search, cmd = a.list.search.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !a.loaded || a.showHelp || a.form != nil {
		return a, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if a.activeTab == tabEntries {
			a.list.move(-1, len(a.visibleEntries()))
		}
	case tea.MouseButtonWheelDown:
		if a.activeTab == tabEntries {
			a.list.move(1, len(a.visibleEntries()))
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Text entry and confirmation prompts see every key first.
	if a.activeTab == tabEntries && a.list.searching {
		return a.updateSearch(msg)
	}
	if a.activeTab == tabEntries && a.list.confirmDelete {
		return a.updateConfirmDelete(key)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	if a.activeTab == tabEntries {
		if handled, next, cmd := a.updateEntriesKeys(key); handled {
			return next, cmd
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "a":
		return a.openForm("New smart choice", "", model.EntryInput{})
	case "r":
		a.loaded = false
		return a, tea.Batch(openSessionCmd(a.opts), a.spinner.Tick)
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
	default:
		if r := []rune(key); len(r) == 1 {
			if idx := components.TabIdxByKey(r[0]); idx >= 0 {
				a.activeTab = idx
			}
		}
	}
	return a, nil
}

// openForm shows the add/edit form seeded with in.
func (a App) openForm(title, editID string, in model.EntryInput) (tea.Model, tea.Cmd) {
	a.formVals = NewEntryForm(in)
	a.form = a.formVals.Form(title)
	a.editID = editID
	if a.width > 0 {
		a.form = a.form.WithWidth(min(a.width, 80)).WithHeight(a.height)
	}
	return a, a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		a.form = nil
		return a.setFlash("cancelled", false)
	}

	next, cmd := a.form.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		a.form = nil
		return a.submitForm()
	case huh.StateAborted:
		a.form = nil
		return a.setFlash("cancelled", false)
	}
	return a, cmd
}

func (a App) submitForm() (tea.Model, tea.Cmd) {
	in, err := a.formVals.Input()
	var e model.SavingEntry
	if err == nil {
		ctx := context.Background()
		if a.editID == "" {
			e, err = a.sess.Add(ctx, in)
		} else {
			e, err = a.sess.Update(ctx, a.editID, in)
		}
	}

	// A rejected entry goes back to the form with what the user typed.
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		a.form = a.formVals.Form(fmt.Sprintf("Fix %s: %s", ve.Field, ve.Reason))
		if a.width > 0 {
			a.form = a.form.WithWidth(min(a.width, 80)).WithHeight(a.height)
		}
		return a, a.form.Init()
	}
	var pe *model.PersistenceError
	if err != nil && !errors.As(err, &pe) {
		return a.setFlash(describeError(err), true)
	}

	a.recompute()
	a.list.selectID(e.ID, a.visibleEntries())
	if err != nil {
		return a.setFlash(describeError(err), true)
	}
	verb := "Added"
	if a.editID != "" {
		verb = "Updated"
	}
	return a.setFlash(fmt.Sprintf("%s: earned %s", verb, cli.FormatMoney(e.Earned)), false)
}

// deleteSelected removes the highlighted entry.
func (a App) deleteSelected() (tea.Model, tea.Cmd) {
	sel, ok := a.list.selected(a.visibleEntries())
	if !ok {
		return a, nil
	}
	err := a.sess.Delete(context.Background(), sel.ID)
	var pe *model.PersistenceError
	if err != nil && !errors.As(err, &pe) {
		return a.setFlash(describeError(err), true)
	}
	a.recompute()
	if err != nil {
		return a.setFlash(describeError(err), true)
	}
	return a.setFlash("Deleted "+sel.ChosenOption, false)
}

// setFlash shows msg in the status bar for flashDuration.
func (a App) setFlash(msg string, isErr bool) (tea.Model, tea.Cmd) {
	a.flash = msg
	a.flashErr = isErr
	a.flashSeq++
	seq := a.flashSeq
	return a, tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{seq: seq}
	})
}

// describeError turns a domain error into a short status line.
func describeError(err error) string {
	var ve *model.ValidationError
	var pe *model.PersistenceError
	switch {
	case errors.As(err, &ve):
		return fmt.Sprintf("Rejected: %s %s", ve.Field, ve.Reason)
	case errors.As(err, &pe):
		return "Changed, but not saved: " + pe.Err.Error()
	case errors.Is(err, model.ErrNotFound):
		return "Entry no longer exists"
	}
	return err.Error()
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	switch {
	case a.width == 0:
		return ""
	case a.width < minTerminalWidth:
		return a.viewTooNarrow()
	case !a.loaded:
		return a.viewLoading()
	case a.form != nil:
		return a.viewForm()
	case a.showHelp:
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf("\n  Terminal too narrow (%d cols)\n\n  savearn needs at least %d columns.\n",
		a.width, minTerminalWidth)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logo := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	body := logo.Render("◈ savearn") + muted.Render(" · every skipped splurge counts") + "\n\n" +
		a.spinner.View() + muted.Render(" Loading your entries...")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewForm() string {
	t := theme.Active
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Padding(1, 2)
	hint := lipgloss.NewStyle().Foreground(t.TextDim).Render("enter next · shift+tab back · esc cancel")
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		card.Render(a.form.View()+"\n"+hint))
}

func (a App) viewHelp() string {
	t := theme.Active

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	title := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	section := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Streak).Background(t.Surface).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	groups := []struct {
		name     string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o e b", "Jump to tab"},
			{"← → tab", "Previous / next tab"},
			{"j k ↑ ↓", "Move through entries"},
			{"g G", "First / last entry"},
		}},
		{"Entries", [][2]string{
			{"a", "Add a smart choice"},
			{"enter E", "Edit the selected entry"},
			{"d", "Delete the selected entry"},
			{"/", "Search"},
			{"esc", "Clear search / cancel"},
		}},
		{"General", [][2]string{
			{"r", "Reload from storage"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(title.Render("◈ Keyboard Shortcuts"))
	for _, g := range groups {
		b.WriteString("\n\n")
		b.WriteString(section.Render(g.name))
		for _, kb := range g.bindings {
			fmt.Fprintf(&b, "\n  %s  %s", keyStyle.Render(fmt.Sprintf("%-9s", kb[0])), desc.Render(kb[1]))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(dim.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()

	header := components.RenderTabBar(a.activeTab, w, "◈ savearn")
	statusBar := components.RenderStatusBar(w, components.Status{
		User:    a.opts.User,
		Entries: a.summary.TotalEntries,
		Flash:   a.flash,
		IsError: a.flashErr,
		Hints:   a.statusHints(),
	})

	contentH := max(a.height-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch a.activeTab {
	case tabOverview:
		content = a.renderOverviewTab(cw)
	case tabEntries:
		content = a.renderEntriesTab(cw, contentH)
	case tabBreakdown:
		content = a.renderBreakdownTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	return lipgloss.Place(w, a.height, lipgloss.Left, lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) statusHints() string {
	switch {
	case a.activeTab == tabEntries && a.list.searching:
		return "enter apply  esc cancel"
	case a.activeTab == tabEntries && a.list.confirmDelete:
		return "delete? [y]es  [n]o"
	case a.activeTab == tabEntries:
		return "[a]dd  [E]dit  [d]elete  [/]search  [?]help"
	}
	return ""
}

// Tab indexes, matching components.Tabs.
const (
	tabOverview = iota
	tabEntries
	tabBreakdown
)

// tabAtX returns the tab under column x, or -1. Widths come from the same
// renderer the tab bar uses.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1 // separator
	}
	return -1
}

// chartDateLabels builds x-axis labels for an ascending daily series: a month
// name at the start and at month boundaries, the day number elsewhere.
func chartDateLabels(days []model.DailyStats) []string {
	labels := make([]string, len(days))
	prev := time.Month(0)
	for i, d := range days {
		dt, err := time.Parse(model.DateLayout, d.Date)
		if err != nil {
			continue
		}
		if i == 0 || (dt.Month() != prev && i != len(days)-1) {
			labels[i] = dt.Format("Jan")
		} else {
			labels[i] = fmt.Sprint(dt.Day())
		}
		prev = dt.Month()
	}
	return labels
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	n := strings.Count(s, "\n") + 1
	if n >= h {
		return s
	}
	return s + strings.Repeat("\n", h-n)
}

// fillLinesWithBackground pads every line to w columns in bg so gaps between
// cards are painted.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}
