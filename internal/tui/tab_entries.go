package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/savearn/internal/cli"
	"github.com/theirongolddev/savearn/internal/model"
	"github.com/theirongolddev/savearn/internal/tui/components"
	"github.com/theirongolddev/savearn/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// entriesState is the Entries tab's cursor, scroll and search state.
type entriesState struct {
	cursor int
	offset int

	searching     bool
	search        textinput.Model
	query         string
	confirmDelete bool
}

func newEntriesState() entriesState {
	ti := textinput.New()
	ti.Placeholder = "search options, notes, categories"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Width = 40
	return entriesState{search: ti}
}

func (s *entriesState) clamp(n int) {
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *entriesState) move(delta, n int) {
	s.cursor += delta
	s.clamp(n)
}

func (s *entriesState) selected(entries []model.SavingEntry) (model.SavingEntry, bool) {
	if s.cursor < 0 || s.cursor >= len(entries) {
		return model.SavingEntry{}, false
	}
	return entries[s.cursor], true
}

// selectID moves the cursor onto id if it is visible.
func (s *entriesState) selectID(id string, entries []model.SavingEntry) {
	for i, e := range entries {
		if e.ID == id {
			s.cursor = i
			return
		}
	}
	s.clamp(len(entries))
}

// visibleEntries applies the search query to the newest-first list.
func (a App) visibleEntries() []model.SavingEntry {
	return filterEntries(a.entries, a.list.query)
}

// filterEntries keeps entries whose text fields or category contain every
// word of query, ignoring case.
func filterEntries(entries []model.SavingEntry, query string) []model.SavingEntry {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return entries
	}
	var out []model.SavingEntry
	for _, e := range entries {
		cat := model.LookupCategory(e.Category)
		hay := strings.ToLower(strings.Join([]string{
			e.ExpensiveOption, e.ChosenOption, e.Description, e.Date, cat.ID, cat.Name,
		}, " "))
		match := true
		for _, w := range words {
			if !strings.Contains(hay, w) {
				match = false
				break
			}
		}
		if match {
			out = append(out, e)
		}
	}
	return out
}

// updateEntriesKeys handles list navigation. handled is false for keys the
// global handler should see.
func (a App) updateEntriesKeys(key string) (handled bool, next tea.Model, cmd tea.Cmd) {
	visible := a.visibleEntries()
	switch key {
	case "j", "down":
		a.list.move(1, len(visible))
	case "k", "up":
		a.list.move(-1, len(visible))
	case "g", "home":
		a.list.cursor = 0
	case "G", "end":
		a.list.cursor = len(visible) - 1
		a.list.clamp(len(visible))
	case "pgdown", "ctrl+d":
		a.list.move(a.pageSize(), len(visible))
	case "pgup", "ctrl+u":
		a.list.move(-a.pageSize(), len(visible))
	case "/":
		a.list.searching = true
		a.list.search.SetValue(a.list.query)
		a.list.search.CursorEnd()
		return true, a, a.list.search.Focus()
	case "esc":
		if a.list.query == "" {
			return true, a, nil
		}
		a.list.query = ""
		a.list.cursor = 0
		a.list.offset = 0
	case "enter", "E":
		sel, ok := a.list.selected(visible)
		if !ok {
			return true, a, nil
		}
		next, cmd = a.openForm("Edit smart choice", sel.ID, sel.Input())
		return true, next, cmd
	case "d", "delete":
		if _, ok := a.list.selected(visible); ok {
			a.list.confirmDelete = true
		}
	default:
		return false, a, nil
	}
	return true, a, nil
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.list.query = strings.TrimSpace(a.list.search.Value())
		a.list.searching = false
		a.list.search.Blur()
		a.list.cursor = 0
		a.list.offset = 0
		return a, nil
	case "esc":
		a.list.searching = false
		a.list.search.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	a.list.search, cmd = a.list.search.Update(msg)
	return a, cmd
}

func (a App) updateConfirmDelete(key string) (tea.Model, tea.Cmd) {
	a.list.confirmDelete = false
	if key == "y" || key == "Y" {
		return a.deleteSelected()
	}
	return a, nil
}

func (a App) pageSize() int {
	return max((a.height-8)/2, 1)
}

func (a App) renderEntriesTab(cw, h int) string {
	t := theme.Active
	entries := a.visibleEntries()
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var top string
	if a.list.searching {
		top = a.list.search.View()
	} else if a.list.query != "" {
		top = muted.Render(fmt.Sprintf("%d of %d match %q  (esc clears)", len(entries), len(a.entries), a.list.query))
	}

	if len(entries) == 0 {
		msg := "No smart choices yet. Press a to record one."
		if a.list.query != "" {
			msg = "Nothing matches that search."
		}
		body := muted.Render(msg)
		if top != "" {
			body = top + "\n\n" + body
		}
		return components.ContentCard("Entries", body, cw)
	}

	if a.isCompactLayout() {
		return a.renderEntryList(entries, top, cw, h)
	}

	leftW := cw * 3 / 5
	rightW := cw - leftW
	list := a.renderEntryList(entries, top, leftW, h)
	sel, _ := a.list.selected(entries)
	detail := components.FocusedCard("Selected", renderEntryDetail(sel, components.CardInnerWidth(rightW)), rightW)
	return components.CardRow([]string{list, detail})
}

func (a App) renderEntryList(entries []model.SavingEntry, top string, w, h int) string {
	t := theme.Active
	inner := components.CardInnerWidth(w)

	header := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	row := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selected := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	earned := lipgloss.NewStyle().Foreground(t.Earned).Background(t.Surface)
	earnedSel := earned.Background(t.SurfaceHover).Bold(true)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	const dateW, earnedW = 10, 10
	nameW := max(inner-dateW-earnedW-2, 8)

	var b strings.Builder
	if top != "" {
		b.WriteString(top)
		b.WriteString("\n")
	}
	b.WriteString(header.Render(fmt.Sprintf("%-*s %-*s %*s", dateW, "Date", nameW, "Choice", earnedW, "Earned")))
	b.WriteString("\n")
	b.WriteString(muted.Render(strings.Repeat("─", inner)))

	visible := max(h-6, 3) // borders, title, header, rule
	if top != "" {
		visible--
	}
	offset := a.list.offset
	if a.list.cursor < offset {
		offset = a.list.cursor
	}
	if a.list.cursor >= offset+visible {
		offset = a.list.cursor - visible + 1
	}
	end := min(offset+visible, len(entries))

	for i := offset; i < end; i++ {
		e := entries[i]
		cat := model.LookupCategory(e.Category)
		name := truncStr(cat.Icon+" "+e.ChosenOption, nameW-1) // icons are two cells wide
		text := fmt.Sprintf("%-*s ", dateW, e.Date) + lipgloss.NewStyle().Width(nameW).Render(name) + " "
		money := fmt.Sprintf("%*s", earnedW, cli.FormatMoney(e.Earned))

		b.WriteString("\n")
		if i == a.list.cursor {
			b.WriteString(selected.Render(text) + earnedSel.Render(money))
		} else {
			b.WriteString(row.Render(text) + earned.Render(money))
		}
	}

	title := fmt.Sprintf("Entries  %d/%d", a.list.cursor+1, len(entries))
	return components.ContentCard(title, b.String(), w)
}

// renderEntryDetail lays out every field of one entry.
func renderEntryDetail(e model.SavingEntry, w int) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	spent := lipgloss.NewStyle().Foreground(t.Spent).Background(t.Surface)
	earned := lipgloss.NewStyle().Foreground(t.EarnedBright).Background(t.Surface).Bold(true)
	dim := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	const labelW = 11
	valueW := max(w-labelW-1, 8)
	line := func(name string, v string, style lipgloss.Style) string {
		return label.Render(fmt.Sprintf("%-*s ", labelW, name)) + style.Render(truncStr(v, valueW))
	}

	date := e.Date
	if wd := cli.FormatWeekday(e.Date); wd != "" {
		date += " (" + wd + ")"
	}

	lines := []string{
		line("Date", date, value),
		line("Category", cli.FormatCategory(e.Category), value),
		"",
		line("Instead of", e.ExpensiveOption, value),
		line("Price", cli.FormatMoney(e.ExpensiveAmount), spent),
		line("Chose", e.ChosenOption, value),
		line("Paid", cli.FormatMoney(e.ChosenAmount), value),
		"",
		line("Earned", cli.FormatMoney(e.Earned), earned),
	}
	if e.Description != "" {
		lines = append(lines, "", label.Render("Note"))
		for _, l := range wrap(e.Description, w) {
			lines = append(lines, value.Render(l))
		}
	}
	lines = append(lines, "", dim.Render(truncStr("id "+e.ID, w)))
	return strings.Join(lines, "\n")
}

// wrap breaks s into lines of at most w runes on word boundaries.
func wrap(s string, w int) []string {
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		r := []rune(word)
		if len(cur) > 0 && len(cur)+1+len(r) > w {
			lines = append(lines, string(cur))
			cur = cur[:0]
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		cur = append(cur, r...)
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
