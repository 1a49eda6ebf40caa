package tui

import (
	"testing"

	"github.com/theirongolddev/savearn/internal/tui/components"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	n := len(components.Tabs)
	for active := 0; active < n; active++ {
		a := App{activeTab: active}
		pos := 0
		for i := 0; i < n; i++ {
			w := tabWidthForTest(t, i, active)
			if got := a.tabAtX(pos + w/2); got != i {
				t.Fatalf("active=%d x=%d -> tab %d, want %d", active, pos+w/2, got, i)
			}
			pos += w + 1 // separator
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Fatalf("x past the last tab -> %d, want -1", got)
		}
	}
}

// tabWidthForTest spells out the tab bar layout: the active tab is padded
// by one column each side, inactive tabs also show a bracketed key.
func tabWidthForTest(t *testing.T, tabIdx, activeIdx int) int {
	t.Helper()
	w := len(components.Tabs[tabIdx].Name) + 2
	if tabIdx != activeIdx {
		w += 2 // "[" and "]"
	}
	if got := components.TabVisualWidth(components.Tabs[tabIdx], tabIdx == activeIdx); got != w {
		t.Fatalf("tab %d rendered %d wide, want %d", tabIdx, got, w)
	}
	return w
}

func TestMouseClickSwitchesTab(t *testing.T) {
	a := loadedApp(t)
	x := tabWidthForTest(t, 0, 0) + 1 + 2 // inside the second tab
	a = update(t, a, tea.MouseMsg{X: x, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if a.activeTab != tabEntries {
		t.Fatalf("activeTab = %d, want %d", a.activeTab, tabEntries)
	}

	// Clicks below the tab bar do nothing.
	a = update(t, a, tea.MouseMsg{X: 1, Y: 3, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if a.activeTab != tabEntries {
		t.Fatalf("activeTab = %d after content click", a.activeTab)
	}
}

func TestMouseWheelMovesEntryCursor(t *testing.T) {
	a := loadedApp(t, seedEntries...)
	a.activeTab = tabEntries

	a = update(t, a, tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	a = update(t, a, tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if a.list.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", a.list.cursor)
	}
	for i := 0; i < 10; i++ {
		a = update(t, a, tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress})
	}
	if a.list.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", a.list.cursor)
	}
}
