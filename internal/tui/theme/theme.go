// Package theme holds the color palettes for the savearn dashboard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps the dashboard's color roles to concrete colors.
type Theme struct {
	Name string

	Background   lipgloss.Color
	Surface      lipgloss.Color // cards and bars
	SurfaceHover lipgloss.Color // selected row
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // focused card, overlays

	TextDim     lipgloss.Color
	TextMuted   lipgloss.Color
	TextPrimary lipgloss.Color

	Accent       lipgloss.Color
	AccentBright lipgloss.Color

	Earned       lipgloss.Color // money kept
	EarnedBright lipgloss.Color
	Spent        lipgloss.Color // money still paid
	Streak       lipgloss.Color
	Danger       lipgloss.Color

	// Series colors category bars in order.
	Series []lipgloss.Color
}

// SeriesColor returns the i-th series color, cycling.
func (t Theme) SeriesColor(i int) lipgloss.Color {
	if len(t.Series) == 0 {
		return t.Accent
	}
	if i < 0 {
		i = -i
	}
	return t.Series[i%len(t.Series)]
}

// Active is the theme every component renders with.
var Active = FlexokiDark

// FlexokiDark is the default: warm ink on dark paper.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Earned:       lipgloss.Color("#879A39"),
	EarnedBright: lipgloss.Color("#A3B859"),
	Spent:        lipgloss.Color("#DA702C"),
	Streak:       lipgloss.Color("#D0A215"),
	Danger:       lipgloss.Color("#D14D41"),
	Series: []lipgloss.Color{
		"#879A39", "#4385BE", "#DA702C", "#CE5D97", "#D0A215", "#24837B", "#8B7EC8", "#D14D41",
	},
}

// CatppuccinMocha is a soft pastel palette.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Background:   lipgloss.Color("#1E1E2E"),
	Surface:      lipgloss.Color("#313244"),
	SurfaceHover: lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	AccentBright: lipgloss.Color("#B4D0FB"),
	Earned:       lipgloss.Color("#A6E3A1"),
	EarnedBright: lipgloss.Color("#C6F6C1"),
	Spent:        lipgloss.Color("#FAB387"),
	Streak:       lipgloss.Color("#F9E2AF"),
	Danger:       lipgloss.Color("#F38BA8"),
	Series: []lipgloss.Color{
		"#A6E3A1", "#89B4FA", "#FAB387", "#F5C2E7", "#F9E2AF", "#94E2D5", "#CBA6F7", "#F38BA8",
	},
}

// TokyoNight is a cool blue and purple palette.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Background:   lipgloss.Color("#1A1B26"),
	Surface:      lipgloss.Color("#24283B"),
	SurfaceHover: lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	AccentBright: lipgloss.Color("#A9C1FF"),
	Earned:       lipgloss.Color("#9ECE6A"),
	EarnedBright: lipgloss.Color("#B9E87A"),
	Spent:        lipgloss.Color("#FF9E64"),
	Streak:       lipgloss.Color("#E0AF68"),
	Danger:       lipgloss.Color("#F7768E"),
	Series: []lipgloss.Color{
		"#9ECE6A", "#7AA2F7", "#FF9E64", "#BB9AF7", "#E0AF68", "#7DCFFF", "#73DACA", "#F7768E",
	},
}

// Terminal sticks to the 16 ANSI colors.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Earned:       lipgloss.Color("2"),
	EarnedBright: lipgloss.Color("10"),
	Spent:        lipgloss.Color("3"),
	Streak:       lipgloss.Color("11"),
	Danger:       lipgloss.Color("1"),
	Series:       []lipgloss.Color{"2", "4", "3", "5", "6", "10", "12", "1"},
}

// All lists the selectable themes; the first is the default.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// ByName looks a theme up, falling back to the default.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return All[0]
}

// SetActive switches Active to the named theme.
func SetActive(name string) {
	Active = ByName(name)
}
