package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/sadopc/woolywalk/internal/store"
)

type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	muted     lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	err       lipgloss.Color
	fg        lipgloss.Color
	subtle    lipgloss.Color
	highlight lipgloss.Color
}

var darkPalette = palette{
	primary:   lipgloss.Color("#FF6A3D"),
	secondary: lipgloss.Color("#60F5D2"),
	muted:     lipgloss.Color("#A1A1AA"),
	success:   lipgloss.Color("#60F5D2"),
	warning:   lipgloss.Color("#F39C12"),
	err:       lipgloss.Color("#E74C3C"),
	fg:        lipgloss.Color("#E4E4E7"),
	subtle:    lipgloss.Color("#3F3F46"),
	highlight: lipgloss.Color("#FFB38A"),
}

var lightPalette = palette{
	primary:   lipgloss.Color("#E4572E"),
	secondary: lipgloss.Color("#0F9D8A"),
	muted:     lipgloss.Color("#6B7280"),
	success:   lipgloss.Color("#0F9D8A"),
	warning:   lipgloss.Color("#B7791F"),
	err:       lipgloss.Color("#C0392B"),
	fg:        lipgloss.Color("#111827"),
	subtle:    lipgloss.Color("#D1D5DB"),
	highlight: lipgloss.Color("#C2410C"),
}

// Color palette, swapped by applyTheme.
var (
	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorMuted     lipgloss.Color
	colorSuccess   lipgloss.Color
	colorWarning   lipgloss.Color
	colorError     lipgloss.Color
	colorFg        lipgloss.Color
	colorSubtle    lipgloss.Color
	colorHighlight lipgloss.Color
)

// Styles
var (
	activeTabStyle    lipgloss.Style
	inactiveTabStyle  lipgloss.Style
	panelStyle        lipgloss.Style
	activePanelStyle  lipgloss.Style
	cardStyle         lipgloss.Style
	bigNumberStyle    lipgloss.Style
	pillStyle         lipgloss.Style
	stealthPillStyle  lipgloss.Style
	titleStyle        lipgloss.Style
	subtitleStyle     lipgloss.Style
	successStyle      lipgloss.Style
	warningStyle      lipgloss.Style
	errorStyle        lipgloss.Style
	mutedStyle        lipgloss.Style
	highlightStyle    lipgloss.Style
	headerStyle       lipgloss.Style
	footerStyle       lipgloss.Style
	selectedItemStyle lipgloss.Style
	normalItemStyle   lipgloss.Style
	selfRowStyle      lipgloss.Style
	todayStyle        lipgloss.Style
	barFillStyle      lipgloss.Style
	barTrackStyle     lipgloss.Style
)

func init() {
	applyTheme(store.ThemeDark)
}

// DefaultTheme picks light or dark from the terminal background.
func DefaultTheme() string {
	if termenv.HasDarkBackground() {
		return store.ThemeDark
	}
	return store.ThemeLight
}

func otherTheme(theme string) string {
	if theme == store.ThemeLight {
		return store.ThemeDark
	}
	return store.ThemeLight
}

func themeLabel(theme string) string {
	if theme == store.ThemeLight {
		return "Light mode"
	}
	return "Dark mode"
}

// applyTheme rebuilds every style from the named palette. Unknown names fall
// back to dark.
func applyTheme(theme string) {
	p := darkPalette
	if theme == store.ThemeLight {
		p = lightPalette
	}

	colorPrimary = p.primary
	colorSecondary = p.secondary
	colorMuted = p.muted
	colorSuccess = p.success
	colorWarning = p.warning
	colorError = p.err
	colorFg = p.fg
	colorSubtle = p.subtle
	colorHighlight = p.highlight

	// Tabs
	activeTabStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(colorPrimary).
		Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 2)

	cardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Padding(0, 1)

	bigNumberStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary)

	pillStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorSecondary).
		Padding(0, 1)

	stealthPillStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorWarning).
		Padding(0, 1)

	// Text
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorFg)

	subtitleStyle = lipgloss.NewStyle().
		Foreground(colorMuted)

	successStyle = lipgloss.NewStyle().
		Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
		Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
		Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
		Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
		Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
		Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
		Foreground(colorPrimary).
		Bold(true)

	normalItemStyle = lipgloss.NewStyle().
		Foreground(colorFg)

	selfRowStyle = lipgloss.NewStyle().
		Foreground(colorHighlight).
		Bold(true)

	todayStyle = lipgloss.NewStyle().
		Foreground(colorSecondary).
		Bold(true)

	// Bars
	barFillStyle = lipgloss.NewStyle().
		Foreground(colorPrimary)

	barTrackStyle = lipgloss.NewStyle().
		Foreground(colorSubtle)
}
