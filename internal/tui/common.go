package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/sadopc/woolywalk/internal/challenge"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewWeeks
	viewProgress
	viewSettings
)

var viewNames = []string{"Dashboard", "Weeks", "Progress", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type loggedInMsg struct {
	participant challenge.Participant
}

type loggedOutMsg struct{}

// stepsSavedMsg signals that the document changed and derived views are stale.
type stepsSavedMsg struct{}

type themeChangedMsg struct {
	theme string
}

type exportDoneMsg struct {
	path string
}

type importDoneMsg struct {
	path string
}

func statusCmd(text string, isError bool) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text, isError: isError} }
}

// --- Helpers ---

// formatSteps renders a step count with thousands separators.
func formatSteps(n int) string {
	return humanize.Comma(int64(n))
}

func formatAverage(avg float64) string {
	return humanize.Comma(int64(math.Round(avg)))
}

func formatDaysLeft(n int) string {
	if n == 1 {
		return "1 day left"
	}
	return fmt.Sprintf("%d days left", n)
}

// progressBar draws a fixed-width bar filled to pct percent.
func progressBar(pct, width int) string {
	if width < 1 {
		return ""
	}
	pct = min(100, max(0, pct))
	filled := pct * width / 100
	return barFillStyle.Render(strings.Repeat("█", filled)) + barTrackStyle.Render(strings.Repeat("░", width-filled))
}
