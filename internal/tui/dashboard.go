package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/woolywalk/internal/challenge"
	"github.com/sadopc/woolywalk/internal/session"
)

const leaderboardBarWidth = 16

type dashboardModel struct {
	sess   *session.Session
	width  int
	height int

	snap session.Snapshot
}

func newDashboardModel(s *session.Session) dashboardModel {
	return dashboardModel{sess: s}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d *dashboardModel) refresh(now time.Time) {
	d.snap = d.sess.Snapshot(now)
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderPhasePanel(contentWidth),
		d.renderMomentum(contentWidth),
		d.renderLeaderboard(contentWidth),
	)
}

func (d dashboardModel) renderPhasePanel(w int) string {
	p := d.snap.Phase
	name := titleStyle.Render(fmt.Sprintf("%s %s", d.snap.Viewer.Icon, d.snap.Viewer.Name))

	pills := pillStyle.Render(p.Label)
	if p.Kind != challenge.PhaseReveal {
		pills += mutedStyle.Render(" · " + formatDaysLeft(p.DaysRemaining))
	}
	if p.Stealth {
		pills += " " + stealthPillStyle.Render("STEALTH")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		name+"  "+pills,
		subtitleStyle.Render(p.Message),
	)
	return activePanelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderMomentum(w int) string {
	t := d.snap.Totals

	bestLabel := t.BestDayLabel
	if bestLabel == "" {
		bestLabel = "—"
	}

	cards := []string{
		momentumCard("Total steps", formatSteps(t.TotalSteps), fmt.Sprintf("Ranked %d of %d", d.snap.Position, d.snap.Of)),
		momentumCard("Best day", formatSteps(t.BestDaySteps), bestLabel),
		momentumCard("Current streak", fmt.Sprint(t.CurrentStreak), "days in a row"),
		momentumCard("Weekly average", formatAverage(t.WeeklyAverage), "steps / week"),
		momentumCard(d.snap.Badge.Title, "", d.snap.Badge.Caption),
	}

	// Wrap cards onto as many rows as the width needs.
	var rows []string
	var line []string
	lineWidth := 0
	for _, c := range cards {
		cw := lipgloss.Width(c)
		if lineWidth > 0 && lineWidth+cw > w {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, line...))
			line, lineWidth = nil, 0
		}
		line = append(line, c)
		lineWidth += cw
	}
	if len(line) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, line...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func momentumCard(title, value, note string) string {
	lines := []string{mutedStyle.Render(title)}
	if value != "" {
		lines = append(lines, bigNumberStyle.Render(value))
	}
	lines = append(lines, subtitleStyle.Render(note))
	return cardStyle.Width(22).Render(strings.Join(lines, "\n"))
}

func (d dashboardModel) renderLeaderboard(w int) string {
	p := d.snap.Phase
	rows := []string{
		titleStyle.Render("Leaderboard"),
		mutedStyle.Render(p.LeaderboardCopy),
		"",
	}

	for _, r := range d.snap.Rows {
		total := "— hidden —"
		pace := hiddenPace(p)
		bar := progressBar(0, leaderboardBarWidth)
		if r.Visible {
			total = formatSteps(r.Totals.TotalSteps)
			pace = formatAverage(r.Totals.WeeklyAverage) + " / wk"
			bar = progressBar(r.BarPercent, leaderboardBarWidth)
		}

		name := fmt.Sprintf("%s %s", r.Participant.Icon, r.Participant.Name)
		line := fmt.Sprintf("#%-2d %-24s %12s  ", r.Position, name, total)
		style := normalItemStyle
		if r.Self {
			style = selfRowStyle
		}
		rows = append(rows, style.Render(line)+bar+"  "+mutedStyle.Render(pace))
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func hiddenPace(p challenge.Phase) string {
	if p.Kind == challenge.PhaseWarmup {
		return "Warming up"
	}
	return "In stealth"
}
