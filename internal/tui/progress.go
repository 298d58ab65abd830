package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/woolywalk/internal/session"
	"github.com/sadopc/woolywalk/internal/stats"
)

type progressModel struct {
	sess   *session.Session
	width  int
	height int

	bars    []stats.WeekBar
	average float64

	chart barchart.Model
}

func newProgressModel(s *session.Session) progressModel {
	return progressModel{
		sess:  s,
		chart: barchart.New(60, 12),
	}
}

func (p *progressModel) setSize(w, h int) {
	p.width = w
	p.height = h
	p.buildChart()
}

func (p *progressModel) refresh(now time.Time) {
	snap := p.sess.Snapshot(now)
	p.bars = snap.Progress
	p.average = snap.Totals.WeeklyAverage
	p.buildChart()
}

// buildChart stacks each week's steps under the shortfall to the weekly goal,
// so every bar reaches at least the goal line.
func (p *progressModel) buildChart() {
	chartWidth := max(20, p.width-8)
	chartHeight := 12
	if p.height > 30 {
		chartHeight = 16
	}

	p.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, b := range p.bars {
		if b.Hidden {
			bars = append(bars, barchart.BarData{
				Label:  b.Label,
				Values: []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}},
			})
			continue
		}
		values := []barchart.BarValue{{
			Name:  "Your steps",
			Value: float64(b.Steps),
			Style: lipgloss.NewStyle().Foreground(colorPrimary),
		}}
		if short := b.Goal - b.Steps; short > 0 {
			values = append(values, barchart.BarValue{
				Name:  "To goal",
				Value: float64(short),
				Style: lipgloss.NewStyle().Foreground(colorSubtle),
			})
		}
		bars = append(bars, barchart.BarData{Label: b.Label, Values: values})
	}

	p.chart.PushAll(bars)
	p.chart.Draw()
}

func (p progressModel) view() string {
	w := p.width - 4

	goal := p.sess.WeeklyGoal()
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Weekly progress"), "  ",
		mutedStyle.Render(fmt.Sprintf("Goal pace %s / week", formatSteps(goal))),
	)

	legend := fmt.Sprintf("  %s Your steps  %s To goal",
		lipgloss.NewStyle().Foreground(colorPrimary).Render("█"),
		lipgloss.NewStyle().Foreground(colorSubtle).Render("█"),
	)

	avg := fmt.Sprintf("  Weekly average  %s", highlightStyle.Render(formatAverage(p.average)))

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", p.chart.View(), "", legend, "", p.renderTable(w), "", avg,
		),
	)
}

func (p progressModel) renderTable(w int) string {
	if len(p.bars) == 0 {
		return mutedStyle.Render("  No weeks to show")
	}

	weeks := p.sess.Weeks()
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-4s %-18s %10s %8s", "Week", "Dates", "Steps", "Goal")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 44))))

	for i, b := range p.bars {
		label := ""
		if i < len(weeks) {
			label = weeks[i].Label
		}
		if b.Hidden {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-4s %-18s %10s %8s", b.Label, label, "—", "")))
			continue
		}
		pct := 0
		if b.Goal > 0 {
			pct = b.Steps * 100 / b.Goal
		}
		pctText := fmt.Sprintf("%d%%", pct)
		if pct >= 100 {
			pctText = successStyle.Render(fmt.Sprintf("%8s", pctText))
		} else {
			pctText = fmt.Sprintf("%8s", pctText)
		}
		rows = append(rows, fmt.Sprintf("  %-4s %-18s %10s %s", b.Label, label, formatSteps(b.Steps), pctText))
	}

	return strings.Join(rows, "\n")
}
