package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/woolywalk/internal/calendar"
	"github.com/sadopc/woolywalk/internal/session"
)

// weekRow is one visible line of the weeks list. day is -1 for a week header.
type weekRow struct {
	week int
	day  int
}

type weeksModel struct {
	sess   *session.Session
	width  int
	height int

	today    string
	expanded map[int]bool
	cursor   int

	formActive bool
	input      textinput.Model
	editing    calendar.Day
}

func newWeeksModel(s *session.Session) weeksModel {
	ti := textinput.New()
	ti.Placeholder = "steps"
	ti.CharLimit = 9
	ti.Width = 12
	return weeksModel{
		sess:     s,
		expanded: map[int]bool{0: true},
		input:    ti,
	}
}

func (w *weeksModel) setSize(width, h int) {
	w.width = width
	w.height = h
}

func (w *weeksModel) refresh(now time.Time) {
	w.today = calendar.Key(now.In(w.location()))
}

func (w weeksModel) location() *time.Location {
	if days := w.sess.Days(); len(days) > 0 {
		return days[0].Date.Location()
	}
	return time.Local
}

// rows lists week headers and the days of every expanded week.
func (w weeksModel) rows() []weekRow {
	var out []weekRow
	for i, wk := range w.sess.Weeks() {
		out = append(out, weekRow{week: i, day: -1})
		if w.expanded[i] {
			for j := range wk.Days {
				out = append(out, weekRow{week: i, day: j})
			}
		}
	}
	return out
}

func (w weeksModel) current() (weekRow, bool) {
	rows := w.rows()
	if w.cursor < 0 || w.cursor >= len(rows) {
		return weekRow{}, false
	}
	return rows[w.cursor], true
}

func (w weeksModel) update(msg tea.Msg) (weeksModel, tea.Cmd) {
	if w.formActive {
		return w.updateInput(msg)
	}

	msgKey, ok := msg.(tea.KeyMsg)
	if !ok {
		return w, nil
	}

	switch {
	case key.Matches(msgKey, keys.Up):
		if w.cursor > 0 {
			w.cursor--
		}
	case key.Matches(msgKey, keys.Down):
		if w.cursor < len(w.rows())-1 {
			w.cursor++
		}
	case key.Matches(msgKey, keys.Toggle):
		w.toggle()
	case key.Matches(msgKey, keys.CollapseAll):
		w.setAll(false)
	case key.Matches(msgKey, keys.ExpandAll):
		w.setAll(true)
	case key.Matches(msgKey, keys.Left):
		if row, ok := w.current(); ok && w.expanded[row.week] {
			w.toggle()
		}
	case key.Matches(msgKey, keys.Right):
		if row, ok := w.current(); ok && !w.expanded[row.week] {
			w.toggle()
		}
	case key.Matches(msgKey, keys.Enter):
		row, ok := w.current()
		if !ok {
			return w, nil
		}
		if row.day < 0 {
			w.toggle()
			return w, nil
		}
		return w.startEdit(w.sess.Weeks()[row.week].Days[row.day])
	}
	return w, nil
}

// toggle collapses or expands the week under the cursor and keeps the cursor
// on that week's header.
func (w *weeksModel) toggle() {
	row, ok := w.current()
	if !ok {
		return
	}
	w.expanded[row.week] = !w.expanded[row.week]
	w.cursor = w.headerIndex(row.week)
}

// setAll expands or collapses every week. The cursor moves to the header of
// the week it was in.
func (w *weeksModel) setAll(open bool) {
	row, _ := w.current()
	for i := range w.sess.Weeks() {
		w.expanded[i] = open
	}
	w.cursor = w.headerIndex(row.week)
}

func (w weeksModel) headerIndex(week int) int {
	for i, r := range w.rows() {
		if r.week == week && r.day < 0 {
			return i
		}
	}
	return 0
}

func (w weeksModel) startEdit(d calendar.Day) (weeksModel, tea.Cmd) {
	w.editing = d
	w.formActive = true
	w.input.SetValue("")
	if n := w.sess.Steps(d.ISO); n > 0 {
		w.input.SetValue(strconv.Itoa(n))
	}
	w.input.CursorEnd()
	return w, w.input.Focus()
}

func (w weeksModel) updateInput(msg tea.Msg) (weeksModel, tea.Cmd) {
	if msgKey, ok := msg.(tea.KeyMsg); ok {
		switch msgKey.Type {
		case tea.KeyEsc:
			w.formActive = false
			w.input.Blur()
			return w, nil
		case tea.KeyEnter:
			w.formActive = false
			w.input.Blur()
			return w, w.save(w.editing, w.input.Value())
		}
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w weeksModel) save(d calendar.Day, raw string) tea.Cmd {
	n, err := w.sess.SetSteps(d.ISO, raw)
	if err != nil {
		return statusCmd(fmt.Sprintf("Error: %v", err), true)
	}
	return tea.Batch(
		func() tea.Msg { return stepsSavedMsg{} },
		statusCmd(fmt.Sprintf("Logged %s steps for %s", formatSteps(n), d.Label), false),
	)
}

func (w weeksModel) view() string {
	width := w.width - 4
	weeks := w.sess.Weeks()

	title := titleStyle.Render("Your weeks")
	if len(weeks) == 0 {
		return panelStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, mutedStyle.Render("The challenge has no days."),
		))
	}

	var lines []string
	lines = append(lines, title, "")
	for i, r := range w.rows() {
		selected := i == w.cursor
		if r.day < 0 {
			lines = append(lines, w.renderWeekHeader(r.week, selected))
			continue
		}
		lines = append(lines, w.renderDay(weeks[r.week].Days[r.day], selected))
		if r.day == len(weeks[r.week].Days)-1 {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("      Week total  %s steps", formatSteps(w.sess.WeekTotal(r.week)))), "")
		}
	}

	lines = append(lines, mutedStyle.Render("  enter: edit day  space: expand/collapse  -/+: collapse/expand all  esc: cancel edit"))

	// Keep the cursor row on screen.
	visible := max(5, w.height-4)
	if len(lines) > visible {
		start := min(max(0, w.cursorLine()-visible/2), len(lines)-visible)
		lines = lines[start : start+visible]
	}

	return panelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// cursorLine maps the cursor to its line in view(), counting the title block
// and the week-total footers above it.
func (w weeksModel) cursorLine() int {
	weeks := w.sess.Weeks()
	line := 2
	for i, r := range w.rows() {
		if i == w.cursor {
			return line
		}
		line++
		if r.day >= 0 && r.day == len(weeks[r.week].Days)-1 {
			line += 2
		}
	}
	return line
}

func (w weeksModel) renderWeekHeader(i int, selected bool) string {
	wk := w.sess.Weeks()[i]
	arrow := "▸"
	if w.expanded[i] {
		arrow = "▾"
	}
	cursor := "  "
	style := normalItemStyle
	if selected {
		cursor = "> "
		style = selectedItemStyle
	}
	head := style.Render(fmt.Sprintf("%s%s Week %d", cursor, arrow, i+1))
	return fmt.Sprintf("%s  %s  %s",
		head,
		mutedStyle.Render(wk.Label),
		highlightStyle.Render(formatSteps(w.sess.WeekTotal(i))+" steps"),
	)
}

func (w weeksModel) renderDay(d calendar.Day, selected bool) string {
	cursor := "    "
	if selected {
		cursor = "  > "
	}

	label := fmt.Sprintf("%-4s%-7s", d.Short, d.Long)
	switch {
	case d.ISO == w.today:
		label = todayStyle.Render(label + " today")
	case selected:
		label = selectedItemStyle.Render(label)
	default:
		label = normalItemStyle.Render(label)
	}

	var value string
	switch n := w.sess.Steps(d.ISO); {
	case w.formActive && d.ISO == w.editing.ISO:
		value = w.input.View()
	case n > 0:
		value = formatSteps(n)
	default:
		value = mutedStyle.Render("·")
	}
	return fmt.Sprintf("%s%s  %s", cursor, label, value)
}
