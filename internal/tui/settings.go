package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/woolywalk/internal/session"
)

type settingsItem int

const (
	settingTheme settingsItem = iota
	settingNotes
	settingLogout
	settingsCount
)

type settingsModel struct {
	sess   *session.Session
	width  int
	height int

	theme  string
	cursor settingsItem

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	notes *string
}

func newSettingsModel(s *session.Session, theme string) settingsModel {
	n := ""
	return settingsModel{
		sess:  s,
		theme: theme,
		notes: &n,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case themeChangedMsg:
		s.theme = msg.theme
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
		case key.Matches(msg, keys.Down):
			if s.cursor < settingsCount-1 {
				s.cursor++
			}
		case key.Matches(msg, keys.Theme):
			return s, s.toggleTheme()
		case key.Matches(msg, keys.Notes):
			return s.showNotesForm()
		case key.Matches(msg, keys.Logout):
			return s, logoutCmd()
		case key.Matches(msg, keys.Enter):
			switch s.cursor {
			case settingTheme:
				return s, s.toggleTheme()
			case settingNotes:
				return s.showNotesForm()
			case settingLogout:
				return s, logoutCmd()
			}
		}
	}
	return s, nil
}

func (s settingsModel) toggleTheme() tea.Cmd {
	next := otherTheme(s.theme)
	return func() tea.Msg { return themeChangedMsg{theme: next} }
}

func logoutCmd() tea.Cmd {
	return func() tea.Msg { return loggedOutMsg{} }
}

func (s settingsModel) showNotesForm() (settingsModel, tea.Cmd) {
	*s.notes = s.sess.Notes()

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Notes").
				Description("Anything worth remembering about your walking.").
				CharLimit(2000).
				Value(s.notes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		if err := s.sess.SetNotes(*s.notes); err != nil {
			return s, statusCmd(fmt.Sprintf("Error: %v", err), true)
		}
		return s, statusCmd("Notes saved", false)
	}

	return s, cmd
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	notes := strings.ReplaceAll(s.sess.Notes(), "\n", " ")
	if notes == "" {
		notes = "(none)"
	}
	account := "(signed out)"
	if p, ok := s.sess.Active(); ok {
		account = fmt.Sprintf("Sign out %s", p.Name)
	}

	items := []struct{ label, value string }{
		{"Theme", themeLabel(s.theme)},
		{"Notes", truncate(notes, max(10, w-34))},
		{"Account", account},
	}

	var rows []string
	rows = append(rows, title, "")
	for i, it := range items {
		cursor := "  "
		style := normalItemStyle
		if settingsItem(i) == s.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		label := lipgloss.NewStyle().Width(12).Render(it.label)
		rows = append(rows, style.Render(cursor+label)+" "+highlightStyle.Render(it.value))
	}

	win := s.sess.Window()
	rows = append(rows, "",
		titleStyle.Render("Challenge"),
		fmt.Sprintf("  %-14s %s", "Starts", win.Start.Format("Mon, Jan 2 2006 15:04")),
		fmt.Sprintf("  %-14s %s", "Stealth from", win.StealthStart.Format("Mon, Jan 2 2006 15:04")),
		fmt.Sprintf("  %-14s %s", "Ends", win.End.Format("Mon, Jan 2 2006 15:04")),
		fmt.Sprintf("  %-14s %d", "Walkers", len(s.sess.Roster())),
		fmt.Sprintf("  %-14s %s steps", "Weekly goal", formatSteps(s.sess.WeeklyGoal())),
		"",
		mutedStyle.Render("  enter: select  t: theme  n: notes  o: sign out"),
	)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// truncate shortens s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
