package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/woolywalk/internal/auth"
	"github.com/sadopc/woolywalk/internal/session"
)

type loginModel struct {
	sess   *session.Session
	width  int
	height int

	form *huh.Form
	err  string

	// Form values as pointers (survive value copies)
	username *string
	password *string
}

func newLoginModel(s *session.Session) loginModel {
	u, p := s.LastUser(), ""
	l := loginModel{
		sess:     s,
		username: &u,
		password: &p,
	}
	l.form = l.buildForm()
	return l
}

func (l *loginModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

func (l loginModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Placeholder("e.g. ben_woolston").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("enter your username")
					}
					return nil
				}).
				Value(l.username),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(l.password),
		),
	).WithShowHelp(false).WithShowErrors(true)
}

func (l loginModel) Init() tea.Cmd {
	return l.form.Init()
}

func (l loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	switch l.form.State {
	case huh.StateCompleted:
		return l.submit()
	case huh.StateAborted:
		*l.password = ""
		l.form = l.buildForm()
		return l, l.form.Init()
	}
	return l, cmd
}

func (l loginModel) submit() (loginModel, tea.Cmd) {
	p, err := l.sess.Login(*l.username, *l.password)
	*l.password = ""
	if p.Username == "" {
		l.err = auth.Message(err)
		l.form = l.buildForm()
		return l, l.form.Init()
	}
	l.err = ""
	done := func() tea.Msg { return loggedInMsg{participant: p} }
	if err != nil {
		// Signed in, but remembering the user failed.
		return l, tea.Batch(done, statusCmd("Error: "+err.Error(), true))
	}
	return l, done
}

func (l loginModel) view() string {
	w := min(l.width-4, 60)

	title := titleStyle.Render("Wooly Walking Challenge")
	sub := mutedStyle.Render("Sign in to log your steps.")

	rows := []string{title, sub, "", l.form.View()}
	if l.err != "" {
		rows = append(rows, "", errorStyle.Render(l.err))
	}

	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
