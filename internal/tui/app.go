package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"

	"github.com/sadopc/woolywalk/internal/challenge"
	"github.com/sadopc/woolywalk/internal/export"
	"github.com/sadopc/woolywalk/internal/session"
)

// Prefs persists display preferences.
type Prefs interface {
	SetTheme(theme string) error
}

// Options tune an App. Zero values pick sensible defaults.
type Options struct {
	Theme     string
	ExportDir string
	Now       func() time.Time
}

var exportChoices = []string{"Steps (CSV)", "Backup (JSON)", "Import backup (JSON)"}

const (
	choiceCSV = iota
	choiceJSON
	choiceImport
)

// App is the root Bubble Tea model.
type App struct {
	sess   *session.Session
	prefs  Prefs
	opts   Options
	width  int
	height int

	theme         string
	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	importing  bool
	importForm *huh.Form
	importPath *string

	login     loginModel
	dashboard dashboardModel
	weeks     weeksModel
	progress  progressModel
	settings  settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(s *session.Session, prefs Prefs, opts Options) App {
	h := help.New()
	h.ShowAll = false

	if opts.Theme == "" {
		opts.Theme = DefaultTheme()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	applyTheme(opts.Theme)

	path := ""
	a := App{
		sess:       s,
		prefs:      prefs,
		opts:       opts,
		theme:      opts.Theme,
		activeView: viewDashboard,
		login:      newLoginModel(s),
		dashboard:  newDashboardModel(s),
		weeks:      newWeeksModel(s),
		progress:   newProgressModel(s),
		settings:   newSettingsModel(s, opts.Theme),
		importPath: &path,
		help:       h,
	}
	a.refreshAll()
	return a
}

func (a App) Init() tea.Cmd {
	if !a.signedIn() {
		return tea.Batch(a.login.Init(), tickCmd())
	}
	return tickCmd()
}

// tickCmd fires once a minute so phase and countdown follow the wall clock.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) signedIn() bool {
	_, ok := a.sess.Active()
	return ok
}

func (a *App) refreshAll() {
	now := a.opts.Now()
	a.dashboard.refresh(now)
	a.weeks.refresh(now)
	if a.signedIn() {
		a.progress.refresh(now)
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.login.setSize(a.width, contentHeight)
		a.dashboard.setSize(a.width, contentHeight)
		a.weeks.setSize(a.width, contentHeight)
		a.progress.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQuit) {
			return a, tea.Quit
		}
		if !a.signedIn() || a.importing {
			return a.updateActiveView(msg)
		}

		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			a.refreshAll()
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewWeeks
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewProgress
			a.refreshAll()
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			a.refreshAll()
			return a, nil
		}

	case tickMsg:
		a.refreshAll()
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case loggedInMsg:
		a.activeView = viewDashboard
		a.refreshAll()
		a.status = fmt.Sprintf("Welcome, %s %s", msg.participant.Icon, msg.participant.Name)
		a.statusErr = false
		return a, nil

	case loggedOutMsg:
		a.sess.Logout()
		a.login = newLoginModel(a.sess)
		a.login.setSize(a.width, a.height-4)
		a.status = "Signed out"
		a.statusErr = false
		return a, a.login.Init()

	case stepsSavedMsg:
		a.refreshAll()
		return a, nil

	case themeChangedMsg:
		a.theme = msg.theme
		applyTheme(msg.theme)
		a.progress.buildChart()
		a.settings, _ = a.settings.update(msg)
		if a.prefs != nil {
			if err := a.prefs.SetTheme(msg.theme); err != nil {
				log.WithError(err).Warn("failed to save theme")
			}
		}
		a.status = themeLabel(msg.theme)
		a.statusErr = false
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil

	case importDoneMsg:
		a.status = "Imported " + msg.path
		a.statusErr = false
		a.refreshAll()
		if !a.signedIn() {
			a.login = newLoginModel(a.sess)
			a.login.setSize(a.width, a.height-4)
			return a, a.login.Init()
		}
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.importing {
		return a.updateImportForm(msg)
	}
	var cmd tea.Cmd
	if !a.signedIn() {
		a.login, cmd = a.login.update(msg)
		return a, cmd
	}
	switch a.activeView {
	case viewWeeks:
		a.weeks, cmd = a.weeks.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewWeeks:
		return a.weeks.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch {
	case !a.signedIn():
		content = a.login.view()
	case a.activeView == viewDashboard:
		content = a.dashboard.view()
	case a.activeView == viewWeeks:
		content = a.weeks.view()
	case a.activeView == viewProgress:
		content = a.progress.view()
	case a.activeView == viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(1, a.height-headerHeight-footerHeight)

	switch {
	case a.importing:
		content = a.renderImportForm()
	case a.exportPicking:
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("woolywalk")
	if !a.signedIn() {
		return headerStyle.Render(title)
	}

	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := ""
	if a.signedIn() {
		helpView = a.help.View(keys)
	}

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Phase indicator in footer
	phase := a.dashboard.snap.Phase
	phaseInfo := successStyle.Render(" ● " + phase.Label)
	if phase.Stealth {
		phaseInfo = warningStyle.Render(" ◐ " + phase.Label)
	}
	if phase.Kind != challenge.PhaseReveal {
		phaseInfo += mutedStyle.Render(" · " + formatDaysLeft(phase.DaysRemaining))
	}

	left := footerStyle.Render(helpView)
	right := phaseInfo + status

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export / Import")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, mutedStyle.Render("  Files go to "+a.exportDir()))
	rows = append(rows, "")
	for i, f := range exportChoices {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: select  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportChoices)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		if a.exportCursor == choiceImport {
			return a.showImportForm()
		}
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) exportDir() string {
	if a.opts.ExportDir != "" {
		return a.opts.ExportDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// doExport snapshots the document before handing it to the background
// command, so later edits cannot race with the write.
func (a App) doExport(choice int) tea.Cmd {
	doc := a.sess.Document().Clone()
	roster, days := a.sess.Roster(), a.sess.Days()
	dir := a.exportDir()

	return func() tea.Msg {
		var path string
		if choice == choiceCSV {
			path = filepath.Join(dir, export.DefaultCSVName)
			if err := export.ToCSV(doc, roster, days, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, export.DefaultBackupName)
			if err := export.ToJSON(doc, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}
		log.WithField("path", path).Info("progress exported")
		return exportDoneMsg{path: path}
	}
}

func (a App) showImportForm() (tea.Model, tea.Cmd) {
	*a.importPath = filepath.Join(a.exportDir(), export.DefaultBackupName)
	a.importForm = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backup file").
				Description("Replaces everyone's progress with the file's contents.").
				Value(a.importPath),
		),
	).WithShowHelp(true).WithShowErrors(true)
	a.importing = true
	return a, a.importForm.Init()
}

func (a App) updateImportForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		a.importing = false
		a.importForm = nil
		return a, nil
	}

	form, cmd := a.importForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.importForm = f
	}

	if a.importForm.State == huh.StateCompleted {
		a.importing = false
		a.importForm = nil
		return a, a.doImport(*a.importPath)
	}
	return a, cmd
}

// doImport runs on the update loop since it replaces session state.
func (a App) doImport(path string) tea.Cmd {
	doc, err := export.ReadBackup(path, a.sess.Roster(), a.sess.Days())
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("import failed")
		return statusCmd("Import failed. Please make sure you selected a valid backup file.", true)
	}
	if err := a.sess.Replace(doc); err != nil {
		return statusCmd(fmt.Sprintf("Import error: %v", err), true)
	}
	return func() tea.Msg { return importDoneMsg{path: path} }
}

func (a App) renderImportForm() string {
	w := a.width - 4
	title := titleStyle.Render("Import backup")
	view := ""
	if a.importForm != nil {
		view = a.importForm.View()
	}
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, "", view))
}
