package cmd

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sadopc/woolywalk/internal/calendar"
	"github.com/sadopc/woolywalk/internal/config"
	"github.com/sadopc/woolywalk/internal/session"
	"github.com/sadopc/woolywalk/internal/store"
	"github.com/sadopc/woolywalk/internal/tui"
)

var (
	cfgFile string
	cfg     *config.Config

	// nowFunc is the wall clock used for phase and streak calculations.
	nowFunc = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "woolywalk",
	Short: "Local step-challenge leaderboard",
	Long: `woolywalk tracks daily steps for the Wooly Walking challenge.

Run without arguments to open the interactive dashboard.`,
	PersistentPreRunE: setup,
	RunE:              runTUI,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	err := rootCmd.Execute()
	closeLogging()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/woolywalk/config.toml)")

	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(hashPasswordCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func setup(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}
	return setupLogging(cfg.Log.Level, cfg.LogPath())
}

// appEnv is an opened store plus the session over its saved document.
type appEnv struct {
	store *store.Store
	sess  *session.Session
}

func openEnv() (*appEnv, error) {
	window, err := cfg.Window()
	if err != nil {
		return nil, err
	}
	checker, err := cfg.Checker()
	if err != nil {
		return nil, fmt.Errorf("auth config: %w", err)
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	opts := session.Options{
		Roster:     cfg.Roster(),
		Window:     window,
		Checker:    checker,
		StorageKey: cfg.Storage.Key,
		WeeklyGoal: cfg.Challenge.WeeklyGoal,
	}
	days := calendar.Build(window.Start, window.End)
	doc, err := st.LoadDocument(cfg.Storage.Key, opts.Roster, days)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load progress: %w", err)
	}
	sess := session.New(opts, doc, st)

	log.WithFields(log.Fields{
		"db":           cfg.DBPath(),
		"participants": len(opts.Roster),
		"days":         len(sess.Days()),
	}).Debug("environment opened")
	return &appEnv{store: st, sess: sess}, nil
}

func (e *appEnv) Close() error {
	return e.store.Close()
}

func runTUI(_ *cobra.Command, _ []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	theme, ok := env.store.GetTheme()
	if !ok {
		theme = tui.DefaultTheme()
	}

	if env.sess.Resume() {
		log.WithField("username", env.sess.LastUser()).Info("resumed session")
	}

	app := tui.NewApp(env.sess, env.store, tui.Options{Theme: theme, Now: nowFunc})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
