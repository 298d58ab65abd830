package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sadopc/woolywalk/internal/challenge"
)

var (
	standingsUser     string
	standingsPassword string
)

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Print the leaderboard",
	Long: `Print the leaderboard as the given walker would see it.

Without --user nobody is signed in, so totals hidden in stealth mode stay hidden.`,
	Args: cobra.NoArgs,
	RunE: runStandings,
}

func init() {
	standingsCmd.Flags().StringVarP(&standingsUser, "user", "u", "", "view as this walker")
	standingsCmd.Flags().StringVarP(&standingsPassword, "password", "p", "", "password (prompted when omitted)")
}

func runStandings(cmd *cobra.Command, _ []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if standingsUser != "" {
		if _, err := signIn(env, standingsUser, standingsPassword); err != nil {
			return err
		}
	}

	snap := env.sess.Snapshot(nowFunc())
	out := cmd.OutOrStdout()

	phase := snap.Phase.Label
	if snap.Phase.Kind != challenge.PhaseReveal {
		phase += fmt.Sprintf(" · %d days left", snap.Phase.DaysRemaining)
	}
	fmt.Fprintln(out, lipgloss.NewStyle().Bold(true).Render(phase))
	fmt.Fprintln(out, snap.Phase.LeaderboardCopy)

	var rows [][]string
	for _, r := range snap.Rows {
		total, pace := "— hidden —", "—"
		if r.Visible {
			total = humanize.Comma(int64(r.Totals.TotalSteps))
			pace = humanize.Comma(int64(r.Totals.WeeklyAverage+0.5)) + " / wk"
		}
		name := r.Participant.Icon + " " + r.Participant.Name
		if r.Self {
			name += " (you)"
		}
		rows = append(rows, []string{"#" + strconv.Itoa(r.Position), name, total, pace})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Walker", "Total", "Pace").
		Rows(rows...)
	fmt.Fprintln(out, t.Render())

	if snap.Viewer.Username != "" {
		fmt.Fprintf(out, "Ranked %d of %d · %s: %s\n", snap.Position, snap.Of, snap.Badge.Title, snap.Badge.Caption)
	}
	return nil
}
