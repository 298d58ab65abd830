package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sadopc/woolywalk/internal/calendar"
)

var (
	logUser     string
	logPassword string
)

var logCmd = &cobra.Command{
	Use:   "log <date> <steps>",
	Short: "Record steps for a day",
	Long: `Record the step count for one day of the challenge.

<date> is YYYY-MM-DD, "today" or "yesterday". <steps> is read like the
dashboard input: leading digits count, anything else is 0.`,
	Example: `  woolywalk log today 12000 -u andre
  woolywalk log 2025-10-06 8500 -u jo_woolston`,
	Args: cobra.ExactArgs(2),
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringVarP(&logUser, "user", "u", "", "walker username (required)")
	logCmd.Flags().StringVarP(&logPassword, "password", "p", "", "password (prompted when omitted)")
	logCmd.MarkFlagRequired("user")
}

func runLog(cmd *cobra.Command, args []string) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	iso, err := resolveDate(args[0], nowFunc().In(loc))
	if err != nil {
		return err
	}

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	p, err := signIn(env, logUser, logPassword)
	if err != nil {
		return err
	}

	n, err := env.sess.SetSteps(iso, args[1])
	if err != nil {
		return err
	}

	label := iso
	if i, ok := calendar.Index(env.sess.Days(), iso); ok {
		label = env.sess.Days()[i].Label
	}
	snap := env.sess.Snapshot(nowFunc())
	fmt.Fprintf(cmd.OutOrStdout(), "Logged %s steps for %s (%s). Total %s.\n",
		humanize.Comma(int64(n)), label, p.Username, humanize.Comma(int64(snap.Totals.TotalSteps)))
	return nil
}

// resolveDate turns a date argument into an ISO day key relative to now.
func resolveDate(arg string, now time.Time) (string, error) {
	switch strings.ToLower(arg) {
	case "today":
		return calendar.Key(now), nil
	case "yesterday":
		return calendar.Key(now.AddDate(0, 0, -1)), nil
	}
	t, err := time.ParseInLocation("2006-01-02", arg, now.Location())
	if err != nil {
		return "", fmt.Errorf("date %q: want YYYY-MM-DD, today or yesterday", arg)
	}
	return calendar.Key(t), nil
}
