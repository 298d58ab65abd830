package stats

import (
	"sort"
	"time"

	"github.com/sadopc/woolywalk/internal/calendar"
	"github.com/sadopc/woolywalk/internal/challenge"
)

// Standing is one leaderboard row.
type Standing struct {
	Participant challenge.Participant
	Totals      Totals
}

// Standings ranks the whole roster by total steps, highest first. Equal totals
// keep roster order.
func Standings(roster challenge.Roster, steps map[string]map[string]int, days []calendar.Day, now time.Time) []Standing {
	rows := make([]Standing, 0, len(roster))
	for _, p := range roster {
		rows = append(rows, Standing{
			Participant: p,
			Totals:      ComputeTotals(steps[p.Username], days, now),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Totals.TotalSteps > rows[j].Totals.TotalSteps
	})
	return rows
}

// Rank returns the 1-based position of username and the field size. An unknown
// username reports position 1.
func Rank(rows []Standing, username string) (position, of int) {
	position = 1
	for i, r := range rows {
		if r.Participant.Username == username {
			position = i + 1
			break
		}
	}
	return position, len(rows)
}

// Leader returns the highest total on the board, or 0 when empty.
func Leader(rows []Standing) int {
	if len(rows) == 0 {
		return 0
	}
	return rows[0].Totals.TotalSteps
}
