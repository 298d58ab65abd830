package stats

import (
	"strconv"
	"time"

	"github.com/sadopc/woolywalk/internal/calendar"
)

// DefaultWeeklyGoal is 10k steps a day.
const DefaultWeeklyGoal = 70000

// WeekBar is one week in the progress chart. Hidden weeks have not started yet.
type WeekBar struct {
	Label  string
	Steps  int
	Goal   int
	Hidden bool
}

// WeekTotals sums steps per week.
func WeekTotals(steps map[string]int, weeks []calendar.Week) []int {
	out := make([]int, len(weeks))
	for i, w := range weeks {
		for _, d := range w.Days {
			out[i] += steps[d.ISO]
		}
	}
	return out
}

// ProgressSeries builds the weekly chart. Weeks with no day on or before today
// are hidden, except before the challenge starts when every week is shown.
func ProgressSeries(steps map[string]int, weeks []calendar.Week, now time.Time, goal int) []WeekBar {
	if len(weeks) == 0 {
		return nil
	}
	today := calendar.Key(now.In(weeks[0].Days[0].Date.Location()))
	showAll := today < weeks[0].Days[0].ISO

	totals := WeekTotals(steps, weeks)
	bars := make([]WeekBar, len(weeks))
	for i, w := range weeks {
		bars[i] = WeekBar{
			Label:  "W" + strconv.Itoa(i+1),
			Steps:  totals[i],
			Goal:   goal,
			Hidden: !showAll && w.Days[0].ISO > today,
		}
	}
	return bars
}
