// Package stats derives standings and personal numbers from logged steps.
// Every function here is pure: the caller passes the current instant.
package stats

import (
	"time"

	"github.com/sadopc/woolywalk/internal/calendar"
)

// Totals is one participant's derived numbers.
type Totals struct {
	TotalSteps    int
	BestDaySteps  int
	BestDayISO    string
	BestDayLabel  string
	CurrentStreak int
	WeeklyAverage float64
}

// ComputeTotals sums steps over the challenge days and works out the best day,
// the trailing streak and the weekly pace as of now.
func ComputeTotals(steps map[string]int, days []calendar.Day, now time.Time) Totals {
	var t Totals
	today := todayKey(days, now)

	for _, d := range days {
		n := steps[d.ISO]
		t.TotalSteps += n
		// Strict > keeps the earliest of equal days.
		if n > t.BestDaySteps {
			t.BestDaySteps = n
			t.BestDayISO = d.ISO
			t.BestDayLabel = d.Label
		}
	}

	t.CurrentStreak = currentStreak(steps, days, today)

	completed := 0
	for _, d := range days {
		if d.ISO <= today {
			completed++
		}
	}
	weeks := max(1, float64(completed)/7)
	t.WeeklyAverage = float64(t.TotalSteps) / weeks

	return t
}

// currentStreak walks backward from the last day. A zero before today ends the
// walk; a zero today or later only resets the running count.
func currentStreak(steps map[string]int, days []calendar.Day, today string) int {
	current, run := 0, 0
	for i := len(days) - 1; i >= 0; i-- {
		d := days[i]
		if steps[d.ISO] > 0 {
			run++
			current = run
			continue
		}
		if today > d.ISO {
			break
		}
		run = 0
	}
	return current
}

// todayKey formats now in the calendar's location so that the comparison
// against day keys uses the same local date.
func todayKey(days []calendar.Day, now time.Time) string {
	if len(days) > 0 {
		now = now.In(days[0].Date.Location())
	}
	return calendar.Key(now)
}
