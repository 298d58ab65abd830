package stats

import (
	"testing"
	"time"

	"github.com/sadopc/woolywalk/internal/calendar"
	"github.com/sadopc/woolywalk/internal/challenge"
)

var challengeStart = time.Date(2025, time.October, 6, 0, 0, 0, 0, time.UTC)

// testDays returns n consecutive days starting at challengeStart.
func testDays(n int) []calendar.Day {
	return calendar.Build(challengeStart, challengeStart.AddDate(0, 0, n-1))
}

// noonOf returns midday on the 1-based challenge day.
func noonOf(day int) time.Time {
	return challengeStart.AddDate(0, 0, day-1).Add(12 * time.Hour)
}

// badgePriority returns the 1-based rule index of b, or len(rules)+1 for the
// fallback badge. Lower is better.
func badgePriority(b Badge) int {
	for i, r := range badgeRules {
		if r.badge.Title == b.Title {
			return i + 1
		}
	}
	return len(badgeRules) + 1
}

// stepsFor maps counts onto consecutive days.
func stepsFor(days []calendar.Day, counts ...int) map[string]int {
	m := make(map[string]int, len(days))
	for i, d := range days {
		if i < len(counts) {
			m[d.ISO] = counts[i]
		} else {
			m[d.ISO] = 0
		}
	}
	return m
}

// ============================================================
// Totals
// ============================================================

func TestComputeTotalsWorkedExample(t *testing.T) {
	days := testDays(4)
	steps := stepsFor(days, 1000, 2000, 0, 3000)

	got := ComputeTotals(steps, days, noonOf(4))
	if got.TotalSteps != 6000 {
		t.Errorf("total = %d, want 6000", got.TotalSteps)
	}
	if got.BestDaySteps != 3000 {
		t.Errorf("best = %d, want 3000", got.BestDaySteps)
	}
	if got.BestDayISO != "2025-10-09" {
		t.Errorf("best day = %s, want 2025-10-09", got.BestDayISO)
	}
	if got.CurrentStreak != 1 {
		t.Errorf("streak = %d, want 1", got.CurrentStreak)
	}
}

func TestComputeTotalsAllZero(t *testing.T) {
	days := testDays(14)
	got := ComputeTotals(stepsFor(days), days, noonOf(7))
	if got.TotalSteps != 0 || got.CurrentStreak != 0 || got.BestDaySteps != 0 {
		t.Fatalf("expected zero totals, got %+v", got)
	}
	if got.BestDayLabel != "" || got.BestDayISO != "" {
		t.Fatalf("best day should be empty, got %q", got.BestDayLabel)
	}
}

func TestComputeTotalsBestDayTieKeepsEarliest(t *testing.T) {
	days := testDays(3)
	got := ComputeTotals(stepsFor(days, 5000, 9000, 9000), days, noonOf(3))
	if got.BestDayISO != "2025-10-07" {
		t.Fatalf("best day = %s, want earliest tie 2025-10-07", got.BestDayISO)
	}
	if got.BestDayLabel != "Tue, Oct 7" {
		t.Fatalf("best label = %q", got.BestDayLabel)
	}
}

func TestComputeTotalsMissingKeysCountAsZero(t *testing.T) {
	days := testDays(5)
	steps := map[string]int{"2025-10-06": 100}
	got := ComputeTotals(steps, days, noonOf(5))
	if got.TotalSteps != 100 {
		t.Fatalf("total = %d", got.TotalSteps)
	}
}

func TestComputeTotalsIsPure(t *testing.T) {
	days := testDays(21)
	steps := stepsFor(days, 12000, 0, 8000, 9000, 15000, 3000, 0, 22000)
	now := noonOf(10)

	a := ComputeTotals(steps, days, now)
	b := ComputeTotals(steps, days, now)
	if a != b {
		t.Fatalf("results differ: %+v vs %+v", a, b)
	}
	if steps["2025-10-06"] != 12000 {
		t.Fatal("input map was modified")
	}
}

// ============================================================
// Streak
// ============================================================

func TestStreak(t *testing.T) {
	days := testDays(10)

	tests := []struct {
		name   string
		counts []int
		now    time.Time
		want   int
	}{
		{"trailing three including today", []int{1, 1, 1, 1, 1, 1, 0, 5, 5, 5}, noonOf(10), 3},
		{"zero today does not break", []int{1, 1, 1, 1, 0, 5, 5, 5, 5, 0}, noonOf(10), 4},
		{"future zeros skipped", []int{0, 7, 7, 7, 7}, noonOf(5), 4},
		{"zero yesterday breaks", []int{9, 9, 9, 0, 9}, noonOf(5), 1},
		{"zero today resets the run from later days", []int{0, 500, 0, 700}, noonOf(3), 1},
		{"challenge over with empty last day", []int{9, 9, 9, 9, 9, 9, 9, 9, 9, 0}, noonOf(12), 0},
		{"challenge over full run", []int{9, 9, 9, 9, 9, 9, 9, 9, 9, 9}, noonOf(12), 10},
		{"nothing logged yet", nil, noonOf(3), 0},
	}
	for _, tt := range tests {
		got := ComputeTotals(stepsFor(days, tt.counts...), days, tt.now).CurrentStreak
		if got != tt.want {
			t.Errorf("%s: streak = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestStreakTrailingN(t *testing.T) {
	days := testDays(30)
	for n := 1; n <= 20; n++ {
		counts := make([]int, 20)
		for i := 20 - n; i < 20; i++ {
			counts[i] = 10000
		}
		got := ComputeTotals(stepsFor(days, counts...), days, noonOf(20)).CurrentStreak
		if got != n {
			t.Errorf("trailing %d days: streak = %d", n, got)
		}
	}
}

func TestStreakUsesCalendarLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	start := time.Date(2025, time.October, 5, 0, 0, 0, 0, loc)
	days := calendar.Build(start, start.AddDate(0, 0, 3))
	steps := stepsFor(days, 5000, 5000, 0, 5000)

	// 20:00 UTC on the 7th is already the 8th in UTC+10, so the empty 7th is in
	// the past and ends the streak.
	now := time.Date(2025, time.October, 7, 20, 0, 0, 0, time.UTC)
	if got := ComputeTotals(steps, days, now).CurrentStreak; got != 1 {
		t.Fatalf("streak = %d, want 1", got)
	}
}

// ============================================================
// Weekly average
// ============================================================

func TestWeeklyAverage(t *testing.T) {
	days := testDays(28)
	counts := make([]int, 28)
	for i := range counts {
		counts[i] = 1000
	}
	steps := stepsFor(days, counts...)

	tests := []struct {
		name string
		now  time.Time
		want float64
	}{
		{"before start divides by one", challengeStart.Add(-time.Hour), 28000},
		{"first partial week divides by one", noonOf(3), 28000},
		{"two full weeks", noonOf(14), 14000},
		{"ten days", noonOf(10), 28000 / (10.0 / 7)},
		{"after end", noonOf(40), 7000},
	}
	for _, tt := range tests {
		got := ComputeTotals(steps, days, tt.now).WeeklyAverage
		if diff := got - tt.want; diff > 0.001 || diff < -0.001 {
			t.Errorf("%s: weekly average = %f, want %f", tt.name, got, tt.want)
		}
	}
}

// ============================================================
// Standings and rank
// ============================================================

func TestStandingsOrderAndRank(t *testing.T) {
	days := testDays(7)
	roster := challenge.Roster{
		{Username: "a", Name: "A"},
		{Username: "b", Name: "B"},
		{Username: "c", Name: "C"},
		{Username: "d", Name: "D"},
	}
	steps := map[string]map[string]int{
		"a": stepsFor(days, 1000),
		"b": stepsFor(days, 5000),
		"c": stepsFor(days, 1000),
		// d has no record at all.
	}

	rows := Standings(roster, steps, days, noonOf(7))
	want := []string{"b", "a", "c", "d"}
	for i, u := range want {
		if rows[i].Participant.Username != u {
			t.Fatalf("row %d = %s, want %s", i, rows[i].Participant.Username, u)
		}
	}

	if pos, of := Rank(rows, "c"); pos != 3 || of != 4 {
		t.Fatalf("Rank(c) = %d of %d", pos, of)
	}
	if pos, _ := Rank(rows, "nobody"); pos != 1 {
		t.Fatalf("unknown user rank = %d, want 1", pos)
	}
	if Leader(rows) != 5000 {
		t.Fatalf("leader = %d", Leader(rows))
	}
	if Leader(nil) != 0 {
		t.Fatal("empty leader should be 0")
	}
}

// ============================================================
// Badges
// ============================================================

func TestResolveBadge(t *testing.T) {
	tests := []struct {
		totals Totals
		want   string
	}{
		{Totals{TotalSteps: 420000}, "Crown Chaser"},
		{Totals{TotalSteps: 420000, CurrentStreak: 30, BestDaySteps: 40000}, "Crown Chaser"},
		{Totals{TotalSteps: 419999, CurrentStreak: 14}, "Consistency Beast"},
		{Totals{CurrentStreak: 13, BestDaySteps: 25000}, "Power Surge"},
		{Totals{TotalSteps: 210000, BestDaySteps: 24999}, "Halfway Hero"},
		{Totals{TotalSteps: 209999, BestDaySteps: 15000}, "Sprinter"},
		{Totals{TotalSteps: 70000, BestDaySteps: 14999}, "On the Board"},
		{Totals{TotalSteps: 69999}, "Keep marching"},
		{Totals{}, "Keep marching"},
	}
	for _, tt := range tests {
		if got := ResolveBadge(tt.totals); got.Title != tt.want {
			t.Errorf("ResolveBadge(%+v) = %q, want %q", tt.totals, got.Title, tt.want)
		}
	}
}

func TestResolveBadgeMonotonic(t *testing.T) {
	bests := []int{0, 14999, 15000, 25000}
	streaks := []int{0, 13, 14, 20}

	for _, best := range bests {
		for _, streak := range streaks {
			prev := badgePriority(ResolveBadge(Totals{CurrentStreak: streak, BestDaySteps: best}))
			for total := 0; total <= 500000; total += 10000 {
				p := badgePriority(ResolveBadge(Totals{TotalSteps: total, CurrentStreak: streak, BestDaySteps: best}))
				if p > prev {
					t.Fatalf("badge regressed at total=%d streak=%d best=%d: %d > %d", total, streak, best, p, prev)
				}
				prev = p
			}
		}
	}

	for _, total := range []int{0, 70000, 210000} {
		prev := badgePriority(ResolveBadge(Totals{TotalSteps: total}))
		for streak := 0; streak <= 30; streak++ {
			p := badgePriority(ResolveBadge(Totals{TotalSteps: total, CurrentStreak: streak}))
			if p > prev {
				t.Fatalf("badge regressed at streak=%d total=%d", streak, total)
			}
			prev = p
		}
	}
}

// ============================================================
// Progress chart
// ============================================================

func TestWeekTotals(t *testing.T) {
	days := testDays(10)
	weeks := calendar.Chunk(days)
	steps := stepsFor(days, 1, 1, 1, 1, 1, 1, 1, 5, 5, 5)

	got := WeekTotals(steps, weeks)
	if len(got) != 2 || got[0] != 7 || got[1] != 15 {
		t.Fatalf("WeekTotals = %v", got)
	}
}

func TestProgressSeriesHidesFutureWeeks(t *testing.T) {
	weeks := calendar.Chunk(testDays(28))
	steps := stepsFor(testDays(28))

	bars := ProgressSeries(steps, weeks, noonOf(9), DefaultWeeklyGoal)
	if len(bars) != 4 {
		t.Fatalf("bars = %d", len(bars))
	}
	if bars[0].Hidden || bars[1].Hidden {
		t.Fatal("weeks up to today should be shown")
	}
	if !bars[2].Hidden || !bars[3].Hidden {
		t.Fatal("future weeks should be hidden")
	}
	if bars[0].Label != "W1" || bars[0].Goal != 70000 {
		t.Fatalf("unexpected bar %+v", bars[0])
	}
}

func TestProgressSeriesBeforeStartShowsAll(t *testing.T) {
	weeks := calendar.Chunk(testDays(14))
	bars := ProgressSeries(nil, weeks, challengeStart.Add(-48*time.Hour), DefaultWeeklyGoal)
	for i, b := range bars {
		if b.Hidden {
			t.Fatalf("bar %d hidden before start", i)
		}
	}
	if ProgressSeries(nil, nil, challengeStart, DefaultWeeklyGoal) != nil {
		t.Fatal("no weeks should yield no bars")
	}
}
