package stats

// Badge is the single achievement shown for a participant.
type Badge struct {
	Title   string
	Caption string
}

type badgeRule struct {
	match func(Totals) bool
	badge Badge
}

// badgeRules is evaluated top to bottom; the first match wins.
var badgeRules = []badgeRule{
	{func(t Totals) bool { return t.TotalSteps >= 420000 }, Badge{"Crown Chaser", "Walking royalty in the making."}},
	{func(t Totals) bool { return t.CurrentStreak >= 14 }, Badge{"Consistency Beast", "14+ day streak. Unstoppable."}},
	{func(t Totals) bool { return t.BestDaySteps >= 25000 }, Badge{"Power Surge", "One monster day above 25k."}},
	{func(t Totals) bool { return t.TotalSteps >= 210000 }, Badge{"Halfway Hero", "You passed the halfway mark."}},
	{func(t Totals) bool { return t.BestDaySteps >= 15000 }, Badge{"Sprinter", "Huge daily burst logged."}},
	{func(t Totals) bool { return t.TotalSteps >= 70000 }, Badge{"On the Board", "Seven days of 10k pace."}},
}

var defaultBadge = Badge{"Keep marching", "Log steps to unlock your first badge."}

func ResolveBadge(t Totals) Badge {
	for _, r := range badgeRules {
		if r.match(t) {
			return r.badge
		}
	}
	return defaultBadge
}
