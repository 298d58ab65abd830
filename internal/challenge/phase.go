package challenge

import (
	"math"
	"time"
)

type PhaseKind int

const (
	PhaseWarmup PhaseKind = iota
	PhaseActive
	PhaseStealth
	PhaseReveal
)

func (k PhaseKind) String() string {
	switch k {
	case PhaseWarmup:
		return "Warm-up"
	case PhaseActive:
		return "Active battle"
	case PhaseStealth:
		return "Stealth mode"
	case PhaseReveal:
		return "Grand reveal"
	}
	return "unknown"
}

// Phase is the challenge state at a given instant together with its display copy.
type Phase struct {
	Kind            PhaseKind
	Label           string
	Message         string
	LeaderboardCopy string
	DaysRemaining   int
	Stealth         bool
	Revealed        bool
}

// ResolvePhase derives the phase purely from now. Boundaries: start and
// stealthStart are inclusive lower bounds, end is an inclusive upper bound of
// stealth mode.
func ResolvePhase(w Window, now time.Time) Phase {
	switch {
	case now.Before(w.Start):
		return Phase{
			Kind:            PhaseWarmup,
			Label:           PhaseWarmup.String(),
			Message:         "Prep those calves. Countdown to the starting gun.",
			LeaderboardCopy: "Warm-up period. Totals will appear once the challenge kicks off.",
			DaysRemaining:   daysUntil(now, w.Start),
		}
	case now.After(w.End):
		return Phase{
			Kind:            PhaseReveal,
			Label:           PhaseReveal.String(),
			Message:         "Time to crown the champion and grill the bottom two chefs.",
			LeaderboardCopy: "Final results unlocked. Congratulate (or heckle) accordingly.",
			Revealed:        true,
		}
	case !now.Before(w.StealthStart):
		return Phase{
			Kind:            PhaseStealth,
			Label:           PhaseStealth.String(),
			Message:         "Totals are hidden. Keep logging and keep them guessing.",
			LeaderboardCopy: "Stealth mode active. Only your own totals are visible.",
			DaysRemaining:   daysUntil(now, w.End),
			Stealth:         true,
		}
	}
	return Phase{
		Kind:            PhaseActive,
		Label:           PhaseActive.String(),
		Message:         "Clock those steps weekly. Top spot is there for the taking.",
		LeaderboardCopy: "Live totals update whenever someone logs their steps.",
		DaysRemaining:   daysUntil(now, w.End),
	}
}

// ShowsTotal reports whether viewer may see owner's total on the leaderboard.
func (p Phase) ShowsTotal(viewer, owner string) bool {
	switch p.Kind {
	case PhaseWarmup:
		return false
	case PhaseStealth:
		return viewer == owner
	}
	return true
}

func daysUntil(now, boundary time.Time) int {
	d := boundary.Sub(now)
	days := int(math.Ceil(float64(d) / float64(24*time.Hour)))
	if days < 0 {
		return 0
	}
	return days
}
