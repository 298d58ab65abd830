package session

import (
	"time"

	"github.com/sadopc/woolywalk/internal/challenge"
	"github.com/sadopc/woolywalk/internal/stats"
)

// Row is one leaderboard line as the signed-in viewer may see it.
type Row struct {
	Position    int
	Participant challenge.Participant
	Totals      stats.Totals
	Visible     bool
	Self        bool
	// BarPercent is the total relative to the leader, at least 4.
	BarPercent int
}

// Snapshot is everything the dashboard shows at one instant.
type Snapshot struct {
	Now      time.Time
	Phase    challenge.Phase
	Viewer   challenge.Participant
	Totals   stats.Totals
	Position int
	Of       int
	Badge    stats.Badge
	Rows     []Row
	Progress []stats.WeekBar
}

// Snapshot derives the dashboard for the signed-in participant. With nobody
// signed in the personal fields stay zero and every row is a non-self row.
func (s *Session) Snapshot(now time.Time) Snapshot {
	phase := s.Phase(now)
	standings := stats.Standings(s.opts.Roster, s.doc.Steps(), s.days, now)

	snap := Snapshot{Now: now, Phase: phase}
	viewer, signedIn := s.Active()
	if signedIn {
		snap.Viewer = viewer
		snap.Position, snap.Of = stats.Rank(standings, viewer.Username)
	}

	leader := stats.Leader(standings)
	if leader == 0 {
		leader = 1
	}
	for i, st := range standings {
		self := signedIn && st.Participant.Username == viewer.Username
		if self {
			snap.Totals = st.Totals
		}
		pct := int(float64(st.Totals.TotalSteps)/float64(leader)*100 + 0.5)
		snap.Rows = append(snap.Rows, Row{
			Position:    i + 1,
			Participant: st.Participant,
			Totals:      st.Totals,
			Visible:     phase.ShowsTotal(viewer.Username, st.Participant.Username),
			Self:        self,
			BarPercent:  max(4, pct),
		})
	}
	snap.Badge = stats.ResolveBadge(snap.Totals)

	if signedIn {
		snap.Progress = stats.ProgressSeries(s.doc.Participants[viewer.Username].DailySteps, s.weeks, now, s.opts.WeeklyGoal)
	}
	return snap
}

// WeekTotal sums the signed-in participant's steps for week index i.
func (s *Session) WeekTotal(i int) int {
	if i < 0 || i >= len(s.weeks) {
		return 0
	}
	total := 0
	for _, d := range s.weeks[i].Days {
		total += s.Steps(d.ISO)
	}
	return total
}
