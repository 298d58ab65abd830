// Package calendar lays out the challenge as an ordered run of local calendar
// days grouped into weeks.
package calendar

import "time"

const isoLayout = "2006-01-02"

// Day is one local calendar date inside the challenge.
type Day struct {
	ISO   string    // YYYY-MM-DD
	Date  time.Time // local midnight
	Label string    // Mon, Oct 6
	Short string    // Mon
	Long  string    // Oct 6
}

// Week is a run of up to seven consecutive days.
type Week struct {
	Days  []Day
	Label string
}

// Key returns the ISO key of t's calendar date in t's own location. It never
// converts to UTC first, which would shift the day near midnight.
func Key(t time.Time) string {
	return t.Format(isoLayout)
}

// Build returns every calendar date from start's date through end's date
// inclusive. Time of day is ignored. End before start yields no days.
func Build(start, end time.Time) []Day {
	loc := start.Location()
	end = end.In(loc)
	cursor := midnight(start)
	last := midnight(end)

	var days []Day
	for !cursor.After(last) {
		days = append(days, newDay(cursor))
		// AddDate keeps local midnight across DST changes.
		cursor = cursor.AddDate(0, 0, 1)
	}
	return days
}

// Chunk splits days into consecutive weeks of seven; the last week may be short.
func Chunk(days []Day) []Week {
	var weeks []Week
	for i := 0; i < len(days); i += 7 {
		j := min(i+7, len(days))
		slice := days[i:j]
		weeks = append(weeks, Week{
			Days:  slice,
			Label: slice[0].Long + " – " + slice[len(slice)-1].Long,
		})
	}
	return weeks
}

// Index returns the position of the day with the given ISO key.
func Index(days []Day, iso string) (int, bool) {
	for i, d := range days {
		if d.ISO == iso {
			return i, true
		}
	}
	return -1, false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func newDay(t time.Time) Day {
	return Day{
		ISO:   Key(t),
		Date:  t,
		Label: t.Format("Mon, Jan 2"),
		Short: t.Format("Mon"),
		Long:  t.Format("Jan 2"),
	}
}
