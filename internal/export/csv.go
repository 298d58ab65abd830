package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/woolywalk/internal/calendar"
	"github.com/sadopc/woolywalk/internal/challenge"
	"github.com/sadopc/woolywalk/internal/store"
)

// DefaultCSVName is the file name offered for flat step exports.
const DefaultCSVName = "wooly-walking-steps.csv"

// ToCSV writes one row per day per participant, days outermost, participants
// in roster order.
func ToCSV(doc *store.Document, roster challenge.Roster, days []calendar.Day, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"date", "username", "name", "steps"}); err != nil {
		return err
	}

	for _, d := range days {
		for _, p := range roster {
			steps := 0
			if data, ok := doc.Participants[p.Username]; ok {
				steps = data.DailySteps[d.ISO]
			}
			row := []string{d.ISO, p.Username, p.Name, strconv.Itoa(steps)}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}
