package challenge

import (
	"errors"
	"time"
)

var ErrInvalidWindow = errors.New("challenge window must satisfy start < stealth start <= end")

// Window bounds the challenge in wall-clock time.
type Window struct {
	Start        time.Time
	StealthStart time.Time
	End          time.Time
}

func (w Window) Validate() error {
	if !w.Start.Before(w.StealthStart) || w.StealthStart.After(w.End) {
		return ErrInvalidWindow
	}
	return nil
}

// DefaultWindow is the 2025 challenge in the given location.
func DefaultWindow(loc *time.Location) Window {
	return Window{
		Start:        time.Date(2025, time.October, 6, 0, 0, 0, 0, loc),
		StealthStart: time.Date(2025, time.December, 7, 0, 0, 0, 0, loc),
		End:          time.Date(2025, time.December, 21, 23, 59, 59, 0, loc),
	}
}
