package schedule

import (
	"fmt"
	"time"
)

// DefaultTimezone is the wall clock the original deployment runs on.
const DefaultTimezone = "Asia/Tashkent"

// Window is a [Start, End) wall-clock interval in HH:MM form. A zero Window
// imposes no restriction.
type Window struct {
	Start string
	End   string
	loc   *time.Location
}

func NewWindow(start, end, timezone string) (Window, error) {
	w := Window{Start: start, End: end}
	if start == "" && end == "" {
		return w, nil
	}
	for _, v := range []string{start, end} {
		if _, err := time.Parse("15:04", v); err != nil {
			return Window{}, fmt.Errorf("invalid working-hours time %q: %w", v, err)
		}
	}
	if timezone == "" {
		w.loc = Location()
		return w, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = Location()
	}
	w.loc = loc
	return w, nil
}

// Location returns the business wall-clock location.
func Location() *time.Location {
	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		// tz database missing on the host; Tashkent has no DST so a fixed
		// offset is equivalent
		return time.FixedZone("UZT", 5*60*60)
	}
	return loc
}

// DayOf returns midnight of the business day t falls on. Truncating in UTC
// would date late-evening activity to the previous local day.
func DayOf(t time.Time) time.Time {
	local := t.In(Location())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}

// Contains reports whether now falls inside the window. Windows wrapping
// midnight (end before start) are honored.
func (w Window) Contains(now time.Time) bool {
	if w.Start == "" && w.End == "" {
		return true
	}
	local := now.In(w.loc)
	minutes := local.Hour()*60 + local.Minute()

	start := parseMinutes(w.Start)
	end := parseMinutes(w.End)

	if start <= end {
		return minutes >= start && minutes < end
	}
	return minutes >= start || minutes < end
}

func parseMinutes(v string) int {
	t, _ := time.Parse("15:04", v)
	return t.Hour()*60 + t.Minute()
}
