package appointment

import (
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// WorkingHours describes one day of the shop. Bookable slots are whole
// hours from Start up to and including End, minus the lunch break.
type WorkingHours struct {
	Start      string
	End        string
	LunchStart string
	LunchEnd   string
}

var DefaultWorkingHours = WorkingHours{
	Start:      "09:00",
	End:        "18:00",
	LunchStart: "12:00",
	LunchEnd:   "13:00",
}

var defaultSlots = DefaultWorkingHours.Slots(time.Hour)

// Slots enumerates the wall-clock start times of the day.
func (wh WorkingHours) Slots(step time.Duration) []string {
	parseHM := func(hm string) time.Time {
		t, _ := time.Parse(TimeLayout, hm)
		return t
	}

	dayStart := parseHM(wh.Start)
	dayEnd := parseHM(wh.End)

	hasLunch := wh.LunchStart != "" && wh.LunchEnd != ""
	var lunchStart, lunchEnd time.Time
	if hasLunch {
		lunchStart = parseHM(wh.LunchStart)
		lunchEnd = parseHM(wh.LunchEnd)
	}

	var slots []string
	for cur := dayStart; !cur.After(dayEnd); cur = cur.Add(step) {
		// almoço
		if hasLunch && !cur.Before(lunchStart) && cur.Before(lunchEnd) {
			continue
		}
		slots = append(slots, cur.Format(TimeLayout))
	}

	return slots
}

// Slots returns a copy of the bookable times for any calendar day.
func Slots() []string {
	out := make([]string, len(defaultSlots))
	copy(out, defaultSlots)
	return out
}

// IsSlot reports whether t is one of the bookable times.
func IsSlot(t string) bool {
	for _, s := range defaultSlots {
		if s == t {
			return true
		}
	}
	return false
}
