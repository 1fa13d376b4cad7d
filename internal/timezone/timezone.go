package timezone

import "time"

const DefaultTimezone = "America/Sao_Paulo"

const dateLayout = "2006-01-02"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// Day returns the shop's calendar date of now as "2006-01-02". The
// calendar day is decided in the shop's zone, not the device's.
func Day(tz string, now time.Time) string {
	return now.In(Location(tz)).Format(dateLayout)
}

// Clock gives the current time. Components take one so tests can pin "today".
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}
