package model

// Day-of-week convention: 0=sunday .. 6=saturday.
//
// Unrecognized input defaults to monday on both directions. That mirrors the
// behavior the rest of the platform relies on; callers that care should count
// defaults (see workinghours service) rather than change the mapping.

const DefaultDayOfWeek = 1 // monday

var dayNames = [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

var dayNumbers = map[string]int{
	"sunday":    0,
	"monday":    1,
	"tuesday":   2,
	"wednesday": 3,
	"thursday":  4,
	"friday":    5,
	"saturday":  6,
}

// DayName translates a day-of-week integer to its lowercase English name.
// Out-of-range values yield "monday".
func DayName(dayOfWeek int) string {
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return dayNames[DefaultDayOfWeek]
	}
	return dayNames[dayOfWeek]
}

// DayNumber translates a lowercase English day name to its integer. The
// second return reports whether the name was recognized; unknown names map to
// monday (1).
func DayNumber(name string) (int, bool) {
	if n, ok := dayNumbers[name]; ok {
		return n, true
	}
	return DefaultDayOfWeek, false
}
