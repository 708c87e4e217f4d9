package interval

import (
	"fmt"
	"time"
)

// Range is a clock interval within one day, in minutes since midnight.
type Range struct {
	Start int
	End   int
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseRange builds a Range from two "HH:MM" strings.
func ParseRange(start, end string) (Range, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Range{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Range{}, err
	}
	return Range{Start: s, End: e}, nil
}

// Valid reports whether the range has positive width.
func (r Range) Valid() bool {
	return r.Start < r.End
}

// Overlaps reports whether the two ranges intersect. Bounds are inclusive:
// a range ending at 12:00 overlaps one starting at 12:00.
func (r Range) Overlaps(other Range) bool {
	return r.Start <= other.End && r.End >= other.Start
}

// Contains reports whether other lies fully inside r.
func (r Range) Contains(other Range) bool {
	return r.Start <= other.Start && r.End >= other.End
}

// ConflictsAny reports whether candidate overlaps any of existing.
func ConflictsAny(existing []Range, candidate Range) bool {
	for _, r := range existing {
		if r.Overlaps(candidate) {
			return true
		}
	}
	return false
}

// SelfConflicts reports whether any pair of ranges overlaps.
func SelfConflicts(ranges []Range) bool {
	for i := 0; i < len(ranges); i++ {
		for j := i + 1; j < len(ranges); j++ {
			if ranges[i].Overlaps(ranges[j]) {
				return true
			}
		}
	}
	return false
}

// TimeRange is an absolute time interval with the same inclusive-bounds
// overlap rule as Range.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the interval has positive width.
func (r TimeRange) Valid() bool {
	return r.Start.Before(r.End)
}

// Overlaps reports whether the two intervals intersect, bounds inclusive.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return !r.Start.After(other.End) && !r.End.Before(other.Start)
}
