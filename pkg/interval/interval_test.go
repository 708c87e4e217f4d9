package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"09:30", 570, false},
		{"17:00", 1020, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"-1:00", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatClockRoundTrip(t *testing.T) {
	for _, s := range []string{"00:00", "09:05", "12:30", "23:59"} {
		m, err := ParseClock(s)
		require.NoError(t, err)
		assert.Equal(t, s, FormatClock(m))
	}
}

func TestRangeValid(t *testing.T) {
	assert.True(t, Range{Start: 540, End: 1020}.Valid())
	assert.False(t, Range{Start: 540, End: 540}.Valid())
	assert.False(t, Range{Start: 1020, End: 540}.Valid())
}

func TestRangeOverlaps(t *testing.T) {
	mk := func(start, end string) Range {
		r, err := ParseRange(start, end)
		require.NoError(t, err)
		return r
	}

	tests := []struct {
		name string
		a, b Range
		want bool
	}{
		{"disjoint before", mk("09:00", "10:00"), mk("11:00", "12:00"), false},
		{"disjoint after", mk("11:00", "12:00"), mk("09:00", "10:00"), false},
		{"partial overlap", mk("09:00", "11:00"), mk("10:00", "12:00"), true},
		{"contained", mk("09:00", "17:00"), mk("10:00", "11:00"), true},
		{"identical", mk("09:00", "10:00"), mk("09:00", "10:00"), true},
		{"touching end to start counts", mk("09:00", "12:00"), mk("12:00", "15:00"), true},
		{"touching start to end counts", mk("12:00", "15:00"), mk("09:00", "12:00"), true},
		{"one minute apart", mk("09:00", "11:59"), mk("12:00", "15:00"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestRangeContains(t *testing.T) {
	day, err := ParseRange("09:00", "17:00")
	require.NoError(t, err)

	inside, err := ParseRange("09:00", "09:30")
	require.NoError(t, err)
	assert.True(t, day.Contains(inside))

	edge, err := ParseRange("16:30", "17:00")
	require.NoError(t, err)
	assert.True(t, day.Contains(edge))

	outside, err := ParseRange("17:00", "17:30")
	require.NoError(t, err)
	assert.False(t, day.Contains(outside))

	straddling, err := ParseRange("16:30", "17:30")
	require.NoError(t, err)
	assert.False(t, day.Contains(straddling))
}

func TestConflictsAny(t *testing.T) {
	existing := []Range{
		{Start: 540, End: 600},
		{Start: 720, End: 780},
	}
	assert.True(t, ConflictsAny(existing, Range{Start: 570, End: 630}))
	assert.True(t, ConflictsAny(existing, Range{Start: 600, End: 660}))
	assert.False(t, ConflictsAny(existing, Range{Start: 630, End: 690}))
	assert.False(t, ConflictsAny(nil, Range{Start: 540, End: 600}))
}

func TestSelfConflicts(t *testing.T) {
	assert.False(t, SelfConflicts(nil))
	assert.False(t, SelfConflicts([]Range{{Start: 540, End: 600}}))
	assert.False(t, SelfConflicts([]Range{
		{Start: 540, End: 600},
		{Start: 630, End: 690},
	}))
	assert.True(t, SelfConflicts([]Range{
		{Start: 540, End: 600},
		{Start: 600, End: 660},
	}))
	assert.True(t, SelfConflicts([]Range{
		{Start: 540, End: 700},
		{Start: 900, End: 960},
		{Start: 650, End: 710},
	}))
}

func TestTimeRangeOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	mk := func(startMin, endMin int) TimeRange {
		return TimeRange{
			Start: base.Add(time.Duration(startMin) * time.Minute),
			End:   base.Add(time.Duration(endMin) * time.Minute),
		}
	}

	assert.True(t, mk(0, 30).Overlaps(mk(15, 45)))
	assert.False(t, mk(0, 30).Overlaps(mk(31, 60)))
	// Shared boundary timestamps conflict.
	assert.True(t, mk(0, 30).Overlaps(mk(30, 60)))
	assert.True(t, mk(30, 60).Overlaps(mk(0, 30)))
}

func TestTimeRangeValid(t *testing.T) {
	now := time.Now()
	assert.True(t, TimeRange{Start: now, End: now.Add(time.Hour)}.Valid())
	assert.False(t, TimeRange{Start: now, End: now}.Valid())
	assert.False(t, TimeRange{Start: now.Add(time.Hour), End: now}.Valid())
}
