//go:build unit

package period_test

import (
	"encoding/json"
	"testing"
	"time"

	"venue-booking/internal/domain/period"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var manila = time.FixedZone("PHT", 8*60*60)

func at(day int, hour int) time.Time {
	return time.Date(2025, time.March, day, hour, 0, 0, 0, manila)
}

func mustPeriod(t *testing.T, start, end time.Time) period.Period {
	t.Helper()
	p, err := period.New(start, end)
	require.NoError(t, err)
	return p
}

func TestNew(t *testing.T) {
	t.Run("end after start", func(t *testing.T) {
		p, err := period.New(at(10, 10), at(10, 15))
		require.NoError(t, err)
		assert.Equal(t, 5.0, p.Hours())
		assert.Equal(t, 5*time.Hour, p.Duration())
	})

	t.Run("end equal to start", func(t *testing.T) {
		_, err := period.New(at(10, 10), at(10, 10))
		assert.ErrorIs(t, err, period.ErrInvalidPeriod)
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := period.New(at(10, 15), at(10, 10))
		assert.ErrorIs(t, err, period.ErrInvalidPeriod)
	})
}

func TestFromPointers(t *testing.T) {
	start, end := at(10, 10), at(10, 12)

	p, err := period.FromPointers(&start, nil)
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = period.FromPointers(&start, &end)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, start, p.Start())

	_, err = period.FromPointers(&end, &start)
	assert.ErrorIs(t, err, period.ErrInvalidPeriod)
}

func TestDaysOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b period.Period
		want bool
	}{
		{
			name: "same day different hours",
			a:    mustPeriod(t, at(10, 8), at(10, 10)),
			b:    mustPeriod(t, at(10, 18), at(10, 22)),
			want: true,
		},
		{
			name: "adjacent days",
			a:    mustPeriod(t, at(10, 8), at(10, 10)),
			b:    mustPeriod(t, at(11, 8), at(11, 10)),
			want: false,
		},
		{
			name: "multi day spans into other",
			a:    mustPeriod(t, at(10, 20), at(12, 2)),
			b:    mustPeriod(t, at(12, 9), at(12, 11)),
			want: true,
		},
		{
			name: "contained",
			a:    mustPeriod(t, at(9, 0), at(14, 0)),
			b:    mustPeriod(t, at(11, 8), at(11, 10)),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.DaysOverlap(tt.b, manila))
			assert.Equal(t, tt.want, tt.b.DaysOverlap(tt.a, manila), "overlap must be symmetric")
		})
	}
}

func TestDaysOverlap_UsesLocation(t *testing.T) {
	// 23:00 UTC on the 10th is already the 11th in UTC+8.
	a := mustPeriod(t, time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC), time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC))
	b := mustPeriod(t, at(11, 9), at(11, 10))

	assert.True(t, a.DaysOverlap(b, manila))
	assert.False(t, a.DaysOverlap(b, time.UTC))
}

func TestDays(t *testing.T) {
	p := mustPeriod(t, at(30, 18), time.Date(2025, time.April, 1, 2, 0, 0, 0, manila))

	want := []period.Day{
		{Year: 2025, Month: time.March, Day: 30},
		{Year: 2025, Month: time.March, Day: 31},
		{Year: 2025, Month: time.April, Day: 1},
	}
	if diff := cmp.Diff(want, p.Days(manila)); diff != "" {
		t.Errorf("Days() mismatch (-want +got):\n%s", diff)
	}
}

func TestStartAndEndOfDay(t *testing.T) {
	ts := at(10, 15)

	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, manila), period.StartOfDay(ts, manila))
	assert.Equal(t, time.Date(2025, 3, 10, 23, 59, 59, int(999*time.Millisecond), manila), period.EndOfDay(ts, manila))
}

func TestDay(t *testing.T) {
	d := period.Day{Year: 2024, Month: time.February, Day: 28}

	assert.Equal(t, period.Day{Year: 2024, Month: time.February, Day: 29}, d.Next())
	assert.Equal(t, period.Day{Year: 2024, Month: time.March, Day: 1}, d.Next().Next())
	assert.True(t, d.Before(d.Next()))
	assert.True(t, d.Next().After(d))
	assert.Equal(t, 0, d.Compare(d))
	assert.Equal(t, "2024-02-28", d.String())

	parsed, err := period.ParseDay("2024-02-28")
	require.NoError(t, err)
	assert.Equal(t, d, parsed)

	_, err = period.ParseDay("28/02/2024")
	assert.Error(t, err)
}

func TestDay_JSON(t *testing.T) {
	days := []period.Day{{Year: 2025, Month: time.May, Day: 1}}

	b, err := json.Marshal(days)
	require.NoError(t, err)
	assert.JSONEq(t, `["2025-05-01"]`, string(b))

	var decoded []period.Day
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, days, decoded)
}
