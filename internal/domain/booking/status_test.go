//go:build unit

package booking_test

import (
	"testing"
	"time"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/pkg/clock"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var manila = time.FixedZone("PHT", 8*60*60)

func day(d, h int) time.Time {
	return time.Date(2025, time.July, d, h, 0, 0, 0, manila)
}

func TestResolve(t *testing.T) {
	now := day(15, 11)
	unpaid := booking.PaymentFacts{}
	partial := booking.PaymentFacts{HasPayments: true}
	paid := booking.PaymentFacts{HasPayments: true, FullyPaid: true}

	tests := []struct {
		name    string
		facts   booking.PaymentFacts
		start   time.Time
		end     time.Time
		current booking.Status
		want    booking.Status
	}{
		{name: "future without payments", facts: unpaid, start: day(20, 10), end: day(20, 15), current: booking.StatusPending, want: booking.StatusPending},
		{name: "future with payment", facts: partial, start: day(20, 10), end: day(20, 15), current: booking.StatusPending, want: booking.StatusConfirmed},
		{name: "nil current is derived", facts: partial, start: day(20, 10), end: day(20, 15), current: nil, want: booking.StatusConfirmed},
		{name: "event later today is in progress", facts: unpaid, start: day(15, 18), end: day(15, 23), current: booking.StatusConfirmed, want: booking.StatusInProgress},
		{name: "event ended earlier today is in progress", facts: unpaid, start: day(15, 6), end: day(15, 8), current: booking.StatusConfirmed, want: booking.StatusInProgress},
		{name: "multi day spanning today", facts: paid, start: day(14, 9), end: day(16, 9), current: booking.StatusConfirmed, want: booking.StatusInProgress},
		{name: "past fully paid", facts: paid, start: day(10, 9), end: day(10, 17), current: booking.StatusInProgress, want: booking.StatusCompleted},
		{name: "past not fully paid", facts: partial, start: day(10, 9), end: day(14, 23), current: booking.StatusInProgress, want: booking.StatusUnpaid},
		{name: "canceled is sticky", facts: paid, start: day(10, 9), end: day(10, 17), current: booking.StatusCanceled, want: booking.StatusCanceled},
		{name: "archived is sticky", facts: unpaid, start: day(15, 9), end: day(15, 17), current: booking.StatusArchived, want: booking.StatusArchived},
		{name: "draft is sticky", facts: partial, start: day(20, 9), end: day(20, 17), current: booking.StatusDraft, want: booking.StatusDraft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := booking.Resolve(now, tt.facts, tt.start, tt.end, tt.current)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_ManualStatesNeverChange(t *testing.T) {
	manual := []booking.ManualState{booking.StatusCanceled, booking.StatusArchived, booking.StatusDraft}
	facts := []booking.PaymentFacts{{}, {HasPayments: true}, {HasPayments: true, FullyPaid: true}}
	nows := []time.Time{day(1, 0), day(15, 12), day(31, 23)}

	for _, m := range manual {
		for _, f := range facts {
			for _, now := range nows {
				got := booking.Resolve(now, f, day(15, 9), day(15, 17), m)
				assert.Equal(t, booking.Status(m), got)
			}
		}
	}
}

func TestResolve_InProgressBeatsPayments(t *testing.T) {
	start, end := day(10, 9), day(12, 17)
	for now := day(10, 0); now.Before(day(13, 0)); now = now.Add(time.Hour) {
		for _, f := range []booking.PaymentFacts{{}, {HasPayments: true}, {HasPayments: true, FullyPaid: true}} {
			assert.Equal(t, booking.Status(booking.StatusInProgress), booking.Resolve(now, f, start, end, booking.StatusPending), now.String())
		}
	}
}

func TestResolve_Idempotent(t *testing.T) {
	now := day(15, 11)
	facts := booking.PaymentFacts{HasPayments: true}
	first := booking.Resolve(now, facts, day(20, 9), day(20, 17), booking.StatusPending)
	second := booking.Resolve(now, facts, day(20, 9), day(20, 17), first)
	assert.Equal(t, first, second)
}

func TestResolver_ResolveAll(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2025, time.July, 15, 2, 0, 0, 0, time.UTC))
	r := booking.NewResolver(clk, manila)

	unchanged := uuid.New()
	started := uuid.New()
	canceled := uuid.New()
	finished := uuid.New()

	changes := r.ResolveAll([]booking.StatusInput{
		{BookingID: unchanged, Start: day(20, 9), End: day(20, 17), Current: booking.StatusPending},
		{BookingID: started, Start: day(15, 9), End: day(15, 17), Current: booking.StatusConfirmed},
		{BookingID: canceled, Start: day(15, 9), End: day(15, 17), Current: booking.StatusCanceled},
		{BookingID: finished, Facts: booking.PaymentFacts{HasPayments: true, FullyPaid: true}, Start: day(1, 9), End: day(1, 17), Current: booking.StatusInProgress},
	})

	want := []booking.StatusChange{
		{BookingID: started, From: booking.StatusConfirmed, To: booking.StatusInProgress},
		{BookingID: finished, From: booking.StatusInProgress, To: booking.StatusCompleted},
	}
	if diff := cmp.Diff(want, changes); diff != "" {
		t.Errorf("ResolveAll() mismatch (-want +got):\n%s", diff)
	}
}

func TestResolver_UsesConfiguredLocation(t *testing.T) {
	// 17:00 UTC on the 14th is already the 15th in Manila.
	clk := clock.NewMockClock(time.Date(2025, time.July, 14, 17, 0, 0, 0, time.UTC))

	got := booking.NewResolver(clk, manila).Resolve(booking.PaymentFacts{}, day(15, 9), day(15, 17), booking.StatusPending)
	assert.Equal(t, booking.Status(booking.StatusInProgress), got)

	got = booking.NewResolver(clk, time.UTC).Resolve(booking.PaymentFacts{}, day(15, 9), day(15, 17), booking.StatusPending)
	assert.Equal(t, booking.Status(booking.StatusPending), got)
}

func TestStatusCodes(t *testing.T) {
	for code := 1; code <= 8; code++ {
		s, err := booking.FromCode(code)
		require.NoError(t, err)
		assert.Equal(t, code, s.Code())
		assert.Equal(t, code >= 6, s.IsManual())

		parsed, err := booking.Parse(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := booking.FromCode(0)
	assert.ErrorIs(t, err, booking.ErrUnknownStatus)
	_, err = booking.FromCode(9)
	assert.ErrorIs(t, err, booking.ErrUnknownStatus)
	_, err = booking.Parse("lost")
	assert.ErrorIs(t, err, booking.ErrUnknownStatus)
}

func TestParseManual(t *testing.T) {
	m, err := booking.ParseManual(" Canceled ")
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCanceled, m)

	_, err = booking.ParseManual("confirmed")
	assert.ErrorIs(t, err, booking.ErrNotManual)
}

func TestIsCounting(t *testing.T) {
	assert.True(t, booking.IsCounting(booking.StatusPending))
	assert.True(t, booking.IsCounting(booking.StatusCompleted))
	assert.True(t, booking.IsCounting(booking.StatusDraft))
	assert.False(t, booking.IsCounting(booking.StatusCanceled))
	assert.False(t, booking.IsCounting(booking.StatusArchived))
}
