package booking

import (
	"time"

	"venue-booking/internal/domain/period"
	"venue-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

type PaymentFacts struct {
	HasPayments bool
	FullyPaid   bool
}

// Resolve returns current unchanged when it is a manual state. Otherwise it
// derives the state from the event dates relative to now, then from payments.
// Day boundaries are taken in now's location.
func Resolve(now time.Time, facts PaymentFacts, start, end time.Time, current Status) Status {
	if m, ok := current.(ManualState); ok {
		return m
	}
	return derive(now, facts, start, end)
}

func derive(now time.Time, facts PaymentFacts, start, end time.Time) DerivedState {
	loc := now.Location()
	today := period.StartOfDay(now, loc)
	from := period.StartOfDay(start, loc)
	to := period.EndOfDay(end, loc)

	switch {
	case !today.Before(from) && !today.After(to):
		return StatusInProgress
	case today.After(to):
		if facts.FullyPaid {
			return StatusCompleted
		}
		return StatusUnpaid
	case facts.HasPayments:
		return StatusConfirmed
	default:
		return StatusPending
	}
}

type Resolver struct {
	clock clock.Clock
	loc   *time.Location
}

func NewResolver(clk clock.Clock, loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	return &Resolver{clock: clk, loc: loc}
}

func (r *Resolver) Now() time.Time {
	return r.clock.Now().In(r.loc)
}

func (r *Resolver) Resolve(facts PaymentFacts, start, end time.Time, current Status) Status {
	return Resolve(r.Now(), facts, start, end, current)
}

type StatusInput struct {
	BookingID uuid.UUID
	Facts     PaymentFacts
	Start     time.Time
	End       time.Time
	Current   Status
}

type StatusChange struct {
	BookingID uuid.UUID
	From      Status
	To        Status
}

// ResolveAll evaluates every input against a single instant and returns only
// the bookings whose status changes.
func (r *Resolver) ResolveAll(inputs []StatusInput) []StatusChange {
	now := r.Now()
	var changes []StatusChange
	for _, in := range inputs {
		next := Resolve(now, in.Facts, in.Start, in.End, in.Current)
		if in.Current != nil && in.Current.Code() == next.Code() {
			continue
		}
		changes = append(changes, StatusChange{BookingID: in.BookingID, From: in.Current, To: next})
	}
	return changes
}
