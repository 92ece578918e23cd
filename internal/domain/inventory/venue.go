package inventory

import (
	"sort"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/period"

	"github.com/google/uuid"
)

// VenueBooking is a venue hold. A venue has capacity one per day.
type VenueBooking struct {
	BookingID uuid.UUID
	VenueID   uuid.UUID
	Period    period.Period
	Status    booking.Status
}

type VenueRequest struct {
	VenueID          uuid.UUID
	ExcludeBookingID *uuid.UUID
	Period           period.Period
}

func (c *Checker) CheckVenue(req VenueRequest, bookings []VenueBooking) Report {
	report := Report{Conflicts: []Message{}, Warnings: []Message{}}

	for _, vb := range c.holding(req.VenueID, req.ExcludeBookingID, bookings) {
		if !vb.Period.DaysOverlap(req.Period, c.loc) {
			continue
		}
		bookingID, venueID := vb.BookingID, vb.VenueID
		report.Conflicts = append(report.Conflicts, Message{
			Kind:      KindConflict,
			Text:      "Venue is already booked on " + vb.Period.StartDay(c.loc).String(),
			BookingID: &bookingID,
			VenueID:   &venueID,
			Quantity:  1,
		})
	}

	report.UsedOnOverlap = len(report.Conflicts)
	report.Available = 1
	if report.UsedOnOverlap > 0 {
		report.Available = 0
	}
	return report
}

// UnavailableDays lists each calendar day the venue is held, sorted and unique.
func (c *Checker) UnavailableDays(venueID uuid.UUID, exclude *uuid.UUID, bookings []VenueBooking) []period.Day {
	seen := make(map[period.Day]struct{})
	days := []period.Day{}
	for _, vb := range c.holding(venueID, exclude, bookings) {
		for _, d := range vb.Period.Days(c.loc) {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

func (c *Checker) holding(venueID uuid.UUID, exclude *uuid.UUID, bookings []VenueBooking) []VenueBooking {
	var out []VenueBooking
	for _, vb := range bookings {
		if vb.VenueID != venueID {
			continue
		}
		if exclude != nil && vb.BookingID == *exclude {
			continue
		}
		if !booking.IsCounting(vb.Status) {
			continue
		}
		out = append(out, vb)
	}
	return out
}
