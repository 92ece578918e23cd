package inventory

import (
	"fmt"
	"time"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/period"

	"github.com/google/uuid"
)

const DefaultLowStockThreshold = 5

type MessageKind string

const (
	KindConflict          MessageKind = "conflict"
	KindInsufficientStock MessageKind = "insufficient_stock"
	KindLowStock          MessageKind = "low_stock"
)

// Message is a human-readable finding plus the ids needed to highlight it.
type Message struct {
	Kind      MessageKind `json:"kind"`
	Text      string      `json:"text"`
	BookingID *uuid.UUID  `json:"booking_id,omitempty"`
	VenueID   *uuid.UUID  `json:"venue_id,omitempty"`
	Quantity  int         `json:"quantity"`
	Available int         `json:"available"`
}

// Report is advisory. Conflicts and warnings never block on their own.
type Report struct {
	Conflicts     []Message `json:"conflicts"`
	Warnings      []Message `json:"warnings"`
	Available     int       `json:"available"`
	UsedOnOverlap int       `json:"used_on_overlap"`
}

func (r Report) HasConflicts() bool { return len(r.Conflicts) > 0 }
func (r Report) HasWarnings() bool  { return len(r.Warnings) > 0 }

type Allocation struct {
	ItemID        uuid.UUID
	BookingID     uuid.UUID
	VenueID       *uuid.UUID
	Quantity      int
	Period        period.Period
	BookingStatus booking.Status
}

// Request asks for quantity of one item. A nil Period means the booking has no
// dates yet, so only static stock is considered.
type Request struct {
	ItemID           uuid.UUID
	ExcludeBookingID *uuid.UUID
	Quantity         int
	Period           *period.Period
}

type Checker struct {
	lowStockThreshold int
	loc               *time.Location
}

func NewChecker(lowStockThreshold int, loc *time.Location) *Checker {
	if loc == nil {
		loc = time.UTC
	}
	return &Checker{lowStockThreshold: lowStockThreshold, loc: loc}
}

func (c *Checker) Location() *time.Location { return c.loc }

func (c *Checker) Check(req Request, allocations []Allocation, stock Stock) Report {
	report := Report{Conflicts: []Message{}, Warnings: []Message{}}
	usable := stock.Usable()

	if req.Period == nil {
		report.Available = usable
		if req.Quantity > usable {
			report.Warnings = append(report.Warnings, insufficient(req.Quantity, usable))
		}
		return report
	}

	type owner struct {
		booking uuid.UUID
		venue   uuid.UUID
	}
	var order []owner
	groups := make(map[owner]*Message)

	used := 0
	for _, a := range allocations {
		if !c.counts(a, req) {
			continue
		}
		used += a.Quantity

		key := owner{booking: a.BookingID}
		if a.VenueID != nil {
			key.venue = *a.VenueID
		}
		if m, ok := groups[key]; ok {
			m.Quantity += a.Quantity
			continue
		}
		bookingID := a.BookingID
		groups[key] = &Message{Kind: KindConflict, BookingID: &bookingID, VenueID: a.VenueID, Quantity: a.Quantity}
		order = append(order, key)
	}

	for _, key := range order {
		m := groups[key]
		m.Text = fmt.Sprintf("%d already allocated to an overlapping booking", m.Quantity)
		report.Conflicts = append(report.Conflicts, *m)
	}

	report.UsedOnOverlap = used
	report.Available = usable - used

	if req.Quantity > report.Available {
		report.Warnings = append(report.Warnings, insufficient(req.Quantity, report.Available))
		return report
	}

	if remaining := report.Available - req.Quantity; remaining < c.lowStockThreshold {
		report.Warnings = append(report.Warnings, Message{
			Kind:      KindLowStock,
			Text:      fmt.Sprintf("Low stock: only %d left after this booking", remaining),
			Quantity:  req.Quantity,
			Available: remaining,
		})
	}

	return report
}

func (c *Checker) counts(a Allocation, req Request) bool {
	if a.ItemID != req.ItemID {
		return false
	}
	if req.ExcludeBookingID != nil && a.BookingID == *req.ExcludeBookingID {
		return false
	}
	if !booking.IsCounting(a.BookingStatus) {
		return false
	}
	return a.Period.DaysOverlap(*req.Period, c.loc)
}

func insufficient(requested, available int) Message {
	if available < 0 {
		available = 0
	}
	return Message{
		Kind:      KindInsufficientStock,
		Text:      fmt.Sprintf("Insufficient stock: %d requested, only %d available", requested, available),
		Quantity:  requested,
		Available: available,
	}
}
