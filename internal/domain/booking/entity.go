package booking

import (
	"errors"
	"time"

	"venue-booking/internal/domain/period"
	"venue-booking/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrPeriodRequired  = errors.New("event dates are required")
	ErrPaxRequired     = errors.New("pax must be greater than zero")
	ErrNegativePax     = errors.New("pax cannot be negative")
	ErrInvalidCatering = errors.New("invalid catering mode")
)

type Booking struct {
	id        uuid.UUID
	venueID   *uuid.UUID
	packageID *uuid.UUID
	catering  pricing.CateringMode
	period    *period.Period
	pax       int
	charges   []pricing.Charge
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking builds a booking that may still be incomplete. Call Finalize
// before treating it as anything other than a draft.
func NewBooking(
	id uuid.UUID,
	venueID, packageID *uuid.UUID,
	catering pricing.CateringMode,
	p *period.Period,
	pax int,
	charges []pricing.Charge,
	now time.Time,
) (*Booking, error) {
	if pax < 0 {
		return nil, ErrNegativePax
	}
	if catering == "" {
		catering = pricing.CateringNone
	}
	if !catering.IsValid() {
		return nil, ErrInvalidCatering
	}
	if id == uuid.Nil {
		id = uuid.New()
	}

	return &Booking{
		id:        id,
		venueID:   venueID,
		packageID: packageID,
		catering:  catering,
		period:    p,
		pax:       pax,
		charges:   charges,
		status:    StatusPending,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructBooking(
	id uuid.UUID,
	venueID, packageID *uuid.UUID,
	catering pricing.CateringMode,
	p *period.Period,
	pax int,
	charges []pricing.Charge,
	status Status,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:        id,
		venueID:   venueID,
		packageID: packageID,
		catering:  catering,
		period:    p,
		pax:       pax,
		charges:   charges,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Finalize checks the fields a non-draft booking must carry.
func (b *Booking) Finalize() error {
	if b.period == nil {
		return ErrPeriodRequired
	}
	if b.pax <= 0 {
		return ErrPaxRequired
	}
	return nil
}

func (b *Booking) SetStatus(s Status, now time.Time) {
	b.status = s
	b.updatedAt = now
}

func (b *Booking) IsCounting() bool {
	return IsCounting(b.status)
}

func (b *Booking) ID() uuid.UUID                  { return b.id }
func (b *Booking) VenueID() *uuid.UUID            { return b.venueID }
func (b *Booking) PackageID() *uuid.UUID          { return b.packageID }
func (b *Booking) Catering() pricing.CateringMode { return b.catering }
func (b *Booking) Period() *period.Period         { return b.period }
func (b *Booking) Pax() int                       { return b.pax }
func (b *Booking) Charges() []pricing.Charge      { return b.charges }
func (b *Booking) Status() Status                 { return b.status }
func (b *Booking) CreatedAt() time.Time           { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time           { return b.updatedAt }
