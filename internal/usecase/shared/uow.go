package shared

import (
	"context"
	"time"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/period"
	"venue-booking/internal/domain/pricing"
	"venue-booking/internal/infra"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UnitOfWork interface {
	// Within: Serializable transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Allocations() AllocationRepository
	Items() ItemRepository
	Venues() VenueRepository
	Billings() BillingRepository
	Discounts() DiscountRepository
	Payments() PaymentRepository
	Reads() CommandReads
	DB() infra.DBTX
}

type CommandReads interface {
	BookingByID(ctx context.Context, id uuid.UUID) (*BookingSnapshot, error)
	VenueByID(ctx context.Context, id uuid.UUID) (*VenueSnapshot, error)
	PackageByID(ctx context.Context, id uuid.UUID) (*PackageSnapshot, error)
	MenuByID(ctx context.Context, id uuid.UUID) (*MenuSnapshot, error)
	DiscountByID(ctx context.Context, id uuid.UUID) (*DiscountSnapshot, error)
	ItemByID(ctx context.Context, id uuid.UUID) (*ItemSnapshot, error)
	AllocationsForItem(ctx context.Context, itemID uuid.UUID) ([]AllocationSnapshot, error)
	AllocationsForBooking(ctx context.Context, bookingID uuid.UUID) ([]AllocationSnapshot, error)
	VenueBookings(ctx context.Context, venueID uuid.UUID) ([]VenueBookingSnapshot, error)
	BillingByBookingID(ctx context.Context, bookingID uuid.UUID) (*BillingSnapshot, error)
	PaymentSummary(ctx context.Context, bookingID uuid.UUID) (*PaymentSummary, error)
	StatusInputs(ctx context.Context) ([]StatusInputSnapshot, error)
}

type BookingRepository interface {
	Save(ctx context.Context, b *booking.Booking) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status, now time.Time) error
}

type AllocationRepository interface {
	ReplaceForBooking(ctx context.Context, bookingID uuid.UUID, venueID *uuid.UUID, lines []AllocationLine) error
}

type ItemRepository interface {
	// LockVersions takes row locks on the items and returns their allocation versions.
	LockVersions(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	BumpVersions(ctx context.Context, itemIDs []uuid.UUID) error
}

// VenueRepository versions the set of bookings held by a venue, the same way
// ItemRepository does for allocations.
type VenueRepository interface {
	LockVersions(ctx context.Context, venueIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	BumpVersions(ctx context.Context, venueIDs []uuid.UUID) error
}

type BillingRepository interface {
	Upsert(ctx context.Context, bookingID uuid.UUID, discountID *uuid.UUID, b pricing.Breakdown) error
}

type DiscountRepository interface {
	Create(ctx context.Context, d *pricing.Discount) error
}

type PaymentRepository interface {
	Create(ctx context.Context, bookingID uuid.UUID, amount decimal.Decimal, paidAt time.Time) (uuid.UUID, error)
}

// VenueDaysCache stores the unavailable days of a venue. Misses return ok=false.
type VenueDaysCache interface {
	Get(ctx context.Context, venueID uuid.UUID) (days []period.Day, ok bool, err error)
	Set(ctx context.Context, venueID uuid.UUID, days []period.Day) error
	Invalidate(ctx context.Context, venueIDs ...uuid.UUID) error
}
