package shared

import (
	"time"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingSnapshot struct {
	ID           uuid.UUID
	VenueID      *uuid.UUID
	PackageID    *uuid.UUID
	CateringMode pricing.CateringMode
	StartAt      *time.Time
	EndAt        *time.Time
	Pax          int
	Charges      []pricing.Charge
	Status       booking.Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type VenueSnapshot struct {
	ID                uuid.UUID
	Name              string
	AllocationVersion int64
}

type PackageSnapshot struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
}

type MenuSnapshot struct {
	ID          uuid.UUID
	Name        string
	PricePerPax decimal.Decimal
}

type DiscountSnapshot struct {
	ID         uuid.UUID
	Name       string
	PercentOff *decimal.Decimal
	AmountOff  *decimal.Decimal
}

type ItemSnapshot struct {
	ID                uuid.UUID
	Name              string
	TotalQuantity     int
	OutOfService      int
	AllocationVersion int64
}

type AllocationSnapshot struct {
	ItemID    uuid.UUID
	BookingID uuid.UUID
	VenueID   *uuid.UUID
	Quantity  int
	StartAt   *time.Time
	EndAt     *time.Time
	Status    booking.Status
}

type VenueBookingSnapshot struct {
	BookingID uuid.UUID
	VenueID   uuid.UUID
	StartAt   time.Time
	EndAt     time.Time
	Status    booking.Status
}

type BillingSnapshot struct {
	BookingID              uuid.UUID
	DiscountID             *uuid.UUID
	BasePrice              decimal.Decimal
	ExtraHoursFee          decimal.Decimal
	CateringCost           decimal.Decimal
	OriginalPrice          decimal.Decimal
	DiscountAmount         decimal.Decimal
	DiscountedPrice        decimal.Decimal
	AdditionalChargesTotal decimal.Decimal
	GrandTotal             decimal.Decimal
	DepositPaid            decimal.Decimal
	BalanceDue             decimal.Decimal
	UpdatedAt              time.Time
}

type PaymentSummary struct {
	Count int
	Total decimal.Decimal
}

// StatusInputSnapshot carries what the status refresh needs for one dated booking.
type StatusInputSnapshot struct {
	BookingID    uuid.UUID
	StartAt      time.Time
	EndAt        time.Time
	Status       booking.Status
	PaymentCount int
	PaidTotal    decimal.Decimal
	DepositPaid  decimal.Decimal
	GrandTotal   *decimal.Decimal
}

// AllocationLine is one committed quantity of an item for a booking.
type AllocationLine struct {
	ItemID   uuid.UUID
	Quantity int
}
