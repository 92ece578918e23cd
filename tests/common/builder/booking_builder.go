//go:build unit || e2e

package builder

import (
	"time"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/pricing"
	reqdto "venue-booking/internal/handler/dto/request"
	"venue-booking/internal/usecase/commands"
	"venue-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingBuilder struct {
	ID          uuid.UUID
	VenueID     uuid.UUID
	PackageID   uuid.UUID
	StartAt     time.Time
	EndAt       time.Time
	Pax         int
	Items       []reqdto.ItemLineRequest
	Charges     []reqdto.ChargeRequest
	DiscountID  *uuid.UUID
	DepositPaid decimal.Decimal
	Draft       *bool
	Token       string
}

func NewBookingBuilder() *BookingBuilder {
	start := time.Date(2025, 7, 20, 10, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		ID:          uuid.New(),
		VenueID:     uuid.New(),
		PackageID:   uuid.New(),
		StartAt:     start,
		EndAt:       start.Add(7 * time.Hour),
		Pax:         100,
		DepositPaid: decimal.NewFromInt(5000),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithItem(itemID uuid.UUID, qty int) *BookingBuilder {
	b.Items = append(b.Items, reqdto.ItemLineRequest{ItemID: itemID, Quantity: qty})
	return b
}

func (b *BookingBuilder) WithCharge(name string, amount int64) *BookingBuilder {
	b.Charges = append(b.Charges, reqdto.ChargeRequest{Name: name, Amount: decimal.NewFromInt(amount)})
	return b
}

func (b *BookingBuilder) WithDiscount(id uuid.UUID) *BookingBuilder {
	b.DiscountID = &id
	return b
}

// Build methods
func (b *BookingBuilder) BuildSaveRequestDTO() reqdto.SaveBookingRequest {
	venueID, packageID := b.VenueID, b.PackageID
	start, end := b.StartAt, b.EndAt
	pax := b.Pax
	deposit := b.DepositPaid

	req := reqdto.SaveBookingRequest{
		VenueID:             &venueID,
		PackageID:           &packageID,
		StartAt:             &start,
		EndAt:               &end,
		Pax:                 &pax,
		Charges:             b.Charges,
		Items:               b.Items,
		DepositPaid:         &deposit,
		Draft:               b.Draft,
		AcknowledgmentToken: b.Token,
	}
	if b.DiscountID != nil {
		id := *b.DiscountID
		req.Discount = &reqdto.DiscountRequest{Mode: string(pricing.DiscountPredefined), DiscountID: &id}
	}
	return req
}

func (b *BookingBuilder) BuildQuoteRequestDTO() reqdto.QuoteRequest {
	packageID := b.PackageID
	start, end := b.StartAt, b.EndAt
	deposit := b.DepositPaid

	req := reqdto.QuoteRequest{
		PackageID:   &packageID,
		StartAt:     &start,
		EndAt:       &end,
		Pax:         b.Pax,
		Charges:     b.Charges,
		DepositPaid: &deposit,
	}
	if b.DiscountID != nil {
		id := *b.DiscountID
		req.Discount = &reqdto.DiscountRequest{Mode: string(pricing.DiscountPredefined), DiscountID: &id}
	}
	return req
}

func (b *BookingBuilder) BuildSaveResult(created bool, status booking.Status) *commands.SaveBookingResult {
	return &commands.SaveBookingResult{
		BookingID: b.ID,
		Created:   created,
		Status:    status,
		Breakdown: pricing.Breakdown{
			BasePrice:       decimal.NewFromInt(20000),
			DurationHours:   7,
			ExtraHours:      2,
			ExtraHoursFee:   decimal.NewFromInt(4000),
			OriginalPrice:   decimal.NewFromInt(24000),
			DiscountedPrice: decimal.NewFromInt(24000),
			GrandTotal:      decimal.NewFromInt(24000),
			DepositPaid:     b.DepositPaid,
			BalanceDue:      decimal.NewFromInt(24000).Sub(b.DepositPaid),
		},
		Availability:        &shared.AvailabilityResult{},
		AcknowledgmentToken: "token-" + b.ID.String(),
	}
}
