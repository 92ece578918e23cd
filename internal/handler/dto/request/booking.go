package request

import (
	"time"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/pricing"
	"venue-booking/internal/usecase/commands"
	"venue-booking/internal/usecase/queries"
	"venue-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ItemLineRequest struct {
	ItemID   uuid.UUID `json:"itemId" binding:"required"`
	Quantity int       `json:"quantity" binding:"required,gt=0"`
}

type ChargeRequest struct {
	Name   string          `json:"name" binding:"required,max=200"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note" binding:"max=500"`
}

type CateringRequest struct {
	Mode        string           `json:"mode" binding:"omitempty,oneof=none external in_house"`
	MenuID      *uuid.UUID       `json:"menuId,omitempty"`
	PricePerPax *decimal.Decimal `json:"pricePerPax,omitempty"`
}

type CustomDiscountRequest struct {
	Name  string          `json:"name" binding:"required,max=200"`
	Kind  string          `json:"kind" binding:"required,oneof=percent amount"`
	Value decimal.Decimal `json:"value"`
}

type DiscountRequest struct {
	Mode       string                 `json:"mode" binding:"omitempty,oneof=none predefined custom"`
	DiscountID *uuid.UUID             `json:"discountId,omitempty"`
	Custom     *CustomDiscountRequest `json:"custom,omitempty"`
}

// SaveBookingRequest is shared by create and edit. On edit, omitted fields keep their values.
type SaveBookingRequest struct {
	VenueID             *uuid.UUID        `json:"venueId,omitempty"`
	PackageID           *uuid.UUID        `json:"packageId,omitempty"`
	StartAt             *time.Time        `json:"startAt,omitempty"`
	EndAt               *time.Time        `json:"endAt,omitempty"`
	Pax                 *int              `json:"pax,omitempty" binding:"omitempty,gte=0"`
	Catering            *CateringRequest  `json:"catering,omitempty"`
	Discount            *DiscountRequest  `json:"discount,omitempty"`
	Charges             []ChargeRequest   `json:"charges,omitempty" binding:"omitempty,dive"`
	Items               []ItemLineRequest `json:"items,omitempty" binding:"omitempty,dive"`
	DepositPaid         *decimal.Decimal  `json:"depositPaid,omitempty"`
	Draft               *bool             `json:"draft,omitempty"`
	AcknowledgmentToken string            `json:"acknowledgmentToken,omitempty"`
}

func (r SaveBookingRequest) ToInput(bookingID *uuid.UUID) commands.SaveBookingInput {
	return commands.SaveBookingInput{
		BookingID:           bookingID,
		VenueID:             r.VenueID,
		PackageID:           r.PackageID,
		StartAt:             r.StartAt,
		EndAt:               r.EndAt,
		Pax:                 r.Pax,
		Catering:            r.Catering.toInput(),
		Discount:            r.Discount.toInput(),
		Charges:             toCharges(r.Charges),
		Items:               toLines(r.Items),
		DepositPaid:         r.DepositPaid,
		Draft:               r.Draft,
		AcknowledgmentToken: r.AcknowledgmentToken,
	}
}

type QuoteRequest struct {
	PackageID   *uuid.UUID       `json:"packageId,omitempty"`
	StartAt     *time.Time       `json:"startAt,omitempty"`
	EndAt       *time.Time       `json:"endAt,omitempty"`
	Pax         int              `json:"pax" binding:"gte=0"`
	Catering    *CateringRequest `json:"catering,omitempty"`
	Discount    *DiscountRequest `json:"discount,omitempty"`
	Charges     []ChargeRequest  `json:"charges,omitempty" binding:"omitempty,dive"`
	DepositPaid *decimal.Decimal `json:"depositPaid,omitempty"`
}

func (r QuoteRequest) ToInput() queries.QuoteInput {
	return queries.QuoteInput{
		PackageID:   r.PackageID,
		StartAt:     r.StartAt,
		EndAt:       r.EndAt,
		Pax:         r.Pax,
		Catering:    r.Catering.toInput(),
		Discount:    r.Discount.toInput(),
		Charges:     toCharges(r.Charges),
		DepositPaid: r.DepositPaid,
	}
}

type AvailabilityRequest struct {
	ExcludeBookingID *uuid.UUID        `json:"excludeBookingId,omitempty"`
	VenueID          *uuid.UUID        `json:"venueId,omitempty"`
	StartAt          *time.Time        `json:"startAt,omitempty"`
	EndAt            *time.Time        `json:"endAt,omitempty"`
	Items            []ItemLineRequest `json:"items" binding:"omitempty,dive"`
}

func (r AvailabilityRequest) ToInput() queries.AvailabilityInput {
	return queries.AvailabilityInput{
		ExcludeBookingID: r.ExcludeBookingID,
		VenueID:          r.VenueID,
		StartAt:          r.StartAt,
		EndAt:            r.EndAt,
		Items:            toLines(r.Items),
	}
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=canceled archived draft"`
}

func (r SetStatusRequest) ToManualState() (booking.ManualState, error) {
	return booking.ParseManual(r.Status)
}

type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	PaidAt *time.Time      `json:"paidAt,omitempty"`
}

func (r RecordPaymentRequest) ToInput(bookingID uuid.UUID) commands.RecordPaymentInput {
	return commands.RecordPaymentInput{BookingID: bookingID, Amount: r.Amount, PaidAt: r.PaidAt}
}

func (r *CateringRequest) toInput() *shared.CateringInput {
	if r == nil {
		return nil
	}
	return &shared.CateringInput{Mode: pricing.CateringMode(r.Mode), MenuID: r.MenuID, PricePerPax: r.PricePerPax}
}

func (r *DiscountRequest) toInput() *shared.DiscountInput {
	if r == nil {
		return nil
	}
	in := &shared.DiscountInput{Mode: pricing.DiscountMode(r.Mode), DiscountID: r.DiscountID}
	if r.Custom != nil {
		in.Custom = &shared.CustomDiscountInput{Name: r.Custom.Name, Kind: pricing.DiscountKind(r.Custom.Kind), Value: r.Custom.Value}
	}
	return in
}

func toCharges(in []ChargeRequest) []shared.ChargeInput {
	if in == nil {
		return nil
	}
	out := make([]shared.ChargeInput, 0, len(in))
	for _, c := range in {
		out = append(out, shared.ChargeInput{Name: c.Name, Amount: c.Amount, Note: c.Note})
	}
	return out
}

func toLines(in []ItemLineRequest) []shared.ItemLine {
	if in == nil {
		return nil
	}
	out := make([]shared.ItemLine, 0, len(in))
	for _, l := range in {
		out = append(out, shared.ItemLine{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	return out
}
