package response

import (
	"time"

	"venue-booking/internal/domain/inventory"
	"venue-booking/internal/domain/period"
	"venue-booking/internal/domain/pricing"
	"venue-booking/internal/pkg/errs"
	"venue-booking/internal/usecase/commands"
	"venue-booking/internal/usecase/queries"
	"venue-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

type AppliedDiscountResponse struct {
	Name  string          `json:"name"`
	Kind  string          `json:"kind"`
	Value decimal.Decimal `json:"value"`
}

// BreakdownResponse carries currency rounded to whole units.
type BreakdownResponse struct {
	BasePrice              decimal.Decimal          `json:"basePrice"`
	DurationHours          int                      `json:"durationHours"`
	ExtraHours             int                      `json:"extraHours"`
	ExtraHoursFee          decimal.Decimal          `json:"extraHoursFee"`
	CateringCost           decimal.Decimal          `json:"cateringCost"`
	OriginalPrice          decimal.Decimal          `json:"originalPrice"`
	DiscountAmount         decimal.Decimal          `json:"discountAmount"`
	DiscountedPrice        decimal.Decimal          `json:"discountedPrice"`
	AdditionalChargesTotal decimal.Decimal          `json:"additionalChargesTotal"`
	GrandTotal             decimal.Decimal          `json:"grandTotal"`
	DepositPaid            decimal.Decimal          `json:"depositPaid"`
	BalanceDue             decimal.Decimal          `json:"balanceDue"`
	AppliedDiscount        *AppliedDiscountResponse `json:"appliedDiscount,omitempty"`
}

type MessageResponse struct {
	Kind      string     `json:"kind"`
	Text      string     `json:"text"`
	BookingID *uuid.UUID `json:"bookingId,omitempty"`
	VenueID   *uuid.UUID `json:"venueId,omitempty"`
	Quantity  int        `json:"quantity"`
	Available int        `json:"available"`
}

type ReportResponse struct {
	Conflicts     []MessageResponse `json:"conflicts"`
	Warnings      []MessageResponse `json:"warnings"`
	Available     int               `json:"available"`
	UsedOnOverlap int               `json:"usedOnOverlap"`
}

type ItemAvailabilityResponse struct {
	ItemID    uuid.UUID      `json:"itemId"`
	ItemName  string         `json:"itemName"`
	Requested int            `json:"requested"`
	Report    ReportResponse `json:"report"`
}

type AvailabilityResponse struct {
	HasConflicts bool                       `json:"hasConflicts"`
	Items        []ItemAvailabilityResponse `json:"items"`
	Venue        *ReportResponse            `json:"venue,omitempty"`
}

type SaveBookingResponse struct {
	ID                  uuid.UUID            `json:"id"`
	Created             bool                 `json:"created"`
	Status              string               `json:"status"`
	Breakdown           BreakdownResponse    `json:"breakdown"`
	Availability        AvailabilityResponse `json:"availability"`
	AcknowledgmentToken string               `json:"acknowledgmentToken"`
}

// AcknowledgmentDetail is returned with 409 when conflicts need acknowledgment.
type AcknowledgmentDetail struct {
	AcknowledgmentToken string               `json:"acknowledgmentToken"`
	Availability        AvailabilityResponse `json:"availability"`
}

type BillingResponse struct {
	BookingID              uuid.UUID       `json:"bookingId"`
	Status                 string          `json:"status"`
	DiscountID             *uuid.UUID      `json:"discountId,omitempty"`
	BasePrice              decimal.Decimal `json:"basePrice"`
	ExtraHoursFee          decimal.Decimal `json:"extraHoursFee"`
	CateringCost           decimal.Decimal `json:"cateringCost"`
	OriginalPrice          decimal.Decimal `json:"originalPrice"`
	DiscountAmount         decimal.Decimal `json:"discountAmount"`
	DiscountedPrice        decimal.Decimal `json:"discountedPrice"`
	AdditionalChargesTotal decimal.Decimal `json:"additionalChargesTotal"`
	GrandTotal             decimal.Decimal `json:"grandTotal"`
	DepositPaid            decimal.Decimal `json:"depositPaid"`
	BalanceDue             decimal.Decimal `json:"balanceDue"`
	PaymentCount           int             `json:"paymentCount"`
	PaymentsTotal          decimal.Decimal `json:"paymentsTotal"`
	Outstanding            decimal.Decimal `json:"outstanding"`
	UpdatedAt              time.Time       `json:"updatedAt"`
}

type PaymentResponse struct {
	PaymentID uuid.UUID `json:"paymentId"`
	Status    string    `json:"status"`
}

type UnavailableDaysResponse struct {
	VenueID uuid.UUID    `json:"venueId"`
	Days    []period.Day `json:"days"`
}

type RefreshStatusesResponse struct {
	Changed int `json:"changed"`
}

func FromBreakdown(b pricing.Breakdown) (BreakdownResponse, error) {
	r := b.Rounded()
	var out BreakdownResponse
	if err := copier.Copy(&out, &r); err != nil {
		return BreakdownResponse{}, errs.Wrap(err, "failed to map breakdown")
	}
	out.AppliedDiscount = nil
	if r.AppliedDiscount != nil {
		out.AppliedDiscount = &AppliedDiscountResponse{
			Name:  r.AppliedDiscount.Name,
			Kind:  string(r.AppliedDiscount.Kind),
			Value: r.AppliedDiscount.Value,
		}
	}
	return out, nil
}

func FromReport(r inventory.Report) (ReportResponse, error) {
	conflicts, err := fromMessages(r.Conflicts)
	if err != nil {
		return ReportResponse{}, err
	}
	warnings, err := fromMessages(r.Warnings)
	if err != nil {
		return ReportResponse{}, err
	}
	return ReportResponse{
		Conflicts:     conflicts,
		Warnings:      warnings,
		Available:     r.Available,
		UsedOnOverlap: r.UsedOnOverlap,
	}, nil
}

func fromMessages(msgs []inventory.Message) ([]MessageResponse, error) {
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		var mr MessageResponse
		if err := copier.Copy(&mr, &m); err != nil {
			return nil, errs.Wrap(err, "failed to map availability message")
		}
		mr.Kind = string(m.Kind)
		out = append(out, mr)
	}
	return out, nil
}

func FromAvailability(r *shared.AvailabilityResult) (AvailabilityResponse, error) {
	out := AvailabilityResponse{Items: []ItemAvailabilityResponse{}}
	if r == nil {
		return out, nil
	}
	out.HasConflicts = r.HasConflicts()
	for _, it := range r.Items {
		report, err := FromReport(it.Report)
		if err != nil {
			return AvailabilityResponse{}, err
		}
		out.Items = append(out.Items, ItemAvailabilityResponse{
			ItemID:    it.ItemID,
			ItemName:  it.ItemName,
			Requested: it.Requested,
			Report:    report,
		})
	}
	if r.Venue != nil {
		venue, err := FromReport(*r.Venue)
		if err != nil {
			return AvailabilityResponse{}, err
		}
		out.Venue = &venue
	}
	return out, nil
}

func FromSaveResult(res *commands.SaveBookingResult) (SaveBookingResponse, error) {
	breakdown, err := FromBreakdown(res.Breakdown)
	if err != nil {
		return SaveBookingResponse{}, err
	}
	availability, err := FromAvailability(res.Availability)
	if err != nil {
		return SaveBookingResponse{}, err
	}
	out := SaveBookingResponse{
		ID:                  res.BookingID,
		Created:             res.Created,
		Breakdown:           breakdown,
		Availability:        availability,
		AcknowledgmentToken: res.AcknowledgmentToken,
	}
	if res.Status != nil {
		out.Status = res.Status.String()
	}
	return out, nil
}

func FromAcknowledgment(res *commands.SaveBookingResult) (AcknowledgmentDetail, error) {
	availability, err := FromAvailability(res.Availability)
	if err != nil {
		return AcknowledgmentDetail{}, err
	}
	return AcknowledgmentDetail{
		AcknowledgmentToken: res.AcknowledgmentToken,
		Availability:        availability,
	}, nil
}

func FromBillingView(v *queries.BillingView) (*BillingResponse, error) {
	var out BillingResponse
	if err := copier.Copy(&out, v); err != nil {
		return nil, errs.Wrap(err, "failed to map billing")
	}
	return &out, nil
}

func FromPaymentResult(res *commands.RecordPaymentResult) PaymentResponse {
	out := PaymentResponse{PaymentID: res.PaymentID}
	if res.Status != nil {
		out.Status = res.Status.String()
	}
	return out
}

type BookingStatusResponse struct {
	ID     uuid.UUID `json:"id"`
	Status string    `json:"status"`
}
