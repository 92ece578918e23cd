package queries

import (
	"context"
	"log/slog"
	"time"

	"venue-booking/internal/domain/period"
	"venue-booking/internal/domain/pricing"
	"venue-booking/internal/infra"
	"venue-booking/internal/pkg/errs"
	"venue-booking/internal/pkg/metrics"
	"venue-booking/internal/pkg/patch"
	"venue-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type QuoteInput struct {
	PackageID   *uuid.UUID
	StartAt     *time.Time
	EndAt       *time.Time
	Pax         int `validate:"gte=0"`
	Catering    *shared.CateringInput
	Discount    *shared.DiscountInput
	Charges     []shared.ChargeInput `validate:"omitempty,dive"`
	DepositPaid *decimal.Decimal     `validate:"omitempty,gte=0"`
}

type AvailabilityInput struct {
	ExcludeBookingID *uuid.UUID
	VenueID          *uuid.UUID
	StartAt          *time.Time
	EndAt            *time.Time
	Items            []shared.ItemLine `validate:"omitempty,dive"`
}

type BillingView struct {
	BookingID              uuid.UUID       `json:"booking_id"`
	Status                 string          `json:"status"`
	DiscountID             *uuid.UUID      `json:"discount_id,omitempty"`
	BasePrice              decimal.Decimal `json:"base_price"`
	ExtraHoursFee          decimal.Decimal `json:"extra_hours_fee"`
	CateringCost           decimal.Decimal `json:"catering_cost"`
	OriginalPrice          decimal.Decimal `json:"original_price"`
	DiscountAmount         decimal.Decimal `json:"discount_amount"`
	DiscountedPrice        decimal.Decimal `json:"discounted_price"`
	AdditionalChargesTotal decimal.Decimal `json:"additional_charges_total"`
	GrandTotal             decimal.Decimal `json:"grand_total"`
	DepositPaid            decimal.Decimal `json:"deposit_paid"`
	BalanceDue             decimal.Decimal `json:"balance_due"`
	PaymentCount           int             `json:"payment_count"`
	PaymentsTotal          decimal.Decimal `json:"payments_total"`
	Outstanding            decimal.Decimal `json:"outstanding"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/queries/booking.go -package=queriesmock

type BookingQueries interface {
	Quote(ctx context.Context, in QuoteInput) (*pricing.Breakdown, error)
	CheckAvailability(ctx context.Context, in AvailabilityInput) (*shared.AvailabilityResult, error)
	VenueUnavailableDays(ctx context.Context, venueID uuid.UUID, exclude *uuid.UUID) ([]period.Day, error)
	GetBilling(ctx context.Context, bookingID uuid.UUID) (*BillingView, error)
}

type bookingQueriesImpl struct {
	reads  shared.CommandReads
	engine *shared.Engine
	cache  shared.VenueDaysCache
}

func NewBookingQueries(reads shared.CommandReads, engine *shared.Engine, cache shared.VenueDaysCache) BookingQueries {
	return &bookingQueriesImpl{reads: reads, engine: engine, cache: cache}
}

func (q *bookingQueriesImpl) Quote(ctx context.Context, in QuoteInput) (*pricing.Breakdown, error) {
	if err := shared.Validate(in); err != nil {
		return nil, err
	}
	p, err := shared.PeriodFrom(in.StartAt, in.EndAt)
	if err != nil {
		return nil, err
	}
	charges, err := shared.ToCharges(in.Charges)
	if err != nil {
		return nil, err
	}

	catering := shared.CateringSelection{Mode: pricing.CateringNone, Pax: in.Pax}
	if in.Catering != nil {
		if in.Catering.Mode != "" {
			catering.Mode = in.Catering.Mode
		}
		catering.MenuID = in.Catering.MenuID
		catering.PricePerPax = in.Catering.PricePerPax
	}

	pricingIn, err := q.engine.BuildPricingInput(ctx, q.reads, shared.PricingSelection{
		PackageID:   in.PackageID,
		Period:      p,
		Catering:    catering,
		Discount:    in.Discount.Choice(),
		Charges:     charges,
		DepositPaid: patch.Coalesce(in.DepositPaid, decimal.Zero),
	})
	if err != nil {
		return nil, err
	}

	breakdown := q.engine.Calculator.Compute(pricingIn)
	metrics.RecordQuote()
	return &breakdown, nil
}

func (q *bookingQueriesImpl) CheckAvailability(ctx context.Context, in AvailabilityInput) (*shared.AvailabilityResult, error) {
	if err := shared.Validate(in); err != nil {
		return nil, err
	}
	p, err := shared.PeriodFrom(in.StartAt, in.EndAt)
	if err != nil {
		return nil, err
	}

	result, err := q.engine.CheckAvailability(ctx, q.reads, shared.AvailabilityQuery{
		ExcludeBookingID: in.ExcludeBookingID,
		VenueID:          in.VenueID,
		Period:           p,
		Items:            shared.Demands(shared.MergeLines(in.Items)),
	})
	if err != nil {
		return nil, err
	}

	for _, it := range result.Items {
		metrics.RecordAvailabilityFinding("conflict", len(it.Report.Conflicts))
		metrics.RecordAvailabilityFinding("warning", len(it.Report.Warnings))
	}
	return result, nil
}

// VenueUnavailableDays lists the days a venue is held by counting bookings.
// Only the unfiltered list is cached; excluding a booking always reads through.
func (q *bookingQueriesImpl) VenueUnavailableDays(ctx context.Context, venueID uuid.UUID, exclude *uuid.UUID) ([]period.Day, error) {
	if _, err := q.reads.VenueByID(ctx, venueID); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrVenueNotFound)
		}
		return nil, err
	}

	if exclude == nil {
		days, ok, err := q.cache.Get(ctx, venueID)
		if err != nil {
			slog.Warn("venue days cache read failed", "venue_id", venueID.String(), "error", err.Error())
		}
		if ok {
			return days, nil
		}
	}

	snaps, err := q.reads.VenueBookings(ctx, venueID)
	if err != nil {
		return nil, err
	}
	days := q.engine.Checker.UnavailableDays(venueID, exclude, shared.ToVenueBookings(snaps))

	if exclude == nil {
		if err := q.cache.Set(ctx, venueID, days); err != nil {
			slog.Warn("venue days cache write failed", "venue_id", venueID.String(), "error", err.Error())
		}
	}
	return days, nil
}

func (q *bookingQueriesImpl) GetBilling(ctx context.Context, bookingID uuid.UUID) (*BillingView, error) {
	snap, err := q.reads.BookingByID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBookingNotFound)
		}
		return nil, err
	}

	b, err := q.reads.BillingByBookingID(ctx, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, errs.ErrBillingNotFound)
		}
		return nil, err
	}

	summary, err := q.reads.PaymentSummary(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	return &BillingView{
		BookingID:              b.BookingID,
		Status:                 snap.Status.String(),
		DiscountID:             b.DiscountID,
		BasePrice:              b.BasePrice,
		ExtraHoursFee:          b.ExtraHoursFee,
		CateringCost:           b.CateringCost,
		OriginalPrice:          b.OriginalPrice,
		DiscountAmount:         b.DiscountAmount,
		DiscountedPrice:        b.DiscountedPrice,
		AdditionalChargesTotal: b.AdditionalChargesTotal,
		GrandTotal:             b.GrandTotal,
		DepositPaid:            b.DepositPaid,
		BalanceDue:             b.BalanceDue,
		PaymentCount:           summary.Count,
		PaymentsTotal:          summary.Total,
		Outstanding:            b.BalanceDue.Sub(summary.Total),
		UpdatedAt:              b.UpdatedAt,
	}, nil
}
