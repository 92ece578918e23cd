package shared

import (
	"context"
	"log/slog"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/inventory"
	"venue-booking/internal/domain/period"
	"venue-booking/internal/domain/pricing"
	"venue-booking/internal/infra"
	"venue-booking/internal/pkg/clock"
	"venue-booking/internal/pkg/config"
	"venue-booking/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Engine bundles the three pure booking components with their configuration.
type Engine struct {
	Calculator *pricing.Calculator
	Checker    *inventory.Checker
	Resolver   *booking.Resolver
}

func NewEngine(cfg config.EngineConfig, clk clock.Clock) (*Engine, error) {
	rate, err := decimal.NewFromString(cfg.HourlyRate)
	if err != nil {
		return nil, errs.Wrap(err, "invalid hourly rate")
	}
	loc := cfg.Location()

	return &Engine{
		Calculator: pricing.NewCalculator(rate, cfg.IncludedHours),
		Checker:    inventory.NewChecker(cfg.LowStockThreshold, loc),
		Resolver:   booking.NewResolver(clk, loc),
	}, nil
}

type CateringSelection struct {
	Mode        pricing.CateringMode
	Pax         int
	MenuID      *uuid.UUID
	PricePerPax *decimal.Decimal
}

type DiscountChoice struct {
	Mode       pricing.DiscountMode
	DiscountID *uuid.UUID
	Custom     *pricing.CustomDiscount
}

// PricingSelection holds ids still to be resolved into a pricing.PricingInput.
type PricingSelection struct {
	PackageID   *uuid.UUID
	Period      *period.Period
	Catering    CateringSelection
	Discount    DiscountChoice
	Charges     []pricing.Charge
	DepositPaid decimal.Decimal
}

// BuildPricingInput resolves package, menu and discount ids. Ids that no longer
// exist degrade to "not selected" instead of failing the quote.
func (e *Engine) BuildPricingInput(ctx context.Context, reads CommandReads, sel PricingSelection) (pricing.PricingInput, error) {
	in := pricing.PricingInput{
		Period:      sel.Period,
		Catering:    pricing.Catering{Mode: sel.Catering.Mode, Pax: sel.Catering.Pax, PricePerPax: decimal.Zero},
		Discount:    pricing.DiscountSelection{Mode: sel.Discount.Mode},
		Charges:     sel.Charges,
		DepositPaid: sel.DepositPaid,
	}

	if sel.PackageID != nil {
		pkg, err := reads.PackageByID(ctx, *sel.PackageID)
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			slog.Debug("package not found, pricing without package", "package_id", sel.PackageID.String())
		case err != nil:
			return pricing.PricingInput{}, err
		default:
			in.Package = &pricing.Package{ID: pkg.ID, Name: pkg.Name, Price: pkg.Price}
		}
	}

	if sel.Catering.Mode == pricing.CateringInHouse {
		switch {
		case sel.Catering.PricePerPax != nil:
			in.Catering.PricePerPax = *sel.Catering.PricePerPax
		case sel.Catering.MenuID != nil:
			menu, err := reads.MenuByID(ctx, *sel.Catering.MenuID)
			switch {
			case infra.IsKind(err, infra.KindNotFound):
				slog.Debug("menu not found, catering priced at zero", "menu_id", sel.Catering.MenuID.String())
			case err != nil:
				return pricing.PricingInput{}, err
			default:
				in.Catering.PricePerPax = menu.PricePerPax
			}
		}
	}

	switch sel.Discount.Mode {
	case pricing.DiscountPredefined:
		if sel.Discount.DiscountID == nil {
			break
		}
		d, err := reads.DiscountByID(ctx, *sel.Discount.DiscountID)
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			slog.Debug("discount not found, pricing without discount", "discount_id", sel.Discount.DiscountID.String())
		case err != nil:
			return pricing.PricingInput{}, err
		default:
			in.Discount.Predefined = pricing.ReconstructDiscount(d.ID, d.Name, d.PercentOff, d.AmountOff)
		}
	case pricing.DiscountCustom:
		in.Discount.Custom = sel.Discount.Custom
	}

	return in, nil
}

type ItemDemand struct {
	ItemID   uuid.UUID
	Quantity int
}

type AvailabilityQuery struct {
	ExcludeBookingID *uuid.UUID
	VenueID          *uuid.UUID
	Period           *period.Period
	Items            []ItemDemand
}

type ItemAvailability struct {
	ItemID            uuid.UUID
	ItemName          string
	Requested         int
	AllocationVersion int64
	Report            inventory.Report
}

type AvailabilityResult struct {
	Items []ItemAvailability
	Venue *inventory.Report

	// VenueID and VenueVersion are set when Venue was checked.
	VenueID      *uuid.UUID
	VenueVersion int64
}

func (r *AvailabilityResult) HasConflicts() bool {
	if r.Venue != nil && r.Venue.HasConflicts() {
		return true
	}
	for _, it := range r.Items {
		if it.Report.HasConflicts() {
			return true
		}
	}
	return false
}

func (r *AvailabilityResult) Versions() map[uuid.UUID]int64 {
	out := make(map[uuid.UUID]int64, len(r.Items))
	for _, it := range r.Items {
		out[it.ItemID] = it.AllocationVersion
	}
	return out
}

// CheckAvailability runs the item checker for every demand line and the venue
// check when both a venue and dates are present.
func (e *Engine) CheckAvailability(ctx context.Context, reads CommandReads, q AvailabilityQuery) (*AvailabilityResult, error) {
	result := &AvailabilityResult{}

	for _, demand := range q.Items {
		item, err := reads.ItemByID(ctx, demand.ItemID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, errs.Mark(err, errs.ErrItemNotFound)
			}
			return nil, err
		}

		snaps, err := reads.AllocationsForItem(ctx, demand.ItemID)
		if err != nil {
			return nil, err
		}

		report := e.Checker.Check(inventory.Request{
			ItemID:           demand.ItemID,
			ExcludeBookingID: q.ExcludeBookingID,
			Quantity:         demand.Quantity,
			Period:           q.Period,
		}, toAllocations(snaps), inventory.Stock{Total: item.TotalQuantity, OutOfService: item.OutOfService})

		result.Items = append(result.Items, ItemAvailability{
			ItemID:            item.ID,
			ItemName:          item.Name,
			Requested:         demand.Quantity,
			AllocationVersion: item.AllocationVersion,
			Report:            report,
		})
	}

	if q.VenueID != nil && q.Period != nil {
		// The version is read before the bookings so that any booking committed
		// in between shows up as a version change at write time.
		venue, err := reads.VenueByID(ctx, *q.VenueID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, errs.Mark(err, errs.ErrVenueNotFound)
			}
			return nil, err
		}

		snaps, err := reads.VenueBookings(ctx, *q.VenueID)
		if err != nil {
			return nil, err
		}
		report := e.Checker.CheckVenue(inventory.VenueRequest{
			VenueID:          *q.VenueID,
			ExcludeBookingID: q.ExcludeBookingID,
			Period:           *q.Period,
		}, ToVenueBookings(snaps))
		result.Venue = &report
		result.VenueID = &venue.ID
		result.VenueVersion = venue.AllocationVersion
	}

	return result, nil
}

// Allocations of bookings without dates have nothing to overlap with and are skipped.
func toAllocations(snaps []AllocationSnapshot) []inventory.Allocation {
	out := make([]inventory.Allocation, 0, len(snaps))
	for _, s := range snaps {
		p, err := period.FromPointers(s.StartAt, s.EndAt)
		if err != nil || p == nil {
			continue
		}
		out = append(out, inventory.Allocation{
			ItemID:        s.ItemID,
			BookingID:     s.BookingID,
			VenueID:       s.VenueID,
			Quantity:      s.Quantity,
			Period:        *p,
			BookingStatus: s.Status,
		})
	}
	return out
}

func ToVenueBookings(snaps []VenueBookingSnapshot) []inventory.VenueBooking {
	out := make([]inventory.VenueBooking, 0, len(snaps))
	for _, s := range snaps {
		p, err := period.New(s.StartAt, s.EndAt)
		if err != nil {
			continue
		}
		out = append(out, inventory.VenueBooking{
			BookingID: s.BookingID,
			VenueID:   s.VenueID,
			Period:    p,
			Status:    s.Status,
		})
	}
	return out
}

// PaymentFactsFor treats the deposit as a payment already made.
func PaymentFactsFor(paymentCount int, paidTotal, depositPaid decimal.Decimal, grandTotal *decimal.Decimal) booking.PaymentFacts {
	paid := paidTotal.Add(depositPaid)
	facts := booking.PaymentFacts{HasPayments: paymentCount > 0 || depositPaid.IsPositive()}
	if grandTotal != nil {
		facts.FullyPaid = paid.GreaterThanOrEqual(*grandTotal)
	}
	return facts
}
