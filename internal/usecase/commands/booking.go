package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/period"
	"venue-booking/internal/domain/pricing"
	"venue-booking/internal/infra"
	"venue-booking/internal/pkg/clock"
	"venue-booking/internal/pkg/errs"
	"venue-booking/internal/pkg/metrics"
	"venue-booking/internal/pkg/patch"
	"venue-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=booking.go -destination=../../../tests/mock/commands/booking.go -package=commandsmock

type BookingCommands interface {
	SaveBooking(ctx context.Context, in SaveBookingInput) (*SaveBookingResult, error)
	RecordPayment(ctx context.Context, in RecordPaymentInput) (*RecordPaymentResult, error)
	SetManualStatus(ctx context.Context, bookingID uuid.UUID, state booking.ManualState) error
	RefreshStatuses(ctx context.Context) (int, error)
}

// SaveBookingInput creates a booking when BookingID is nil and edits it otherwise.
// On edits, nil fields keep their stored values.
type SaveBookingInput struct {
	BookingID   *uuid.UUID
	VenueID     *uuid.UUID
	PackageID   *uuid.UUID
	StartAt     *time.Time
	EndAt       *time.Time
	Pax         *int `validate:"omitempty,gte=0"`
	Catering    *shared.CateringInput
	Discount    *shared.DiscountInput
	Charges     []shared.ChargeInput `validate:"omitempty,dive"`
	Items       []shared.ItemLine    `validate:"omitempty,dive"`
	DepositPaid *decimal.Decimal     `validate:"omitempty,gte=0"`
	// Draft saves without finalize checks. Nil keeps a stored draft a draft;
	// false finalizes it.
	Draft *bool

	// AcknowledgmentToken echoes the token of a previous attempt that reported conflicts.
	AcknowledgmentToken string
}

type SaveBookingResult struct {
	BookingID           uuid.UUID
	Created             bool
	Status              booking.Status
	Breakdown           pricing.Breakdown
	Availability        *shared.AvailabilityResult
	AcknowledgmentToken string
}

type RecordPaymentInput struct {
	BookingID uuid.UUID
	Amount    decimal.Decimal `validate:"gt=0"`
	PaidAt    *time.Time
}

type RecordPaymentResult struct {
	PaymentID uuid.UUID
	Status    booking.Status
}

type bookingUseCaseImpl struct {
	uow    shared.UnitOfWork
	engine *shared.Engine
	cache  shared.VenueDaysCache
	clock  clock.Clock
}

func NewBookingUseCase(uow shared.UnitOfWork, engine *shared.Engine, cache shared.VenueDaysCache, clk clock.Clock) BookingCommands {
	return &bookingUseCaseImpl{uow: uow, engine: engine, cache: cache, clock: clk}
}

// draft is the merged state of a save: the stored booking overlaid with the edit.
type draft struct {
	existing   *shared.BookingSnapshot
	billing    *shared.BillingSnapshot
	payments   shared.PaymentSummary
	prevVenue  *uuid.UUID
	prevItems  []uuid.UUID
	lines      []shared.ItemLine
	catering   shared.CateringSelection
	discount   shared.DiscountChoice
	charges    []pricing.Charge
	deposit    decimal.Decimal
	period     *period.Period
	venueID    *uuid.UUID
	packageID  *uuid.UUID
	pax        int
	isDraft    bool
	isExisting bool
}

func (uc *bookingUseCaseImpl) SaveBooking(ctx context.Context, in SaveBookingInput) (*SaveBookingResult, error) {
	operation := "create"
	if in.BookingID != nil {
		operation = "update"
	}

	result, err := uc.saveBooking(ctx, in)
	metrics.RecordBookingSave(operation, saveOutcome(err))
	return result, err
}

func (uc *bookingUseCaseImpl) saveBooking(ctx context.Context, in SaveBookingInput) (*SaveBookingResult, error) {
	if err := shared.Validate(in); err != nil {
		return nil, err
	}

	d, err := uc.merge(ctx, in)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	id := uuid.New()
	createdAt := now
	if d.isExisting {
		id = d.existing.ID
		createdAt = d.existing.CreatedAt
	}

	agg, err := booking.NewBooking(id, d.venueID, d.packageID, d.catering.Mode, d.period, d.pax, d.charges, createdAt)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}
	if !d.isDraft {
		if err := agg.Finalize(); err != nil {
			return nil, errs.Mark(err, errs.ErrDomainValidation)
		}
	}

	reads := uc.uow.CommandReads()

	pricingIn, err := uc.engine.BuildPricingInput(ctx, reads, shared.PricingSelection{
		PackageID:   d.packageID,
		Period:      d.period,
		Catering:    d.catering,
		Discount:    d.discount,
		Charges:     d.charges,
		DepositPaid: d.deposit,
	})
	if err != nil {
		return nil, err
	}

	var exclude *uuid.UUID
	if d.isExisting {
		exclude = &id
	}
	availability, err := uc.engine.CheckAvailability(ctx, reads, shared.AvailabilityQuery{
		ExcludeBookingID: exclude,
		VenueID:          d.venueID,
		Period:           d.period,
		Items:            shared.Demands(d.lines),
	})
	if err != nil {
		return nil, err
	}
	recordFindings(availability)

	breakdown := uc.engine.Calculator.Compute(pricingIn)
	result := &SaveBookingResult{
		BookingID:           id,
		Created:             !d.isExisting,
		Breakdown:           breakdown,
		Availability:        availability,
		AcknowledgmentToken: AcknowledgmentToken(exclude, d.venueID, d.period, d.lines, uc.engine.Checker.Location()),
	}

	if availability.HasConflicts() {
		acknowledged := in.AcknowledgmentToken != "" && in.AcknowledgmentToken == result.AcknowledgmentToken
		metrics.RecordAcknowledgmentGate(acknowledged)
		if !acknowledged {
			if !d.isExisting {
				result.BookingID = uuid.Nil
			}
			return result, errs.ErrAcknowledgmentRequired
		}
	}

	status := uc.statusFor(d, breakdown)
	agg.SetStatus(status, now)
	result.Status = status

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		venues := touchedVenues(d.venueID, d.prevVenue)
		if err := checkItemVersions(ctx, tx, availability, d.prevItems); err != nil {
			return err
		}
		if err := checkVenueVersion(ctx, tx, availability, venues); err != nil {
			return err
		}

		var discountID *uuid.UUID
		switch {
		case pricingIn.Discount.Mode == pricing.DiscountCustom && pricingIn.Discount.Custom != nil:
			disc, derr := pricingIn.Discount.Custom.ToDiscount(uuid.New())
			if derr != nil {
				return errs.Mark(derr, errs.ErrInvalidInput)
			}
			if derr := tx.Discounts().Create(ctx, disc); derr != nil {
				return derr
			}
			discountID = ptrOf(disc.ID())
		case pricingIn.Discount.Mode == pricing.DiscountPredefined && pricingIn.Discount.Predefined != nil:
			discountID = ptrOf(pricingIn.Discount.Predefined.ID())
		}

		if err := tx.Bookings().Save(ctx, agg); err != nil {
			return err
		}
		if err := tx.Allocations().ReplaceForBooking(ctx, id, d.venueID, allocationLines(d.lines)); err != nil {
			return err
		}
		if err := tx.Items().BumpVersions(ctx, touchedItems(d.lines, d.prevItems)); err != nil {
			return err
		}
		if err := tx.Venues().BumpVersions(ctx, venues); err != nil {
			return err
		}
		return tx.Billings().Upsert(ctx, id, discountID, breakdown)
	})
	if err != nil {
		return nil, err
	}

	if d.isExisting && d.existing.Status.Code() != status.Code() {
		metrics.RecordStatusTransition(d.existing.Status.String(), status.String())
	}
	uc.invalidateVenues(ctx, d.prevVenue, d.venueID)

	return result, nil
}

func (uc *bookingUseCaseImpl) merge(ctx context.Context, in SaveBookingInput) (*draft, error) {
	d := &draft{
		catering: shared.CateringSelection{Mode: pricing.CateringNone},
		discount: shared.DiscountChoice{Mode: pricing.DiscountNone},
	}
	reads := uc.uow.CommandReads()

	if in.BookingID != nil {
		snap, err := reads.BookingByID(ctx, *in.BookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, errs.Mark(err, errs.ErrBookingNotFound)
			}
			return nil, err
		}
		if snap.Status == booking.StatusCanceled || snap.Status == booking.StatusArchived {
			return nil, errs.ErrBookingFinalized
		}
		d.existing = snap
		d.isExisting = true

		billing, err := reads.BillingByBookingID(ctx, snap.ID)
		switch {
		case infra.IsKind(err, infra.KindNotFound):
		case err != nil:
			return nil, err
		default:
			d.billing = billing
		}

		summary, err := reads.PaymentSummary(ctx, snap.ID)
		if err != nil {
			return nil, err
		}
		d.payments = *summary

		allocs, err := reads.AllocationsForBooking(ctx, snap.ID)
		if err != nil {
			return nil, err
		}
		for _, a := range allocs {
			d.prevItems = append(d.prevItems, a.ItemID)
			d.lines = append(d.lines, shared.ItemLine{ItemID: a.ItemID, Quantity: a.Quantity})
		}

		d.prevVenue = snap.VenueID
		d.venueID = snap.VenueID
		d.packageID = snap.PackageID
		d.pax = snap.Pax
		d.charges = snap.Charges
		d.catering.Mode = snap.CateringMode
		d.period, _ = period.FromPointers(snap.StartAt, snap.EndAt)
		d.isDraft = snap.Status == booking.StatusDraft
		d.restoreBilling()
	}
	d.isDraft = patch.Coalesce(in.Draft, d.isDraft)

	d.venueID = patch.Prefer(in.VenueID, d.venueID)
	d.packageID = patch.Prefer(in.PackageID, d.packageID)
	d.pax = patch.Coalesce(in.Pax, d.pax)
	d.deposit = patch.Coalesce(in.DepositPaid, d.deposit)

	if in.StartAt != nil || in.EndAt != nil {
		start := patch.Prefer(in.StartAt, startOf(d.period))
		end := patch.Prefer(in.EndAt, endOf(d.period))
		p, err := shared.PeriodFrom(start, end)
		if err != nil {
			return nil, err
		}
		d.period = p
	}

	if in.Catering != nil {
		if in.Catering.Mode != "" {
			d.catering.Mode = in.Catering.Mode
		}
		if in.Catering.MenuID != nil || in.Catering.PricePerPax != nil {
			d.catering.MenuID = in.Catering.MenuID
			d.catering.PricePerPax = in.Catering.PricePerPax
		}
	}
	d.catering.Pax = d.pax

	if in.Discount != nil {
		d.discount = in.Discount.Choice()
	}

	if in.Charges != nil {
		charges, err := shared.ToCharges(in.Charges)
		if err != nil {
			return nil, err
		}
		d.charges = charges
	}
	if in.Items != nil {
		d.lines = in.Items
	}
	d.lines = shared.MergeLines(d.lines)

	return d, nil
}

// restoreBilling recovers pricing choices that live only on the billing row.
func (d *draft) restoreBilling() {
	if d.billing == nil {
		return
	}
	d.deposit = d.billing.DepositPaid
	if d.billing.DiscountID != nil {
		d.discount = shared.DiscountChoice{Mode: pricing.DiscountPredefined, DiscountID: d.billing.DiscountID}
	}
	if d.catering.Mode == pricing.CateringInHouse && d.pax > 0 {
		perPax := d.billing.CateringCost.Div(decimal.NewFromInt(int64(d.pax)))
		d.catering.PricePerPax = &perPax
	}
}

func (uc *bookingUseCaseImpl) statusFor(d *draft, breakdown pricing.Breakdown) booking.Status {
	if d.isDraft || d.period == nil {
		return booking.StatusDraft
	}
	grand := breakdown.GrandTotal
	facts := shared.PaymentFactsFor(d.payments.Count, d.payments.Total, breakdown.DepositPaid, &grand)
	// Canceled and archived bookings never get here, and a finalized draft is
	// handed back to the resolver, so the current status is not consulted.
	return uc.engine.Resolver.Resolve(facts, d.period.Start(), d.period.End(), booking.StatusPending)
}

// checkItemVersions locks every touched item and fails when a requested item's
// allocations changed after the availability check read them.
func checkItemVersions(ctx context.Context, tx shared.Tx, availability *shared.AvailabilityResult, prevItems []uuid.UUID) error {
	seen := availability.Versions()
	ids := make([]uuid.UUID, 0, len(seen)+len(prevItems))
	for id := range seen {
		ids = append(ids, id)
	}
	ids = append(ids, prevItems...)
	if len(ids) == 0 {
		return nil
	}

	locked, err := tx.Items().LockVersions(ctx, ids)
	if err != nil {
		return err
	}
	for id, v := range seen {
		current, ok := locked[id]
		if !ok {
			return errs.Mark(errs.New(fmt.Sprintf("item %s disappeared", id)), errs.ErrItemNotFound)
		}
		if current != v {
			return errs.Mark(errs.New(fmt.Sprintf("item %s version %d, checked %d", id, current, v)), errs.ErrStaleAvailability)
		}
	}
	return nil
}

// checkVenueVersion locks the touched venues and fails when bookings on the
// checked venue changed after the availability check read them.
func checkVenueVersion(ctx context.Context, tx shared.Tx, availability *shared.AvailabilityResult, venueIDs []uuid.UUID) error {
	if len(venueIDs) == 0 {
		return nil
	}
	locked, err := tx.Venues().LockVersions(ctx, venueIDs)
	if err != nil {
		return err
	}
	if availability.VenueID == nil {
		return nil
	}

	id := *availability.VenueID
	current, ok := locked[id]
	if !ok {
		return errs.Mark(errs.New(fmt.Sprintf("venue %s disappeared", id)), errs.ErrVenueNotFound)
	}
	if current != availability.VenueVersion {
		return errs.Mark(errs.New(fmt.Sprintf("venue %s version %d, checked %d", id, current, availability.VenueVersion)), errs.ErrStaleAvailability)
	}
	return nil
}

func touchedVenues(ids ...*uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == nil || slices.Contains(out, *id) {
			continue
		}
		out = append(out, *id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func allocationLines(lines []shared.ItemLine) []shared.AllocationLine {
	out := make([]shared.AllocationLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, shared.AllocationLine{ItemID: l.ItemID, Quantity: l.Quantity})
	}
	return out
}

func touchedItems(lines []shared.ItemLine, prevItems []uuid.UUID) []uuid.UUID {
	set := make(map[uuid.UUID]struct{}, len(lines)+len(prevItems))
	for _, l := range lines {
		set[l.ItemID] = struct{}{}
	}
	for _, id := range prevItems {
		set[id] = struct{}{}
	}
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// AcknowledgmentToken fingerprints what an availability report was computed for.
// Changing the venue, the dates or any quantity yields a different token.
func AcknowledgmentToken(bookingID, venueID *uuid.UUID, p *period.Period, lines []shared.ItemLine, loc *time.Location) string {
	var b strings.Builder
	if bookingID != nil {
		b.WriteString(bookingID.String())
	} else {
		b.WriteString("new")
	}
	b.WriteByte('|')
	if venueID != nil {
		b.WriteString(venueID.String())
	}
	b.WriteByte('|')
	if p != nil {
		b.WriteString(p.StartDay(loc).String())
		b.WriteByte('/')
		b.WriteString(p.EndDay(loc).String())
	}
	for _, l := range shared.MergeLines(lines) {
		fmt.Fprintf(&b, "|%s=%d", l.ItemID, l.Quantity)
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func (uc *bookingUseCaseImpl) RecordPayment(ctx context.Context, in RecordPaymentInput) (*RecordPaymentResult, error) {
	if err := shared.Validate(in); err != nil {
		return nil, err
	}
	paidAt := patch.Coalesce(in.PaidAt, uc.clock.Now())

	var (
		result = &RecordPaymentResult{}
		from   booking.Status
	)
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().BookingByID(ctx, in.BookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrBookingNotFound)
			}
			return err
		}
		from = snap.Status

		paymentID, err := tx.Payments().Create(ctx, in.BookingID, in.Amount, paidAt)
		if err != nil {
			return err
		}
		result.PaymentID = paymentID
		result.Status = snap.Status

		p, _ := period.FromPointers(snap.StartAt, snap.EndAt)
		if p == nil {
			return nil
		}

		summary, err := tx.Reads().PaymentSummary(ctx, in.BookingID)
		if err != nil {
			return err
		}
		deposit := decimal.Zero
		var grand *decimal.Decimal
		billing, err := tx.Reads().BillingByBookingID(ctx, in.BookingID)
		switch {
		case infra.IsKind(err, infra.KindNotFound):
		case err != nil:
			return err
		default:
			deposit = billing.DepositPaid
			grand = &billing.GrandTotal
		}

		facts := shared.PaymentFactsFor(summary.Count, summary.Total, deposit, grand)
		next := uc.engine.Resolver.Resolve(facts, p.Start(), p.End(), snap.Status)
		result.Status = next
		if next.Code() == snap.Status.Code() {
			return nil
		}
		return tx.Bookings().UpdateStatus(ctx, in.BookingID, next, uc.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	if from != nil && from.Code() != result.Status.Code() {
		metrics.RecordStatusTransition(from.String(), result.Status.String())
	}
	return result, nil
}

func (uc *bookingUseCaseImpl) SetManualStatus(ctx context.Context, bookingID uuid.UUID, state booking.ManualState) error {
	var snap *shared.BookingSnapshot
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		snap, err = tx.Reads().BookingByID(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, errs.ErrBookingNotFound)
			}
			return err
		}
		if err := tx.Bookings().UpdateStatus(ctx, bookingID, state, uc.clock.Now()); err != nil {
			return err
		}
		if booking.IsCounting(snap.Status) == booking.IsCounting(state) {
			return nil
		}

		// The booking starts or stops holding its venue and items.
		allocs, err := tx.Reads().AllocationsForBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		items := make([]uuid.UUID, 0, len(allocs))
		for _, a := range allocs {
			items = append(items, a.ItemID)
		}
		if err := tx.Items().BumpVersions(ctx, touchedItems(nil, items)); err != nil {
			return err
		}
		return tx.Venues().BumpVersions(ctx, touchedVenues(snap.VenueID))
	})
	if err != nil {
		return err
	}

	if snap.Status.Code() != state.Code() {
		metrics.RecordStatusTransition(snap.Status.String(), state.String())
	}
	uc.invalidateVenues(ctx, snap.VenueID)
	return nil
}

func (uc *bookingUseCaseImpl) RefreshStatuses(ctx context.Context) (int, error) {
	started := time.Now()
	defer func() { metrics.ObserveStatusRefresh(time.Since(started).Seconds()) }()

	snaps, err := uc.uow.CommandReads().StatusInputs(ctx)
	if err != nil {
		return 0, err
	}

	inputs := make([]booking.StatusInput, 0, len(snaps))
	for _, s := range snaps {
		inputs = append(inputs, booking.StatusInput{
			BookingID: s.BookingID,
			Facts:     shared.PaymentFactsFor(s.PaymentCount, s.PaidTotal, s.DepositPaid, s.GrandTotal),
			Start:     s.StartAt,
			End:       s.EndAt,
			Current:   s.Status,
		})
	}

	changes := uc.engine.Resolver.ResolveAll(inputs)
	if len(changes) == 0 {
		return 0, nil
	}

	now := uc.clock.Now()
	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		for _, c := range changes {
			if err := tx.Bookings().UpdateStatus(ctx, c.BookingID, c.To, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for _, c := range changes {
		metrics.RecordStatusTransition(c.From.String(), c.To.String())
	}
	slog.Info("booking statuses refreshed", "checked", len(inputs), "changed", len(changes))
	return len(changes), nil
}

func (uc *bookingUseCaseImpl) invalidateVenues(ctx context.Context, venueIDs ...*uuid.UUID) {
	ids := make([]uuid.UUID, 0, len(venueIDs))
	for _, id := range venueIDs {
		if id != nil {
			ids = append(ids, *id)
		}
	}
	if len(ids) == 0 {
		return
	}
	if err := uc.cache.Invalidate(ctx, ids...); err != nil {
		slog.Warn("venue days cache invalidation failed", "error", err.Error())
	}
}

func recordFindings(r *shared.AvailabilityResult) {
	var conflicts, warnings int
	for _, it := range r.Items {
		conflicts += len(it.Report.Conflicts)
		warnings += len(it.Report.Warnings)
	}
	if r.Venue != nil {
		conflicts += len(r.Venue.Conflicts)
	}
	metrics.RecordAvailabilityFinding("conflict", conflicts)
	metrics.RecordAvailabilityFinding("warning", warnings)
}

func saveOutcome(err error) string {
	switch {
	case err == nil:
		return "saved"
	case errs.Is(err, errs.ErrAcknowledgmentRequired):
		return "acknowledgment_required"
	case errs.Is(err, errs.ErrStaleAvailability):
		return "stale"
	case errs.Is(err, errs.ErrInvalidInput), errs.Is(err, errs.ErrDomainValidation):
		return "invalid"
	default:
		return "error"
	}
}

func startOf(p *period.Period) *time.Time {
	if p == nil {
		return nil
	}
	return ptrOf(p.Start())
}

func endOf(p *period.Period) *time.Time {
	if p == nil {
		return nil
	}
	return ptrOf(p.End())
}

func ptrOf[T any](v T) *T { return &v }
