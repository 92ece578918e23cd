//go:build unit

// Package memstore is an in-memory shared.UnitOfWork for usecase tests.
// Within does not roll back: a failing callback leaves earlier writes in place.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/pricing"
	"venue-booking/internal/infra"
	"venue-booking/internal/pkg/errs"
	"venue-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type allocationRow struct {
	venueID *uuid.UUID
	lines   []shared.AllocationLine
}

type payment struct {
	id     uuid.UUID
	amount decimal.Decimal
	paidAt time.Time
}

type Store struct {
	mu sync.Mutex

	Venues    map[uuid.UUID]shared.VenueSnapshot
	Packages  map[uuid.UUID]shared.PackageSnapshot
	Menus     map[uuid.UUID]shared.MenuSnapshot
	Discounts map[uuid.UUID]shared.DiscountSnapshot
	Items     map[uuid.UUID]*shared.ItemSnapshot
	Bookings  map[uuid.UUID]shared.BookingSnapshot
	Billings  map[uuid.UUID]shared.BillingSnapshot

	allocations map[uuid.UUID]allocationRow
	payments    map[uuid.UUID][]payment

	// BeforeWithin runs at the start of every Within call.
	BeforeWithin func()
	// WithinErr, when set, is returned by Within without running the callback.
	WithinErr error

	WithinCalls int
}

func New() *Store {
	return &Store{
		Venues:      map[uuid.UUID]shared.VenueSnapshot{},
		Packages:    map[uuid.UUID]shared.PackageSnapshot{},
		Menus:       map[uuid.UUID]shared.MenuSnapshot{},
		Discounts:   map[uuid.UUID]shared.DiscountSnapshot{},
		Items:       map[uuid.UUID]*shared.ItemSnapshot{},
		Bookings:    map[uuid.UUID]shared.BookingSnapshot{},
		Billings:    map[uuid.UUID]shared.BillingSnapshot{},
		allocations: map[uuid.UUID]allocationRow{},
		payments:    map[uuid.UUID][]payment{},
	}
}

var _ shared.UnitOfWork = (*Store)(nil)

// Seeding helpers

func (s *Store) AddVenue(name string) uuid.UUID {
	id := uuid.New()
	s.Venues[id] = shared.VenueSnapshot{ID: id, Name: name}
	return id
}

func (s *Store) AddPackage(name string, price string) uuid.UUID {
	id := uuid.New()
	s.Packages[id] = shared.PackageSnapshot{ID: id, Name: name, Price: decimal.RequireFromString(price)}
	return id
}

func (s *Store) AddMenu(name string, perPax string) uuid.UUID {
	id := uuid.New()
	s.Menus[id] = shared.MenuSnapshot{ID: id, Name: name, PricePerPax: decimal.RequireFromString(perPax)}
	return id
}

func (s *Store) AddPercentDiscount(name string, percent string) uuid.UUID {
	id := uuid.New()
	p := decimal.RequireFromString(percent)
	s.Discounts[id] = shared.DiscountSnapshot{ID: id, Name: name, PercentOff: &p}
	return id
}

func (s *Store) AddItem(name string, total, outOfService int) uuid.UUID {
	id := uuid.New()
	s.Items[id] = &shared.ItemSnapshot{ID: id, Name: name, TotalQuantity: total, OutOfService: outOfService}
	return id
}

// AddBooking stores a booking row and its allocations directly.
func (s *Store) AddBooking(b shared.BookingSnapshot, lines ...shared.AllocationLine) uuid.UUID {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if b.Status == nil {
		b.Status = booking.StatusPending
	}
	if b.CateringMode == "" {
		b.CateringMode = pricing.CateringNone
	}
	s.Bookings[b.ID] = b
	if len(lines) > 0 {
		s.allocations[b.ID] = allocationRow{venueID: b.VenueID, lines: lines}
	}
	return b.ID
}

func (s *Store) AddPayment(bookingID uuid.UUID, amount string) {
	s.payments[bookingID] = append(s.payments[bookingID], payment{id: uuid.New(), amount: decimal.RequireFromString(amount)})
}

// VenueVersion returns the allocation version of a venue.
func (s *Store) VenueVersion(venueID uuid.UUID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Venues[venueID].AllocationVersion
}

// BumpVenue simulates a concurrent writer committing a booking on the venue.
func (s *Store) BumpVenue(venueID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.Venues[venueID]
	v.AllocationVersion++
	s.Venues[venueID] = v
}

// Allocation returns the committed quantity of an item for a booking.
func (s *Store) Allocation(bookingID, itemID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.allocations[bookingID].lines {
		if l.ItemID == itemID {
			return l.Quantity
		}
	}
	return 0
}

func (s *Store) PaymentCount(bookingID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payments[bookingID])
}

// UnitOfWork

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.WithinCalls++
	if s.BeforeWithin != nil {
		s.BeforeWithin()
	}
	if s.WithinErr != nil {
		return s.WithinErr
	}
	return fn(ctx, &memTx{s: s})
}

func (s *Store) CommandReads() shared.CommandReads { return s }

func notFound(what string) error {
	return infra.WrapRepoErr(what+" not found", errs.New("no rows"), infra.KindNotFound)
}

// CommandReads

func (s *Store) BookingByID(_ context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.Bookings[id]
	if !ok {
		return nil, notFound("booking")
	}
	return &b, nil
}

func (s *Store) VenueByID(_ context.Context, id uuid.UUID) (*shared.VenueSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.Venues[id]
	if !ok {
		return nil, notFound("venue")
	}
	return &v, nil
}

func (s *Store) PackageByID(_ context.Context, id uuid.UUID) (*shared.PackageSnapshot, error) {
	p, ok := s.Packages[id]
	if !ok {
		return nil, notFound("package")
	}
	return &p, nil
}

func (s *Store) MenuByID(_ context.Context, id uuid.UUID) (*shared.MenuSnapshot, error) {
	m, ok := s.Menus[id]
	if !ok {
		return nil, notFound("menu")
	}
	return &m, nil
}

func (s *Store) DiscountByID(_ context.Context, id uuid.UUID) (*shared.DiscountSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.Discounts[id]
	if !ok {
		return nil, notFound("discount")
	}
	return &d, nil
}

func (s *Store) ItemByID(_ context.Context, id uuid.UUID) (*shared.ItemSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.Items[id]
	if !ok {
		return nil, notFound("item")
	}
	cp := *it
	return &cp, nil
}

func (s *Store) AllocationsForItem(_ context.Context, itemID uuid.UUID) ([]shared.AllocationSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []shared.AllocationSnapshot
	for bookingID, row := range s.allocations {
		for _, l := range row.lines {
			if l.ItemID == itemID {
				out = append(out, s.allocationSnapshot(bookingID, row, l))
			}
		}
	}
	return out, nil
}

func (s *Store) AllocationsForBooking(_ context.Context, bookingID uuid.UUID) ([]shared.AllocationSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.allocations[bookingID]
	out := make([]shared.AllocationSnapshot, 0, len(row.lines))
	for _, l := range row.lines {
		out = append(out, s.allocationSnapshot(bookingID, row, l))
	}
	return out, nil
}

func (s *Store) allocationSnapshot(bookingID uuid.UUID, row allocationRow, l shared.AllocationLine) shared.AllocationSnapshot {
	b := s.Bookings[bookingID]
	return shared.AllocationSnapshot{
		ItemID:    l.ItemID,
		BookingID: bookingID,
		VenueID:   row.venueID,
		Quantity:  l.Quantity,
		StartAt:   b.StartAt,
		EndAt:     b.EndAt,
		Status:    b.Status,
	}
}

func (s *Store) VenueBookings(_ context.Context, venueID uuid.UUID) ([]shared.VenueBookingSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []shared.VenueBookingSnapshot
	for _, b := range s.Bookings {
		if b.VenueID == nil || *b.VenueID != venueID || b.StartAt == nil || b.EndAt == nil {
			continue
		}
		out = append(out, shared.VenueBookingSnapshot{
			BookingID: b.ID,
			VenueID:   venueID,
			StartAt:   *b.StartAt,
			EndAt:     *b.EndAt,
			Status:    b.Status,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

func (s *Store) BillingByBookingID(_ context.Context, bookingID uuid.UUID) (*shared.BillingSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.Billings[bookingID]
	if !ok {
		return nil, notFound("billing")
	}
	return &b, nil
}

func (s *Store) PaymentSummary(_ context.Context, bookingID uuid.UUID) (*shared.PaymentSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := &shared.PaymentSummary{Total: decimal.Zero}
	for _, p := range s.payments[bookingID] {
		sum.Count++
		sum.Total = sum.Total.Add(p.amount)
	}
	return sum, nil
}

func (s *Store) StatusInputs(ctx context.Context) ([]shared.StatusInputSnapshot, error) {
	s.mu.Lock()
	var candidates []shared.BookingSnapshot
	for _, b := range s.Bookings {
		if b.StartAt != nil && b.EndAt != nil && !b.Status.IsManual() {
			candidates = append(candidates, b)
		}
	}
	s.mu.Unlock()

	out := make([]shared.StatusInputSnapshot, 0, len(candidates))
	for _, b := range candidates {
		sum, _ := s.PaymentSummary(ctx, b.ID)
		in := shared.StatusInputSnapshot{
			BookingID:    b.ID,
			StartAt:      *b.StartAt,
			EndAt:        *b.EndAt,
			Status:       b.Status,
			PaymentCount: sum.Count,
			PaidTotal:    sum.Total,
			DepositPaid:  decimal.Zero,
		}
		if billing, err := s.BillingByBookingID(ctx, b.ID); err == nil {
			in.DepositPaid = billing.DepositPaid
			grand := billing.GrandTotal
			in.GrandTotal = &grand
		}
		out = append(out, in)
	}
	return out, nil
}

// Tx

type memTx struct {
	s *Store
}

func (t *memTx) Bookings() shared.BookingRepository       { return t }
func (t *memTx) Allocations() shared.AllocationRepository { return t }
func (t *memTx) Items() shared.ItemRepository             { return t }
func (t *memTx) Venues() shared.VenueRepository           { return venueRepo{s: t.s} }
func (t *memTx) Billings() shared.BillingRepository       { return t }
func (t *memTx) Discounts() shared.DiscountRepository     { return t }
func (t *memTx) Payments() shared.PaymentRepository       { return paymentRepo{s: t.s} }
func (t *memTx) Reads() shared.CommandReads               { return t.s }
func (t *memTx) DB() infra.DBTX                           { return nil }

func (t *memTx) Save(_ context.Context, b *booking.Booking) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	snap := shared.BookingSnapshot{
		ID:           b.ID(),
		VenueID:      b.VenueID(),
		PackageID:    b.PackageID(),
		CateringMode: b.Catering(),
		Pax:          b.Pax(),
		Charges:      b.Charges(),
		Status:       b.Status(),
		CreatedAt:    b.CreatedAt(),
		UpdatedAt:    b.UpdatedAt(),
	}
	if p := b.Period(); p != nil {
		start, end := p.Start(), p.End()
		snap.StartAt, snap.EndAt = &start, &end
	}
	t.s.Bookings[snap.ID] = snap
	return nil
}

func (t *memTx) UpdateStatus(_ context.Context, id uuid.UUID, status booking.Status, now time.Time) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	b, ok := t.s.Bookings[id]
	if !ok {
		return notFound("booking")
	}
	b.Status = status
	b.UpdatedAt = now
	t.s.Bookings[id] = b
	return nil
}

func (t *memTx) ReplaceForBooking(_ context.Context, bookingID uuid.UUID, venueID *uuid.UUID, lines []shared.AllocationLine) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if len(lines) == 0 {
		delete(t.s.allocations, bookingID)
		return nil
	}
	t.s.allocations[bookingID] = allocationRow{venueID: venueID, lines: append([]shared.AllocationLine(nil), lines...)}
	return nil
}

func (t *memTx) LockVersions(_ context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	out := make(map[uuid.UUID]int64, len(itemIDs))
	for _, id := range itemIDs {
		if it, ok := t.s.Items[id]; ok {
			out[id] = it.AllocationVersion
		}
	}
	return out, nil
}

func (t *memTx) BumpVersions(_ context.Context, itemIDs []uuid.UUID) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, id := range itemIDs {
		if it, ok := t.s.Items[id]; ok {
			it.AllocationVersion++
		}
	}
	return nil
}

func (t *memTx) Upsert(_ context.Context, bookingID uuid.UUID, discountID *uuid.UUID, b pricing.Breakdown) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.Billings[bookingID] = shared.BillingSnapshot{
		BookingID:              bookingID,
		DiscountID:             discountID,
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
	}
	return nil
}

func (t *memTx) Create(_ context.Context, d *pricing.Discount) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.Discounts[d.ID()] = shared.DiscountSnapshot{ID: d.ID(), Name: d.Name(), PercentOff: d.PercentOff(), AmountOff: d.AmountOff()}
	return nil
}

type paymentRepo struct {
	s *Store
}

func (r paymentRepo) Create(_ context.Context, bookingID uuid.UUID, amount decimal.Decimal, paidAt time.Time) (uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Bookings[bookingID]; !ok {
		return uuid.Nil, infra.WrapRepoErr("booking missing for payment", errs.New("fk"), infra.KindForeignKeyViolated)
	}
	id := uuid.New()
	r.s.payments[bookingID] = append(r.s.payments[bookingID], payment{id: id, amount: amount, paidAt: paidAt})
	return id, nil
}

type venueRepo struct {
	s *Store
}

func (r venueRepo) LockVersions(_ context.Context, venueIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[uuid.UUID]int64, len(venueIDs))
	for _, id := range venueIDs {
		if v, ok := r.s.Venues[id]; ok {
			out[id] = v.AllocationVersion
		}
	}
	return out, nil
}

func (r venueRepo) BumpVersions(_ context.Context, venueIDs []uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range venueIDs {
		if v, ok := r.s.Venues[id]; ok {
			v.AllocationVersion++
			r.s.Venues[id] = v
		}
	}
	return nil
}
