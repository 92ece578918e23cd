package readstore

import (
	"context"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/infra"
	"venue-booking/internal/pkg/pgconv"
	"venue-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	allocationColumns = `
SELECT ra.item_id, ra.booking_id, ra.venue_id, ra.quantity, b.start_at, b.end_at, b.status
FROM resource_allocations ra
JOIN bookings b ON b.id = ra.booking_id`

	listAllocationsByItemSQL    = allocationColumns + ` WHERE ra.item_id = $1 ORDER BY b.start_at NULLS LAST`
	listAllocationsByBookingSQL = allocationColumns + ` WHERE ra.booking_id = $1 ORDER BY ra.item_id`
)

type AllocationReadStore struct {
	db infra.DBTX
}

func NewAllocationReadStore(db infra.DBTX) *AllocationReadStore {
	return &AllocationReadStore{db: db}
}

func (r *AllocationReadStore) ForItem(ctx context.Context, itemID uuid.UUID) ([]shared.AllocationSnapshot, error) {
	return r.list(ctx, listAllocationsByItemSQL, itemID)
}

func (r *AllocationReadStore) ForBooking(ctx context.Context, bookingID uuid.UUID) ([]shared.AllocationSnapshot, error) {
	return r.list(ctx, listAllocationsByBookingSQL, bookingID)
}

func (r *AllocationReadStore) list(ctx context.Context, sql string, id uuid.UUID) ([]shared.AllocationSnapshot, error) {
	rows, err := r.db.Query(ctx, sql, pgconv.UUIDToPgtype(id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list allocations", err)
	}

	out, err := pgx.CollectRows(rows, scanAllocation)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan allocations", err)
	}
	return out, nil
}

func scanAllocation(row pgx.CollectableRow) (shared.AllocationSnapshot, error) {
	var (
		s              shared.AllocationSnapshot
		venueID        pgtype.UUID
		startAt, endAt pgtype.Timestamptz
		status         int16
	)
	if err := row.Scan(&s.ItemID, &s.BookingID, &venueID, &s.Quantity, &startAt, &endAt, &status); err != nil {
		return s, err
	}
	st, err := booking.FromCode(int(status))
	if err != nil {
		return s, err
	}
	s.VenueID = pgconv.UUIDPtrFromPgtype(venueID)
	s.StartAt = pgconv.TimePtrFromPgtype(startAt)
	s.EndAt = pgconv.TimePtrFromPgtype(endAt)
	s.Status = st
	return s, nil
}
