package repository

import (
	"context"

	"venue-booking/internal/infra"
	"venue-booking/internal/pkg/pgconv"
	"venue-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	deleteAllocationsSQL = `DELETE FROM resource_allocations WHERE booking_id = $1`
	insertAllocationSQL  = `
INSERT INTO resource_allocations (item_id, booking_id, venue_id, quantity)
VALUES ($1, $2, $3, $4)`
)

type AllocationRepository struct {
	db infra.DBTX
}

func NewAllocationRepository(db infra.DBTX) *AllocationRepository {
	return &AllocationRepository{db: db}
}

// ReplaceForBooking drops the booking's previous allocations before writing lines.
func (r *AllocationRepository) ReplaceForBooking(ctx context.Context, bookingID uuid.UUID, venueID *uuid.UUID, lines []shared.AllocationLine) error {
	if _, err := r.db.Exec(ctx, deleteAllocationsSQL, pgconv.UUIDToPgtype(bookingID)); err != nil {
		return infra.WrapRepoErr("failed to clear allocations", err)
	}

	for _, line := range lines {
		_, err := r.db.Exec(ctx, insertAllocationSQL,
			pgconv.UUIDToPgtype(line.ItemID),
			pgconv.UUIDToPgtype(bookingID),
			pgconv.UUIDPtrToPgtype(venueID),
			line.Quantity,
		)
		if err != nil {
			return infra.WrapRepoErr("failed to insert allocation", err)
		}
	}
	return nil
}
