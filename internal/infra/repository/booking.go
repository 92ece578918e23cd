package repository

import (
	"context"
	"encoding/json"
	"time"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/pricing"
	"venue-booking/internal/infra"
	"venue-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const upsertBookingSQL = `
INSERT INTO bookings (id, venue_id, package_id, catering_mode, start_at, end_at, pax, additional_charges, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
    venue_id           = EXCLUDED.venue_id,
    package_id         = EXCLUDED.package_id,
    catering_mode      = EXCLUDED.catering_mode,
    start_at           = EXCLUDED.start_at,
    end_at             = EXCLUDED.end_at,
    pax                = EXCLUDED.pax,
    additional_charges = EXCLUDED.additional_charges,
    status             = EXCLUDED.status,
    updated_at         = EXCLUDED.updated_at`

const updateBookingStatusSQL = `UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`

type BookingRepository struct {
	db infra.DBTX
}

func NewBookingRepository(db infra.DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	charges, err := MarshalCharges(b.Charges())
	if err != nil {
		return infra.WrapRepoErr("failed to encode additional charges", err)
	}

	var startAt, endAt *time.Time
	if p := b.Period(); p != nil {
		s, e := p.Start(), p.End()
		startAt, endAt = &s, &e
	}

	_, err = r.db.Exec(ctx, upsertBookingSQL,
		pgconv.UUIDToPgtype(b.ID()),
		pgconv.UUIDPtrToPgtype(b.VenueID()),
		pgconv.UUIDPtrToPgtype(b.PackageID()),
		string(b.Catering()),
		pgconv.TimePtrToPgtype(startAt),
		pgconv.TimePtrToPgtype(endAt),
		b.Pax(),
		charges,
		int16(b.Status().Code()),
		pgconv.TimeToPgtype(b.CreatedAt()),
		pgconv.TimeToPgtype(b.UpdatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save booking", err)
	}
	return nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status booking.Status, now time.Time) error {
	tag, err := r.db.Exec(ctx, updateBookingStatusSQL, pgconv.UUIDToPgtype(id), int16(status.Code()), pgconv.TimeToPgtype(now))
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

type chargeRecord struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Note   string `json:"note,omitempty"`
}

// MarshalCharges stores amounts as strings to keep full decimal precision.
func MarshalCharges(charges []pricing.Charge) ([]byte, error) {
	records := make([]chargeRecord, 0, len(charges))
	for _, c := range charges {
		records = append(records, chargeRecord{Name: c.Name, Amount: c.Amount.String(), Note: c.Note})
	}
	return json.Marshal(records)
}
