package readstore

import (
	"context"
	"encoding/json"
	"time"

	"venue-booking/internal/domain/booking"
	"venue-booking/internal/domain/pricing"
	"venue-booking/internal/infra"
	"venue-booking/internal/pkg/pgconv"
	"venue-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const (
	getBookingSQL = `
SELECT id, venue_id, package_id, catering_mode, start_at, end_at, pax, additional_charges, status, created_at, updated_at
FROM bookings
WHERE id = $1`

	listVenueBookingsSQL = `
SELECT id, venue_id, start_at, end_at, status
FROM bookings
WHERE venue_id = $1
  AND start_at IS NOT NULL
  AND end_at IS NOT NULL
ORDER BY start_at`

	listStatusInputsSQL = `
SELECT b.id, b.start_at, b.end_at, b.status,
       COALESCE(p.cnt, 0), COALESCE(p.total, 0),
       COALESCE(bl.deposit_paid, 0), bl.grand_total
FROM bookings b
LEFT JOIN billings bl ON bl.booking_id = b.id
LEFT JOIN (
    SELECT booking_id, COUNT(*) AS cnt, SUM(amount) AS total
    FROM payments
    GROUP BY booking_id
) p ON p.booking_id = b.id
WHERE b.start_at IS NOT NULL
  AND b.end_at IS NOT NULL
  AND b.status < 6`
)

type BookingReadStore struct {
	db infra.DBTX
}

func NewBookingReadStore(db infra.DBTX) *BookingReadStore {
	return &BookingReadStore{db: db}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	var (
		s                  shared.BookingSnapshot
		venueID, packageID pgtype.UUID
		startAt, endAt     pgtype.Timestamptz
		catering           string
		charges            []byte
		status             int16
	)
	err := r.db.QueryRow(ctx, getBookingSQL, pgconv.UUIDToPgtype(id)).Scan(
		&s.ID, &venueID, &packageID, &catering, &startAt, &endAt, &s.Pax, &charges, &status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, notFoundOr(err, "booking not found", "failed to find booking by ID")
	}

	s.VenueID = pgconv.UUIDPtrFromPgtype(venueID)
	s.PackageID = pgconv.UUIDPtrFromPgtype(packageID)
	s.CateringMode = pricing.CateringMode(catering)
	s.StartAt = pgconv.TimePtrFromPgtype(startAt)
	s.EndAt = pgconv.TimePtrFromPgtype(endAt)

	if s.Charges, err = unmarshalCharges(charges); err != nil {
		return nil, infra.WrapRepoErr("failed to decode additional charges", err)
	}
	if s.Status, err = booking.FromCode(int(status)); err != nil {
		return nil, infra.WrapRepoErr("stored booking status is invalid", err)
	}
	return &s, nil
}

func (r *BookingReadStore) VenueBookings(ctx context.Context, venueID uuid.UUID) ([]shared.VenueBookingSnapshot, error) {
	rows, err := r.db.Query(ctx, listVenueBookingsSQL, pgconv.UUIDToPgtype(venueID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list venue bookings", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shared.VenueBookingSnapshot, error) {
		var (
			s      shared.VenueBookingSnapshot
			status int16
		)
		if err := row.Scan(&s.BookingID, &s.VenueID, &s.StartAt, &s.EndAt, &status); err != nil {
			return s, err
		}
		st, err := booking.FromCode(int(status))
		s.Status = st
		return s, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan venue bookings", err)
	}
	return out, nil
}

func (r *BookingReadStore) StatusInputs(ctx context.Context) ([]shared.StatusInputSnapshot, error) {
	rows, err := r.db.Query(ctx, listStatusInputsSQL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list status inputs", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shared.StatusInputSnapshot, error) {
		var (
			s                 shared.StatusInputSnapshot
			status            int16
			count             int64
			paid, deposit, gt pgtype.Numeric
			startAt, endAt    time.Time
		)
		if err := row.Scan(&s.BookingID, &startAt, &endAt, &status, &count, &paid, &deposit, &gt); err != nil {
			return s, err
		}
		st, err := booking.FromCode(int(status))
		if err != nil {
			return s, err
		}
		s.StartAt, s.EndAt, s.Status = startAt, endAt, st
		s.PaymentCount = int(count)
		s.PaidTotal = pgconv.DecimalFromNumeric(paid)
		s.DepositPaid = pgconv.DecimalFromNumeric(deposit)
		s.GrandTotal = pgconv.DecimalPtrFromNumeric(gt)
		return s, nil
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan status inputs", err)
	}
	return out, nil
}

type chargeRecord struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Note   string `json:"note,omitempty"`
}

func unmarshalCharges(raw []byte) ([]pricing.Charge, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var records []chargeRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	charges := make([]pricing.Charge, 0, len(records))
	for _, rec := range records {
		amount, err := decimal.NewFromString(rec.Amount)
		if err != nil {
			return nil, err
		}
		charges = append(charges, pricing.Charge{Name: rec.Name, Amount: amount, Note: rec.Note})
	}
	return charges, nil
}
