package readstore

import (
	"context"

	"venue-booking/internal/infra"
	"venue-booking/internal/pkg/pgconv"
	"venue-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	getBillingSQL = `
SELECT booking_id, discount_id, base_price, extra_hours_fee, catering_cost, original_price, discount_amount,
       discounted_price, additional_charges_total, grand_total, deposit_paid, balance_due, updated_at
FROM billings
WHERE booking_id = $1`

	getPaymentSummarySQL = `SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM payments WHERE booking_id = $1`
)

type BillingReadStore struct {
	db infra.DBTX
}

func NewBillingReadStore(db infra.DBTX) *BillingReadStore {
	return &BillingReadStore{db: db}
}

func (r *BillingReadStore) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*shared.BillingSnapshot, error) {
	var (
		s          shared.BillingSnapshot
		discountID pgtype.UUID
		amounts    [10]pgtype.Numeric
	)
	err := r.db.QueryRow(ctx, getBillingSQL, pgconv.UUIDToPgtype(bookingID)).Scan(
		&s.BookingID, &discountID,
		&amounts[0], &amounts[1], &amounts[2], &amounts[3], &amounts[4],
		&amounts[5], &amounts[6], &amounts[7], &amounts[8], &amounts[9],
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, notFoundOr(err, "billing not found", "failed to find billing by booking ID")
	}

	s.DiscountID = pgconv.UUIDPtrFromPgtype(discountID)
	s.BasePrice = pgconv.DecimalFromNumeric(amounts[0])
	s.ExtraHoursFee = pgconv.DecimalFromNumeric(amounts[1])
	s.CateringCost = pgconv.DecimalFromNumeric(amounts[2])
	s.OriginalPrice = pgconv.DecimalFromNumeric(amounts[3])
	s.DiscountAmount = pgconv.DecimalFromNumeric(amounts[4])
	s.DiscountedPrice = pgconv.DecimalFromNumeric(amounts[5])
	s.AdditionalChargesTotal = pgconv.DecimalFromNumeric(amounts[6])
	s.GrandTotal = pgconv.DecimalFromNumeric(amounts[7])
	s.DepositPaid = pgconv.DecimalFromNumeric(amounts[8])
	s.BalanceDue = pgconv.DecimalFromNumeric(amounts[9])
	return &s, nil
}

func (r *BillingReadStore) PaymentSummary(ctx context.Context, bookingID uuid.UUID) (*shared.PaymentSummary, error) {
	var (
		count int64
		total pgtype.Numeric
	)
	err := r.db.QueryRow(ctx, getPaymentSummarySQL, pgconv.UUIDToPgtype(bookingID)).Scan(&count, &total)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to summarize payments", err)
	}
	return &shared.PaymentSummary{Count: int(count), Total: pgconv.DecimalFromNumeric(total)}, nil
}
