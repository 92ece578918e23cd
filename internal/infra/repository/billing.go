package repository

import (
	"context"

	"venue-booking/internal/domain/pricing"
	"venue-booking/internal/infra"
	"venue-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const upsertBillingSQL = `
INSERT INTO billings (
    booking_id, discount_id, base_price, extra_hours_fee, catering_cost, original_price,
    discount_amount, discounted_price, additional_charges_total, grand_total, deposit_paid, balance_due, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
ON CONFLICT (booking_id) DO UPDATE SET
    discount_id              = EXCLUDED.discount_id,
    base_price               = EXCLUDED.base_price,
    extra_hours_fee          = EXCLUDED.extra_hours_fee,
    catering_cost            = EXCLUDED.catering_cost,
    original_price           = EXCLUDED.original_price,
    discount_amount          = EXCLUDED.discount_amount,
    discounted_price         = EXCLUDED.discounted_price,
    additional_charges_total = EXCLUDED.additional_charges_total,
    grand_total              = EXCLUDED.grand_total,
    deposit_paid             = EXCLUDED.deposit_paid,
    balance_due              = EXCLUDED.balance_due,
    updated_at               = now()`

type BillingRepository struct {
	db infra.DBTX
}

func NewBillingRepository(db infra.DBTX) *BillingRepository {
	return &BillingRepository{db: db}
}

// Upsert persists the unrounded breakdown.
func (r *BillingRepository) Upsert(ctx context.Context, bookingID uuid.UUID, discountID *uuid.UUID, b pricing.Breakdown) error {
	_, err := r.db.Exec(ctx, upsertBillingSQL,
		pgconv.UUIDToPgtype(bookingID),
		pgconv.UUIDPtrToPgtype(discountID),
		pgconv.DecimalToNumeric(b.BasePrice),
		pgconv.DecimalToNumeric(b.ExtraHoursFee),
		pgconv.DecimalToNumeric(b.CateringCost),
		pgconv.DecimalToNumeric(b.OriginalPrice),
		pgconv.DecimalToNumeric(b.DiscountAmount),
		pgconv.DecimalToNumeric(b.DiscountedPrice),
		pgconv.DecimalToNumeric(b.AdditionalChargesTotal),
		pgconv.DecimalToNumeric(b.GrandTotal),
		pgconv.DecimalToNumeric(b.DepositPaid),
		pgconv.DecimalToNumeric(b.BalanceDue),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert billing", err)
	}
	return nil
}
