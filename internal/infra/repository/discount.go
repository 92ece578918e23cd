package repository

import (
	"context"

	"venue-booking/internal/domain/pricing"
	"venue-booking/internal/infra"
	"venue-booking/internal/pkg/pgconv"
)

const insertCustomDiscountSQL = `
INSERT INTO discounts (id, name, percent_off, amount_off, is_custom)
VALUES ($1, $2, $3, $4, true)`

type DiscountRepository struct {
	db infra.DBTX
}

func NewDiscountRepository(db infra.DBTX) *DiscountRepository {
	return &DiscountRepository{db: db}
}

func (r *DiscountRepository) Create(ctx context.Context, d *pricing.Discount) error {
	_, err := r.db.Exec(ctx, insertCustomDiscountSQL,
		pgconv.UUIDToPgtype(d.ID()),
		d.Name(),
		pgconv.DecimalPtrToNumeric(d.PercentOff()),
		pgconv.DecimalPtrToNumeric(d.AmountOff()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create discount", err)
	}
	return nil
}
