package repository

import (
	"context"
	"time"

	"venue-booking/internal/infra"
	"venue-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const insertPaymentSQL = `
INSERT INTO payments (booking_id, amount, paid_at)
VALUES ($1, $2, $3)
RETURNING id`

type PaymentRepository struct {
	db infra.DBTX
}

func NewPaymentRepository(db infra.DBTX) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, bookingID uuid.UUID, amount decimal.Decimal, paidAt time.Time) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, insertPaymentSQL,
		pgconv.UUIDToPgtype(bookingID),
		pgconv.DecimalToNumeric(amount),
		pgconv.TimeToPgtype(paidAt),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to record payment", err)
	}
	return id, nil
}
