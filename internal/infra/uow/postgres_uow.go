package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"venue-booking/internal/infra"
	"venue-booking/internal/infra/readstore"
	"venue-booking/internal/infra/repository"
	"venue-booking/internal/pkg/errs"
	"venue-booking/internal/pkg/metrics"
	"venue-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool}
}

// Serializable so that two bookings racing for the same stock cannot both
// commit. Serialization failures are retried with backoff.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, fn)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return newCommandReads(u.pool)
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		pgxTx, err := u.pool.BeginTx(ctx, options)
		if err != nil {
			return errs.Mark(err, errTransactionBegin)
		}

		tx := &pgTx{dbtx: pgxTx}

		err = fn(ctx, tx)
		if err == nil {
			if err = pgxTx.Commit(ctx); err == nil {
				return nil
			}
			err = errs.Mark(err, errTransactionCommit)
		}

		if rollbackErr := pgxTx.Rollback(ctx); rollbackErr != nil {
			if !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				slog.Warn("rollback failed", "attempt", attempt+1, "error", rollbackErr.Error())
			}
		}

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)
		metrics.RecordTxRetry()

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Fallback to a simple calculation if crypto/rand fails
		return 0
	}
	// Safe conversion: mask high bit to ensure positive int64
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}

type pgTx struct {
	dbtx infra.DBTX

	// Lazy-initialized repositories
	bookingRepo    shared.BookingRepository
	allocationRepo shared.AllocationRepository
	itemRepo       shared.ItemRepository
	venueRepo      shared.VenueRepository
	billingRepo    shared.BillingRepository
	discountRepo   shared.DiscountRepository
	paymentRepo    shared.PaymentRepository
	commandReads   shared.CommandReads
}

func (t *pgTx) DB() infra.DBTX {
	return t.dbtx
}

func (t *pgTx) Bookings() shared.BookingRepository {
	if t.bookingRepo == nil {
		t.bookingRepo = repository.NewBookingRepository(t.dbtx)
	}
	return t.bookingRepo
}

func (t *pgTx) Allocations() shared.AllocationRepository {
	if t.allocationRepo == nil {
		t.allocationRepo = repository.NewAllocationRepository(t.dbtx)
	}
	return t.allocationRepo
}

func (t *pgTx) Items() shared.ItemRepository {
	if t.itemRepo == nil {
		t.itemRepo = repository.NewItemRepository(t.dbtx)
	}
	return t.itemRepo
}

func (t *pgTx) Venues() shared.VenueRepository {
	if t.venueRepo == nil {
		t.venueRepo = repository.NewVenueRepository(t.dbtx)
	}
	return t.venueRepo
}

func (t *pgTx) Billings() shared.BillingRepository {
	if t.billingRepo == nil {
		t.billingRepo = repository.NewBillingRepository(t.dbtx)
	}
	return t.billingRepo
}

func (t *pgTx) Discounts() shared.DiscountRepository {
	if t.discountRepo == nil {
		t.discountRepo = repository.NewDiscountRepository(t.dbtx)
	}
	return t.discountRepo
}

func (t *pgTx) Payments() shared.PaymentRepository {
	if t.paymentRepo == nil {
		t.paymentRepo = repository.NewPaymentRepository(t.dbtx)
	}
	return t.paymentRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = newCommandReads(t.dbtx)
	}
	return t.commandReads
}

type commandReads struct {
	bookings    *readstore.BookingReadStore
	catalog     *readstore.CatalogReadStore
	allocations *readstore.AllocationReadStore
	billings    *readstore.BillingReadStore
}

func newCommandReads(db infra.DBTX) *commandReads {
	return &commandReads{
		bookings:    readstore.NewBookingReadStore(db),
		catalog:     readstore.NewCatalogReadStore(db),
		allocations: readstore.NewAllocationReadStore(db),
		billings:    readstore.NewBillingReadStore(db),
	}
}

func (r *commandReads) BookingByID(ctx context.Context, id uuid.UUID) (*shared.BookingSnapshot, error) {
	return r.bookings.FindByID(ctx, id)
}

func (r *commandReads) VenueByID(ctx context.Context, id uuid.UUID) (*shared.VenueSnapshot, error) {
	return r.catalog.VenueByID(ctx, id)
}

func (r *commandReads) PackageByID(ctx context.Context, id uuid.UUID) (*shared.PackageSnapshot, error) {
	return r.catalog.PackageByID(ctx, id)
}

func (r *commandReads) MenuByID(ctx context.Context, id uuid.UUID) (*shared.MenuSnapshot, error) {
	return r.catalog.MenuByID(ctx, id)
}

func (r *commandReads) DiscountByID(ctx context.Context, id uuid.UUID) (*shared.DiscountSnapshot, error) {
	return r.catalog.DiscountByID(ctx, id)
}

func (r *commandReads) ItemByID(ctx context.Context, id uuid.UUID) (*shared.ItemSnapshot, error) {
	return r.catalog.ItemByID(ctx, id)
}

func (r *commandReads) AllocationsForItem(ctx context.Context, itemID uuid.UUID) ([]shared.AllocationSnapshot, error) {
	return r.allocations.ForItem(ctx, itemID)
}

func (r *commandReads) AllocationsForBooking(ctx context.Context, bookingID uuid.UUID) ([]shared.AllocationSnapshot, error) {
	return r.allocations.ForBooking(ctx, bookingID)
}

func (r *commandReads) VenueBookings(ctx context.Context, venueID uuid.UUID) ([]shared.VenueBookingSnapshot, error) {
	return r.bookings.VenueBookings(ctx, venueID)
}

func (r *commandReads) BillingByBookingID(ctx context.Context, bookingID uuid.UUID) (*shared.BillingSnapshot, error) {
	return r.billings.FindByBookingID(ctx, bookingID)
}

func (r *commandReads) PaymentSummary(ctx context.Context, bookingID uuid.UUID) (*shared.PaymentSummary, error) {
	return r.billings.PaymentSummary(ctx, bookingID)
}

func (r *commandReads) StatusInputs(ctx context.Context) ([]shared.StatusInputSnapshot, error) {
	return r.bookings.StatusInputs(ctx)
}
