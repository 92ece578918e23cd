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
	getVenueSQL    = `SELECT id, name, allocation_version FROM venues WHERE id = $1`
	getPackageSQL  = `SELECT id, name, price FROM packages WHERE id = $1`
	getMenuSQL     = `SELECT id, name, price_per_pax FROM menus WHERE id = $1`
	getDiscountSQL = `SELECT id, name, percent_off, amount_off FROM discounts WHERE id = $1`
	getItemSQL     = `SELECT id, name, total_quantity, out_of_service, allocation_version FROM items WHERE id = $1`
)

// CatalogReadStore reads the reference records a booking points at.
type CatalogReadStore struct {
	db infra.DBTX
}

func NewCatalogReadStore(db infra.DBTX) *CatalogReadStore {
	return &CatalogReadStore{db: db}
}

func (r *CatalogReadStore) VenueByID(ctx context.Context, id uuid.UUID) (*shared.VenueSnapshot, error) {
	var v shared.VenueSnapshot
	err := r.db.QueryRow(ctx, getVenueSQL, pgconv.UUIDToPgtype(id)).Scan(&v.ID, &v.Name, &v.AllocationVersion)
	if err != nil {
		return nil, notFoundOr(err, "venue not found", "failed to find venue by ID")
	}
	return &v, nil
}

func (r *CatalogReadStore) PackageByID(ctx context.Context, id uuid.UUID) (*shared.PackageSnapshot, error) {
	var (
		p     shared.PackageSnapshot
		price pgtype.Numeric
	)
	err := r.db.QueryRow(ctx, getPackageSQL, pgconv.UUIDToPgtype(id)).Scan(&p.ID, &p.Name, &price)
	if err != nil {
		return nil, notFoundOr(err, "package not found", "failed to find package by ID")
	}
	p.Price = pgconv.DecimalFromNumeric(price)
	return &p, nil
}

func (r *CatalogReadStore) MenuByID(ctx context.Context, id uuid.UUID) (*shared.MenuSnapshot, error) {
	var (
		m     shared.MenuSnapshot
		price pgtype.Numeric
	)
	err := r.db.QueryRow(ctx, getMenuSQL, pgconv.UUIDToPgtype(id)).Scan(&m.ID, &m.Name, &price)
	if err != nil {
		return nil, notFoundOr(err, "menu not found", "failed to find menu by ID")
	}
	m.PricePerPax = pgconv.DecimalFromNumeric(price)
	return &m, nil
}

func (r *CatalogReadStore) DiscountByID(ctx context.Context, id uuid.UUID) (*shared.DiscountSnapshot, error) {
	var (
		d               shared.DiscountSnapshot
		percent, amount pgtype.Numeric
	)
	err := r.db.QueryRow(ctx, getDiscountSQL, pgconv.UUIDToPgtype(id)).Scan(&d.ID, &d.Name, &percent, &amount)
	if err != nil {
		return nil, notFoundOr(err, "discount not found", "failed to find discount by ID")
	}
	d.PercentOff = pgconv.DecimalPtrFromNumeric(percent)
	d.AmountOff = pgconv.DecimalPtrFromNumeric(amount)
	return &d, nil
}

func (r *CatalogReadStore) ItemByID(ctx context.Context, id uuid.UUID) (*shared.ItemSnapshot, error) {
	var it shared.ItemSnapshot
	err := r.db.QueryRow(ctx, getItemSQL, pgconv.UUIDToPgtype(id)).
		Scan(&it.ID, &it.Name, &it.TotalQuantity, &it.OutOfService, &it.AllocationVersion)
	if err != nil {
		return nil, notFoundOr(err, "item not found", "failed to find item by ID")
	}
	return &it, nil
}

func notFoundOr(err error, notFoundMsg, failMsg string) error {
	if pgconv.IsNoRows(err) {
		return infra.WrapRepoErr(notFoundMsg, err, infra.KindNotFound)
	}
	return infra.WrapRepoErr(failMsg, err)
}
