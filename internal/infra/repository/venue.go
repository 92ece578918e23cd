package repository

import (
	"context"

	"venue-booking/internal/infra"

	"github.com/google/uuid"
)

const (
	lockVenueVersionsSQL = `
SELECT id, allocation_version
FROM venues
WHERE id = ANY($1)
ORDER BY id
FOR UPDATE`
	bumpVenueVersionsSQL = `
UPDATE venues
SET allocation_version = allocation_version + 1, updated_at = now()
WHERE id = ANY($1)`
)

// VenueRepository guards the booked days of a venue. Every save that adds,
// moves or releases a booking on a venue bumps its version.
type VenueRepository struct {
	db infra.DBTX
}

func NewVenueRepository(db infra.DBTX) *VenueRepository {
	return &VenueRepository{db: db}
}

func (r *VenueRepository) LockVersions(ctx context.Context, venueIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	versions := make(map[uuid.UUID]int64, len(venueIDs))
	if len(venueIDs) == 0 {
		return versions, nil
	}

	rows, err := r.db.Query(ctx, lockVenueVersionsSQL, venueIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock venues", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id      uuid.UUID
			version int64
		)
		if err := rows.Scan(&id, &version); err != nil {
			return nil, infra.WrapRepoErr("failed to scan venue version", err)
		}
		versions[id] = version
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read venue versions", err)
	}
	return versions, nil
}

func (r *VenueRepository) BumpVersions(ctx context.Context, venueIDs []uuid.UUID) error {
	if len(venueIDs) == 0 {
		return nil
	}
	if _, err := r.db.Exec(ctx, bumpVenueVersionsSQL, venueIDs); err != nil {
		return infra.WrapRepoErr("failed to bump venue versions", err)
	}
	return nil
}
