package repository

import (
	"context"

	"venue-booking/internal/infra"

	"github.com/google/uuid"
)

const (
	lockItemVersionsSQL = `
SELECT id, allocation_version
FROM items
WHERE id = ANY($1)
ORDER BY id
FOR UPDATE`
	bumpItemVersionsSQL = `
UPDATE items
SET allocation_version = allocation_version + 1, updated_at = now()
WHERE id = ANY($1)`
)

type ItemRepository struct {
	db infra.DBTX
}

func NewItemRepository(db infra.DBTX) *ItemRepository {
	return &ItemRepository{db: db}
}

// LockVersions locks rows in id order so concurrent writers cannot deadlock on
// each other's item sets.
func (r *ItemRepository) LockVersions(ctx context.Context, itemIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	versions := make(map[uuid.UUID]int64, len(itemIDs))
	if len(itemIDs) == 0 {
		return versions, nil
	}

	rows, err := r.db.Query(ctx, lockItemVersionsSQL, itemIDs)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id      uuid.UUID
			version int64
		)
		if err := rows.Scan(&id, &version); err != nil {
			return nil, infra.WrapRepoErr("failed to scan item version", err)
		}
		versions[id] = version
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read item versions", err)
	}
	return versions, nil
}

func (r *ItemRepository) BumpVersions(ctx context.Context, itemIDs []uuid.UUID) error {
	if len(itemIDs) == 0 {
		return nil
	}
	if _, err := r.db.Exec(ctx, bumpItemVersionsSQL, itemIDs); err != nil {
		return infra.WrapRepoErr("failed to bump item versions", err)
	}
	return nil
}
