package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/hr-records-service/internal/domain"
)

// TagRepository manages tag persistence. All reads are owner-scoped.
type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) error
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Tag, error)
	GetOwnedByIDs(ctx context.Context, ownerID string, ids []string) ([]domain.Tag, error)
}

type tagRepository struct {
	pool *pgxpool.Pool
}

// NewTagRepository builds the repository.
func NewTagRepository(pool *pgxpool.Pool) TagRepository {
	return &tagRepository{pool: pool}
}

func (r *tagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	const query = `
        INSERT INTO tags (user_id, name)
        VALUES ($1,$2)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		tag.UserID,
		tag.Name,
	).Scan(&tag.ID)
}

func (r *tagRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Tag, error) {
	const query = `
        SELECT id, user_id, name
        FROM tags WHERE user_id=$1
        ORDER BY name DESC`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Tag
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name); err != nil {
			return nil, err
		}
		result = append(result, tag)
	}
	return result, rows.Err()
}

func (r *tagRepository) GetOwnedByIDs(ctx context.Context, ownerID string, ids []string) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `
        SELECT id, user_id, name
        FROM tags WHERE user_id=$1 AND id = ANY($2)`
	rows, err := r.pool.Query(ctx, query, ownerID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Tag
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.UserID, &tag.Name); err != nil {
			return nil, err
		}
		result = append(result, tag)
	}
	return result, rows.Err()
}
