package store

import (
	"bloodlink/internal/utils"
	"bloodlink/pkg/types"
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	reviewTableName = table("reviews")
	reviewColumns   = utils.StructTagValues(types.Review{})
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

func (r *ReviewRepository) CreateReview(ctx context.Context, review *types.Review) error {
	review.ID = utils.NanoID()
	review.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(reviewTableName).
		SetMap(utils.StructToMap(review)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert review query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to save review")
}

// ReviewsByDonor returns the newest reviews first.
func (r *ReviewRepository) ReviewsByDonor(ctx context.Context, donorID string) ([]*types.Review, error) {
	query, args, err := psql().
		Select(reviewColumns...).
		From(reviewTableName).
		Where(sq.Eq{"donor_id": donorID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reviews query: %w", err)
	}

	var reviews = make([]*types.Review, 0)
	err = pgxscan.Select(ctx, r.pool, &reviews, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}

	return reviews, nil
}
