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
	responseTableName = table("request_responses")
	responseColumns   = utils.StructTagValues(types.DonorResponse{})
)

type ResponseRepository struct {
	pool *pgxpool.Pool
}

func NewResponseRepository(pool *pgxpool.Pool) *ResponseRepository {
	return &ResponseRepository{pool: pool}
}

// CreateResponse always inserts; there is no uniqueness on (request, donor).
func (r *ResponseRepository) CreateResponse(ctx context.Context, resp *types.DonorResponse) error {
	resp.ID = utils.NanoID()
	resp.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(responseTableName).
		SetMap(utils.StructToMap(resp)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert response query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to record response")
}

func (r *ResponseRepository) ResponsesByRequest(ctx context.Context, requestID string) ([]*types.DonorResponse, error) {
	return r.selectResponses(ctx, sq.Eq{"request_id": requestID})
}

func (r *ResponseRepository) ResponsesByDonor(ctx context.Context, donorID string) ([]*types.DonorResponse, error) {
	return r.selectResponses(ctx, sq.Eq{"donor_id": donorID})
}

func (r *ResponseRepository) selectResponses(ctx context.Context, where sq.Eq) ([]*types.DonorResponse, error) {
	query, args, err := psql().
		Select(responseColumns...).
		From(responseTableName).
		Where(where).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate responses query: %w", err)
	}

	var responses = make([]*types.DonorResponse, 0)
	err = pgxscan.Select(ctx, r.pool, &responses, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch responses: %w", err)
	}

	return responses, nil
}
