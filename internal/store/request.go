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
	requestTableName = table("blood_requests")
	requestColumns   = utils.StructTagValues(types.BloodRequest{})
)

type RequestRepository struct {
	pool *pgxpool.Pool
}

func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{pool: pool}
}

func requestByIDQuery(requestID string) (string, []any, error) {
	return psql().Select(requestColumns...).From(requestTableName).
		Where(sq.Eq{"id": requestID}).
		Limit(1).
		ToSql()
}

func requestsQuery(where sq.Eq) (string, []any, error) {
	return psql().Select(requestColumns...).From(requestTableName).
		Where(where).
		OrderBy("created_at DESC").
		ToSql()
}

func (r *RequestRepository) Request(ctx context.Context, requestID string) (*types.BloodRequest, error) {
	query, args, err := requestByIDQuery(requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate blood request query: %w", err)
	}

	var req = new(types.BloodRequest)
	err = pgxscan.Get(ctx, r.pool, req, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to fetch blood request %s: %w", requestID, err)
	}

	return req, nil
}

func (r *RequestRepository) RequestsByStatus(ctx context.Context, status types.RequestStatus) ([]*types.BloodRequest, error) {
	return r.selectRequests(ctx, sq.Eq{"status": status})
}

func (r *RequestRepository) RequestsByRequester(ctx context.Context, requesterID string) ([]*types.BloodRequest, error) {
	return r.selectRequests(ctx, sq.Eq{"requester_id": requesterID})
}

func (r *RequestRepository) selectRequests(ctx context.Context, where sq.Eq) ([]*types.BloodRequest, error) {
	query, args, err := requestsQuery(where)
	if err != nil {
		return nil, fmt.Errorf("failed to generate blood requests query: %w", err)
	}

	var reqs = make([]*types.BloodRequest, 0)
	err = pgxscan.Select(ctx, r.pool, &reqs, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch blood requests: %w", err)
	}

	return reqs, nil
}

func (r *RequestRepository) CreateRequest(ctx context.Context, req *types.BloodRequest) error {
	now := time.Now()
	req.ID = utils.NanoID()
	req.CreatedAt = now
	req.UpdatedAt = now

	query, args, err := psql().Insert(requestTableName).SetMap(utils.StructToMap(req)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert blood request query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create blood request")
}

func (r *RequestRepository) UpdateRequestStatus(ctx context.Context, requestID string, status types.RequestStatus) error {
	query, args, err := psql().Update(requestTableName).
		Set("status", status).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": requestID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update status query for request %s: %w", requestID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update blood request status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrRequestNotFound
	}

	return nil
}

func (r *RequestRepository) DeleteRequest(ctx context.Context, requestID string) error {
	query, args, err := psql().Delete(requestTableName).Where(sq.Eq{"id": requestID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete query for request %s: %w", requestID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete blood request: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrRequestNotFound
	}

	return nil
}

// UpsertRequest is used by seeding; it keeps the given id and overwrites every other column.
func (r *RequestRepository) UpsertRequest(ctx context.Context, req *types.BloodRequest) error {
	now := time.Now()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now

	query, args, err := psql().Insert(requestTableName).
		SetMap(utils.StructToMap(req)).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + buildUpdateClause(requestColumns, "id", "created_at")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert blood request query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to upsert blood request")
}
