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
	contactTableName = table("donor_contacts")
	contactColumns   = utils.StructTagValues(types.DonorContact{})
)

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func (r *ContactRepository) CreateContact(ctx context.Context, contact *types.DonorContact) error {
	contact.ID = utils.NanoID()
	contact.CreatedAt = time.Now()
	if contact.Status == "" {
		contact.Status = types.ContactStatusSent
	}

	query, args, err := psql().
		Insert(contactTableName).
		SetMap(utils.StructToMap(contact)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert contact query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to record contact")
}

func (r *ContactRepository) ContactsByRequest(ctx context.Context, requestID string) ([]*types.DonorContact, error) {
	query, args, err := psql().
		Select(contactColumns...).
		From(contactTableName).
		Where(sq.Eq{"request_id": requestID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate contacts query: %w", err)
	}

	var contacts = make([]*types.DonorContact, 0)
	err = pgxscan.Select(ctx, r.pool, &contacts, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	return contacts, nil
}
