package store

import (
	"bloodlink/internal/utils"
	"bloodlink/pkg/types"
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	userTableName = table("users")
	userColumns   = utils.StructTagValues(types.User{})
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) getUser(ctx context.Context, where sq.Eq) (*types.User, error) {
	query, args, err := psql().
		Select(userColumns...).
		From(userTableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user query: %w", err)
	}

	var user types.User
	err = pgxscan.Get(ctx, r.pool, &user, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) User(ctx context.Context, userID string) (*types.User, error) {
	return r.getUser(ctx, sq.Eq{"id": userID})
}

func (r *UserRepository) UserByEmail(ctx context.Context, email string) (*types.User, error) {
	return r.getUser(ctx, sq.Eq{"email": strings.ToLower(strings.TrimSpace(email))})
}

// likeEscaper makes a search term match literally inside a LIKE pattern;
// backslash is the Postgres default escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func donorSearchQuery(search types.DonorSearch) (string, []any, error) {
	where := sq.And{sq.Eq{"user_type": types.UserTypeDonor}}
	if bg := strings.TrimSpace(search.BloodGroup); bg != "" {
		where = append(where, sq.Eq{"blood_group": bg})
	}
	if loc := strings.TrimSpace(search.Location); loc != "" {
		where = append(where, sq.ILike{"location": "%" + likeEscaper.Replace(loc) + "%"})
	}

	return psql().
		Select(userColumns...).
		From(userTableName).
		Where(where).
		OrderBy("created_at DESC").
		ToSql()
}

// Donors lists donors matching search; an empty search returns every donor.
func (r *UserRepository) Donors(ctx context.Context, search types.DonorSearch) ([]*types.User, error) {
	query, args, err := donorSearchQuery(search)
	if err != nil {
		return nil, fmt.Errorf("failed to generate donor search query: %w", err)
	}

	var users = make([]*types.User, 0)
	err = pgxscan.Select(ctx, r.pool, &users, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search donors: %w", err)
	}

	return users, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, user *types.User) error {
	now := time.Now()
	user.ID = utils.NanoID()
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = now
	user.UpdatedAt = now

	query, args, err := psql().
		Insert(userTableName).
		SetMap(utils.StructToMap(user)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create user query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// UpdateContact changes the location and mobile number and returns the updated row.
func (r *UserRepository) UpdateContact(ctx context.Context, userID, location, mobileNumber string) (*types.User, error) {
	query, args, err := psql().
		Update(userTableName).
		Set("location", location).
		Set("mobile_number", mobileNumber).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": userID}).
		Suffix("RETURNING " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate update user query: %w", err)
	}

	var user types.User
	err = pgxscan.Get(ctx, r.pool, &user, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) IncrementDonations(ctx context.Context, userID string) error {
	query, args, err := psql().
		Update(userTableName).
		Set("total_donations", sq.Expr("total_donations + 1")).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate increment donations query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to increment donation count")
}

// UpsertUser is used by seeding and keeps the caller's id.
func (r *UserRepository) UpsertUser(ctx context.Context, user *types.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	query, args, err := psql().
		Insert(userTableName).
		SetMap(utils.StructToMap(user)).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + buildUpdateClause(userColumns, "id", "created_at")).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert user query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to upsert user")
}
