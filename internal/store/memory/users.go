package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"bloodlink/internal/utils"
	"bloodlink/pkg/types"
)

// UserRepository provides in-memory user storage keyed by id
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]*types.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*types.User)}
}

func (r *UserRepository) CreateUser(_ context.Context, user *types.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(user.Email))
	for _, existing := range r.users {
		if existing.Email == email {
			return types.ErrEmailTaken
		}
	}

	now := time.Now()
	user.ID = utils.NanoID()
	user.Email = email
	user.CreatedAt = now
	user.UpdatedAt = now

	stored := *user
	r.users[user.ID] = &stored
	return nil
}

// UpsertUser keeps the caller's id; used by seeding.
func (r *UserRepository) UpsertUser(_ context.Context, user *types.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *UserRepository) User(_ context.Context, userID string) (*types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (r *UserRepository) UserByEmail(_ context.Context, email string) (*types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range r.users {
		if user.Email == email {
			out := *user
			return &out, nil
		}
	}
	return nil, types.ErrUserNotFound
}

// Donors mirrors the SQL search: exact blood group, case-insensitive location substring.
func (r *UserRepository) Donors(_ context.Context, search types.DonorSearch) ([]*types.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bloodGroup := strings.TrimSpace(search.BloodGroup)
	location := strings.ToLower(strings.TrimSpace(search.Location))

	out := make([]*types.User, 0)
	for _, user := range r.users {
		if user.UserType != types.UserTypeDonor {
			continue
		}
		if bloodGroup != "" && string(user.BloodType) != bloodGroup {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(user.Location), location) {
			continue
		}
		u := *user
		out = append(out, &u)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *UserRepository) UpdateContact(_ context.Context, userID, location, mobileNumber string) (*types.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	user.Location = location
	user.MobileNumber = mobileNumber
	user.UpdatedAt = time.Now()

	out := *user
	return &out, nil
}

func (r *UserRepository) IncrementDonations(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user, ok := r.users[userID]; ok {
		user.TotalDonations++
		user.UpdatedAt = time.Now()
	}
	return nil
}
