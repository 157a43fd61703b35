// Package seed loads a fixed set of demo donors and blood requests. Every
// record has a fixed id so seeding twice leaves the same data behind.
package seed

import (
	"context"
	"fmt"

	"bloodlink/internal/auth"
	"bloodlink/pkg/types"
)

// DemoPassword is the login password of every seeded account.
const DemoPassword = "bloodlink-demo"

type UserUpserter interface {
	UpsertUser(ctx context.Context, user *types.User) error
}

type fakeUserSeed struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	UserType  types.UserType
	BloodType types.BloodType
	Location  string
	Mobile    string
	Verified  bool
	Available bool
	Donations int
}

const requesterSeedID = "seedRequester0000000001a"

var fakeUsers = []fakeUserSeed{
	{ID: "seedDonor000000000000001", Email: "ahmed.khan+seed1@example.com", FirstName: "Ahmed", LastName: "Khan", UserType: types.UserTypeDonor, BloodType: types.BloodTypeONeg, Location: "Karachi", Mobile: "03001110001", Verified: true, Available: true, Donations: 12},
	{ID: "seedDonor000000000000002", Email: "fatima.ali+seed2@example.com", FirstName: "Fatima", LastName: "Ali", UserType: types.UserTypeDonor, BloodType: types.BloodTypeOPos, Location: "Karachi", Mobile: "03001110002", Verified: true, Available: true, Donations: 5},
	{ID: "seedDonor000000000000003", Email: "usman.raza+seed3@example.com", FirstName: "Usman", LastName: "Raza", UserType: types.UserTypeDonor, BloodType: types.BloodTypeAPos, Location: "Lahore", Mobile: "03001110003", Verified: false, Available: true, Donations: 2},
	{ID: "seedDonor000000000000004", Email: "ayesha.malik+seed4@example.com", FirstName: "Ayesha", LastName: "Malik", UserType: types.UserTypeDonor, BloodType: types.BloodTypeBNeg, Location: "Islamabad", Mobile: "03001110004", Verified: true, Available: false, Donations: 8},
	{ID: "seedDonor000000000000005", Email: "bilal.hussain+seed5@example.com", FirstName: "Bilal", LastName: "Hussain", UserType: types.UserTypeDonor, BloodType: types.BloodTypeABPos, Location: "Lahore", Mobile: "03001110005", Verified: true, Available: true, Donations: 1},
	{ID: "seedDonor000000000000006", Email: "sana.sheikh+seed6@example.com", FirstName: "Sana", LastName: "Sheikh", UserType: types.UserTypeDonor, BloodType: types.BloodTypeABNeg, Location: "Karachi", Mobile: "03001110006", Verified: false, Available: true, Donations: 0},
	{ID: requesterSeedID, Email: "zainab.qureshi+seed7@example.com", FirstName: "Zainab", LastName: "Qureshi", UserType: types.UserTypeRequester, Location: "Karachi", Mobile: "03001110007"},
}

// SeedUsers upserts the demo accounts and returns how many were written.
func SeedUsers(ctx context.Context, users UserUpserter) (int, error) {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return 0, err
	}

	seeded := 0
	for _, fake := range fakeUsers {
		user := &types.User{
			ID:             fake.ID,
			UserType:       fake.UserType,
			FirstName:      fake.FirstName,
			LastName:       fake.LastName,
			MobileNumber:   fake.Mobile,
			Email:          fake.Email,
			PasswordHash:   hash,
			Location:       fake.Location,
			BloodType:      fake.BloodType,
			Verified:       fake.Verified,
			Available:      fake.Available,
			TotalDonations: fake.Donations,
		}

		if err := users.UpsertUser(ctx, user); err != nil {
			return seeded, fmt.Errorf("failed to upsert fake user %s: %w", fake.ID, err)
		}
		seeded++
	}

	return seeded, nil
}
