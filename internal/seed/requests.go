package seed

import (
	"context"
	"fmt"
	"time"

	"bloodlink/internal/utils"
	"bloodlink/pkg/types"
)

type RequestUpserter interface {
	UpsertRequest(ctx context.Context, req *types.BloodRequest) error
}

type fakeRequestSeed struct {
	ID          string
	Patient     string
	BloodType   types.BloodType
	Units       int
	Urgency     types.Urgency
	Hospital    string
	Location    string
	NeededIn    time.Duration
	Description string
}

var fakeRequests = []fakeRequestSeed{
	{ID: "seedRequest0000000000001", Patient: "Hamza Qureshi", BloodType: types.BloodTypeOPos, Units: 2, Urgency: types.UrgencyCritical, Hospital: "Aga Khan University Hospital", Location: "Karachi, Sindh", NeededIn: 6 * time.Hour, Description: "Emergency surgery after a road accident."},
	{ID: "seedRequest0000000000002", Patient: types.DefaultPatientName, BloodType: types.BloodTypeABNeg, Units: 1, Urgency: types.UrgencyUrgent, Hospital: "Jinnah Hospital", Location: "Lahore, Punjab", NeededIn: 48 * time.Hour},
	{ID: "seedRequest0000000000003", Patient: "Maryam Qureshi", BloodType: types.BloodTypeBNeg, Units: 3, Urgency: types.UrgencyNormal, Hospital: "Shifa International", Location: "Islamabad", Description: "Scheduled thalassemia transfusion."},
	{ID: "seedRequest0000000000004", Patient: "Imran Qureshi", BloodType: types.BloodTypeAPos, Units: 1, Urgency: types.UrgencyNormal, Hospital: "Indus Hospital", Location: "Karachi, Sindh", NeededIn: 7 * 24 * time.Hour},
}

// SeedRequests upserts the demo requests as active, all owned by the seeded
// requester account.
func SeedRequests(ctx context.Context, requests RequestUpserter, now time.Time) (int, error) {
	requester := fakeUsers[len(fakeUsers)-1]

	seeded := 0
	for _, fake := range fakeRequests {
		req := &types.BloodRequest{
			ID:                fake.ID,
			PatientName:       fake.Patient,
			BloodType:         fake.BloodType,
			UnitsNeeded:       fake.Units,
			Urgency:           fake.Urgency,
			Hospital:          fake.Hospital,
			Location:          fake.Location,
			ContactNumber:     requester.Mobile,
			Description:       utils.NonEmptyPtr(fake.Description),
			RequesterID:       requesterSeedID,
			RequesterName:     requester.FirstName + " " + requester.LastName,
			RelationToPatient: "family",
			Status:            types.RequestStatusActive,
		}
		if fake.NeededIn > 0 {
			req.NeededBy = utils.TimePtr(now.Add(fake.NeededIn))
		}

		if err := requests.UpsertRequest(ctx, req); err != nil {
			return seeded, fmt.Errorf("failed to upsert fake request %s: %w", fake.ID, err)
		}
		seeded++
	}

	return seeded, nil
}
