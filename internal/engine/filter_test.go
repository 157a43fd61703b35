package engine

import (
	"testing"
	"time"

	"bloodlink/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequests() []*types.BloodRequest {
	return []*types.BloodRequest{
		{ID: "1", BloodType: "O+", Urgency: types.UrgencyCritical, Location: "Karachi, Pakistan"},
		{ID: "2", BloodType: "AB-", Urgency: types.UrgencyUrgent, Location: "Lahore, Pakistan"},
		{ID: "3", BloodType: "A+", Urgency: types.UrgencyNormal, Location: "North KARACHI"},
		{ID: "4", BloodType: "AB+", Urgency: types.UrgencyNormal, Location: "Islamabad"},
	}
}

func ids(reqs []*types.BloodRequest) []string {
	out := make([]string, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.ID)
	}
	return out
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterCompatible, f)

	f, err = ParseFilter("Nearby")
	require.NoError(t, err)
	assert.Equal(t, FilterNearby, f)

	_, err = ParseFilter("closest")
	assert.ErrorIs(t, err, types.ErrInvalidFilter)
}

func TestFilterRequests(t *testing.T) {
	donor := types.Donor{BloodType: "A+", Location: "Karachi"}
	reqs := sampleRequests()

	compatible, err := FilterRequests(reqs, donor, FilterCompatible)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "4"}, ids(compatible))

	urgent, err := FilterRequests(reqs, donor, FilterUrgent)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids(urgent))

	nearby, err := FilterRequests(reqs, donor, FilterNearby)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, ids(nearby))

	all, err := FilterRequests(reqs, donor, FilterAll)
	require.NoError(t, err)
	assert.Len(t, all, len(reqs))
}

func TestFilterNearbyIsOneDirectional(t *testing.T) {
	donor := types.Donor{BloodType: "O-", Location: "Karachi, Pakistan"}
	reqs := []*types.BloodRequest{{ID: "1", Location: "Karachi"}}

	nearby, err := FilterRequests(reqs, donor, FilterNearby)
	require.NoError(t, err)
	assert.Empty(t, nearby, "request location must contain the donor location, not the reverse")
}

func TestFilterNearbyExcludesOtherCity(t *testing.T) {
	donor := types.Donor{BloodType: "O-", Location: "Karachi"}
	reqs := []*types.BloodRequest{{ID: "lhr", Location: "Lahore", Status: types.RequestStatusActive}}

	nearby, err := FilterRequests(reqs, donor, FilterNearby)
	require.NoError(t, err)
	assert.Empty(t, nearby)
}

func TestFilterPartitionSanity(t *testing.T) {
	reqs := sampleRequests()
	for _, bt := range types.AllBloodTypes {
		donor := types.Donor{BloodType: bt, Location: "karachi"}

		all, err := FilterRequests(reqs, donor, FilterAll)
		require.NoError(t, err)
		urgent, err := FilterRequests(reqs, donor, FilterUrgent)
		require.NoError(t, err)
		assert.Subset(t, ids(all), ids(urgent))

		want := 0
		for _, r := range reqs {
			if ok, _ := IsCompatible(r.BloodType, bt); ok {
				want++
			}
		}
		compatible, err := FilterRequests(reqs, donor, FilterCompatible)
		require.NoError(t, err)
		assert.Len(t, compatible, want, bt)
		assert.Equal(t, want, FilterCounts(reqs, donor)[FilterCompatible])
	}
}

func TestFilterCompatibleRejectsInvalidDonorType(t *testing.T) {
	_, err := FilterRequests(sampleRequests(), types.Donor{BloodType: "Q"}, FilterCompatible)
	assert.ErrorIs(t, err, types.ErrInvalidBloodType)

	_, err = FilterRequests(sampleRequests(), types.Donor{BloodType: "Q"}, FilterAll)
	assert.NoError(t, err)
}

func TestFilterEmptyIsNotAnError(t *testing.T) {
	got, err := FilterRequests(nil, types.Donor{BloodType: "O-"}, FilterCompatible)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestRankRequests(t *testing.T) {
	now := time.Now()
	soon := now.Add(2 * time.Hour)
	later := now.Add(48 * time.Hour)

	reqs := []*types.BloodRequest{
		{ID: "normal-old", Urgency: types.UrgencyNormal, CreatedAt: now.Add(-time.Hour)},
		{ID: "urgent-nodate", Urgency: types.UrgencyUrgent, CreatedAt: now},
		{ID: "urgent-later", Urgency: types.UrgencyUrgent, NeededBy: &later, CreatedAt: now},
		{ID: "critical", Urgency: types.UrgencyCritical, CreatedAt: now.Add(-24 * time.Hour)},
		{ID: "urgent-soon", Urgency: types.UrgencyUrgent, NeededBy: &soon, CreatedAt: now},
		{ID: "normal-new", Urgency: types.UrgencyNormal, CreatedAt: now},
	}

	ranked := RankRequests(reqs)
	assert.Equal(t, []string{"critical", "urgent-soon", "urgent-later", "urgent-nodate", "normal-new", "normal-old"}, ids(ranked))
	assert.Equal(t, "normal-old", reqs[0].ID, "input is not reordered")
}

func TestCandidateDonors(t *testing.T) {
	req := &types.BloodRequest{BloodType: "A+"}
	donors := []types.Donor{
		{ID: "b-pos", BloodType: "B+", Available: true, Verified: true},
		{ID: "o-neg-unavailable", BloodType: "O-", Available: false, Verified: true, TotalDonations: 20},
		{ID: "o-neg", BloodType: "O-", Available: true, Verified: true, TotalDonations: 3},
		{ID: "a-pos", BloodType: "A+", Available: true, Verified: true, TotalDonations: 1},
		{ID: "a-neg-unverified", BloodType: "A-", Available: true, TotalDonations: 9},
		{ID: "bad", BloodType: "?"},
	}

	got, err := CandidateDonors(req, donors)
	require.NoError(t, err)

	gotIDs := make([]string, 0, len(got))
	for _, d := range got {
		gotIDs = append(gotIDs, d.ID)
	}
	assert.Equal(t, []string{"a-pos", "o-neg", "a-neg-unverified", "o-neg-unavailable"}, gotIDs)

	_, err = CandidateDonors(&types.BloodRequest{BloodType: "nope"}, donors)
	assert.ErrorIs(t, err, types.ErrInvalidBloodType)
}
