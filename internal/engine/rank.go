package engine

import (
	"sort"

	"bloodlink/pkg/types"
)

func urgencyWeight(u types.Urgency) int {
	switch u {
	case types.UrgencyCritical:
		return 2
	case types.UrgencyUrgent:
		return 1
	}
	return 0
}

// RankRequests returns a sorted copy of reqs: critical before urgent before
// normal, then the earliest needed-by date (requests without one go last),
// then newest first.
func RankRequests(reqs []*types.BloodRequest) []*types.BloodRequest {
	out := make([]*types.BloodRequest, len(reqs))
	copy(out, reqs)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if wa, wb := urgencyWeight(a.Urgency), urgencyWeight(b.Urgency); wa != wb {
			return wa > wb
		}

		switch {
		case a.NeededBy != nil && b.NeededBy == nil:
			return true
		case a.NeededBy == nil && b.NeededBy != nil:
			return false
		case a.NeededBy != nil && b.NeededBy != nil && !a.NeededBy.Equal(*b.NeededBy):
			return a.NeededBy.Before(*b.NeededBy)
		}

		return a.CreatedAt.After(b.CreatedAt)
	})

	return out
}

// CandidateDonors returns the donors able to give to req, best first:
// available donors, then verified ones, then an exact type match, then the
// most experienced.
func CandidateDonors(req *types.BloodRequest, donors []types.Donor) ([]types.Donor, error) {
	if err := validate(req.BloodType); err != nil {
		return nil, err
	}

	out := make([]types.Donor, 0, len(donors))
	for _, d := range donors {
		if d.BloodType.Valid() && compatible(req.BloodType, d.BloodType) {
			out = append(out, d)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Available != b.Available {
			return a.Available
		}
		if a.Verified != b.Verified {
			return a.Verified
		}
		if ea, eb := a.BloodType == req.BloodType, b.BloodType == req.BloodType; ea != eb {
			return ea
		}
		return a.TotalDonations > b.TotalDonations
	})

	return out, nil
}
