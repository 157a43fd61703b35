package engine

import (
	"fmt"
	"strings"

	"bloodlink/pkg/types"
)

type Filter string

const (
	FilterCompatible Filter = "compatible"
	FilterUrgent     Filter = "urgent"
	FilterNearby     Filter = "nearby"
	FilterAll        Filter = "all"
)

var AllFilters = []Filter{FilterCompatible, FilterUrgent, FilterNearby, FilterAll}

// ParseFilter defaults to FilterCompatible when s is empty.
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "":
		return FilterCompatible, nil
	case FilterCompatible, FilterUrgent, FilterNearby, FilterAll:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", types.ErrInvalidFilter, s)
}

// Match reports whether req passes f for donor. The nearby rule is a plain
// case-insensitive substring test of the request location against the donor
// location, in that direction only.
func (f Filter) Match(req *types.BloodRequest, donor types.Donor) bool {
	switch f {
	case FilterCompatible:
		return compatible(req.BloodType, donor.BloodType)
	case FilterUrgent:
		return req.Urgency == types.UrgencyUrgent || req.Urgency == types.UrgencyCritical
	case FilterNearby:
		return strings.Contains(strings.ToLower(req.Location), strings.ToLower(donor.Location))
	case FilterAll:
		return true
	}
	return false
}

// FilterRequests keeps the requests in reqs that pass f, preserving order.
func FilterRequests(reqs []*types.BloodRequest, donor types.Donor, f Filter) ([]*types.BloodRequest, error) {
	if f == FilterCompatible {
		if err := validate(donor.BloodType); err != nil {
			return nil, err
		}
	}

	out := make([]*types.BloodRequest, 0, len(reqs))
	for _, req := range reqs {
		if f.Match(req, donor) {
			out = append(out, req)
		}
	}
	return out, nil
}

// FilterCounts returns how many of reqs each filter would keep.
func FilterCounts(reqs []*types.BloodRequest, donor types.Donor) map[Filter]int {
	counts := make(map[Filter]int, len(AllFilters))
	for _, f := range AllFilters {
		counts[f] = 0
	}
	for _, req := range reqs {
		for _, f := range AllFilters {
			if f.Match(req, donor) {
				counts[f]++
			}
		}
	}
	return counts
}
