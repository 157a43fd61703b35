package engine

import (
	"time"

	"bloodlink/pkg/types"
)

const (
	LivesPerDonation = 3
	DonationInterval = 56 * 24 * time.Hour
	DefaultVolumeML  = 450
)

// DonorStats aggregates a donor's completed donations as of now.
func DonorStats(donations []*types.Donation, now time.Time) types.DonorStats {
	var stats types.DonorStats
	for _, d := range donations {
		if d.Status != types.DonationStatusCompleted {
			continue
		}
		stats.TotalDonations++
		stats.TotalVolumeML += d.VolumeML
		if stats.LastDonation == nil || d.DonatedAt.After(*stats.LastDonation) {
			last := d.DonatedAt
			stats.LastDonation = &last
		}
	}

	stats.LivesImpacted = stats.TotalDonations * LivesPerDonation
	stats.Eligible = true
	if stats.LastDonation != nil {
		next := stats.LastDonation.Add(DonationInterval)
		stats.NextEligibleDate = &next
		stats.Eligible = !now.Before(next)
	}

	return stats
}

// NewDonation validates a donation record and fills the defaults.
func NewDonation(donorID string, in types.NewDonation, now time.Time) (*types.Donation, error) {
	hospital := in.Hospital
	if hospital == "" {
		return nil, errRequired("hospital")
	}

	status := types.DonationStatus(in.Status)
	switch status {
	case "":
		status = types.DonationStatusCompleted
	case types.DonationStatusScheduled, types.DonationStatusCompleted, types.DonationStatusCancelled:
	default:
		return nil, errInvalid("status", in.Status)
	}

	volume := in.VolumeML
	switch {
	case volume == 0:
		volume = DefaultVolumeML
	case volume < 0:
		return nil, errInvalid("volume", volume)
	}

	donatedAt := now
	if in.Date != nil {
		donatedAt = *in.Date
	}

	d := &types.Donation{
		DonorID:   donorID,
		Hospital:  hospital,
		VolumeML:  volume,
		Status:    status,
		DonatedAt: donatedAt,
	}
	if in.RequestID != "" {
		rid := in.RequestID
		d.RequestID = &rid
	}
	return d, nil
}
