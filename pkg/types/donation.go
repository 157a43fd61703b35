package types

import "time"

type DonationStatus string

const (
	DonationStatusScheduled DonationStatus = "scheduled"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusCancelled DonationStatus = "cancelled"
)

type Donation struct {
	ID        string         `db:"id" json:"id"`
	DonorID   string         `db:"donor_id" json:"donorId"`
	RequestID *string        `db:"request_id" json:"requestId,omitempty"`
	Hospital  string         `db:"hospital" json:"hospital"`
	VolumeML  int            `db:"volume_ml" json:"volume"`
	Status    DonationStatus `db:"status" json:"status"`
	DonatedAt time.Time      `db:"donated_at" json:"date"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
}

type DonorStats struct {
	TotalDonations   int        `json:"totalDonations"`
	LivesImpacted    int        `json:"livesImpacted"`
	TotalVolumeML    int        `json:"totalVolume"`
	LastDonation     *time.Time `json:"lastDonation"`
	NextEligibleDate *time.Time `json:"nextEligibleDate"`
	Eligible         bool       `json:"eligible"`
}

type NewDonation struct {
	Hospital  string     `json:"hospital"`
	VolumeML  int        `json:"volume"`
	Date      *time.Time `json:"date"`
	RequestID string     `json:"requestId"`
	Status    string     `json:"status"`
}
