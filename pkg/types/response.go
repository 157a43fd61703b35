package types

import "time"

type ResponseType string

const (
	ResponseWilling ResponseType = "willing"
	ResponseMaybe   ResponseType = "maybe"
	ResponseCannot  ResponseType = "cannot"
)

// DonorResponse is append-only; a donor answering twice produces two rows.
type DonorResponse struct {
	ID           string       `db:"id" json:"id"`
	RequestID    string       `db:"request_id" json:"requestId"`
	DonorID      string       `db:"donor_id" json:"donorId"`
	ResponseType ResponseType `db:"response_type" json:"responseType"`
	Message      *string      `db:"message" json:"message,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
}

type ContactStatus string

const (
	ContactStatusSent ContactStatus = "sent"
)

type DonorContact struct {
	ID        string        `db:"id" json:"id"`
	RequestID string        `db:"request_id" json:"requestId"`
	DonorID   string        `db:"donor_id" json:"donorId"`
	DonorName string        `db:"donor_name" json:"donorName"`
	Status    ContactStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"createdAt"`
}
