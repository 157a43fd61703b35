package types

import (
	"time"
)

type RequestStatus string

const (
	RequestStatusActive    RequestStatus = "active"
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusFulfilled RequestStatus = "fulfilled"
	RequestStatusCancelled RequestStatus = "cancelled"
)

var AllRequestStatuses = []RequestStatus{
	RequestStatusActive,
	RequestStatusPending,
	RequestStatusFulfilled,
	RequestStatusCancelled,
}

type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyUrgent   Urgency = "urgent"
	UrgencyCritical Urgency = "critical"
)

const DefaultPatientName = "Anonymous Patient"

type BloodRequest struct {
	ID                string        `db:"id" json:"id"`
	PatientName       string        `db:"patient_name" json:"patientName"`
	CNIC              *string       `db:"cnic" json:"cnic,omitempty"`
	BloodType         BloodType     `db:"blood_group" json:"bloodGroup"`
	UnitsNeeded       int           `db:"units_needed" json:"unitsNeeded"`
	Urgency           Urgency       `db:"urgency" json:"urgency"`
	Hospital          string        `db:"hospital" json:"hospital"`
	Location          string        `db:"location" json:"location"`
	ContactNumber     string        `db:"contact_number" json:"contactNumber"`
	NeededBy          *time.Time    `db:"needed_by" json:"neededBy,omitempty"`
	Description       *string       `db:"description" json:"description,omitempty"`
	RequesterID       string        `db:"requester_id" json:"requesterId"`
	RequesterName     string        `db:"requester_name" json:"requesterName"`
	RelationToPatient string        `db:"relation_to_patient" json:"relationToPatient"`
	Status            RequestStatus `db:"status" json:"status"`
	CreatedAt         time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updatedAt"`
}

// NewBloodRequest carries a requester submission before defaults are applied.
type NewBloodRequest struct {
	PatientName       string     `json:"patientName"`
	CNIC              string     `json:"cnic"`
	BloodGroup        string     `json:"bloodGroup"`
	UnitsNeeded       int        `json:"unitsNeeded"`
	Urgency           string     `json:"urgency"`
	Hospital          string     `json:"hospital"`
	Location          string     `json:"location"`
	ContactNumber     string     `json:"contactNumber"`
	NeededBy          *time.Time `json:"neededBy"`
	Description       string     `json:"description"`
	RequesterName     string     `json:"requesterName"`
	RelationToPatient string     `json:"relationToPatient"`
}

// PublicBloodRequest is what anonymous callers and other donors see. It
// leaves out the patient's CNIC and who filed the request.
type PublicBloodRequest struct {
	ID            string        `json:"id"`
	PatientName   string        `json:"patientName"`
	BloodType     BloodType     `json:"bloodGroup"`
	UnitsNeeded   int           `json:"unitsNeeded"`
	Urgency       Urgency       `json:"urgency"`
	Hospital      string        `json:"hospital"`
	Location      string        `json:"location"`
	ContactNumber string        `json:"contactNumber"`
	NeededBy      *time.Time    `json:"neededBy,omitempty"`
	Description   *string       `json:"description,omitempty"`
	Status        RequestStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
}

func (r *BloodRequest) Public() PublicBloodRequest {
	return PublicBloodRequest{
		ID:            r.ID,
		PatientName:   r.PatientName,
		BloodType:     r.BloodType,
		UnitsNeeded:   r.UnitsNeeded,
		Urgency:       r.Urgency,
		Hospital:      r.Hospital,
		Location:      r.Location,
		ContactNumber: r.ContactNumber,
		NeededBy:      r.NeededBy,
		Description:   r.Description,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
	}
}

func PublicBloodRequests(reqs []*BloodRequest) []PublicBloodRequest {
	out := make([]PublicBloodRequest, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, r.Public())
	}
	return out
}
