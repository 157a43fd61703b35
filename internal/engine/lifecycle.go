package engine

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"bloodlink/pkg/types"
)

var cnicReg = regexp.MustCompile(`^\d{13}$`)

func ParseStatus(s string) (types.RequestStatus, error) {
	status := types.RequestStatus(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(types.AllRequestStatuses, status) {
		return "", fmt.Errorf("%w: %q", types.ErrInvalidStatus, s)
	}
	return status, nil
}

func IsTerminal(status types.RequestStatus) bool {
	return status == types.RequestStatusFulfilled || status == types.RequestStatusCancelled
}

// Transition validates moving a request from current to target. Any known
// status may be chosen while the request is open; fulfilled and cancelled are
// one-way. Re-applying the current status is accepted as a no-op.
func Transition(current types.RequestStatus, target string) (types.RequestStatus, error) {
	next, err := ParseStatus(target)
	if err != nil {
		return current, err
	}

	if next == current {
		return next, nil
	}

	if IsTerminal(current) {
		return current, fmt.Errorf("%w: request is %s and cannot move to %s", types.ErrInvalidTransition, current, next)
	}

	return next, nil
}

// ParseUrgency treats an empty value as normal.
func ParseUrgency(s string) (types.Urgency, error) {
	u := types.Urgency(strings.ToLower(strings.TrimSpace(s)))
	switch u {
	case "":
		return types.UrgencyNormal, nil
	case types.UrgencyNormal, types.UrgencyUrgent, types.UrgencyCritical:
		return u, nil
	}
	return "", fmt.Errorf("%w: %q", types.ErrInvalidUrgency, s)
}

func ParseResponseType(s string) (types.ResponseType, error) {
	rt := types.ResponseType(strings.ToLower(strings.TrimSpace(s)))
	switch rt {
	case types.ResponseWilling, types.ResponseMaybe, types.ResponseCannot:
		return rt, nil
	}
	return "", fmt.Errorf("%w: %q", types.ErrInvalidResponseType, s)
}

// NewRequest validates a submission and fills the defaults: anonymous patient
// name, one unit, normal urgency, active status.
func NewRequest(requesterID string, in types.NewBloodRequest) (*types.BloodRequest, error) {
	required := []struct{ name, value string }{
		{"bloodGroup", in.BloodGroup},
		{"hospital", in.Hospital},
		{"location", in.Location},
		{"contactNumber", in.ContactNumber},
		{"requesterName", in.RequesterName},
		{"relationToPatient", in.RelationToPatient},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return nil, fmt.Errorf("%w: %s is required", types.ErrInvalidInput, field.name)
		}
	}

	bloodType, err := types.ParseBloodType(in.BloodGroup)
	if err != nil {
		return nil, err
	}

	urgency, err := ParseUrgency(in.Urgency)
	if err != nil {
		return nil, err
	}

	units := in.UnitsNeeded
	switch {
	case units == 0:
		units = 1
	case units < 0:
		return nil, fmt.Errorf("%w: unitsNeeded must be at least 1", types.ErrInvalidInput)
	}

	patient := strings.TrimSpace(in.PatientName)
	if patient == "" {
		patient = types.DefaultPatientName
	}

	req := &types.BloodRequest{
		PatientName:       patient,
		BloodType:         bloodType,
		UnitsNeeded:       units,
		Urgency:           urgency,
		Hospital:          strings.TrimSpace(in.Hospital),
		Location:          strings.TrimSpace(in.Location),
		ContactNumber:     strings.TrimSpace(in.ContactNumber),
		NeededBy:          in.NeededBy,
		RequesterID:       requesterID,
		RequesterName:     strings.TrimSpace(in.RequesterName),
		RelationToPatient: strings.TrimSpace(in.RelationToPatient),
		Status:            types.RequestStatusActive,
	}

	if cnic := strings.TrimSpace(in.CNIC); cnic != "" {
		if !cnicReg.MatchString(cnic) {
			return nil, fmt.Errorf("%w: cnic must be a 13-digit number", types.ErrInvalidInput)
		}
		req.CNIC = &cnic
	}

	if desc := strings.TrimSpace(in.Description); desc != "" {
		req.Description = &desc
	}

	return req, nil
}
