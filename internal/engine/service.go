package engine

import (
	"context"
	"fmt"

	"bloodlink/pkg/types"
)

// RequestStore is the persistence the engine needs for blood requests.
// Lookups by id return types.ErrRequestNotFound when nothing matches.
type RequestStore interface {
	CreateRequest(ctx context.Context, req *types.BloodRequest) error
	Request(ctx context.Context, requestID string) (*types.BloodRequest, error)
	RequestsByStatus(ctx context.Context, status types.RequestStatus) ([]*types.BloodRequest, error)
	RequestsByRequester(ctx context.Context, requesterID string) ([]*types.BloodRequest, error)
	UpdateRequestStatus(ctx context.Context, requestID string, status types.RequestStatus) error
	DeleteRequest(ctx context.Context, requestID string) error
}

// ResponseStore appends and lists donor responses.
type ResponseStore interface {
	CreateResponse(ctx context.Context, resp *types.DonorResponse) error
	ResponsesByRequest(ctx context.Context, requestID string) ([]*types.DonorResponse, error)
	ResponsesByDonor(ctx context.Context, donorID string) ([]*types.DonorResponse, error)
}

type Service struct {
	requests  RequestStore
	responses ResponseStore
}

func New(requests RequestStore, responses ResponseStore) *Service {
	return &Service{requests: requests, responses: responses}
}

// Matches is what a donor sees on the requests dashboard.
type Matches struct {
	Filter   Filter                `json:"filter"`
	Requests []*types.BloodRequest `json:"requests"`
	Counts   map[Filter]int        `json:"counts"`
}

func (s *Service) Submit(ctx context.Context, requesterID string, in types.NewBloodRequest) (*types.BloodRequest, error) {
	req, err := NewRequest(requesterID, in)
	if err != nil {
		return nil, err
	}

	if err := s.requests.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create blood request: %w", err)
	}

	return req, nil
}

func (s *Service) Request(ctx context.Context, requestID string) (*types.BloodRequest, error) {
	return s.requests.Request(ctx, requestID)
}

func (s *Service) ActiveRequests(ctx context.Context) ([]*types.BloodRequest, error) {
	return s.requests.RequestsByStatus(ctx, types.RequestStatusActive)
}

func (s *Service) RequestsByRequester(ctx context.Context, requesterID string) ([]*types.BloodRequest, error) {
	return s.requests.RequestsByRequester(ctx, requesterID)
}

// UpdateStatus moves a request to target after checking Transition.
func (s *Service) UpdateStatus(ctx context.Context, requestID, target string) (*types.BloodRequest, error) {
	if _, err := ParseStatus(target); err != nil {
		return nil, err
	}

	req, err := s.requests.Request(ctx, requestID)
	if err != nil {
		return nil, err
	}

	next, err := Transition(req.Status, target)
	if err != nil {
		return nil, err
	}

	if next != req.Status {
		if err := s.requests.UpdateRequestStatus(ctx, requestID, next); err != nil {
			return nil, fmt.Errorf("failed to update status for request %s: %w", requestID, err)
		}
		req.Status = next
	}

	return req, nil
}

func (s *Service) Delete(ctx context.Context, requestID string) error {
	return s.requests.DeleteRequest(ctx, requestID)
}

// Matches filters and ranks the active requests for donor.
func (s *Service) Matches(ctx context.Context, donor types.Donor, filter Filter) (*Matches, error) {
	active, err := s.ActiveRequests(ctx)
	if err != nil {
		return nil, err
	}

	kept, err := FilterRequests(active, donor, filter)
	if err != nil {
		return nil, err
	}

	return &Matches{
		Filter:   filter,
		Requests: RankRequests(kept),
		Counts:   FilterCounts(active, donor),
	}, nil
}

// CheckCompatibility lists the active requests donor is able to give to.
func (s *Service) CheckCompatibility(ctx context.Context, donor types.Donor) ([]*types.BloodRequest, error) {
	m, err := s.Matches(ctx, donor, FilterCompatible)
	if err != nil {
		return nil, err
	}
	return m.Requests, nil
}

// Candidates ranks donors for one request.
func (s *Service) Candidates(ctx context.Context, requestID string, donors []types.Donor) ([]types.Donor, error) {
	req, err := s.requests.Request(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return CandidateDonors(req, donors)
}
