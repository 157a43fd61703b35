package engine

import (
	"context"
	"fmt"
	"strings"

	"bloodlink/pkg/types"
)

// Respond records a donor's answer to a request. It never changes the
// request's status; fulfilling a request is always a separate UpdateStatus.
func (s *Service) Respond(ctx context.Context, requestID, donorID, responseType, message string) (*types.DonorResponse, error) {
	rt, err := ParseResponseType(responseType)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(donorID) == "" {
		return nil, fmt.Errorf("%w: donorId is required", types.ErrInvalidInput)
	}

	if _, err := s.requests.Request(ctx, requestID); err != nil {
		return nil, err
	}

	resp := &types.DonorResponse{
		RequestID:    requestID,
		DonorID:      donorID,
		ResponseType: rt,
	}
	if msg := strings.TrimSpace(message); msg != "" {
		resp.Message = &msg
	}

	if err := s.responses.CreateResponse(ctx, resp); err != nil {
		return nil, fmt.Errorf("failed to record response: %w", err)
	}

	return resp, nil
}

func (s *Service) Responses(ctx context.Context, requestID string) ([]*types.DonorResponse, error) {
	return s.responses.ResponsesByRequest(ctx, requestID)
}

func (s *Service) ResponsesByDonor(ctx context.Context, donorID string) ([]*types.DonorResponse, error) {
	return s.responses.ResponsesByDonor(ctx, donorID)
}
