package server

import (
	"net/http"

	"bloodlink/pkg/types"
)

type responseRequest struct {
	ResponseType string `json:"responseType"`
	Message      string `json:"message"`
}

func (s *Service) handlePostResponse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFromContext(ctx)

	var in responseRequest
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	resp, err := s.engine.Respond(ctx, r.PathValue("id"), sess.UserID, in.ResponseType, in.Message)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.WithField("request_id", resp.RequestID).WithField("response_type", resp.ResponseType).Info("donor responded")

	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Service) handleGetResponses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := s.ownedRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	responses, err := s.engine.Responses(ctx, req.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, responses)
}

func (s *Service) handleGetMyResponses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	responses, err := s.engine.ResponsesByDonor(ctx, sessionFromContext(ctx).UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, responses)
}

func (s *Service) handleGetCandidates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := s.ownedRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	donors, err := s.donors(ctx, types.DonorSearch{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	candidates, err := s.engine.Candidates(ctx, req.ID, donors)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, candidates)
}
