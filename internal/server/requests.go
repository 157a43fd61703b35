package server

import (
	"net/http"

	"bloodlink/internal/engine"
	"bloodlink/pkg/types"
)

func (s *Service) handleGetBloodRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := s.engine.ActiveRequests(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, types.PublicBloodRequests(reqs))
}

func (s *Service) handleGetBloodRequest(w http.ResponseWriter, r *http.Request) {
	req, err := s.engine.Request(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, req.Public())
}

func (s *Service) handlePostBloodRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFromContext(ctx)

	var in types.NewBloodRequest
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	req, err := s.engine.Submit(ctx, sess.UserID, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.WithField("request_id", req.ID).WithField("blood_group", req.BloodType).Info("blood request submitted")

	s.writeJSON(w, http.StatusCreated, req)
}

func (s *Service) handleGetMyBloodRequests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFromContext(ctx)

	reqs, err := s.engine.RequestsByRequester(ctx, sess.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, reqs)
}

// ownedRequest loads the request named in the path and checks that the
// session user submitted it.
func (s *Service) ownedRequest(r *http.Request) (*types.BloodRequest, error) {
	ctx := r.Context()
	req, err := s.engine.Request(ctx, r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	if req.RequesterID != sessionFromContext(ctx).UserID {
		return nil, errForbidden
	}
	return req, nil
}

type statusUpdate struct {
	Status string `json:"status"`
}

func (s *Service) handlePutRequestStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in statusUpdate
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	req, err := s.ownedRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	req, err = s.engine.UpdateStatus(ctx, req.ID, in.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, req)
}

func (s *Service) handleDeleteBloodRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := s.ownedRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.engine.Delete(ctx, req.ID); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type matchesQuery struct {
	Filter string `form:"filter"`
}

type matchesResponse struct {
	Filter   engine.Filter              `json:"filter"`
	Requests []types.PublicBloodRequest `json:"requests"`
	Counts   map[engine.Filter]int      `json:"counts"`
}

func (s *Service) handleGetMatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFromContext(ctx)

	var q matchesQuery
	if err := decoder.Decode(&q, r.URL.Query()); err != nil {
		s.writeError(w, r, fieldError{"query": err.Error()})
		return
	}

	filter, err := engine.ParseFilter(q.Filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.repos.Users.User(ctx, sess.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	matches, err := s.engine.Matches(ctx, user.Donor(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, matchesResponse{
		Filter:   matches.Filter,
		Requests: types.PublicBloodRequests(matches.Requests),
		Counts:   matches.Counts,
	})
}
