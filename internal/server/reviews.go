package server

import (
	"net/http"
	"strings"

	"bloodlink/pkg/types"
)

func (s *Service) handleGetReviews(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reviews, err := s.repos.Reviews.ReviewsByDonor(ctx, r.PathValue("donorID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, reviews)
}

type reviewRequest struct {
	DonorID string `json:"donorId"`
	Review  string `json:"review"`
}

func (s *Service) handlePostReview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFromContext(ctx)

	var in reviewRequest
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	text := strings.TrimSpace(in.Review)
	if text == "" {
		s.writeError(w, r, fieldError{"review": "Review text is required."})
		return
	}

	donor, err := s.repos.Users.User(ctx, strings.TrimSpace(in.DonorID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	review := &types.Review{
		DonorID:  donor.ID,
		AuthorID: &sess.UserID,
		Review:   text,
	}
	if err := s.repos.Reviews.CreateReview(ctx, review); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, review)
}
