package server

import (
	"net/http"
	"strings"
)

func (s *Service) handleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFromContext(ctx)

	user, err := s.repos.Users.User(ctx, sess.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, user)
}

type contactUpdate struct {
	Location     string `json:"location"`
	MobileNumber string `json:"mobileNumber"`
}

func (s *Service) handlePutMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFromContext(ctx)

	var in contactUpdate
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	errs := fieldError{}
	location := strings.TrimSpace(in.Location)
	mobile := strings.TrimSpace(in.MobileNumber)
	if location == "" {
		errs["location"] = "Location is required."
	}
	if mobile == "" {
		errs["mobileNumber"] = "Mobile number is required."
	}
	if len(errs) > 0 {
		s.writeError(w, r, errs)
		return
	}

	user, err := s.repos.Users.UpdateContact(ctx, sess.UserID, location, mobile)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, user)
}
