package server

import (
	"net/http"
	"strings"

	"bloodlink/pkg/types"

	"github.com/sirupsen/logrus"
)

type contactRequest struct {
	DonorID string `json:"donorId"`
}

// handlePostContact records that the requester reached out to a donor about
// one of their requests.
func (s *Service) handlePostContact(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in contactRequest
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	req, err := s.ownedRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	donor, err := s.repos.Users.User(ctx, strings.TrimSpace(in.DonorID))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	contact := &types.DonorContact{
		RequestID: req.ID,
		DonorID:   donor.ID,
		DonorName: donor.FullName(),
		Status:    types.ContactStatusSent,
	}
	if err := s.repos.Contacts.CreateContact(ctx, contact); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.WithFields(logrus.Fields{
		"request_id": req.ID,
		"donor_id":   donor.ID,
	}).Info("donor contacted")

	s.writeJSON(w, http.StatusCreated, contact)
}

func (s *Service) handleGetContacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := s.ownedRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	contacts, err := s.repos.Contacts.ContactsByRequest(ctx, req.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, contacts)
}
