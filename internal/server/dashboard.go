package server

import (
	"net/http"

	"bloodlink/internal/engine"
	"bloodlink/pkg/types"

	"github.com/sirupsen/logrus"
)

func (s *Service) handleGetDonations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	donations, err := s.repos.Donations.DonationsByDonor(ctx, sessionFromContext(ctx).UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, donations)
}

func (s *Service) handlePostDonation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFromContext(ctx)

	var in types.NewDonation
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	donation, err := engine.NewDonation(sess.UserID, in, s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.repos.Donations.CreateDonation(ctx, donation); err != nil {
		s.writeError(w, r, err)
		return
	}

	// /me/stats reads the donation rows; the counter is best effort
	if donation.Status == types.DonationStatusCompleted {
		if err := s.repos.Users.IncrementDonations(ctx, sess.UserID); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"user_id":     sess.UserID,
				"donation_id": donation.ID,
			}).Error("failed to increment donation count")
		}
	}

	s.writeJSON(w, http.StatusCreated, donation)
}

func (s *Service) handleGetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	donations, err := s.repos.Donations.DonationsByDonor(ctx, sessionFromContext(ctx).UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, engine.DonorStats(donations, s.now()))
}
