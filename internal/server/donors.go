package server

import (
	"context"
	"net/http"
	"strings"

	"bloodlink/internal/engine"
	"bloodlink/pkg/types"
)

func (s *Service) donors(ctx context.Context, search types.DonorSearch) ([]types.Donor, error) {
	users, err := s.repos.Users.Donors(ctx, search)
	if err != nil {
		return nil, err
	}

	donors := make([]types.Donor, 0, len(users))
	for _, u := range users {
		donors = append(donors, u.Donor())
	}
	return donors, nil
}

// parseBloodTypeParam reads a blood type from a path segment or query value.
// Both are query-unescaped, so an unencoded "+" arrives as a space.
func parseBloodTypeParam(v string) (types.BloodType, error) {
	return types.ParseBloodType(strings.TrimSpace(strings.ReplaceAll(v, " ", "+")))
}

func (s *Service) handleGetDonors(w http.ResponseWriter, r *http.Request) {
	donors, err := s.donors(r.Context(), types.DonorSearch{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, donors)
}

func (s *Service) handleSearchDonors(w http.ResponseWriter, r *http.Request) {
	var search types.DonorSearch
	if err := decoder.Decode(&search, r.URL.Query()); err != nil {
		s.writeError(w, r, fieldError{"query": err.Error()})
		return
	}

	if strings.TrimSpace(search.BloodGroup) != "" {
		bt, err := parseBloodTypeParam(search.BloodGroup)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		search.BloodGroup = bt.String()
	}
	search.Location = strings.TrimSpace(search.Location)

	donors, err := s.donors(r.Context(), search)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, donors)
}

type compatibilityResponse struct {
	BloodType  types.BloodType   `json:"bloodType"`
	CanReceive []types.BloodType `json:"canReceiveFrom"`
	CanDonate  []types.BloodType `json:"canDonateTo"`
}

func (s *Service) handleGetCompatibility(w http.ResponseWriter, r *http.Request) {
	bt, err := parseBloodTypeParam(r.PathValue("bloodType"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	donors, err := engine.CompatibleDonors(bt)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	recipients, err := engine.CompatibleRecipients(bt)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, compatibilityResponse{
		BloodType:  bt,
		CanReceive: donors,
		CanDonate:  recipients,
	})
}
