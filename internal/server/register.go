package server

import (
	"net/http"
	"net/mail"
	"strings"

	"bloodlink/internal/auth"
	"bloodlink/pkg/types"
)

type registerRequest struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	MobileNumber string `json:"mobileNumber"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Location     string `json:"location"`
	BloodGroup   string `json:"bloodGroup"`
	UserType     string `json:"userType"`
}

func (s *Service) handlePostRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in registerRequest
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, errs := validateRegisterInput(in)
	if len(errs) > 0 {
		s.logger.WithField("field_errors", errs).Info("validation errors during registration")
		s.writeError(w, r, errs)
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	user.PasswordHash = hash

	if err := s.repos.Users.CreateUser(ctx, user); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.WithField("user_id", user.ID).Info("user registered")

	s.writeJSON(w, http.StatusCreated, user)
}

func validateRegisterInput(in registerRequest) (*types.User, fieldError) {
	errs := fieldError{}

	user := &types.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		MobileNumber: strings.TrimSpace(in.MobileNumber),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Location:     strings.TrimSpace(in.Location),
		Available:    true,
	}

	if user.FirstName == "" {
		errs["firstName"] = "First name is required."
	}

	if user.Email == "" {
		errs["email"] = "Email is required."
	} else if _, err := mail.ParseAddress(user.Email); err != nil {
		errs["email"] = "Enter a valid email address."
	}

	switch {
	case len(in.Password) < auth.MinPasswordLength:
		errs["password"] = "Password must be at least 8 characters."
	case len(in.Password) > auth.MaxPasswordLength:
		errs["password"] = "Password must be at most 72 bytes."
	}

	switch types.UserType(strings.ToLower(strings.TrimSpace(in.UserType))) {
	case "", types.UserTypeDonor:
		user.UserType = types.UserTypeDonor
	case types.UserTypeRequester:
		user.UserType = types.UserTypeRequester
	default:
		errs["userType"] = "User type must be donor or requester."
	}

	if strings.TrimSpace(in.BloodGroup) != "" {
		bt, err := types.ParseBloodType(in.BloodGroup)
		if err != nil {
			errs["bloodGroup"] = "Blood group must be one of A+, A-, B+, B-, AB+, AB-, O+, O-."
		}
		user.BloodType = bt
	} else if user.UserType == types.UserTypeDonor {
		errs["bloodGroup"] = "Donors must provide a blood group."
	}

	return user, errs
}
