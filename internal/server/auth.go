package server

import (
	"errors"
	"net/http"
	"strings"

	"bloodlink/internal/auth"
	"bloodlink/pkg/types"
)

const cookieSessionName = "bloodlink_session"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) handlePostLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in loginRequest
	if err := s.readJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		s.writeError(w, r, fieldError{"email": "Email and password are required."})
		return
	}

	user, err := s.repos.Users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			s.writeError(w, r, types.ErrInvalidCredentials)
			return
		}
		s.writeError(w, r, err)
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, in.Password); err != nil {
		s.logger.WithField("user_id", user.ID).Info("failed login attempt")
		s.writeError(w, r, err)
		return
	}

	sess, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	encoded, err := s.cookie.Encode(cookieSessionName, sess.Token)
	if err != nil {
		s.logger.WithError(err).Error("failed to encrypt access token")
		s.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieSessionName,
		Value:    encoded,
		HttpOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		Expires:  sess.ExpiresAt,
		Path:     "/",
	})

	s.logger.WithField("user_id", user.ID).Info("user logged in")

	s.writeJSON(w, http.StatusOK, types.LoginResult{
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt,
		User:      user,
	})
}

func (s *Service) handlePostLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieSessionName,
		Value:    "",
		HttpOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})

	s.writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
