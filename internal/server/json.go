package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"bloodlink/internal/storage"
	"bloodlink/pkg/types"
)

const maxJSONBody = 1 << 20

var errForbidden = errors.New("only the requester can do this")

type errorResponse struct {
	Error       string            `json:"error"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

// fieldError reports per-field validation failures.
type fieldError map[string]string

func (fe fieldError) Error() string {
	return "validation failed"
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.Join(types.ErrInvalidInput, err)
	}
	return nil
}

func statusFor(err error) int {
	var fe fieldError
	switch {
	case errors.As(err, &fe):
		return http.StatusBadRequest
	case errors.Is(err, errUnauthenticated), errors.Is(err, types.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, errForbidden):
		return http.StatusForbidden
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, storage.ErrDisabled):
		return http.StatusServiceUnavailable
	case errors.Is(err, types.ErrInvalidBloodType),
		errors.Is(err, types.ErrInvalidStatus),
		errors.Is(err, types.ErrInvalidResponseType),
		errors.Is(err, types.ErrInvalidUrgency),
		errors.Is(err, types.ErrInvalidFilter),
		errors.Is(err, types.ErrInvalidInput),
		errors.Is(err, types.ErrEmailTaken):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Service) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	resp := errorResponse{Error: err.Error()}
	var fe fieldError
	if errors.As(err, &fe) {
		resp.FieldErrors = fe
	}

	if status == http.StatusInternalServerError {
		requestID, _ := r.Context().Value(contextKeyRequestID).(string)
		s.logger.WithError(err).WithField("request_id", requestID).Error("request failed")
		resp.Error = "internal server error"
	}

	s.writeJSON(w, status, resp)
}
