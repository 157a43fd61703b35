package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"bloodlink/internal/auth"
	"bloodlink/internal/engine"
	"bloodlink/internal/storage"
	"bloodlink/internal/store/memory"
	"bloodlink/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	srv     *Service
	handler http.Handler
	files   *storage.MemoryStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	config := &types.Config{
		Environment:    "test",
		AllowedOrigins: []string{"http://localhost:3000"},
	}

	issuer, err := auth.NewIssuer("test-secret", "bloodlink", time.Hour)
	require.NoError(t, err)

	files := storage.NewMemoryStorage()
	requests := memory.NewRequestRepository()
	responses := memory.NewResponseRepository()
	contacts := memory.NewContactRepository()
	requests.Cascade(responses, contacts)
	svc := engine.New(requests, responses)

	srv, err := New(config, logger, svc, Repositories{
		Users:     memory.NewUserRepository(),
		Reviews:   memory.NewReviewRepository(),
		Contacts:  contacts,
		Donations: memory.NewDonationRepository(),
		Documents: memory.NewDocumentRepository(),
	}, files, issuer, nil)
	require.NoError(t, err)

	return &testEnv{srv: srv, handler: srv.Handler(), files: files}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// signup registers and logs in a user, returning the bearer token and user.
func (e *testEnv) signup(t *testing.T, email, userType, bloodGroup, location string) (string, types.User) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/register", registerRequest{
		FirstName:    "Test",
		LastName:     userType,
		MobileNumber: "03001234567",
		Email:        email,
		Password:     "password123",
		Location:     location,
		BloodGroup:   bloodGroup,
		UserType:     userType,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/login", loginRequest{Email: email, Password: "password123"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decode[types.LoginResult](t, rec)
	require.NotEmpty(t, result.Token)
	return result.Token, *result.User
}

func (e *testEnv) submit(t *testing.T, token, bloodGroup, urgency, location string) types.BloodRequest {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/blood-requests", types.NewBloodRequest{
		BloodGroup:        bloodGroup,
		Urgency:           urgency,
		Hospital:          "Civil Hospital",
		Location:          location,
		ContactNumber:     "03001112222",
		RequesterName:     "Ayesha",
		RelationToPatient: "sister",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[types.BloodRequest](t, rec)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	_, user := env.signup(t, "Donor@Example.com", "donor", "o-", "Karachi")
	assert.Equal(t, "donor@example.com", user.Email)
	assert.Equal(t, types.BloodTypeONeg, user.BloodType)
	assert.NotContains(t, env.do(t, http.MethodGet, "/donors", nil, "").Body.String(), "password")

	rec := env.do(t, http.MethodPost, "/register", registerRequest{
		FirstName: "Again", Email: "donor@example.com", Password: "password123", BloodGroup: "A+",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/register", registerRequest{Email: "bad", Password: "x", BloodGroup: "Z"}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorResponse](t, rec)
	assert.Contains(t, body.FieldErrors, "firstName")
	assert.Contains(t, body.FieldErrors, "email")
	assert.Contains(t, body.FieldErrors, "password")
	assert.Contains(t, body.FieldErrors, "bloodGroup")

	rec = env.do(t, http.MethodPost, "/register", registerRequest{
		FirstName: "Long", Email: "long@example.com", Password: strings.Repeat("p", 80), BloodGroup: "A+",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, decode[errorResponse](t, rec).FieldErrors, "password")

	rec = env.do(t, http.MethodPost, "/login", loginRequest{Email: "donor@example.com", Password: "wrong-password"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodPost, "/login", loginRequest{Email: "nobody@example.com", Password: "password123"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/me", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	env.signup(t, "cookie@example.com", "donor", "B+", "Lahore")

	login := env.do(t, http.MethodPost, "/login", loginRequest{Email: "cookie@example.com", Password: "password123"}, "")
	require.Equal(t, http.StatusOK, login.Code)
	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "cookie@example.com", decode[types.User](t, rec).Email)

	logout := env.do(t, http.MethodPost, "/logout", nil, "")
	require.Equal(t, http.StatusOK, logout.Code)
	require.NotEmpty(t, logout.Result().Cookies())
	assert.Equal(t, -1, logout.Result().Cookies()[0].MaxAge)
}

func TestUpdateContact(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "move@example.com", "donor", "A+", "Lahore")

	rec := env.do(t, http.MethodPut, "/me", contactUpdate{Location: "Karachi"}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, "/me", contactUpdate{Location: "Karachi", MobileNumber: "03211234567"}, token)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode[types.User](t, rec)
	assert.Equal(t, "Karachi", user.Location)
	assert.Equal(t, "03211234567", user.MobileNumber)
}

func TestBloodRequestLifecycle(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.signup(t, "owner@example.com", "requester", "", "Karachi")
	other, _ := env.signup(t, "other@example.com", "donor", "O-", "Karachi")

	req := env.submit(t, owner, "O+", "", "Karachi")
	assert.Equal(t, types.RequestStatusActive, req.Status)
	assert.Equal(t, types.UrgencyNormal, req.Urgency)
	assert.Equal(t, 1, req.UnitsNeeded)
	assert.Equal(t, types.DefaultPatientName, req.PatientName)

	rec := env.do(t, http.MethodGet, "/blood-requests", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]types.PublicBloodRequest](t, rec), 1)

	rec = env.do(t, http.MethodGet, "/blood-requests/"+req.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/me/blood-requests", nil, owner)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]types.BloodRequest](t, rec), 1)

	statusPath := "/blood-requests/" + req.ID + "/status"

	rec = env.do(t, http.MethodPut, statusPath, statusUpdate{Status: "bogus"}, owner)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPut, statusPath, statusUpdate{Status: "fulfilled"}, other)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPut, statusPath, statusUpdate{Status: "fulfilled"}, owner)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, types.RequestStatusFulfilled, decode[types.BloodRequest](t, rec).Status)

	rec = env.do(t, http.MethodPut, statusPath, statusUpdate{Status: "active"}, owner)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodGet, "/blood-requests", nil, "")
	assert.Empty(t, decode[[]types.PublicBloodRequest](t, rec))

	rec = env.do(t, http.MethodPut, "/blood-requests/missing/status", statusUpdate{Status: "cancelled"}, owner)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/blood-requests/"+req.ID, nil, other)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodDelete, "/blood-requests/"+req.ID, nil, owner)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/blood-requests/"+req.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPublicRequestsHideRequesterDetails(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.signup(t, "owner@example.com", "requester", "", "Karachi")
	donor, _ := env.signup(t, "donor@example.com", "donor", "O-", "Karachi")

	rec := env.do(t, http.MethodPost, "/blood-requests", types.NewBloodRequest{
		PatientName:       "Bilal",
		CNIC:              "4210112345671",
		BloodGroup:        "B+",
		Hospital:          "Aga Khan",
		Location:          "Karachi",
		ContactNumber:     "03001112222",
		RequesterName:     "Sana",
		RelationToPatient: "wife",
	}, owner)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[types.BloodRequest](t, rec)
	require.NotNil(t, created.CNIC, "the requester sees their own submission in full")

	for _, path := range []string{"/blood-requests", "/blood-requests/" + created.ID} {
		rec = env.do(t, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Aga Khan")
		assert.NotContains(t, body, "4210112345671", path)
		assert.NotContains(t, body, "cnic", path)
		assert.NotContains(t, body, "requesterId", path)
		assert.NotContains(t, body, "relationToPatient", path)
	}

	rec = env.do(t, http.MethodGet, "/blood-requests/matches?filter=all", nil, donor)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "4210112345671")

	rec = env.do(t, http.MethodGet, "/me/blood-requests", nil, owner)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[[]types.BloodRequest](t, rec)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].CNIC)
	assert.Equal(t, "4210112345671", *mine[0].CNIC)
}

func TestSubmitValidation(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.signup(t, "owner@example.com", "requester", "", "Karachi")

	rec := env.do(t, http.MethodPost, "/blood-requests", types.NewBloodRequest{BloodGroup: "O+"}, owner)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/blood-requests", types.NewBloodRequest{
		BloodGroup: "Q+", Hospital: "h", Location: "l", ContactNumber: "c", RequesterName: "r", RelationToPatient: "x",
	}, owner)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResponses(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.signup(t, "owner@example.com", "requester", "", "Karachi")
	donor, _ := env.signup(t, "donor@example.com", "donor", "O-", "Karachi")

	req := env.submit(t, owner, "A+", "urgent", "Karachi")
	path := "/blood-requests/" + req.ID + "/responses"

	rec := env.do(t, http.MethodPost, path, responseRequest{ResponseType: "maybe"}, donor)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = env.do(t, http.MethodPost, path, responseRequest{ResponseType: "willing", Message: "leaving now"}, donor)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, path, responseRequest{ResponseType: "sure"}, donor)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/blood-requests/missing/responses", responseRequest{ResponseType: "willing"}, donor)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, path, nil, donor)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodGet, path, nil, owner)
	require.Equal(t, http.StatusOK, rec.Code)
	responses := decode[[]types.DonorResponse](t, rec)
	require.Len(t, responses, 2)
	assert.Equal(t, types.ResponseMaybe, responses[0].ResponseType)
	assert.Equal(t, types.ResponseWilling, responses[1].ResponseType)

	rec = env.do(t, http.MethodGet, "/me/responses", nil, donor)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]types.DonorResponse](t, rec), 2)

	rec = env.do(t, http.MethodGet, "/blood-requests/"+req.ID, nil, "")
	assert.Equal(t, types.RequestStatusActive, decode[types.PublicBloodRequest](t, rec).Status)

	rec = env.do(t, http.MethodDelete, "/blood-requests/"+req.ID, nil, owner)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/me/responses", nil, donor)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]types.DonorResponse](t, rec), "responses go with their request")
}

type matchesBody struct {
	Filter   string                     `json:"filter"`
	Requests []types.PublicBloodRequest `json:"requests"`
	Counts   map[string]int             `json:"counts"`
}

func TestMatches(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.signup(t, "owner@example.com", "requester", "", "Karachi")
	donor, _ := env.signup(t, "donor@example.com", "donor", "O-", "Karachi")

	karachi := env.submit(t, owner, "O+", "critical", "Karachi, Pakistan")
	env.submit(t, owner, "AB-", "normal", "Lahore")

	rec := env.do(t, http.MethodGet, "/blood-requests/matches", nil, donor)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[matchesBody](t, rec)
	assert.Equal(t, "compatible", body.Filter)
	assert.Len(t, body.Requests, 2)
	assert.Equal(t, karachi.ID, body.Requests[0].ID, "critical ranks first")
	assert.Equal(t, map[string]int{"compatible": 2, "urgent": 1, "nearby": 1, "all": 2}, body.Counts)

	rec = env.do(t, http.MethodGet, "/blood-requests/matches?filter=nearby", nil, donor)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[matchesBody](t, rec)
	require.Len(t, body.Requests, 1)
	assert.Equal(t, karachi.ID, body.Requests[0].ID)

	rec = env.do(t, http.MethodGet, "/blood-requests/matches?filter=closest", nil, donor)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/blood-requests/matches", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCompatibilityEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/compatibility/AB-", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[compatibilityResponse](t, rec)
	assert.Equal(t, []types.BloodType{"A-", "B-", "AB-", "O-"}, body.CanReceive)
	assert.Equal(t, []types.BloodType{"AB+", "AB-"}, body.CanDonate)

	positives := map[string]types.BloodType{
		"/compatibility/o+":   types.BloodTypeOPos,
		"/compatibility/A+":   types.BloodTypeAPos,
		"/compatibility/AB+":  types.BloodTypeABPos,
		"/compatibility/A%2B": types.BloodTypeAPos,
	}
	for path, want := range positives {
		rec = env.do(t, http.MethodGet, path, nil, "")
		require.Equal(t, http.StatusOK, rec.Code, "%s: %s", path, rec.Body.String())
		assert.Equal(t, want, decode[compatibilityResponse](t, rec).BloodType, path)
	}

	rec = env.do(t, http.MethodGet, "/compatibility/AB+", nil, "")
	assert.Equal(t, []types.BloodType{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}, decode[compatibilityResponse](t, rec).CanReceive)

	rec = env.do(t, http.MethodGet, "/compatibility/XY", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDonorSearch(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "a@example.com", "donor", "O+", "North Karachi")
	env.signup(t, "b@example.com", "donor", "O+", "Lahore")
	env.signup(t, "c@example.com", "donor", "A-", "Karachi")
	env.signup(t, "r@example.com", "requester", "O+", "Karachi")

	rec := env.do(t, http.MethodGet, "/donors", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]types.Donor](t, rec), 3)

	rec = env.do(t, http.MethodGet, "/donors/search?bloodGroup=O%2B&location=karachi", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	donors := decode[[]types.Donor](t, rec)
	require.Len(t, donors, 1)
	assert.Equal(t, "North Karachi", donors[0].Location)

	rec = env.do(t, http.MethodGet, "/donors/search?bloodGroup=O+", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]types.Donor](t, rec), 2)

	rec = env.do(t, http.MethodGet, "/donors/search?bloodGroup=Z", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCandidatesAndContacts(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.signup(t, "owner@example.com", "requester", "", "Karachi")
	_, oNeg := env.signup(t, "oneg@example.com", "donor", "O-", "Karachi")
	_, oPos := env.signup(t, "opos@example.com", "donor", "O+", "Karachi")
	env.signup(t, "apos@example.com", "donor", "A+", "Karachi")

	req := env.submit(t, owner, "O+", "critical", "Karachi")

	rec := env.do(t, http.MethodGet, "/blood-requests/"+req.ID+"/donors", nil, owner)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	candidates := decode[[]types.Donor](t, rec)
	require.Len(t, candidates, 2)
	assert.Equal(t, oPos.ID, candidates[0].ID, "exact match ranks first")
	assert.Equal(t, oNeg.ID, candidates[1].ID)

	contactsPath := "/blood-requests/" + req.ID + "/contacts"
	rec = env.do(t, http.MethodPost, contactsPath, contactRequest{DonorID: oPos.ID}, owner)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	contact := decode[types.DonorContact](t, rec)
	assert.Equal(t, types.ContactStatusSent, contact.Status)
	assert.Equal(t, oPos.FullName(), contact.DonorName)

	rec = env.do(t, http.MethodPost, contactsPath, contactRequest{DonorID: "missing"}, owner)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, contactsPath, nil, owner)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]types.DonorContact](t, rec), 1)
}

func TestReviews(t *testing.T) {
	env := newTestEnv(t)
	author, _ := env.signup(t, "author@example.com", "requester", "", "Karachi")
	_, donor := env.signup(t, "donor@example.com", "donor", "B+", "Karachi")

	rec := env.do(t, http.MethodPost, "/reviews", reviewRequest{DonorID: donor.ID, Review: "  "}, author)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/reviews", reviewRequest{DonorID: "missing", Review: "great"}, author)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	for _, text := range []string{"first", "second"} {
		rec = env.do(t, http.MethodPost, "/reviews", reviewRequest{DonorID: donor.ID, Review: text}, author)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/reviews/"+donor.ID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	reviews := decode[[]types.Review](t, rec)
	require.Len(t, reviews, 2)
	assert.Equal(t, "second", reviews[0].Review)
}

func TestDonationsAndStats(t *testing.T) {
	env := newTestEnv(t)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	env.srv.now = func() time.Time { return now }

	token, _ := env.signup(t, "donor@example.com", "donor", "O+", "Karachi")

	rec := env.do(t, http.MethodGet, "/me/stats", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[types.DonorStats](t, rec)
	assert.True(t, stats.Eligible)
	assert.Zero(t, stats.TotalDonations)

	last := now.Add(-10 * 24 * time.Hour)
	rec = env.do(t, http.MethodPost, "/me/donations", types.NewDonation{Hospital: "Indus Hospital", Date: &last}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = env.do(t, http.MethodPost, "/me/donations", types.NewDonation{Hospital: "Indus Hospital", Status: "scheduled"}, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = env.do(t, http.MethodPost, "/me/donations", types.NewDonation{}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/me/donations", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]types.Donation](t, rec), 2)

	rec = env.do(t, http.MethodGet, "/me/stats", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	stats = decode[types.DonorStats](t, rec)
	assert.Equal(t, 1, stats.TotalDonations)
	assert.Equal(t, 3, stats.LivesImpacted)
	assert.Equal(t, 450, stats.TotalVolumeML)
	assert.False(t, stats.Eligible)
	require.NotNil(t, stats.NextEligibleDate)
	assert.True(t, last.Add(56*24*time.Hour).Equal(*stats.NextEligibleDate))

	rec = env.do(t, http.MethodGet, "/me", nil, token)
	assert.Equal(t, 1, decode[types.User](t, rec).TotalDonations)
}

type brokenCounter struct {
	UserStore
}

func (brokenCounter) IncrementDonations(context.Context, string) error {
	return errors.New("connection reset")
}

func TestDonationSurvivesCounterFailure(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.signup(t, "donor@example.com", "donor", "O+", "Karachi")
	env.srv.repos.Users = brokenCounter{env.srv.repos.Users}

	rec := env.do(t, http.MethodPost, "/me/donations", types.NewDonation{Hospital: "Indus Hospital"}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/me/stats", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[types.DonorStats](t, rec).TotalDonations)
}

func multipartUpload(t *testing.T, fileName, contentType, documentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("documentType", documentType))

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return body, mw.FormDataContentType()
}

func TestDocuments(t *testing.T) {
	env := newTestEnv(t)
	token, user := env.signup(t, "donor@example.com", "donor", "O+", "Karachi")

	pdf := []byte("%PDF-1.4")
	upload := func(fileName, contentType, documentType string, content []byte) *httptest.ResponseRecorder {
		body, ct := multipartUpload(t, fileName, contentType, documentType, content)
		req := httptest.NewRequest(http.MethodPost, "/me/documents", body)
		req.Header.Set("Content-Type", ct)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		return rec
	}

	rec := upload("card.exe", "application/x-msdownload", "donor_card", []byte("MZ\x90\x00\x03\x00\x00\x00"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = upload("card.pdf", "application/pdf", "donor_card", []byte("<html><script>alert(1)</script></html>"))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "the declared type is not trusted")

	rec = upload("card.pdf", "application/pdf", "passport", pdf)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...)
	rec = upload("scan.png", "application/octet-stream", "medical_check", png)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", decode[types.DonorDocument](t, rec).MimeType)

	rec = upload("card.pdf", "application/pdf", "donor_card", pdf)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	doc := decode[types.DonorDocument](t, rec)
	assert.Equal(t, user.ID, doc.UserID)
	assert.Equal(t, storage.Key(user.ID, doc.ID, "card.pdf"), doc.StorageKey)

	stored, ok := env.files.Object(doc.StorageKey)
	require.True(t, ok)
	assert.Equal(t, "%PDF-1.4", string(stored))

	rec = env.do(t, http.MethodGet, "/me/documents", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]types.DonorDocument](t, rec), 2)

	other, _ := env.signup(t, "other@example.com", "donor", "A+", "Karachi")
	rec = env.do(t, http.MethodDelete, "/me/documents/"+doc.ID, nil, other)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, "/me/documents/"+doc.ID, nil, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	_, ok = env.files.Object(doc.StorageKey)
	assert.False(t, ok)
}

func TestDocumentsWithoutStorage(t *testing.T) {
	env := newTestEnv(t)
	env.srv.files = nil
	token, _ := env.signup(t, "donor@example.com", "donor", "O+", "Karachi")

	body, ct := multipartUpload(t, "card.pdf", "application/pdf", "donor_card", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/me/documents", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCORSAndTrailingSlash(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/blood-requests", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = env.do(t, http.MethodGet, "/donors/", nil, "")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/donors", rec.Header().Get("Location"))

	rec = env.do(t, http.MethodGet, "/nowhere", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		types.ErrInvalidBloodType:    http.StatusBadRequest,
		types.ErrInvalidStatus:       http.StatusBadRequest,
		types.ErrInvalidResponseType: http.StatusBadRequest,
		types.ErrEmailTaken:          http.StatusBadRequest,
		types.ErrRequestNotFound:     http.StatusNotFound,
		types.ErrUserNotFound:        http.StatusNotFound,
		types.ErrInvalidTransition:   http.StatusConflict,
		types.ErrInvalidCredentials:  http.StatusUnauthorized,
		errForbidden:                 http.StatusForbidden,
		storage.ErrDisabled:          http.StatusServiceUnavailable,
		io.ErrUnexpectedEOF:          http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusFor(fmt.Errorf("wrapped: %w", err)), err.Error())
	}
	assert.Equal(t, http.StatusBadRequest, statusFor(fieldError{"a": "b"}))
}
