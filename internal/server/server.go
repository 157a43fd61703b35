package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"bloodlink/internal/auth"
	"bloodlink/internal/engine"
	"bloodlink/internal/storage"
	"bloodlink/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

type UserStore interface {
	CreateUser(ctx context.Context, user *types.User) error
	User(ctx context.Context, userID string) (*types.User, error)
	UserByEmail(ctx context.Context, email string) (*types.User, error)
	Donors(ctx context.Context, search types.DonorSearch) ([]*types.User, error)
	UpdateContact(ctx context.Context, userID, location, mobileNumber string) (*types.User, error)
	IncrementDonations(ctx context.Context, userID string) error
}

type ReviewStore interface {
	CreateReview(ctx context.Context, review *types.Review) error
	ReviewsByDonor(ctx context.Context, donorID string) ([]*types.Review, error)
}

type ContactStore interface {
	CreateContact(ctx context.Context, contact *types.DonorContact) error
	ContactsByRequest(ctx context.Context, requestID string) ([]*types.DonorContact, error)
}

type DonationStore interface {
	CreateDonation(ctx context.Context, donation *types.Donation) error
	DonationsByDonor(ctx context.Context, donorID string) ([]*types.Donation, error)
}

type DocumentStore interface {
	CreateDocument(ctx context.Context, doc *types.DonorDocument) error
	DocumentsByUser(ctx context.Context, userID string) ([]*types.DonorDocument, error)
	DeleteDocument(ctx context.Context, documentID string) error
}

// Repositories groups the stores the handlers read and write outside the engine.
type Repositories struct {
	Users     UserStore
	Reviews   ReviewStore
	Contacts  ContactStore
	Donations DonationStore
	Documents DocumentStore
}

type Service struct {
	logger *logrus.Logger
	config *types.Config

	engine *engine.Service
	repos  Repositories
	files  storage.FileStorage

	issuer   *auth.Issuer
	verifier auth.Verifier
	cookie   *securecookie.SecureCookie

	now func() time.Time

	server *http.Server
}

// New wires the HTTP API. files may be nil when document storage is not
// configured. verifier defaults to issuer when nil.
func New(
	config *types.Config,
	logger *logrus.Logger,
	svc *engine.Service,
	repos Repositories,
	files storage.FileStorage,
	issuer *auth.Issuer,
	verifier auth.Verifier,
) (*Service, error) {
	hashKey, err := base64.StdEncoding.DecodeString(config.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("decode cookie hash key: %w", err)
	}
	blockKey, err := base64.StdEncoding.DecodeString(config.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("decode cookie block key: %w", err)
	}
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
		logger.Warn("COOKIE_HASH_KEY not set, session cookies will not survive a restart")
	}
	if len(blockKey) == 0 {
		blockKey = nil
	}

	if verifier == nil {
		verifier = issuer
	}

	mux := flow.New()

	s := &Service{
		logger:   logger,
		config:   config,
		engine:   svc,
		repos:    repos,
		files:    files,
		issuer:   issuer,
		verifier: verifier,
		cookie:   securecookie.New(hashKey, blockKey),
		now:      time.Now,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)
	s.server.Handler = s.CORS(s.StripTrailingSlash(mux))

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, types.ErrNotFound)
	})

	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/health", s.handleHealth, http.MethodGet)

	r.HandleFunc("/register", s.handlePostRegister, http.MethodPost)
	r.HandleFunc("/login", s.handlePostLogin, http.MethodPost)
	r.HandleFunc("/logout", s.handlePostLogout, http.MethodPost)

	r.HandleFunc("/donors", s.handleGetDonors, http.MethodGet)
	r.HandleFunc("/donors/search", s.handleSearchDonors, http.MethodGet)
	r.HandleFunc("/compatibility/:bloodType", s.handleGetCompatibility, http.MethodGet)
	r.HandleFunc("/reviews/:donorID", s.handleGetReviews, http.MethodGet)
	r.HandleFunc("/blood-requests", s.handleGetBloodRequests, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/me", s.handleGetMe, http.MethodGet)
		r.HandleFunc("/me", s.handlePutMe, http.MethodPut)
		r.HandleFunc("/me/blood-requests", s.handleGetMyBloodRequests, http.MethodGet)
		r.HandleFunc("/me/responses", s.handleGetMyResponses, http.MethodGet)
		r.HandleFunc("/me/donations", s.handleGetDonations, http.MethodGet)
		r.HandleFunc("/me/donations", s.handlePostDonation, http.MethodPost)
		r.HandleFunc("/me/stats", s.handleGetStats, http.MethodGet)
		r.HandleFunc("/me/documents", s.handleGetDocuments, http.MethodGet)
		r.HandleFunc("/me/documents", s.handlePostDocument, http.MethodPost)
		r.HandleFunc("/me/documents/:id", s.handleDeleteDocument, http.MethodDelete)

		r.HandleFunc("/blood-requests", s.handlePostBloodRequest, http.MethodPost)
		r.HandleFunc("/blood-requests/matches", s.handleGetMatches, http.MethodGet)
		r.HandleFunc("/blood-requests/:id/status", s.handlePutRequestStatus, http.MethodPut)
		r.HandleFunc("/blood-requests/:id", s.handleDeleteBloodRequest, http.MethodDelete)
		r.HandleFunc("/blood-requests/:id/responses", s.handlePostResponse, http.MethodPost)
		r.HandleFunc("/blood-requests/:id/responses", s.handleGetResponses, http.MethodGet)
		r.HandleFunc("/blood-requests/:id/donors", s.handleGetCandidates, http.MethodGet)
		r.HandleFunc("/blood-requests/:id/contacts", s.handlePostContact, http.MethodPost)
		r.HandleFunc("/blood-requests/:id/contacts", s.handleGetContacts, http.MethodGet)

		r.HandleFunc("/reviews", s.handlePostReview, http.MethodPost)
	})

	// registered after /blood-requests/matches so that path is never read as an id
	r.HandleFunc("/blood-requests/:id", s.handleGetBloodRequest, http.MethodGet)
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
