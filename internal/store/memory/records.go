package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"bloodlink/internal/utils"
	"bloodlink/pkg/types"
)

// ReviewRepository provides in-memory review storage
type ReviewRepository struct {
	mu      sync.RWMutex
	reviews []types.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{}
}

func (r *ReviewRepository) CreateReview(_ context.Context, review *types.Review) error {
	review.ID = utils.NanoID()
	review.CreatedAt = time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews = append(r.reviews, *review)
	return nil
}

func (r *ReviewRepository) ReviewsByDonor(_ context.Context, donorID string) ([]*types.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*types.Review, 0)
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].DonorID == donorID {
			review := r.reviews[i]
			out = append(out, &review)
		}
	}
	return out, nil
}

// ContactRepository provides in-memory donor contact storage
type ContactRepository struct {
	mu       sync.RWMutex
	contacts []types.DonorContact
}

func NewContactRepository() *ContactRepository {
	return &ContactRepository{}
}

func (r *ContactRepository) CreateContact(_ context.Context, contact *types.DonorContact) error {
	contact.ID = utils.NanoID()
	contact.CreatedAt = time.Now()
	if contact.Status == "" {
		contact.Status = types.ContactStatusSent
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts = append(r.contacts, *contact)
	return nil
}

func (r *ContactRepository) deleteByRequest(requestID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.contacts = slices.DeleteFunc(r.contacts, func(c types.DonorContact) bool { return c.RequestID == requestID })
}

func (r *ContactRepository) ContactsByRequest(_ context.Context, requestID string) ([]*types.DonorContact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*types.DonorContact, 0)
	for _, c := range r.contacts {
		if c.RequestID == requestID {
			c := c
			out = append(out, &c)
		}
	}
	return out, nil
}

// DonationRepository provides in-memory donation history storage
type DonationRepository struct {
	mu        sync.RWMutex
	donations []types.Donation
}

func NewDonationRepository() *DonationRepository {
	return &DonationRepository{}
}

func (r *DonationRepository) CreateDonation(_ context.Context, donation *types.Donation) error {
	donation.ID = utils.NanoID()
	donation.CreatedAt = time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.donations = append(r.donations, *donation)
	return nil
}

func (r *DonationRepository) DonationsByDonor(_ context.Context, donorID string) ([]*types.Donation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*types.Donation, 0)
	for _, d := range r.donations {
		if d.DonorID == donorID {
			d := d
			out = append(out, &d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DonatedAt.After(out[j].DonatedAt)
	})
	return out, nil
}

// DocumentRepository provides in-memory document metadata storage
type DocumentRepository struct {
	mu   sync.RWMutex
	docs []types.DonorDocument
}

func NewDocumentRepository() *DocumentRepository {
	return &DocumentRepository{}
}

func (r *DocumentRepository) CreateDocument(_ context.Context, doc *types.DonorDocument) error {
	if doc.ID == "" {
		doc.ID = utils.NanoID()
	}
	doc.UploadedAt = time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = append(r.docs, *doc)
	return nil
}

func (r *DocumentRepository) DocumentsByUser(_ context.Context, userID string) ([]*types.DonorDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*types.DonorDocument, 0)
	for i := len(r.docs) - 1; i >= 0; i-- {
		if r.docs[i].UserID == userID {
			d := r.docs[i]
			out = append(out, &d)
		}
	}
	return out, nil
}

func (r *DocumentRepository) DeleteDocument(_ context.Context, documentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.docs, func(d types.DonorDocument) bool { return d.ID == documentID })
	if i < 0 {
		return types.ErrDocumentNotFound
	}
	r.docs = slices.Delete(r.docs, i, i+1)
	return nil
}
