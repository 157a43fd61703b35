// Package memory keeps every repository in process memory. It backs the
// server when no database is configured and is what the handler and engine
// tests run against.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"bloodlink/internal/engine"
	"bloodlink/internal/utils"
	"bloodlink/pkg/types"
)

// RequestRepository provides in-memory blood request storage
type RequestRepository struct {
	mu       sync.RWMutex
	requests []*types.BloodRequest
	children []requestChildren
}

// requestChildren hold rows that belong to a request and go with it, like
// the ON DELETE CASCADE foreign keys in the Postgres schema.
type requestChildren interface {
	deleteByRequest(requestID string)
}

func NewRequestRepository() *RequestRepository {
	return &RequestRepository{}
}

var _ engine.RequestStore = (*RequestRepository)(nil)

// Cascade registers repositories whose rows are removed along with a deleted
// request.
func (r *RequestRepository) Cascade(children ...requestChildren) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.children = append(r.children, children...)
}

func (r *RequestRepository) CreateRequest(_ context.Context, req *types.BloodRequest) error {
	now := time.Now()
	req.ID = utils.NanoID()
	req.CreatedAt = now
	req.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *req
	r.requests = append(r.requests, &stored)
	return nil
}

// PutRequest stores req as given, replacing any request with the same id.
func (r *RequestRepository) PutRequest(req types.BloodRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.requests {
		if existing.ID == req.ID {
			r.requests[i] = &req
			return
		}
	}
	r.requests = append(r.requests, &req)
}

// UpsertRequest keeps the caller's id; used by seeding.
func (r *RequestRepository) UpsertRequest(_ context.Context, req *types.BloodRequest) error {
	now := time.Now()
	if req.CreatedAt.IsZero() {
		req.CreatedAt = now
	}
	req.UpdatedAt = now
	r.PutRequest(*req)
	return nil
}

func (r *RequestRepository) Request(_ context.Context, requestID string) (*types.BloodRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, req := range r.requests {
		if req.ID == requestID {
			out := *req
			return &out, nil
		}
	}
	return nil, types.ErrRequestNotFound
}

func (r *RequestRepository) RequestsByStatus(_ context.Context, status types.RequestStatus) ([]*types.BloodRequest, error) {
	return r.newestFirst(func(req *types.BloodRequest) bool { return req.Status == status }), nil
}

func (r *RequestRepository) RequestsByRequester(_ context.Context, requesterID string) ([]*types.BloodRequest, error) {
	return r.newestFirst(func(req *types.BloodRequest) bool { return req.RequesterID == requesterID }), nil
}

func (r *RequestRepository) newestFirst(keep func(*types.BloodRequest) bool) []*types.BloodRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*types.BloodRequest, 0)
	for i := len(r.requests) - 1; i >= 0; i-- {
		if keep(r.requests[i]) {
			req := *r.requests[i]
			out = append(out, &req)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (r *RequestRepository) UpdateRequestStatus(_ context.Context, requestID string, status types.RequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, req := range r.requests {
		if req.ID == requestID {
			req.Status = status
			req.UpdatedAt = time.Now()
			return nil
		}
	}
	return types.ErrRequestNotFound
}

func (r *RequestRepository) DeleteRequest(_ context.Context, requestID string) error {
	r.mu.Lock()
	idx := slices.IndexFunc(r.requests, func(req *types.BloodRequest) bool { return req.ID == requestID })
	if idx < 0 {
		r.mu.Unlock()
		return types.ErrRequestNotFound
	}
	r.requests = slices.Delete(r.requests, idx, idx+1)
	children := slices.Clone(r.children)
	r.mu.Unlock()

	for _, c := range children {
		c.deleteByRequest(requestID)
	}
	return nil
}

// ResponseRepository provides in-memory append-only donor response storage
type ResponseRepository struct {
	mu        sync.RWMutex
	responses []types.DonorResponse
}

func NewResponseRepository() *ResponseRepository {
	return &ResponseRepository{}
}

var _ engine.ResponseStore = (*ResponseRepository)(nil)

func (r *ResponseRepository) CreateResponse(_ context.Context, resp *types.DonorResponse) error {
	resp.ID = utils.NanoID()
	resp.CreatedAt = time.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.responses = append(r.responses, *resp)
	return nil
}

func (r *ResponseRepository) deleteByRequest(requestID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = slices.DeleteFunc(r.responses, func(resp types.DonorResponse) bool { return resp.RequestID == requestID })
}

func (r *ResponseRepository) ResponsesByRequest(_ context.Context, requestID string) ([]*types.DonorResponse, error) {
	return r.filter(func(resp types.DonorResponse) bool { return resp.RequestID == requestID }), nil
}

func (r *ResponseRepository) ResponsesByDonor(_ context.Context, donorID string) ([]*types.DonorResponse, error) {
	return r.filter(func(resp types.DonorResponse) bool { return resp.DonorID == donorID }), nil
}

func (r *ResponseRepository) filter(keep func(types.DonorResponse) bool) []*types.DonorResponse {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*types.DonorResponse, 0)
	for _, resp := range r.responses {
		if keep(resp) {
			resp := resp
			out = append(out, &resp)
		}
	}
	return out
}
