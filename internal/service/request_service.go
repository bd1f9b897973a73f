package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"formbae/coach-app/internal/domain"
	"formbae/coach-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrRequestNotFound = errors.New("access request not found")
	ErrRequestPending  = errors.New("a request for this number is already pending")
	ErrAlreadyEnabled  = errors.New("this number already has access, just sign in")
)

// --- Service Interface ---
type RequestService interface {
	CreateRequest(ctx context.Context, mobile, name, notes string) (*domain.AccessRequest, error)
	ListRequests(ctx context.Context) ([]domain.AccessRequest, error)
	ApproveRequest(ctx context.Context, requestID, trainerID string) error
	RejectRequest(ctx context.Context, requestID string) error
	SyncApprovedRequests(ctx context.Context) (int, error)
}

type requestService struct {
	tables *repository.Tables
	now    func() time.Time
}

func NewRequestService(tables *repository.Tables) RequestService {
	return &requestService{tables: tables, now: time.Now}
}

// CreateRequest records a pending access request for a mobile number,
// unless the number can already sign in or a request is already waiting.
func (s *requestService) CreateRequest(ctx context.Context, mobile, name, notes string) (*domain.AccessRequest, error) {
	normalized := domain.NormalizeMobile(mobile)
	if !domain.IsValidMobile(normalized) {
		return nil, ErrInvalidMobile
	}

	users, err := s.tables.Users(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Allowed() && domain.SameMobileLoose(u.Mobile, normalized) {
			return nil, ErrAlreadyEnabled
		}
	}

	requests, err := s.tables.Requests(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range requests {
		if r.Status == domain.RequestPending && domain.SameMobileLoose(r.Mobile, normalized) {
			return nil, ErrRequestPending
		}
	}

	request := domain.AccessRequest{
		RequestID: repository.NewID("req"),
		Mobile:    normalized,
		Name:      strings.TrimSpace(name),
		Notes:     strings.TrimSpace(notes),
		CreatedAt: s.now(),
		Status:    domain.RequestPending,
	}
	if err := s.tables.AppendRequest(ctx, request); err != nil {
		return nil, err
	}
	return &request, nil
}

func (s *requestService) ListRequests(ctx context.Context) ([]domain.AccessRequest, error) {
	requests, err := s.tables.Requests(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

// ApproveRequest marks the request approved and optionally pins a trainer.
// The account itself is provisioned lazily on first login or by
// SyncApprovedRequests.
func (s *requestService) ApproveRequest(ctx context.Context, requestID, trainerID string) error {
	return s.setStatus(ctx, requestID, domain.RequestApproved, trainerID)
}

func (s *requestService) RejectRequest(ctx context.Context, requestID string) error {
	return s.setStatus(ctx, requestID, domain.RequestRejected, "")
}

func (s *requestService) setStatus(ctx context.Context, requestID string, status domain.RequestStatus, trainerID string) error {
	requests, err := s.tables.Requests(ctx)
	if err != nil {
		return err
	}
	for _, r := range requests {
		if r.RequestID == requestID {
			r.Status = status
			if trainerID != "" {
				r.TrainerID = trainerID
			}
			return s.tables.UpsertRequest(ctx, r)
		}
	}
	return ErrRequestNotFound
}

// SyncApprovedRequests provisions an account for every approved request
// whose number has no enabled user yet. Idempotent; returns how many
// accounts were created.
func (s *requestService) SyncApprovedRequests(ctx context.Context) (int, error) {
	requests, err := s.tables.Requests(ctx)
	if err != nil {
		return 0, err
	}
	users, err := s.tables.Users(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, r := range requests {
		if r.Status != domain.RequestApproved {
			continue
		}
		exists := false
		for _, u := range users {
			if u.Allowed() && domain.SameMobileLoose(u.Mobile, r.Mobile) {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		name := r.Name
		if name == "" {
			name = "New Member"
		}
		user := domain.User{
			UserID:        repository.NewID("usr"),
			Role:          domain.RoleUser,
			Name:          name,
			Mobile:        r.Mobile,
			CreatedAt:     s.now(),
			TrainerID:     r.TrainerID,
			AllowlistFlag: domain.AllowlistEnabled,
		}
		if err := s.tables.AppendUser(ctx, user); err != nil {
			return created, err
		}
		if err := s.tables.UpsertProfile(ctx, domain.EmptyProfile(user.UserID, s.now())); err != nil {
			return created, err
		}
		users = append(users, user)
		created++
	}
	return created, nil
}
