package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"formbae/coach-app/internal/domain"
	"formbae/coach-app/internal/repository"
)

// SeedResult reports what a seed run actually changed.
type SeedResult struct {
	TablesEnsured bool   `json:"tablesEnsured"`
	AdminCreated  bool   `json:"adminCreated"`
	AdminUserID   string `json:"adminUserId,omitempty"`
}

// --- Service Interface ---
type SeedService interface {
	Seed(ctx context.Context, adminName, adminMobile, adminPassword string) (*SeedResult, error)
}

type seedService struct {
	tables *repository.Tables
	now    func() time.Time
}

func NewSeedService(tables *repository.Tables) SeedService {
	return &seedService{tables: tables, now: time.Now}
}

// Seed writes header rows for every table and provisions the first admin
// account when no admin exists yet. Safe to run repeatedly.
func (s *seedService) Seed(ctx context.Context, adminName, adminMobile, adminPassword string) (*SeedResult, error) {
	if err := s.tables.EnsureHeaders(ctx); err != nil {
		return nil, err
	}
	result := &SeedResult{TablesEnsured: true}

	if adminMobile == "" || adminPassword == "" {
		return result, nil
	}
	mobile := domain.NormalizeMobile(adminMobile)
	if !domain.IsValidMobile(mobile) {
		return nil, ErrInvalidMobile
	}
	if len(adminPassword) < 8 {
		return nil, ErrPasswordTooShort
	}

	users, err := s.tables.Users(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.IsAdmin() {
			return result, nil
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	name := adminName
	if name == "" {
		name = "Admin"
	}
	admin := domain.User{
		UserID:        repository.NewID("usr"),
		Role:          domain.RoleAdmin,
		Name:          name,
		Mobile:        mobile,
		CreatedAt:     s.now(),
		AllowlistFlag: domain.AllowlistEnabled,
		SecretHash:    string(hash),
	}
	if err := s.tables.AppendUser(ctx, admin); err != nil {
		return nil, err
	}
	result.AdminCreated = true
	result.AdminUserID = admin.UserID
	return result, nil
}
