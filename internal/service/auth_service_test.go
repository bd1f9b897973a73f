package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"formbae/coach-app/internal/domain"
	"formbae/coach-app/internal/repository"
)

func newAuthFixture(t *testing.T) (*repository.Tables, AuthService, *LoginRateLimiter) {
	t.Helper()
	tables := newTestTables(t)
	limiter := NewLoginRateLimiter(12, 10*time.Minute)
	svc := NewAuthService(tables, limiter, "test-secret", time.Hour)
	return tables, svc, limiter
}

func TestLoginRolePreference(t *testing.T) {
	tables, svc, _ := newAuthFixture(t)
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("adminpass1"), bcrypt.MinCost)
	seed := []domain.User{
		{UserID: "usr_u", Role: domain.RoleUser, Name: "U", Mobile: "9876543210", AllowlistFlag: domain.AllowlistEnabled},
		{UserID: "usr_t", Role: domain.RoleTrainer, Name: "T", Mobile: "919876543210", AllowlistFlag: domain.AllowlistEnabled},
	}
	for _, u := range seed {
		if err := tables.AppendUser(ctx, u); err != nil {
			t.Fatalf("AppendUser: %v", err)
		}
	}

	// Trainer outranks trainee on the shared number, loose-matched.
	result, err := svc.Login(ctx, "+91 98765 43210", "", "10.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.User.UserID != "usr_t" {
		t.Errorf("logged in as %s, want trainer", result.User.UserID)
	}
	if result.Token == "" {
		t.Errorf("empty token")
	}

	// Admin outranks both, but needs the password.
	if err := tables.AppendUser(ctx, domain.User{
		UserID: "usr_a", Role: domain.RoleAdmin, Name: "A", Mobile: "9876543210",
		AllowlistFlag: domain.AllowlistEnabled, SecretHash: string(hash),
	}); err != nil {
		t.Fatalf("AppendUser: %v", err)
	}
	if _, err := svc.Login(ctx, "9876543210", "", "10.0.0.1"); !errors.Is(err, ErrPasswordRequired) {
		t.Errorf("admin without password err = %v", err)
	}
	if _, err := svc.Login(ctx, "9876543210", "wrongpass", "10.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("admin wrong password err = %v", err)
	}
	result, err = svc.Login(ctx, "9876543210", "adminpass1", "10.0.0.1")
	if err != nil {
		t.Fatalf("admin Login: %v", err)
	}
	if result.User.UserID != "usr_a" {
		t.Errorf("logged in as %s, want admin", result.User.UserID)
	}
}

func TestLoginSkipsDisabledAccounts(t *testing.T) {
	tables, svc, _ := newAuthFixture(t)
	ctx := context.Background()

	if err := tables.AppendUser(ctx, domain.User{
		UserID: "usr_d", Role: domain.RoleUser, Name: "D", Mobile: "9876543211",
		AllowlistFlag: domain.AllowlistDisabled,
	}); err != nil {
		t.Fatalf("AppendUser: %v", err)
	}
	if _, err := svc.Login(ctx, "9876543211", "", "10.0.0.1"); !errors.Is(err, ErrNotAllowlisted) {
		t.Errorf("disabled account err = %v", err)
	}
}

func TestLoginProvisionsFromApprovedRequest(t *testing.T) {
	tables, svc, _ := newAuthFixture(t)
	ctx := context.Background()

	if err := tables.AppendRequest(ctx, domain.AccessRequest{
		RequestID: "req_1", Mobile: "9876543212", Name: "Walk In",
		Status: domain.RequestApproved, TrainerID: "usr_coach",
	}); err != nil {
		t.Fatalf("AppendRequest: %v", err)
	}

	result, err := svc.Login(ctx, "9876543212", "", "10.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if result.User.Role != domain.RoleUser || result.User.Name != "Walk In" {
		t.Errorf("provisioned user = %+v", result.User)
	}
	if result.User.TrainerID != "usr_coach" {
		t.Errorf("trainer not carried over: %q", result.User.TrainerID)
	}

	// The account persists with an empty profile.
	users, _ := tables.Users(ctx)
	if len(users) != 1 {
		t.Fatalf("users = %d, want 1", len(users))
	}
	profiles, _ := tables.Profiles(ctx)
	if len(profiles) != 1 || profiles[0].UserID != result.User.UserID {
		t.Errorf("profile not provisioned: %+v", profiles)
	}

	// Second login reuses the account instead of provisioning again.
	again, err := svc.Login(ctx, "9876543212", "", "10.0.0.1")
	if err != nil {
		t.Fatalf("second Login: %v", err)
	}
	if again.User.UserID != result.User.UserID {
		t.Errorf("second login provisioned a new account")
	}
	users, _ = tables.Users(ctx)
	if len(users) != 1 {
		t.Errorf("users after second login = %d", len(users))
	}
}

func TestLoginRateLimited(t *testing.T) {
	_, svc, _ := newAuthFixture(t)
	ctx := context.Background()

	// Unknown number burns attempts until the window blocks.
	for i := 0; i < 12; i++ {
		if _, err := svc.Login(ctx, "9876543213", "", "10.0.0.9"); !errors.Is(err, ErrNotAllowlisted) {
			t.Fatalf("attempt %d err = %v", i, err)
		}
	}
	_, err := svc.Login(ctx, "9876543213", "", "10.0.0.9")
	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("13th attempt err = %v, want RateLimitError", err)
	}
	if rateErr.RetryAfter <= 0 {
		t.Errorf("retry after = %v", rateErr.RetryAfter)
	}

	// A different IP on the same number keeps its own window.
	if _, err := svc.Login(ctx, "9876543213", "", "10.0.0.10"); !errors.Is(err, ErrNotAllowlisted) {
		t.Errorf("other ip err = %v", err)
	}
}

func TestLoginRejectsGarbageMobile(t *testing.T) {
	_, svc, _ := newAuthFixture(t)
	if _, err := svc.Login(context.Background(), "abc", "", "10.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("garbage mobile err = %v", err)
	}
}
