package service

import (
	"context"
	"errors"
	"testing"

	"formbae/coach-app/internal/domain"
)

func TestCreateRequestGuards(t *testing.T) {
	tables := newTestTables(t)
	svc := NewRequestService(tables)
	ctx := context.Background()

	request, err := svc.CreateRequest(ctx, "+91 98765 43210", "Walk In", "friend of Asha")
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if request.Status != domain.RequestPending {
		t.Errorf("status = %q", request.Status)
	}
	if request.Mobile != "919876543210" {
		t.Errorf("mobile = %q", request.Mobile)
	}

	// Same number again while pending.
	if _, err := svc.CreateRequest(ctx, "9876543210", "", ""); !errors.Is(err, ErrRequestPending) {
		t.Errorf("pending duplicate err = %v", err)
	}

	// A number that can already sign in is turned away.
	if err := tables.AppendUser(ctx, domain.User{
		UserID: "usr_x", Role: domain.RoleUser, Mobile: "9876543299", AllowlistFlag: domain.AllowlistEnabled,
	}); err != nil {
		t.Fatalf("AppendUser: %v", err)
	}
	if _, err := svc.CreateRequest(ctx, "9876543299", "", ""); !errors.Is(err, ErrAlreadyEnabled) {
		t.Errorf("enabled user err = %v", err)
	}

	if _, err := svc.CreateRequest(ctx, "123", "", ""); !errors.Is(err, ErrInvalidMobile) {
		t.Errorf("invalid mobile err = %v", err)
	}
}

func TestApproveRejectAndSync(t *testing.T) {
	tables := newTestTables(t)
	svc := NewRequestService(tables)
	ctx := context.Background()

	first, err := svc.CreateRequest(ctx, "9876543210", "One", "")
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	second, err := svc.CreateRequest(ctx, "9876543211", "Two", "")
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}

	if err := svc.ApproveRequest(ctx, first.RequestID, "usr_coach"); err != nil {
		t.Fatalf("ApproveRequest: %v", err)
	}
	if err := svc.RejectRequest(ctx, second.RequestID); err != nil {
		t.Fatalf("RejectRequest: %v", err)
	}
	if err := svc.ApproveRequest(ctx, "req_missing", ""); !errors.Is(err, ErrRequestNotFound) {
		t.Errorf("missing request err = %v", err)
	}

	created, err := svc.SyncApprovedRequests(ctx)
	if err != nil {
		t.Fatalf("SyncApprovedRequests: %v", err)
	}
	if created != 1 {
		t.Fatalf("sync created %d accounts, want 1", created)
	}
	users, _ := tables.Users(ctx)
	if len(users) != 1 || users[0].TrainerID != "usr_coach" || users[0].Name != "One" {
		t.Errorf("provisioned user = %+v", users)
	}

	// Re-running does nothing.
	created, err = svc.SyncApprovedRequests(ctx)
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if created != 0 {
		t.Errorf("second sync created %d", created)
	}
}
