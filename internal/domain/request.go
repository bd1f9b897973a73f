package domain

import "time"

// RequestStatus type for access-request lifecycle
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// AccessRequest is a pending signup gated by the admin allowlist.
// Approval converts to (or merges with) a User; approval is idempotent
// per mobile.
type AccessRequest struct {
	RequestID string        `json:"requestId"`
	Mobile    string        `json:"mobile"`
	Name      string        `json:"name"`
	Notes     string        `json:"notes,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	Status    RequestStatus `json:"status"`
	TrainerID string        `json:"trainerId,omitempty"` // trainer preference, nullable
}
