package domain

import (
	"regexp"
	"strings"
	"time"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
	RoleUser    Role = "user"
)

// Allowlist flag values gate login eligibility independent of role.
const (
	AllowlistEnabled  = "enabled"
	AllowlistDisabled = "disabled"
)

// User represents an account row in the Users table. Mobile is stored in
// digits-only canonical form; uniqueness is enforced at write time, not by
// the store.
type User struct {
	UserID        string    `json:"userId"`
	Role          Role      `json:"role"`
	Name          string    `json:"name"`
	Mobile        string    `json:"mobile"`
	CreatedAt     time.Time `json:"createdAt"`
	TrainerID     string    `json:"trainerId,omitempty"` // only meaningful for RoleUser
	AllowlistFlag string    `json:"allowlistFlag"`
	SecretHash    string    `json:"-"` // bcrypt hash, set for admin accounts only
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

// Allowed reports whether the account may log in.
func (u *User) Allowed() bool {
	return IsEnabledFlag(u.AllowlistFlag)
}

var nonDigits = regexp.MustCompile(`\D`)

// NormalizeMobile reduces a mobile number to its digits-only canonical form.
func NormalizeMobile(input string) string {
	return strings.TrimSpace(nonDigits.ReplaceAllString(input, ""))
}

// IsValidMobile accepts canonical mobiles of 8..15 digits.
func IsValidMobile(input string) bool {
	v := NormalizeMobile(input)
	return len(v) >= 8 && len(v) <= 15
}

// SameMobileLoose compares two mobiles by their last 10 digits to tolerate
// country-code prefix variance. Empty values never match.
func SameMobileLoose(a, b string) bool {
	m1 := NormalizeMobile(a)
	m2 := NormalizeMobile(b)
	if m1 == "" || m2 == "" {
		return false
	}
	if m1 == m2 {
		return true
	}
	t1 := m1
	if len(t1) >= 10 {
		t1 = t1[len(t1)-10:]
	}
	t2 := m2
	if len(t2) >= 10 {
		t2 = t2[len(t2)-10:]
	}
	return t1 == t2
}

// IsEnabledFlag reports whether a stored allowlist cell means "enabled".
func IsEnabledFlag(value string) bool {
	return strings.ToLower(strings.TrimSpace(value)) == AllowlistEnabled
}

// NormalizeEnabledFlag folds arbitrary input into "enabled" or "disabled".
func NormalizeEnabledFlag(value string) string {
	if IsEnabledFlag(value) {
		return AllowlistEnabled
	}
	return AllowlistDisabled
}
