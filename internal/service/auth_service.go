package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"formbae/coach-app/internal/domain"
	"formbae/coach-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrInvalidCredentials = errors.New("invalid mobile number or password")
	ErrNotAllowlisted     = errors.New("this number has no access yet, request access first")
	ErrPasswordRequired   = errors.New("password is required for admin sign-in")
	ErrTokenGeneration    = errors.New("failed to generate token")
)

// RateLimitError reports a blocked login attempt and how long the caller
// should wait.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many attempts, try again in %d seconds", int(e.RetryAfter.Seconds())+1)
}

type LoginResult struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// --- Service Interface ---
type AuthService interface {
	Login(ctx context.Context, mobile, password, clientIP string) (*LoginResult, error)
}

type authService struct {
	tables        *repository.Tables
	limiter       *LoginRateLimiter
	jwtSecret     string
	jwtExpiration time.Duration
	now           func() time.Time
}

func NewAuthService(tables *repository.Tables, limiter *LoginRateLimiter, jwtSecret string, jwtExpiration time.Duration) AuthService {
	return &authService{
		tables:        tables,
		limiter:       limiter,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		now:           time.Now,
	}
}

// Login authenticates by mobile number. Trainees and trainers sign in with
// the number alone; admin accounts additionally require their password.
// A number with no enabled account but an approved access request gets an
// account provisioned on the spot. When several enabled accounts share the
// number, the highest role wins (admin over trainer over trainee).
func (s *authService) Login(ctx context.Context, mobile, password, clientIP string) (*LoginResult, error) {
	normalized := domain.NormalizeMobile(mobile)
	if !domain.IsValidMobile(normalized) {
		return nil, ErrInvalidCredentials
	}

	key := clientIP + ":" + normalized
	if allowed, retryAfter := s.limiter.Allow(key); !allowed {
		return nil, &RateLimitError{RetryAfter: retryAfter}
	}

	users, err := s.tables.Users(ctx)
	if err != nil {
		return nil, err
	}

	var match *domain.User
	for i := range users {
		u := &users[i]
		if !u.Allowed() || !domain.SameMobileLoose(u.Mobile, normalized) {
			continue
		}
		if match == nil || rolePriority(u.Role) > rolePriority(match.Role) {
			match = u
		}
	}

	if match == nil {
		match, err = s.provisionFromApprovedRequest(ctx, normalized)
		if err != nil {
			return nil, err
		}
	}

	if match.IsAdmin() {
		if password == "" {
			return nil, ErrPasswordRequired
		}
		if match.SecretHash == "" ||
			bcrypt.CompareHashAndPassword([]byte(match.SecretHash), []byte(password)) != nil {
			return nil, ErrInvalidCredentials
		}
	}

	token, err := s.generateJWT(match)
	if err != nil {
		return nil, ErrTokenGeneration
	}

	s.limiter.Reset(key)
	return &LoginResult{Token: token, User: *match}, nil
}

// provisionFromApprovedRequest creates an account for a number whose access
// request was approved but never signed in before.
func (s *authService) provisionFromApprovedRequest(ctx context.Context, mobile string) (*domain.User, error) {
	requests, err := s.tables.Requests(ctx)
	if err != nil {
		return nil, err
	}
	var approved *domain.AccessRequest
	for i := range requests {
		r := &requests[i]
		if r.Status == domain.RequestApproved && domain.SameMobileLoose(r.Mobile, mobile) {
			approved = r
			break
		}
	}
	if approved == nil {
		return nil, ErrNotAllowlisted
	}

	name := approved.Name
	if name == "" {
		name = "New Member"
	}
	user := domain.User{
		UserID:        repository.NewID("usr"),
		Role:          domain.RoleUser,
		Name:          name,
		Mobile:        mobile,
		CreatedAt:     s.now(),
		TrainerID:     approved.TrainerID,
		AllowlistFlag: domain.AllowlistEnabled,
	}
	if err := s.tables.AppendUser(ctx, user); err != nil {
		return nil, err
	}
	if err := s.tables.UpsertProfile(ctx, domain.EmptyProfile(user.UserID, s.now())); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *authService) generateJWT(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"uid":       user.UserID,
		"role":      string(user.Role),
		"mobile":    user.Mobile,
		"trainerId": user.TrainerID,
		"exp":       s.now().Add(s.jwtExpiration).Unix(),
		"iat":       s.now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func rolePriority(role domain.Role) int {
	switch role {
	case domain.RoleAdmin:
		return 3
	case domain.RoleTrainer:
		return 2
	default:
		return 1
	}
}
