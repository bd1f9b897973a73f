package api

import (
	"errors"
	"fmt"
	"net/http"

	"formbae/coach-app/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the auth and access-request service dependencies.
type AuthHandler struct {
	authService    service.AuthService
	requestService service.RequestService
}

func NewAuthHandler(authService service.AuthService, requestService service.RequestService) *AuthHandler {
	return &AuthHandler{authService: authService, requestService: requestService}
}

// --- Request/Response Structs ---

type LoginRequest struct {
	Mobile   string `json:"mobile" binding:"required"`
	Password string `json:"password"`
}

type RequestAccessRequest struct {
	Mobile string `json:"mobile" binding:"required"`
	Name   string `json:"name"`
	Notes  string `json:"notes"`
}

// Login authenticates by mobile number (plus password for admins) and
// returns a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Mobile, req.Password, c.ClientIP())
	if err != nil {
		var rateErr *service.RateLimitError
		switch {
		case errors.As(err, &rateErr):
			c.Header("Retry-After", fmt.Sprintf("%d", int(rateErr.RetryAfter.Seconds())+1))
			abortWithError(c, http.StatusTooManyRequests, rateErr.Error())
		case errors.Is(err, service.ErrNotAllowlisted):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrPasswordRequired),
			errors.Is(err, service.ErrInvalidCredentials):
			abortWithError(c, http.StatusUnauthorized, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// RequestAccess records a pending access request for an unknown number.
func (h *AuthHandler) RequestAccess(c *gin.Context) {
	var req RequestAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	request, err := h.requestService.CreateRequest(c.Request.Context(), req.Mobile, req.Name, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMobile):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAlreadyEnabled), errors.Is(err, service.ErrRequestPending):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Could not submit access request")
		}
		return
	}

	c.JSON(http.StatusCreated, request)
}
