package api

import (
	"errors"
	"fmt"
	"net/http"

	"formbae/coach-app/internal/domain"
	"formbae/coach-app/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler covers account management, the allowlist and access
// requests.
type AdminHandler struct {
	userService    service.UserService
	requestService service.RequestService
	seedService    service.SeedService
}

func NewAdminHandler(userService service.UserService, requestService service.RequestService, seedService service.SeedService) *AdminHandler {
	return &AdminHandler{
		userService:    userService,
		requestService: requestService,
		seedService:    seedService,
	}
}

// --- Request/Response Structs ---

type CreateUserRequest struct {
	Name      string      `json:"name" binding:"required"`
	Mobile    string      `json:"mobile" binding:"required"`
	Role      domain.Role `json:"role" binding:"omitempty,oneof=admin trainer user"`
	TrainerID string      `json:"trainerId"`
	Password  string      `json:"password"`
}

type UpdateUserRequest struct {
	Name      string      `json:"name"`
	Mobile    string      `json:"mobile"`
	Role      domain.Role `json:"role" binding:"omitempty,oneof=admin trainer user"`
	TrainerID string      `json:"trainerId"`
	Password  string      `json:"password"`
}

type AllowlistRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type ApproveRequestRequest struct {
	TrainerID string `json:"trainerId"`
}

type SeedRequest struct {
	AdminName     string `json:"adminName"`
	AdminMobile   string `json:"adminMobile"`
	AdminPassword string `json:"adminPassword"`
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	user, err := h.userService.CreateUser(c.Request.Context(), service.CreateUserInput{
		Name:      req.Name,
		Mobile:    req.Mobile,
		Role:      req.Role,
		TrainerID: req.TrainerID,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMobileTaken):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidMobile),
			errors.Is(err, service.ErrNameRequired),
			errors.Is(err, service.ErrPasswordTooShort),
			errors.Is(err, service.ErrPasswordForbidden):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Could not create user")
		}
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	user, err := h.userService.UpdateUser(c.Request.Context(), actorID, service.UpdateUserInput{
		UserID:    c.Param("id"),
		Name:      req.Name,
		Mobile:    req.Mobile,
		Role:      req.Role,
		TrainerID: req.TrainerID,
		Password:  req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrMobileTaken):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrSelfDisable),
			errors.Is(err, service.ErrInvalidMobile),
			errors.Is(err, service.ErrPasswordTooShort),
			errors.Is(err, service.ErrPasswordForbidden):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Could not update user")
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) SetAllowlist(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	var req AllowlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	err = h.userService.SetAllowlist(c.Request.Context(), actorID, c.Param("id"), *req.Enabled)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSelfDisable):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Could not update allowlist")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	err = h.userService.DeleteUser(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrSelfDelete):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Could not delete user")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *AdminHandler) ListRequests(c *gin.Context) {
	requests, err := h.requestService.ListRequests(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not list access requests")
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *AdminHandler) ApproveRequest(c *gin.Context) {
	// Body is optional, a bare approve keeps the request unassigned.
	var req ApproveRequestRequest
	_ = c.ShouldBindJSON(&req)
	err := h.requestService.ApproveRequest(c.Request.Context(), c.Param("id"), req.TrainerID)
	if err != nil {
		if errors.Is(err, service.ErrRequestNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not approve request")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "approved"})
}

func (h *AdminHandler) RejectRequest(c *gin.Context) {
	err := h.requestService.RejectRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRequestNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not reject request")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}

// SyncRequests provisions accounts for approved requests that never signed
// in. Idempotent.
func (h *AdminHandler) SyncRequests(c *gin.Context) {
	created, err := h.requestService.SyncApprovedRequests(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not sync approved requests")
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}

// Seed ensures table headers and optionally provisions the first admin.
func (h *AdminHandler) Seed(c *gin.Context) {
	var req SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		req = SeedRequest{}
	}
	result, err := h.seedService.Seed(c.Request.Context(), req.AdminName, req.AdminMobile, req.AdminPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidMobile), errors.Is(err, service.ErrPasswordTooShort):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Seed failed")
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
