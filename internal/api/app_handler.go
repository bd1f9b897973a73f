package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"formbae/coach-app/internal/domain"
	"formbae/coach-app/internal/service"
	"formbae/coach-app/internal/storage"

	"github.com/gin-gonic/gin"
)

// AppHandler is the trainee-facing surface: today's plan, completion
// markers, workout and body logging, progress and the message thread.
type AppHandler struct {
	planService     service.PlanService
	workoutService  service.WorkoutService
	progressService service.ProgressService
	messageService  service.MessageService
	profileService  service.ProfileService
	userService     service.UserService
	photoStorage    storage.PhotoStorage
}

func NewAppHandler(
	planService service.PlanService,
	workoutService service.WorkoutService,
	progressService service.ProgressService,
	messageService service.MessageService,
	profileService service.ProfileService,
	userService service.UserService,
	photoStorage storage.PhotoStorage,
) *AppHandler {
	return &AppHandler{
		planService:     planService,
		workoutService:  workoutService,
		progressService: progressService,
		messageService:  messageService,
		profileService:  profileService,
		userService:     userService,
		photoStorage:    photoStorage,
	}
}

// --- Request/Response Structs ---

type MarkRequest struct {
	Date       string `json:"date" binding:"required"`
	PlanID     string `json:"planId" binding:"required"`
	PlanDayID  string `json:"planDayId" binding:"required"`
	ExerciseID string `json:"exerciseId"`
	Done       *bool  `json:"done" binding:"required"`
}

type LogWorkoutRequest struct {
	Date      string                `json:"date" binding:"required"`
	PlanID    string                `json:"planId" binding:"required"`
	PlanDayID string                `json:"planDayId" binding:"required"`
	Completed bool                  `json:"completed"`
	Notes     string                `json:"notes"`
	Sets      []service.SetLogInput `json:"sets" binding:"required,min=1"`
}

type CheckInRequest struct {
	Date      string `json:"date" binding:"required"`
	PlanID    string `json:"planId" binding:"required"`
	PlanDayID string `json:"planDayId" binding:"required"`
	Feel      string `json:"feel" binding:"omitempty,oneof=easy ok hard"`
	Pain      bool   `json:"pain"`
}

type BodyLogRequest struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
	Chest  float64 `json:"chest"`
	Waist  float64 `json:"waist"`
	Biceps float64 `json:"biceps"`
}

type PhotoUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
	Date        string `json:"date"`
}

// GetMyPlan returns the caller's active plan, fully assembled.
func (h *AppHandler) GetMyPlan(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	plan, err := h.planService.GetActivePlanForUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, "No active plan yet. Your trainer will publish one soon.")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not load plan")
		}
		return
	}
	c.JSON(http.StatusOK, plan)
}

// MarkExercise toggles a per-exercise completion marker; the day marker
// reconciles automatically.
func (h *AppHandler) MarkExercise(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	var req MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if req.ExerciseID == "" {
		abortWithError(c, http.StatusBadRequest, "exerciseId is required")
		return
	}
	if *req.Done {
		err = h.workoutService.MarkExercise(c.Request.Context(), userID, req.Date, req.PlanID, req.PlanDayID, req.ExerciseID)
	} else {
		err = h.workoutService.UnmarkExercise(c.Request.Context(), userID, req.Date, req.PlanID, req.PlanDayID, req.ExerciseID)
	}
	if err != nil {
		if errors.Is(err, service.ErrLogFieldsNeeded) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not update completion")
		}
		return
	}
	h.respondCompletion(c, userID, req.Date, req.PlanID, req.PlanDayID)
}

// MarkDay toggles the whole-day marker.
func (h *AppHandler) MarkDay(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	var req MarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if *req.Done {
		err = h.workoutService.MarkDay(c.Request.Context(), userID, req.Date, req.PlanID, req.PlanDayID)
	} else {
		err = h.workoutService.UnmarkDay(c.Request.Context(), userID, req.Date, req.PlanID, req.PlanDayID)
	}
	if err != nil {
		if errors.Is(err, service.ErrLogFieldsNeeded) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not update completion")
		}
		return
	}
	h.respondCompletion(c, userID, req.Date, req.PlanID, req.PlanDayID)
}

// GetCompletion reports marker state for one day.
func (h *AppHandler) GetCompletion(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	h.respondCompletion(c, userID, c.Query("date"), c.Query("planId"), c.Query("planDayId"))
}

func (h *AppHandler) respondCompletion(c *gin.Context, userID, date, planID, planDayID string) {
	exerciseIDs, dayDone, err := h.workoutService.CompletedExercises(c.Request.Context(), userID, date, planID, planDayID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not load completion state")
		return
	}
	c.JSON(http.StatusOK, gin.H{"completedExerciseIds": exerciseIDs, "dayCompleted": dayDone})
}

// LogWorkout stores a detailed session with per-set rows.
func (h *AppHandler) LogWorkout(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	var req LogWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	entry, err := h.workoutService.LogWorkout(c.Request.Context(), userID, service.LogWorkoutInput{
		Date:      req.Date,
		PlanID:    req.PlanID,
		PlanDayID: req.PlanDayID,
		Completed: req.Completed,
		Notes:     req.Notes,
		Sets:      req.Sets,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLogFieldsNeeded), errors.Is(err, service.ErrNoSetsLogged):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Could not log workout")
		}
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// CheckIn records a one-tap session summary.
func (h *AppHandler) CheckIn(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	userName := ""
	if user, err := h.userService.GetUser(c.Request.Context(), userID); err == nil {
		userName = user.Name
	}
	err = h.workoutService.QuickCheckIn(c.Request.Context(), userID, userName, service.QuickCheckInInput{
		Date:      req.Date,
		PlanID:    req.PlanID,
		PlanDayID: req.PlanDayID,
		Feel:      req.Feel,
		Pain:      req.Pain,
	})
	if err != nil {
		if errors.Is(err, service.ErrLogFieldsNeeded) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not record check-in")
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": service.EffortFeedback(req.Feel, req.Pain)})
}

func (h *AppHandler) GetMyProgress(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	progress, err := h.progressService.GetUserProgress(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not load progress")
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *AppHandler) LogBody(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	var req BodyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	entry, err := h.progressService.LogBody(c.Request.Context(), userID, domain.BodyLog{
		Date:   req.Date,
		Weight: req.Weight,
		Chest:  req.Chest,
		Waist:  req.Waist,
		Biceps: req.Biceps,
	})
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not log measurements")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *AppHandler) GetMyProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *AppHandler) UpdateMyProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	var update domain.Profile
	if err := c.ShouldBindJSON(&update); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not update profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *AppHandler) ListMyMessages(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	messages, err := h.messageService.ListMessages(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not list messages")
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *AppHandler) PostMyMessage(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	message, err := h.messageService.PostMessage(c.Request.Context(), userID, req.PlanID, domain.RoleUser, req.Text)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not post message")
		}
		return
	}
	c.JSON(http.StatusCreated, message)
}

// PresignPhotoUpload hands the client a direct upload URL for a progress
// photo.
func (h *AppHandler) PresignPhotoUpload(c *gin.Context) {
	if h.photoStorage == nil {
		abortWithError(c, http.StatusNotImplemented, "Photo storage is not configured")
		return
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	date := req.Date
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	key := storage.PhotoKey(userID, date, req.ContentType)
	url, err := h.photoStorage.PresignUpload(c.Request.Context(), key, req.ContentType, 0)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not create upload URL")
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploadUrl": url, "objectKey": key})
}

// PresignPhotoDownload hands out a short-lived view URL for a stored photo.
func (h *AppHandler) PresignPhotoDownload(c *gin.Context) {
	if h.photoStorage == nil {
		abortWithError(c, http.StatusNotImplemented, "Photo storage is not configured")
		return
	}
	key := c.Query("objectKey")
	if key == "" {
		abortWithError(c, http.StatusBadRequest, "objectKey is required")
		return
	}
	url, err := h.photoStorage.PresignDownload(c.Request.Context(), key, 0)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not create download URL")
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}
