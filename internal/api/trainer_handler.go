package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"formbae/coach-app/internal/domain"
	"formbae/coach-app/internal/service"
	"formbae/coach-app/internal/video"

	"github.com/gin-gonic/gin"
)

// TrainerHandler covers plan authoring, trainee oversight and video tools.
// Admins hit the same endpoints with full scope.
type TrainerHandler struct {
	planService     service.PlanService
	userService     service.UserService
	progressService service.ProgressService
	messageService  service.MessageService
	profileService  service.ProfileService
	videoService    service.VideoService
	backfiller      *video.Backfiller
}

func NewTrainerHandler(
	planService service.PlanService,
	userService service.UserService,
	progressService service.ProgressService,
	messageService service.MessageService,
	profileService service.ProfileService,
	videoService service.VideoService,
	backfiller *video.Backfiller,
) *TrainerHandler {
	return &TrainerHandler{
		planService:     planService,
		userService:     userService,
		progressService: progressService,
		messageService:  messageService,
		profileService:  profileService,
		videoService:    videoService,
		backfiller:      backfiller,
	}
}

// --- Request/Response Structs ---

type SavePlanRequest struct {
	PlanID        string                 `json:"planId"`
	UserID        string                 `json:"userId" binding:"required"`
	Title         string                 `json:"title"`
	WeekStartDate string                 `json:"weekStartDate" binding:"required"`
	Status        domain.PlanStatus      `json:"status" binding:"omitempty,oneof=draft active archived"`
	OverallNotes  string                 `json:"overallNotes"`
	PlanText      string                 `json:"planText"`
	Days          []service.PlanDayInput `json:"days"`
}

type PostMessageRequest struct {
	PlanID string `json:"planId"`
	Text   string `json:"text" binding:"required"`
}

type PinVideoRequest struct {
	URL   string `json:"url" binding:"required"`
	Title string `json:"title"`
}

// SavePlan accepts either free-form plan text or a day-wise structure,
// persists the plan and kicks off video backfill for its exercises.
func (h *TrainerHandler) SavePlan(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	actorRole, _ := getUserRoleFromContext(c)

	var req SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	saved, err := h.planService.SavePlan(c.Request.Context(), actorID, actorRole, service.SavePlanInput{
		PlanID:        req.PlanID,
		UserID:        req.UserID,
		Title:         req.Title,
		WeekStartDate: req.WeekStartDate,
		Status:        req.Status,
		OverallNotes:  req.OverallNotes,
		Days:          req.Days,
		Text:          req.PlanText,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotAssigned):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrPlanValidation),
			errors.Is(err, service.ErrPlanFieldsNeeded),
			errors.Is(err, service.ErrPlanInputNeeded):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Could not save plan")
		}
		return
	}

	if h.backfiller != nil && len(saved.BackfillRefs) > 0 {
		refs := make([]video.ExerciseRef, len(saved.BackfillRefs))
		for i, r := range saved.BackfillRefs {
			refs[i] = video.ExerciseRef{ExerciseID: r.ExerciseID, ExerciseName: r.ExerciseName}
		}
		// Enrichment runs after the response; quota failures stay out of
		// the request path. Detached context so the client disconnecting
		// does not cancel the fetches.
		go h.backfiller.Run(context.Background(), refs)
	}

	c.JSON(http.StatusOK, saved)
}

func (h *TrainerHandler) SetActivePlan(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	actorRole, _ := getUserRoleFromContext(c)

	err = h.planService.SetActivePlan(c.Request.Context(), actorID, actorRole, c.Query("userId"), c.Param("id"))
	if err != nil {
		respondPlanError(c, err, "Could not activate plan")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "active"})
}

func (h *TrainerHandler) DeletePlan(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	actorRole, _ := getUserRoleFromContext(c)

	err = h.planService.DeletePlan(c.Request.Context(), actorID, actorRole, c.Query("userId"), c.Param("id"))
	if err != nil {
		respondPlanError(c, err, "Could not delete plan")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *TrainerHandler) ListUserPlans(c *gin.Context) {
	plans, err := h.planService.ListPlansForUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not list plans")
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (h *TrainerHandler) GetUserActivePlan(c *gin.Context) {
	plan, err := h.planService.GetActivePlanForUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondPlanError(c, err, "Could not load plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// AssignedUsers lists the trainer's trainees. Admins see everyone via the
// admin users endpoint instead.
func (h *TrainerHandler) AssignedUsers(c *gin.Context) {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return
	}
	users, err := h.userService.AssignedUsers(c.Request.Context(), actorID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not list assigned users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *TrainerHandler) GetUserProgress(c *gin.Context) {
	progress, err := h.progressService.GetUserProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not load progress")
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (h *TrainerHandler) GetUserProfile(c *gin.Context) {
	profile, err := h.profileService.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not load profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *TrainerHandler) ListUserMessages(c *gin.Context) {
	messages, err := h.messageService.ListMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not list messages")
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *TrainerHandler) PostUserMessage(c *gin.Context) {
	actorRole, _ := getUserRoleFromContext(c)
	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	message, err := h.messageService.PostMessage(c.Request.Context(), c.Param("id"), req.PlanID, actorRole, req.Text)
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

// PinVideo stores a trainer-chosen clip for an exercise.
func (h *TrainerHandler) PinVideo(c *gin.Context) {
	var req PinVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	entry, err := h.videoService.PinManualVideo(c.Request.Context(), c.Param("id"), req.URL, req.Title)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrVideoURLRequired):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Could not save video")
		}
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListVideos returns every stored clip for an exercise, pinned first.
func (h *TrainerHandler) ListVideos(c *gin.Context) {
	videos, err := h.videoService.VideosForExercise(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Could not list videos")
		return
	}
	c.JSON(http.StatusOK, videos)
}

// AlternativeVideo re-searches for a different clip when the trainer
// rejects the current one.
func (h *TrainerHandler) AlternativeVideo(c *gin.Context) {
	entry, err := h.videoService.FindAlternative(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrExerciseNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNoVideoProvider), errors.Is(err, service.ErrNoAlternative):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Could not fetch alternative video")
		}
		return
	}
	c.JSON(http.StatusOK, entry)
}

func respondPlanError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPlanForbidden):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPlanUserMismatch), errors.Is(err, service.ErrPlanFieldsNeeded):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
