package api

import (
	"net/http"

	"formbae/coach-app/internal/domain"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires every handler under /api/v1. Public routes cover login
// and access requests; everything else sits behind the JWT middleware with
// role groups on top.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authHandler *AuthHandler,
	adminHandler *AdminHandler,
	trainerHandler *TrainerHandler,
	appHandler *AppHandler,
) {
	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/request-access", authHandler.RequestAccess)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID, "role": role})
		})

		adminGroup := protected.Group("/admin")
		adminGroup.Use(RoleMiddleware(domain.RoleAdmin))
		{
			adminGroup.GET("/users", adminHandler.ListUsers)
			adminGroup.POST("/users", adminHandler.CreateUser)
			adminGroup.PUT("/users/:id", adminHandler.UpdateUser)
			adminGroup.PUT("/users/:id/allowlist", adminHandler.SetAllowlist)
			adminGroup.DELETE("/users/:id", adminHandler.DeleteUser)

			adminGroup.GET("/requests", adminHandler.ListRequests)
			adminGroup.POST("/requests/:id/approve", adminHandler.ApproveRequest)
			adminGroup.POST("/requests/:id/reject", adminHandler.RejectRequest)
			adminGroup.POST("/requests/sync", adminHandler.SyncRequests)

			adminGroup.POST("/seed", adminHandler.Seed)
		}

		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer, domain.RoleAdmin))
		{
			trainerGroup.GET("/users", trainerHandler.AssignedUsers)
			trainerGroup.GET("/users/:id/plans", trainerHandler.ListUserPlans)
			trainerGroup.GET("/users/:id/plan", trainerHandler.GetUserActivePlan)
			trainerGroup.GET("/users/:id/progress", trainerHandler.GetUserProgress)
			trainerGroup.GET("/users/:id/profile", trainerHandler.GetUserProfile)
			trainerGroup.GET("/users/:id/messages", trainerHandler.ListUserMessages)
			trainerGroup.POST("/users/:id/messages", trainerHandler.PostUserMessage)

			trainerGroup.POST("/plans", trainerHandler.SavePlan)
			trainerGroup.POST("/plans/:id/activate", trainerHandler.SetActivePlan)
			trainerGroup.DELETE("/plans/:id", trainerHandler.DeletePlan)

			trainerGroup.GET("/exercises/:id/videos", trainerHandler.ListVideos)
			trainerGroup.POST("/exercises/:id/video", trainerHandler.PinVideo)
			trainerGroup.POST("/exercises/:id/video/alternative", trainerHandler.AlternativeVideo)
		}

		appGroup := protected.Group("/app")
		appGroup.Use(RoleMiddleware(domain.RoleUser, domain.RoleTrainer, domain.RoleAdmin))
		{
			appGroup.GET("/plan", appHandler.GetMyPlan)
			appGroup.GET("/completion", appHandler.GetCompletion)
			appGroup.POST("/completion/exercise", appHandler.MarkExercise)
			appGroup.POST("/completion/day", appHandler.MarkDay)
			appGroup.POST("/workouts", appHandler.LogWorkout)
			appGroup.POST("/checkin", appHandler.CheckIn)
			appGroup.GET("/progress", appHandler.GetMyProgress)
			appGroup.POST("/body-logs", appHandler.LogBody)
			appGroup.GET("/profile", appHandler.GetMyProfile)
			appGroup.PUT("/profile", appHandler.UpdateMyProfile)
			appGroup.GET("/messages", appHandler.ListMyMessages)
			appGroup.POST("/messages", appHandler.PostMyMessage)
			appGroup.POST("/photos/upload-url", appHandler.PresignPhotoUpload)
			appGroup.GET("/photos/download-url", appHandler.PresignPhotoDownload)
		}
	}
}
