package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/linskybing/nominate-go/internal/api/handlers"
	"github.com/linskybing/nominate-go/internal/api/middleware"
	"github.com/linskybing/nominate-go/internal/application"
	"go.uber.org/zap"
)

func RegisterRoutes(r *gin.Engine, svc *application.Services, logger *zap.Logger) {
	h := handlers.New(svc, logger)

	r.POST("/register", h.User.Register)
	r.POST("/login", h.User.Login)
	r.POST("/logout", h.User.Logout)

	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware())
	{
		auth.GET("/auth/status", h.User.AuthStatus)
		auth.GET("/categories", h.Form.ListCategories)
		auth.GET("/forms/:categoryId", h.Form.GetForm)
		auth.POST("/ai/assist", h.Assist.Assist)

		nominations := auth.Group("/nominations")
		{
			nominations.GET("/my", h.Nomination.ListMine)
			nominations.GET("/my/:id", h.Nomination.GetMine)
			nominations.GET("/:categoryId/draft", h.Nomination.GetDraft)
			nominations.PUT("/:categoryId/draft", h.Nomination.SaveDraft)
			nominations.GET("/:categoryId/draft/status", h.Nomination.DraftStatus)
			nominations.DELETE("/:categoryId/draft/session", h.Nomination.LeaveDraft)
			nominations.POST("/:categoryId/submit", h.Nomination.Submit)
		}

		admin := auth.Group("/admin")
		admin.Use(middleware.Admin())
		{
			admin.POST("/forms", h.Form.SaveForm)
			admin.POST("/forms/generate", h.Form.GenerateForm)
			admin.GET("/status", h.Review.CategoryStatuses)
			admin.GET("/categories/:categoryId/submissions", h.Review.CategorySubmissions)
			admin.GET("/submissions/:id", h.Review.SubmissionDetail)
			admin.PUT("/submissions/:id/status", h.Review.UpdateStatus)
			admin.GET("/audit/logs", h.Audit.GetAuditLogs)
		}

		auth.GET("/ws/submissions/:id", middleware.Admin(), h.Realtime.WatchSubmission)
	}
}
