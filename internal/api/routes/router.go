package routes

import (
	"github.com/gin-gonic/gin"
	_ "github.com/linskybing/formbuilder-go/docs"
	"github.com/linskybing/formbuilder-go/internal/api/handlers"
	"github.com/linskybing/formbuilder-go/internal/api/middleware"
	"github.com/linskybing/formbuilder-go/internal/application"
	"github.com/linskybing/formbuilder-go/internal/metrics"
	"github.com/linskybing/formbuilder-go/internal/repository"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func RegisterRoutes(r *gin.Engine, repos *repository.Repos, svc *application.Services, m *metrics.Metrics) {
	h := handlers.New(svc, repos, r)
	authMiddleware := middleware.NewAuth(repos)
	formOwner := authMiddleware.FormOwner(middleware.FromFormIDParam())
	pageOwner := authMiddleware.FormOwner(middleware.FromPageIDParam())

	// public
	r.GET("/healthz", h.Health.Health)
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/register", h.User.Register)
	r.POST("/login", h.User.Login)
	r.POST("/logout", h.User.Logout)

	r.GET("/forms/:slug", h.Form.ViewBySlug)
	r.POST("/submissions", h.Submission.Create)

	auth := r.Group("/")
	auth.Use(middleware.JWTAuthMiddleware())
	{
		auth.GET("/preview/form/:id", h.Form.Preview)
		auth.GET("/ws/forms/:id/submissions", formOwner, h.Feed.WatchSubmissions)

		FormRoutes(auth.Group("/api"), h, formOwner, pageOwner)

		admin := auth.Group("/api/admin", authMiddleware.Admin())
		{
			admin.GET("/forms", h.Form.ListAll)
			admin.GET("/audit-logs", h.Audit.GetAuditLogs)
		}
	}
}
