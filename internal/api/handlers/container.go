package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/linskybing/formbuilder-go/internal/application"
	"github.com/linskybing/formbuilder-go/internal/repository"
)

type Handlers struct {
	Audit      *AuditHandler
	Form       *FormHandler
	Page       *PageHandler
	Field      *FieldHandler
	Submission *SubmissionHandler
	User       *UserHandler
	Feed       *FeedHandler
	Health     *HealthHandler
	Router     *gin.Engine
}

func New(svc *application.Services, repos *repository.Repos, router *gin.Engine) *Handlers {
	return &Handlers{
		Audit:      NewAuditHandler(svc.Audit),
		Form:       NewFormHandler(svc.Form),
		Page:       NewPageHandler(svc.Page),
		Field:      NewFieldHandler(svc.Field),
		Submission: NewSubmissionHandler(svc.Submission),
		User:       NewUserHandler(svc.User, svc.SecureCookies),
		Feed:       NewFeedHandler(svc.Hub, svc.AllowedOrigins),
		Health:     NewHealthHandler(repos.DB()),
		Router:     router,
	}
}
