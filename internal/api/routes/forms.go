package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/linskybing/formbuilder-go/internal/api/handlers"
)

// FormRoutes registers the authoring endpoints. Everything under a form or
// page id is limited to the form's owner and admins.
func FormRoutes(rg *gin.RouterGroup, h *handlers.Handlers, formOwner, pageOwner gin.HandlerFunc) {
	forms := rg.Group("/forms")
	{
		forms.GET("", h.Form.ListMine)
		forms.POST("", h.Form.Create)

		forms.GET("/:id", formOwner, h.Form.Get)
		forms.PUT("/:id", formOwner, h.Form.Update)
		forms.PATCH("/:id", formOwner, h.Form.Patch)
		forms.DELETE("/:id", formOwner, h.Form.Delete)
		forms.POST("/:id/duplicate", formOwner, h.Form.Duplicate)
		forms.POST("/:id/toggle", formOwner, h.Form.Toggle)
		forms.POST("/:id/export", formOwner, h.Form.Export)

		forms.GET("/:id/pages", formOwner, h.Page.ListByForm)
		forms.POST("/:id/pages", formOwner, h.Page.Create)
		forms.PUT("/:id/pages/order", formOwner, h.Page.Reorder)
		forms.GET("/:id/fields", formOwner, h.Field.ListByForm)

		forms.GET("/:id/submissions", formOwner, h.Submission.ListByForm)
		forms.GET("/:id/submissions/stats", formOwner, h.Submission.Stats)
	}

	pages := rg.Group("/pages")
	{
		pages.PUT("/:id", pageOwner, h.Page.Update)
		pages.DELETE("/:id", pageOwner, h.Page.Delete)
		pages.GET("/:id/fields", pageOwner, h.Field.ListByPage)
		pages.PUT("/:id/fields/order", pageOwner, h.Field.Reorder)
	}
}
