package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/formbuilder-go/internal/application"
	"github.com/linskybing/formbuilder-go/internal/domain/form"
	"github.com/linskybing/formbuilder-go/pkg/response"
	"github.com/linskybing/formbuilder-go/pkg/utils"
)

type FieldHandler struct {
	service *application.FieldService
}

func NewFieldHandler(service *application.FieldService) *FieldHandler {
	return &FieldHandler{service: service}
}

// ListByForm godoc
// @Summary List a form's fields by page order, then field order
// @Tags fields
// @Security BearerAuth
// @Produce json
// @Param id path int true "Form ID"
// @Success 200 {object} response.Envelope{data=[]form.Field}
// @Router /api/forms/{id}/fields [get]
func (h *FieldHandler) ListByForm(c *gin.Context) {
	formID, ok := idParam(c)
	if !ok {
		return
	}
	fields, err := h.service.GetFieldsByForm(c.Request.Context(), formID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "ok", fields)
}

// ListByPage godoc
// @Summary List a page's fields in order
// @Tags fields
// @Security BearerAuth
// @Produce json
// @Param id path int true "Page ID"
// @Success 200 {object} response.Envelope{data=[]form.Field}
// @Router /api/pages/{id}/fields [get]
func (h *FieldHandler) ListByPage(c *gin.Context) {
	pageID, ok := idParam(c)
	if !ok {
		return
	}
	fields, err := h.service.GetFieldsByPage(c.Request.Context(), pageID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "ok", fields)
}

// Reorder godoc
// @Summary Reorder every field of a page
// @Tags fields
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Page ID"
// @Param input body form.ReorderInput true "New positions"
// @Success 200 {object} response.Envelope{data=[]form.Field}
// @Router /api/pages/{id}/fields/order [put]
func (h *FieldHandler) Reorder(c *gin.Context) {
	pageID, ok := idParam(c)
	if !ok {
		return
	}
	var input form.ReorderInput
	if !bindJSON(c, &input) {
		return
	}
	fields, err := h.service.ReorderFields(utils.RequestContext(c), pageID, input.Orders)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Fields reordered", fields)
}
