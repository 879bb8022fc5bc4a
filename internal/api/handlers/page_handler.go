package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/formbuilder-go/internal/application"
	"github.com/linskybing/formbuilder-go/internal/domain/form"
	"github.com/linskybing/formbuilder-go/pkg/response"
	"github.com/linskybing/formbuilder-go/pkg/utils"
)

type PageHandler struct {
	service *application.PageService
}

func NewPageHandler(service *application.PageService) *PageHandler {
	return &PageHandler{service: service}
}

// ListByForm godoc
// @Summary List a form's pages in order
// @Tags pages
// @Security BearerAuth
// @Produce json
// @Param id path int true "Form ID"
// @Success 200 {object} response.Envelope{data=[]form.Page}
// @Router /api/forms/{id}/pages [get]
func (h *PageHandler) ListByForm(c *gin.Context) {
	formID, ok := idParam(c)
	if !ok {
		return
	}
	pages, err := h.service.GetPagesByForm(c.Request.Context(), formID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "ok", pages)
}

// Create godoc
// @Summary Append a page with fields to a form
// @Tags pages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Form ID"
// @Param input body form.PageInput true "Page"
// @Success 201 {object} response.Envelope{data=form.Page}
// @Router /api/forms/{id}/pages [post]
func (h *PageHandler) Create(c *gin.Context) {
	formID, ok := idParam(c)
	if !ok {
		return
	}
	var input form.PageInput
	if !bindJSON(c, &input) {
		return
	}
	page, err := h.service.CreateWithFields(utils.RequestContext(c), formID, input)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Page created", page)
}

// Update godoc
// @Summary Update a page and reconcile its fields
// @Tags pages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Page ID"
// @Param input body form.PageInput true "Page"
// @Success 200 {object} response.Envelope{data=form.Page}
// @Router /api/pages/{id} [put]
func (h *PageHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input form.PageInput
	if !bindJSON(c, &input) {
		return
	}
	page, err := h.service.UpdateWithFields(utils.RequestContext(c), id, input)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Page updated", page)
}

// Delete godoc
// @Summary Delete a page and its fields
// @Tags pages
// @Security BearerAuth
// @Produce json
// @Param id path int true "Page ID"
// @Success 200 {object} response.Envelope
// @Router /api/pages/{id} [delete]
func (h *PageHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.service.DeletePage(utils.RequestContext(c), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Page deleted", nil)
}

// Reorder godoc
// @Summary Reorder every page of a form
// @Tags pages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Form ID"
// @Param input body form.ReorderInput true "New positions"
// @Success 200 {object} response.Envelope{data=[]form.Page}
// @Failure 422 {object} response.Envelope "Positions do not cover exactly the form's pages"
// @Router /api/forms/{id}/pages/order [put]
func (h *PageHandler) Reorder(c *gin.Context) {
	formID, ok := idParam(c)
	if !ok {
		return
	}
	var input form.ReorderInput
	if !bindJSON(c, &input) {
		return
	}
	pages, err := h.service.ReorderPages(utils.RequestContext(c), formID, input.Orders)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Pages reordered", pages)
}
