package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/formbuilder-go/internal/application"
	"github.com/linskybing/formbuilder-go/internal/domain/form"
	"github.com/linskybing/formbuilder-go/pkg/response"
	"github.com/linskybing/formbuilder-go/pkg/utils"
)

type FormHandler struct {
	service *application.FormService
}

func NewFormHandler(service *application.FormService) *FormHandler {
	return &FormHandler{service: service}
}

// ViewBySlug godoc
// @Summary Public form view
// @Tags public
// @Produce json
// @Param slug path string true "Form slug"
// @Success 200 {object} response.Envelope{data=form.Form}
// @Failure 404 {object} response.Envelope "form not found"
// @Router /forms/{slug} [get]
func (h *FormHandler) ViewBySlug(c *gin.Context) {
	f, err := h.service.FindBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		// Missing and inactive forms share one answer.
		if response.StatusFor(err) == http.StatusNotFound {
			response.Error(c, http.StatusNotFound, "form not found")
			return
		}
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "ok", f)
}

// Preview godoc
// @Summary Preview a form regardless of its active flag
// @Tags forms
// @Security BearerAuth
// @Produce json
// @Param id path int true "Form ID"
// @Success 200 {object} response.Envelope{data=form.Form}
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /preview/form/{id} [get]
func (h *FormHandler) Preview(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	f, err := h.service.Preview(utils.RequestContext(c), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "preview", gin.H{"form": f, "preview": true})
}

// ListMine godoc
// @Summary List the caller's forms, newest first
// @Tags forms
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope{data=[]form.Form}
// @Router /api/forms [get]
func (h *FormHandler) ListMine(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	forms, err := h.service.GetFormsByUser(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "ok", forms)
}

// ListAll godoc
// @Summary List every form
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Envelope{data=[]form.Form}
// @Router /api/admin/forms [get]
func (h *FormHandler) ListAll(c *gin.Context) {
	forms, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "ok", forms)
}

// Create godoc
// @Summary Create a form with its pages and fields
// @Tags forms
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param input body form.FormInput true "Form tree"
// @Success 201 {object} response.Envelope{data=form.Form}
// @Failure 400 {object} response.Envelope "Malformed body"
// @Failure 422 {object} response.Envelope "Invalid slug or field"
// @Router /api/forms [post]
func (h *FormHandler) Create(c *gin.Context) {
	var input form.FormInput
	if !bindJSON(c, &input) {
		return
	}
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	f, err := h.service.CreateWithPages(utils.RequestContext(c), userID, input)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Form created", f)
}

// Get godoc
// @Summary Get a form with its pages and fields
// @Tags forms
// @Security BearerAuth
// @Produce json
// @Param id path int true "Form ID"
// @Success 200 {object} response.Envelope{data=form.Form}
// @Failure 404 {object} response.Envelope
// @Router /api/forms/{id} [get]
func (h *FormHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	f, err := h.service.GetForm(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "ok", f)
}

// Update godoc
// @Summary Update a form and reconcile its pages and fields
// @Tags forms
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Form ID"
// @Param input body form.FormInput true "Form tree"
// @Success 200 {object} response.Envelope{data=form.Form}
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /api/forms/{id} [put]
func (h *FormHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input form.FormInput
	if !bindJSON(c, &input) {
		return
	}
	f, err := h.service.UpdateWithPages(utils.RequestContext(c), id, input)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Form updated", f)
}

// Patch godoc
// @Summary Update form attributes only
// @Tags forms
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Form ID"
// @Param input body form.FormPatch true "Attributes"
// @Success 200 {object} response.Envelope{data=form.Form}
// @Router /api/forms/{id} [patch]
func (h *FormHandler) Patch(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var patch form.FormPatch
	if !bindJSON(c, &patch) {
		return
	}
	f, err := h.service.Patch(utils.RequestContext(c), id, patch)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Form updated", f)
}

// Delete godoc
// @Summary Delete a form
// @Tags forms
// @Security BearerAuth
// @Produce json
// @Param id path int true "Form ID"
// @Success 200 {object} response.Envelope
// @Router /api/forms/{id} [delete]
func (h *FormHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.service.Delete(utils.RequestContext(c), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Form deleted", nil)
}

// Duplicate godoc
// @Summary Deep-copy a form as an inactive draft
// @Tags forms
// @Security BearerAuth
// @Produce json
// @Param id path int true "Form ID"
// @Success 201 {object} response.Envelope{data=form.Form}
// @Router /api/forms/{id}/duplicate [post]
func (h *FormHandler) Duplicate(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	f, err := h.service.Duplicate(utils.RequestContext(c), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Form duplicated", f)
}

// Toggle godoc
// @Summary Flip the active flag
// @Tags forms
// @Security BearerAuth
// @Produce json
// @Param id path int true "Form ID"
// @Success 200 {object} response.Envelope{data=form.Form}
// @Router /api/forms/{id}/toggle [post]
func (h *FormHandler) Toggle(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	f, err := h.service.ToggleActive(utils.RequestContext(c), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Form status updated", f)
}

// Export godoc
// @Summary Export a YAML snapshot of the form to object storage
// @Tags forms
// @Security BearerAuth
// @Produce json
// @Param id path int true "Form ID"
// @Success 201 {object} response.Envelope{data=form.ExportResult}
// @Failure 503 {object} response.Envelope "Export disabled"
// @Router /api/forms/{id}/export [post]
func (h *FormHandler) Export(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	res, err := h.service.Export(utils.RequestContext(c), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Form exported", res)
}
