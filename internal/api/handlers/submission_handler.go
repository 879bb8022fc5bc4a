package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/formbuilder-go/internal/application"
	"github.com/linskybing/formbuilder-go/internal/domain/submission"
	"github.com/linskybing/formbuilder-go/pkg/response"
)

type SubmissionHandler struct {
	service *application.SubmissionService
}

func NewSubmissionHandler(service *application.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{service: service}
}

// Create godoc
// @Summary Submit answers to an active form
// @Tags public
// @Accept json
// @Produce json
// @Param input body submission.CreateSubmissionDTO true "Answers keyed by field id"
// @Success 201 {object} response.Envelope{data=submission.ReceiptDTO}
// @Failure 400 {object} response.Envelope "Malformed body"
// @Failure 404 {object} response.Envelope "Form not found or inactive"
// @Failure 422 {object} response.Envelope "Required field missing"
// @Router /submissions [post]
func (h *SubmissionHandler) Create(c *gin.Context) {
	var input submission.CreateSubmissionDTO
	if !bindJSON(c, &input) {
		return
	}

	sub, err := h.service.CreateSubmission(c.Request.Context(), input)
	if err != nil {
		if response.StatusFor(err) == http.StatusNotFound {
			response.Error(c, http.StatusNotFound, "form not found")
			return
		}
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Submission received", submission.NewReceipt(&sub))
}

// ListByForm godoc
// @Summary List a form's submissions, newest first
// @Tags submissions
// @Security BearerAuth
// @Produce json
// @Param id path int true "Form ID"
// @Success 200 {object} response.Envelope{data=[]submission.Submission}
// @Failure 404 {object} response.Envelope
// @Router /api/forms/{id}/submissions [get]
func (h *SubmissionHandler) ListByForm(c *gin.Context) {
	formID, ok := idParam(c)
	if !ok {
		return
	}
	subs, err := h.service.GetSubmissionsByForm(c.Request.Context(), formID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "ok", subs)
}

// Stats godoc
// @Summary Submission counts for a form
// @Tags submissions
// @Security BearerAuth
// @Produce json
// @Param id path int true "Form ID"
// @Success 200 {object} response.Envelope{data=submission.Stats}
// @Router /api/forms/{id}/submissions/stats [get]
func (h *SubmissionHandler) Stats(c *gin.Context) {
	formID, ok := idParam(c)
	if !ok {
		return
	}
	stats, err := h.service.GetSubmissionStats(c.Request.Context(), formID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "ok", stats)
}
