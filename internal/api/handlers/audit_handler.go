package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/formbuilder-go/internal/application"
	"github.com/linskybing/formbuilder-go/internal/repository"
	"github.com/linskybing/formbuilder-go/pkg/response"
	"github.com/linskybing/formbuilder-go/pkg/utils"
)

type AuditHandler struct {
	service *application.AuditService
}

func NewAuditHandler(service *application.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// GetAuditLogs godoc
// @Summary      Query audit logs
// @Description  Filter by user, resource, action and time range, newest first.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        user_id       query     int      false  "User ID"
// @Param        resource_type query     string   false  "Resource type" example(form)
// @Param        resource_id   query     string   false  "Resource ID"
// @Param        action        query     string   false  "Action" example(update)
// @Param        start_time    query     string   false  "RFC3339 lower bound" example(2024-01-01T00:00:00Z)
// @Param        end_time      query     string   false  "RFC3339 upper bound"
// @Param        limit         query     int      false  "Max records (default 100, max 500)"
// @Param        offset        query     int      false  "Offset"
// @Success      200 {object}  response.Envelope{data=[]audit.AuditLog}
// @Failure      400 {object}  response.Envelope "Invalid query parameters"
// @Router       /api/admin/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	var params repository.AuditQueryParams

	if uid, err := utils.ParseQueryUintParam(c, "user_id"); err != nil {
		if !errors.Is(err, utils.ErrEmptyParameter) {
			response.BadRequest(c, "Invalid user_id")
			return
		}
	} else {
		params.UserID = &uid
	}

	if rt := c.Query("resource_type"); rt != "" {
		params.ResourceType = &rt
	}
	if rid := c.Query("resource_id"); rid != "" {
		params.ResourceID = &rid
	}
	if act := c.Query("action"); act != "" {
		params.Action = &act
	}

	var ok bool
	if params.Since, ok = timeQuery(c, "start_time"); !ok {
		return
	}
	if params.Until, ok = timeQuery(c, "end_time"); !ok {
		return
	}

	params.Limit = utils.ParseQueryInt(c, "limit", 100)
	params.Offset = utils.ParseQueryInt(c, "offset", 0)

	logs, err := h.service.QueryAuditLogs(c.Request.Context(), params)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, "ok", logs)
}

func timeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &t, true
}
