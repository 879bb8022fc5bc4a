package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/linskybing/formbuilder-go/pkg/response"
	"github.com/linskybing/formbuilder-go/pkg/utils"
)

// bind decodes a JSON or form body into dst.
func bind(c *gin.Context, dst any) bool {
	return bindResult(c, c.ShouldBind(dst))
}

func bindJSON(c *gin.Context, dst any) bool {
	return bindResult(c, c.ShouldBindJSON(dst))
}

// bindResult writes the error response for a failed bind. Malformed bodies
// get 400, bodies that break binding rules get 422 with one message per field.
func bindResult(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}

	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		response.BadRequest(c, "Invalid input")
		return false
	}

	msgs := make([]string, 0, len(verr))
	for _, fe := range verr {
		lbl := strings.ToLower(fe.Field())
		var msg string
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", lbl)
		case "min":
			msg = fmt.Sprintf("%s must be at least %s characters", lbl, fe.Param())
		case "max":
			msg = fmt.Sprintf("%s must be at most %s characters", lbl, fe.Param())
		case "email":
			msg = fmt.Sprintf("%s must be a valid email address", lbl)
		default:
			msg = fmt.Sprintf("%s is invalid", lbl)
		}
		msgs = append(msgs, msg)
	}
	response.Error(c, http.StatusUnprocessableEntity, strings.Join(msgs, "; "))
	return false
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := utils.ParseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}
