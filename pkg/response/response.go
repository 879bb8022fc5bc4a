package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/formbuilder-go/internal/apperr"
	"github.com/linskybing/formbuilder-go/internal/logger"
	"go.uber.org/zap"
)

// Envelope wraps every JSON body the API returns.
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
	Success bool   `json:"success"`
}

type TokenResponse struct {
	Token    string `json:"token"`
	UID      uint   `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
}

func Success(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Message: message, Data: data, Success: true})
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Message: message, Success: false})
}

func AbortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Message: message, Success: false})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindNotFound, apperr.KindInactive:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Fail writes err with its mapped status. Persistence failures are logged and
// reported without detail.
func Fail(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		logger.L().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	Error(c, status, apperr.Message(err))
}

// BadRequest reports a body or parameter that could not be parsed.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}
