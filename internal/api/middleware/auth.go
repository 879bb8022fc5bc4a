package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/formbuilder-go/internal/repository"
	"github.com/linskybing/formbuilder-go/pkg/response"
	"github.com/linskybing/formbuilder-go/pkg/types"
	"github.com/linskybing/formbuilder-go/pkg/utils"
	"gorm.io/gorm"
)

// Auth handles authorization middleware
type Auth struct {
	repos *repository.Repos
}

// NewAuth creates a new Auth middleware instance
func NewAuth(repos *repository.Repos) *Auth {
	return &Auth{repos: repos}
}

// --- Extractors ---

// OwnerExtractor resolves the owner of the form a request targets.
type OwnerExtractor func(c *gin.Context, repos *repository.Repos) (uint, error)

var errBadID = errors.New("invalid id")

// FromFormIDParam reads the form id from the :id URL parameter.
func FromFormIDParam() OwnerExtractor {
	return func(c *gin.Context, repos *repository.Repos) (uint, error) {
		id, err := utils.ParseIDParam(c, "id")
		if err != nil {
			return 0, errBadID
		}
		return repos.WithContext(c.Request.Context()).Form.GetOwnerID(id)
	}
}

// FromPageIDParam reads a page id from :id and resolves its form's owner.
func FromPageIDParam() OwnerExtractor {
	return func(c *gin.Context, repos *repository.Repos) (uint, error) {
		id, err := utils.ParseIDParam(c, "id")
		if err != nil {
			return 0, errBadID
		}
		r := repos.WithContext(c.Request.Context())
		page, err := r.Page.GetPageByID(id)
		if err != nil {
			return 0, err
		}
		return r.Form.GetOwnerID(page.FormID)
	}
}

// --- Middleware Methods ---

func claimsFrom(c *gin.Context) (*types.Claims, bool) {
	claims, err := utils.GetClaims(c)
	if err != nil {
		response.AbortWithError(c, http.StatusUnauthorized, "Invalid token claims")
		return nil, false
	}
	return claims, true
}

// Admin allows only tokens issued to the configured admin user.
func (a *Auth) Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			return
		}
		if !claims.IsAdmin {
			response.AbortWithError(c, http.StatusForbidden, "admin only")
			return
		}
		c.Next()
	}
}

// FormOwner allows the owner of the targeted form and admins.
func (a *Auth) FormOwner(extractor OwnerExtractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFrom(c)
		if !ok {
			return
		}

		ownerID, err := extractor(c, a.repos)
		switch {
		case errors.Is(err, errBadID):
			response.AbortWithError(c, http.StatusBadRequest, "Invalid id")
			return
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.AbortWithError(c, http.StatusNotFound, "not found")
			return
		case err != nil:
			response.AbortWithError(c, http.StatusInternalServerError, "internal server error")
			return
		}

		if claims.IsAdmin || claims.UserID == ownerID {
			c.Next()
			return
		}
		response.AbortWithError(c, http.StatusForbidden, "Permission denied for this form")
	}
}
