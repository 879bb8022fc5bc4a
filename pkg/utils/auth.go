package utils

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/formbuilder-go/pkg/types"
)

var ErrNoClaims = errors.New("user claims not found in context")

func GetClaims(c *gin.Context) (*types.Claims, error) {
	claimsVal, exists := c.Get("claims")
	if !exists {
		return nil, ErrNoClaims
	}

	claims, ok := claimsVal.(*types.Claims)
	if !ok {
		return nil, errors.New("invalid user claims type")
	}
	return claims, nil
}

var GetUserIDFromContext = func(c *gin.Context) (uint, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// RequestContext returns the request context carrying the caller as a
// types.Actor, so services can audit and authorize without gin.
func RequestContext(c *gin.Context) context.Context {
	actor := types.Actor{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
	if claims, err := GetClaims(c); err == nil {
		actor.UserID = claims.UserID
		actor.Username = claims.Username
		actor.IsAdmin = claims.IsAdmin
	}
	return types.WithActor(c.Request.Context(), actor)
}
