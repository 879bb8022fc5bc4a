package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/linskybing/formbuilder-go/pkg/response"
	"github.com/linskybing/formbuilder-go/pkg/types"
)

var (
	jwtKey    []byte
	jwtIssuer string
)

// Init sets the JWT signing key and issuer.
func Init(secret, issuer string) {
	jwtKey = []byte(secret)
	jwtIssuer = issuer
}

// GenerateToken issues a signed token.
var GenerateToken = func(userID uint, username string, isAdmin bool, expireDuration time.Duration) (string, error) {
	now := time.Now()
	claims := &types.Claims{
		UserID:   userID,
		Username: username,
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expireDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    jwtIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// ParseToken validates and extracts claims.
func ParseToken(tokenStr string) (*types.Claims, error) {
	claims := &types.Claims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// JWTAuthMiddleware validates Bearer token in Authorization header or cookie.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.AbortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
				return
			}
			tokenStr = parts[1]
		} else {
			cookie, err := c.Cookie("token")
			if err != nil {
				response.AbortWithError(c, http.StatusUnauthorized, "Authorization required (header or cookie)")
				return
			}
			tokenStr = cookie
		}

		claims, err := ParseToken(tokenStr)
		if err != nil {
			response.AbortWithError(c, http.StatusUnauthorized, "Invalid token: "+err.Error())
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}
