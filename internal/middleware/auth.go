package middleware

import (
	"strings"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/utils"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/logger"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/response"
	"github.com/gin-gonic/gin"
)

// ContextClaims is the gin context key holding the caller's *utils.Claims.
const ContextClaims = "auth_claims"

// AuthRequired rejects requests without a valid bearer token with 401.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, response.NewUnauthorized("authorization header required"))
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			response.Abort(c, response.NewUnauthorized("invalid authorization header format"))
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("rejected bearer token")
			response.Abort(c, response.NewUnauthorized("invalid or expired token"))
			return
		}

		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// bearerToken extracts the credentials of a "Bearer <token>" header. The
// scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentClaims returns the claims stored by AuthRequired.
func CurrentClaims(c *gin.Context) (*utils.Claims, bool) {
	v, exists := c.Get(ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}

// GetUserID returns the authenticated user's id, or 0 outside AuthRequired.
func GetUserID(c *gin.Context) uint {
	if claims, ok := CurrentClaims(c); ok {
		return claims.UserID
	}
	return 0
}
