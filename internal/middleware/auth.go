package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/doctors-portal-api/internal/utils"
	"go.uber.org/zap"
)

// ContextEmailKey holds the email decoded from the caller's credential.
const ContextEmailKey = "email"

type TokenValidator interface {
	ValidateJWT(token string) (*utils.Claims, error)
}

type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// AuthMiddleware requires an "Authorization: <scheme> <token>" header.
// A missing header is 401, anything unverifiable is 403.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 {
			utils.JSONError(c, http.StatusForbidden, "Forbidden access", "")
			return
		}
		claims, err := tokens.ValidateJWT(parts[1])
		if err != nil {
			utils.JSONError(c, http.StatusForbidden, "Forbidden access", "")
			return
		}

		c.Set(ContextEmailKey, claims.Email)
		c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware. Callers without the admin
// role, including unknown users, get 403.
func AdminMiddleware(roles AdminChecker, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(ContextEmailKey)
		if email == "" {
			utils.JSONError(c, http.StatusForbidden, "forbidden", "")
			return
		}

		isAdmin, err := roles.IsAdmin(c.Request.Context(), email)
		if err != nil {
			log.Error("admin check failed", zap.String("email", email), zap.Error(err))
			utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
			return
		}
		if !isAdmin {
			utils.JSONError(c, http.StatusForbidden, "forbidden", "")
			return
		}
		c.Next()
	}
}
