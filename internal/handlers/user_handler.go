package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/doctors-portal-api/internal/middleware"
	"github.com/harentsoaR/doctors-portal-api/internal/models"
	"go.uber.org/zap"
)

// ListUsers returns every user. Any authenticated caller may list them.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Store.ListUsers(c.Request.Context())
	if err != nil {
		h.internalError(c, "failed to list users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CheckAdmin answers {admin: bool}; an unknown email is not an admin.
func (h *Handler) CheckAdmin(c *gin.Context) {
	isAdmin, err := h.Roles.IsAdmin(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.internalError(c, "failed to check admin role", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": isAdmin})
}

// MakeAdmin promotes the user in the path. The route is admin-only.
func (h *Handler) MakeAdmin(c *gin.Context) {
	email := c.Param("email")
	result, err := h.Roles.Promote(c.Request.Context(), email)
	if err != nil {
		h.internalError(c, "failed to promote user", err)
		return
	}
	h.Log.Info("user promoted to admin",
		zap.String("email", email),
		zap.String("by", c.GetString(middleware.ContextEmailKey)),
		zap.Int64("matched", result.MatchedCount),
	)
	c.JSON(http.StatusOK, result)
}

// UpsertUser creates or updates the user for the path email and hands back a
// fresh credential for that email.
//
// Anyone able to reach this route can mint a credential for any email. The
// behaviour is kept for client compatibility; see DESIGN.md.
func (h *Handler) UpsertUser(c *gin.Context) {
	email := c.Param("email")

	var profile models.UserProfile
	// An empty body, chunked or not, upserts the email alone.
	if err := c.ShouldBindJSON(&profile); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(c, err)
		return
	}

	result, err := h.Store.UpsertUser(c.Request.Context(), email, profile)
	if err != nil {
		h.internalError(c, "failed to upsert user", err)
		return
	}

	token, err := h.Tokens.GenerateJWT(email)
	if err != nil {
		h.internalError(c, "could not generate token", err)
		return
	}
	if h.WarnOnTokenIssue {
		h.Log.Warn("credential issued without verification", zap.String("email", email), zap.String("client_ip", c.ClientIP()))
	}

	c.JSON(http.StatusOK, gin.H{"result": result, "token": token})
}
