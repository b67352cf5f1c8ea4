package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/doctors-portal-api/internal/middleware"
	"github.com/harentsoaR/doctors-portal-api/internal/services"
	"github.com/harentsoaR/doctors-portal-api/internal/store"
	"github.com/harentsoaR/doctors-portal-api/internal/utils"
	"go.uber.org/zap"
)

// Handler carries everything the route handlers need. It is built once in
// main and shared by all requests.
type Handler struct {
	Store        store.Store
	Tokens       *utils.TokenManager
	Roles        *services.RoleService
	Availability *services.AvailabilityService
	Bookings     *services.BookingRegistrar
	Log          *zap.Logger

	// WarnOnTokenIssue logs every credential minted by the upsert route.
	WarnOnTokenIssue bool
}

func NewHandler(st store.Store, tokens *utils.TokenManager, notifier services.Notifier, cache store.RoleCache, log *zap.Logger) *Handler {
	return &Handler{
		Store:        st,
		Tokens:       tokens,
		Roles:        services.NewRoleService(st, cache, log),
		Availability: services.NewAvailabilityService(st, st),
		Bookings:     services.NewBookingRegistrar(st, notifier),
		Log:          log,
	}
}

// internalError logs err and answers with a generic 500.
func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	h.Log.Error(msg,
		zap.String("request_id", c.GetString(middleware.ContextRequestIDKey)),
		zap.Error(err),
	)
	_ = c.Error(err)
	utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", "")
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
}

// Root is the liveness probe.
func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Doctors portal server running!")
}
