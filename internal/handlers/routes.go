package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/harentsoaR/doctors-portal-api/internal/middleware"
)

type RouterConfig struct {
	AllowOrigins    []string
	RateLimitPerMin int
}

// NewRouter wires the middleware chain and every route onto a fresh engine.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()

	// ---  Middleware ---
	r.Use(middleware.RequestLogger(h.Log))
	r.Use(middleware.Recovery(h.Log))
	r.Use(corsMiddleware(cfg.AllowOrigins))
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMin, h.Log))

	auth := middleware.AuthMiddleware(h.Tokens)
	admin := middleware.AdminMiddleware(h.Roles, h.Log)

	// --- Routes ---
	r.GET("/", h.Root)
	r.GET("/services", h.ListServices)
	r.GET("/available", h.GetAvailable)

	r.GET("/user", auth, h.ListUsers)
	r.GET("/admin/:email", h.CheckAdmin)
	r.PUT("/user/admin/:email", auth, admin, h.MakeAdmin)
	r.PUT("/user/:email", h.UpsertUser)

	r.GET("/booking", auth, h.GetBookings)
	r.POST("/booking", h.CreateBooking)

	doctors := r.Group("/doctor", auth, admin)
	{
		doctors.GET("", h.ListDoctors)
		doctors.POST("", h.AddDoctor)
		doctors.DELETE("/:email", h.DeleteDoctor)
	}

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
