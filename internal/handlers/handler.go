package handlers

import (
	"net/http"

	"user_accounts/internal/logger"
	"user_accounts/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options carries transport-level settings read from configuration.
type Options struct {
	// CORSOrigins lists allowed origins; empty disables the CORS layer.
	CORSOrigins []string
	// AuthCookie is the cookie consulted when no Authorization header is
	// present. Empty disables the cookie fallback.
	AuthCookie string
}

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	opts     Options
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts Options) *Handler {
	return &Handler{services: services, log: log, opts: opts}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger())

	if len(h.opts.CORSOrigins) > 0 {
		router.Use(h.corsMiddleware())
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints (public)
	h.registerAuthRoutes(router)

	// Authenticated welcome endpoint
	router.GET("/private", h.authMiddleware, h.privateWelcome)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.authMiddleware)
	{
		api.GET("/users/info", h.userInfo)

		members := api.Group("/members")
		{
			members.POST("", h.createMember)
			members.GET("", h.listMembers)
			members.PUT("", h.updateMember)
			members.DELETE("/:id", h.deleteMember)
		}
	}
}

func (h *Handler) corsMiddleware() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if len(h.opts.CORSOrigins) == 1 && h.opts.CORSOrigins[0] == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = h.opts.CORSOrigins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
