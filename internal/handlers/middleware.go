package handlers

import (
	"net/http"
	"strings"
	"time"

	"user_accounts/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	currentUserKey = "currentUser"
	requestIDKey   = "requestID"
)

// authMiddleware extracts a bearer token (header first, cookie fallback),
// resolves the user and rejects the request before any protected handler
// runs. Token failures are never distinguished to the client.
func (h *Handler) authMiddleware(c *gin.Context) {
	accessToken, ok := h.extractToken(c)
	if !ok {
		return
	}

	u, err := h.services.CurrentUser(c.Request.Context(), accessToken)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Set(currentUserKey, u)
	c.Next()
}

// extractToken pulls the credential from the Authorization header or, when
// configured, the auth cookie. Writes the 401 itself on failure.
func (h *Handler) extractToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if h.opts.AuthCookie != "" {
			if tok, err := c.Cookie(h.opts.AuthCookie); err == nil && tok != "" {
				return tok, true
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing credentials",
		})
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return "", false
	}
	return parts[1], true
}

// currentUser returns the user the gate attached, or nil outside the gate.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// requestLogger tags every request with a uuid and logs method, path,
// status and duration once the handler chain finishes.
func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)

		start := time.Now()
		c.Next()

		if h.log != nil {
			h.log.Infow("http_request",
				"request_id", id,
				"method", c.Request.Method,
				"path", c.FullPath(),
				"status", c.Writer.Status(),
				"duration", time.Since(start),
			)
		}
	}
}
