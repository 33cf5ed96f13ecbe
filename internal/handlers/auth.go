package handlers

import (
	"errors"
	"net/http"

	"user_accounts/internal/models"
	"user_accounts/internal/service"

	"github.com/gin-gonic/gin"
)

// Single, shared credentials payload for both register and login.
type authCredentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// userResponse is what account-creating endpoints return; the hash never
// leaves the service boundary.
type userResponse struct {
	ID      int    `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, IsAdmin: u.IsAdmin}
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// register handles POST /auth/register.
//
//	@Summary	Register a new user
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	userResponse
//	@Router		/auth/register [post]
func (h *Handler) register(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	u, err := h.services.Register(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateEmail), errors.Is(err, service.ErrInvalidInput):
			if h.log != nil {
				h.log.Infow("register_rejected", "email", input.Email, "err", err)
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.internalError(c, "register_failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, newUserResponse(u))
}

// login handles POST /auth/login. Unknown email and wrong password produce
// the same response.
//
//	@Summary	Log in and obtain a bearer token
//	@Accept		json
//	@Produce	json
//	@Router		/auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	tok, err := h.services.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			if h.log != nil {
				h.log.Infow("login_rejected", "email", input.Email)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		h.internalError(c, "login_failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": tok})
}

// internalError hides repository/infrastructure failures behind a generic 500.
func (h *Handler) internalError(c *gin.Context, logKey string, err error) {
	if h.log != nil {
		h.log.Errorw(logKey, "err", err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
