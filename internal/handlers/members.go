package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"user_accounts/internal/models"
	"user_accounts/internal/service"

	"github.com/gin-gonic/gin"
)

// userInfo handles GET /api/v1/users/info for the authenticated user.
func (h *Handler) userInfo(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"email": u.Email,
		"roles": []string{u.Role()},
	})
}

// privateWelcome handles GET /private, a minimal authenticated route.
func (h *Handler) privateWelcome(c *gin.Context) {
	u := currentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Welcome " + u.Email})
}

// createMember handles POST /api/v1/members. Same contract as register,
// reachable only through the gate.
func (h *Handler) createMember(c *gin.Context) {
	var input authCredentials
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	u, err := h.services.Register(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateEmail), errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.internalError(c, "create_member_failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, newUserResponse(u))
}

// listMembers handles GET /api/v1/members?query=<email substring>.
func (h *Handler) listMembers(c *gin.Context) {
	users, err := h.services.List(c.Request.Context(), c.Query("query"))
	if err != nil {
		h.internalError(c, "list_members_failed", err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for i := range users {
		resp = append(resp, newUserResponse(&users[i]))
	}
	c.JSON(http.StatusOK, gin.H{"users": resp})
}

// updateMember handles PUT /api/v1/members. Only the fields present in the
// body are changed.
func (h *Handler) updateMember(c *gin.Context) {
	var input models.UserUpdate
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	u, err := h.services.Update(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.internalError(c, "update_member_failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(u)})
}

// deleteMember handles DELETE /api/v1/members/:id. Hard delete; deleting an
// unknown id is a 404.
func (h *Handler) deleteMember(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	if err := h.services.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.internalError(c, "delete_member_failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
