package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/applications"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/middleware"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/models"
)

// SubmitApplication records a clan application for the authenticated
// member.
func (h *Handler) SubmitApplication(c *gin.Context) {
	userID, ok := middleware.AuthUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req models.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Validation Error"})
		return
	}

	_, err := h.apps.Create(c.Request.Context(), userID, middleware.AuthUsername(c), &req)
	if err != nil {
		var verr *applications.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Validation Error", "errors": verr.Fields})
			return
		}
		h.logger.Errorw("application submit failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit application"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Application submitted successfully!"})
}

// ListApplications returns recent applications for admin review.
func (h *Handler) ListApplications(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)

	apps, err := h.apps.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Errorw("application list failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": apps,
		"count":        len(apps),
	})
}
