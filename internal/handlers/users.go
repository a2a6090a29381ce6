package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/models"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/users"
)

// LookupUser resolves a public profile by name and/or Discord id. An
// unknown member yields an empty object so the frontend can treat the
// response shape uniformly.
func (h *Handler) LookupUser(c *gin.Context) {
	name := c.Query("name")
	discordID := c.Query("discordId")
	if name == "" && discordID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing name or discordId"})
		return
	}

	user, err := h.users.Lookup(c.Request.Context(), name, discordID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		h.logger.Errorw("user lookup failed", "name", name, "discord_id", discordID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up user"})
		return
	}

	resp := models.UserLookupResponse{
		Name:      optional(user.Name),
		Callsign:  optional(user.Callsign),
		RankTitle: optional(user.RankTitle),
		Motto:     optional(user.Motto),
		SESName:   optional(user.SESName),
		AvatarURL: optional(user.AvatarURL()),
	}
	c.JSON(http.StatusOK, resp)
}

// optional maps the empty string to a JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
