package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/alliance"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/httputil"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/models"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/users"
)

// GetAllianceConfig returns the active award definitions.
func (h *Handler) GetAllianceConfig(c *gin.Context) {
	awards := h.alliance.Awards(c.Request.Context())
	httputil.JSONWithETag(c, http.StatusOK, httputil.ConfigCacheControl, gin.H{"awards": awards})
}

// UpdateAllianceConfig replaces the award definition list.
func (h *Handler) UpdateAllianceConfig(c *gin.Context) {
	var req struct {
		Awards []models.AwardDefinition `json:"awards"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Awards) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one award definition is required"})
		return
	}

	for _, a := range req.Awards {
		if a.Key == "" || a.Label == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Award key and label are required"})
			return
		}
	}

	if err := h.alliance.SaveAwards(c.Request.Context(), req.Awards); err != nil {
		h.logger.Errorw("alliance config save failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save alliance config"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"awards": h.alliance.Awards(c.Request.Context())})
}

// GetMemberAwards returns a member's award counters, selected by
// userId, discordId, or name.
func (h *Handler) GetMemberAwards(c *gin.Context) {
	sel, ok := h.resolveSelector(c, c.Query("userId"), c.Query("discordId"), c.Query("name"))
	if !ok {
		return
	}

	awards, updatedAt, err := h.alliance.MemberAwards(c.Request.Context(), sel)
	if err != nil {
		if errors.Is(err, alliance.ErrNoSelector) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A userId, discordId, or name is required"})
			return
		}
		h.logger.Errorw("member awards lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load member awards"})
		return
	}

	c.Header("Cache-Control", httputil.ProfileCacheControl)
	c.JSON(http.StatusOK, gin.H{"awards": awards, "updatedAt": updatedAt})
}

// GrantMemberAward increments one award counter for a member.
func (h *Handler) GrantMemberAward(c *gin.Context) {
	var req struct {
		UserID    string `json:"userId"`
		DiscordID string `json:"discordId"`
		Name      string `json:"name"`
		Key       string `json:"key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "An award key is required"})
		return
	}

	sel, ok := h.resolveSelector(c, req.UserID, req.DiscordID, req.Name)
	if !ok {
		return
	}

	if err := h.alliance.GrantAward(c.Request.Context(), sel, req.Key); err != nil {
		switch {
		case errors.Is(err, alliance.ErrUnknownAwardKey):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown award key"})
		case errors.Is(err, alliance.ErrNoSelector):
			c.JSON(http.StatusBadRequest, gin.H{"error": "A userId, discordId, or name is required"})
		default:
			h.logger.Errorw("award grant failed", "key", req.Key, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to grant award"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Award granted"})
}

// resolveSelector turns the raw identifiers into a profile selector,
// resolving a bare name through the user directory. It writes the
// error response itself when resolution fails.
func (h *Handler) resolveSelector(c *gin.Context, userID, discordID, name string) (alliance.ProfileSelector, bool) {
	var sel alliance.ProfileSelector

	if userID != "" {
		oid, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
			return sel, false
		}
		sel.UserID = oid
		return sel, true
	}
	if discordID != "" {
		sel.DiscordID = discordID
		return sel, true
	}
	if name != "" {
		user, err := h.users.FindByName(c.Request.Context(), name)
		if err != nil {
			if errors.Is(err, users.ErrUserNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
				return sel, false
			}
			h.logger.Errorw("member name resolution failed", "name", name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve member"})
			return sel, false
		}
		if user.ProviderAccountID != "" {
			sel.DiscordID = user.ProviderAccountID
		} else {
			sel.UserID = user.ID
		}
		return sel, true
	}

	c.JSON(http.StatusBadRequest, gin.H{"error": "A userId, discordId, or name is required"})
	return sel, false
}
