package leaderboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/models"
)

// UserDirectory is the read-only slice of the user-profile store the
// enricher needs.
type UserDirectory interface {
	FindByDiscordIDs(ctx context.Context, ids []string) ([]models.User, error)
	FindByNames(ctx context.Context, names []string) ([]models.User, error)
}

// Enricher attaches avatar URLs and SES titles to leaderboard rows by
// cross-referencing the user-profile store. All failures are best
// effort: they are logged and the rows are returned unenriched.
type Enricher struct {
	users  UserDirectory
	logger *zap.SugaredLogger
}

func NewEnricher(users UserDirectory, logger *zap.SugaredLogger) *Enricher {
	return &Enricher{users: users, logger: logger}
}

// Enrich mutates rows in place. A discord-id match is preferred; rows
// without one fall back to a case-insensitive player-name match. When
// defaultAvatars is set, rows with a discord id but no profile avatar
// get the Discord CDN default embed avatar.
func (e *Enricher) Enrich(ctx context.Context, rows []models.LeaderboardRow, defaultAvatars bool) {
	if len(rows) == 0 {
		return
	}

	byDiscord := make(map[string]models.User)
	if ids := distinctDiscordIDs(rows); len(ids) > 0 {
		users, err := e.users.FindByDiscordIDs(ctx, ids)
		if err != nil {
			e.logger.Warnw("leaderboard enrichment by discord id failed", "error", err)
		}
		for _, u := range users {
			byDiscord[u.ProviderAccountID] = u
		}
	}

	byName := make(map[string]models.User)
	if names := distinctNames(rows); len(names) > 0 {
		users, err := e.users.FindByNames(ctx, names)
		if err != nil {
			e.logger.Warnw("leaderboard enrichment by name failed", "error", err)
		}
		for _, u := range users {
			byName[strings.ToLower(u.Name)] = u
		}
	}

	for i := range rows {
		r := &rows[i]

		u, ok := byDiscord[r.DiscordID]
		if !ok || r.DiscordID == "" {
			u, ok = byName[strings.ToLower(r.PlayerName)]
		}
		if ok {
			if r.AvatarURL == "" {
				r.AvatarURL = u.AvatarURL()
			}
			if r.SESTitle == "" {
				r.SESTitle = u.SESName
			}
		}

		if defaultAvatars && r.AvatarURL == "" && r.DiscordID != "" {
			r.AvatarURL = defaultEmbedAvatar(r.DiscordID)
		}
	}
}

func distinctDiscordIDs(rows []models.LeaderboardRow) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, r := range rows {
		if r.DiscordID != "" && !seen[r.DiscordID] {
			seen[r.DiscordID] = true
			ids = append(ids, r.DiscordID)
		}
	}
	return ids
}

func distinctNames(rows []models.LeaderboardRow) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range rows {
		if r.PlayerName != "" && !seen[r.PlayerName] {
			seen[r.PlayerName] = true
			names = append(names, r.PlayerName)
		}
	}
	return names
}

// defaultEmbedAvatar maps a discord id onto one of the five stock
// Discord embed avatars.
func defaultEmbedAvatar(discordID string) string {
	n, _ := strconv.ParseInt(discordID, 10, 64)
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("https://cdn.discordapp.com/embed/avatars/%d.png", n%5)
}
