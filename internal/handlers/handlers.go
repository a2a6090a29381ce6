package handlers

import (
	"go.uber.org/zap"

	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/alliance"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/applications"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/database"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/leaderboard"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/users"
)

// Handler bundles the API dependencies shared by all routes.
type Handler struct {
	logger   *zap.SugaredLogger
	db       *database.Mongo
	board    *leaderboard.Orchestrator
	users    *users.Store
	apps     *applications.Store
	alliance *alliance.Store
}

func New(
	logger *zap.SugaredLogger,
	db *database.Mongo,
	board *leaderboard.Orchestrator,
	userStore *users.Store,
	appStore *applications.Store,
	allianceStore *alliance.Store,
) *Handler {
	return &Handler{
		logger:   logger,
		db:       db,
		board:    board,
		users:    userStore,
		apps:     appStore,
		alliance: allianceStore,
	}
}
