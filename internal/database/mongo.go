package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/config"
)

// Collection names for the live stats, per-mode stats, and site data.
const (
	UserStatsCollection       = "User_Stats"
	SoloStatsCollection       = "Solo_Stats"
	SquadStatsCollection      = "Squad_Stats"
	LifetimeStatsCollection   = "Lifetime_Stats"
	UsersCollection           = "users"
	ApplicationsCollection    = "User_Applications"
	AllianceConfigCollection  = "Alliance_Config"
	AllianceProfileCollection = "Alliance_Profiles"
)

// Mongo wraps the shared client and database handle. One instance is
// created at startup and reused for the lifetime of the process.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.SugaredLogger
}

// Connect creates the client with pool sizing and timeouts from config
// and verifies connectivity with a ping.
func Connect(ctx context.Context, logger *zap.SugaredLogger, cfg *config.Config) (*Mongo, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(cfg.MongoMaxPoolSize).
		SetMinPoolSize(cfg.MongoMinPoolSize).
		SetServerSelectionTimeout(cfg.MongoServerSelectionTimeout).
		SetSocketTimeout(cfg.MongoSocketTimeout).
		SetHeartbeatInterval(cfg.MongoHeartbeatFrequency)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Mongo{
		client: client,
		db:     client.Database(cfg.MongoDB),
		logger: logger,
	}, nil
}

// Database returns the configured database handle.
func (m *Mongo) Database() *mongo.Database {
	return m.db
}

// Collection returns a handle to the named collection.
func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

// Health checks connectivity to the deployment.
func (m *Mongo) Health(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) {
	if err := m.client.Disconnect(ctx); err != nil {
		m.logger.Errorw("failed to disconnect from mongo", "error", err)
	}
}
