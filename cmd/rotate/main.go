// Month-end stats rotation:
//  1. Rename User_Stats to a month-stamped temp collection
//  2. Merge the temp's documents into Lifetime_Stats
//  3. Drop the temp and recreate an empty User_Stats
//
// Safe to re-run: each step checks whether it already happened.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/config"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.Connect(ctx, logger, cfg)
	if err != nil {
		logger.Fatalw("mongo connection failed", "error", err)
	}
	defer db.Close(context.Background())

	if err := rotate(ctx, db.Database(), logger, time.Now()); err != nil {
		logger.Fatalw("rotation failed", "error", err)
	}
	logger.Info("rotation complete")
}

// tempNameFor stamps the archive collection with the month that just
// ended relative to now.
func tempNameFor(now time.Time) string {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prev := firstOfMonth.AddDate(0, 0, -1)
	return fmt.Sprintf("%s_prev_%04d_%02d", database.UserStatsCollection, prev.Year(), int(prev.Month()))
}

func rotate(ctx context.Context, db *mongo.Database, logger *zap.SugaredLogger, now time.Time) error {
	tempName := tempNameFor(now)

	live, err := collectionExists(ctx, db, database.UserStatsCollection)
	if err != nil {
		return err
	}
	tempExists, err := collectionExists(ctx, db, tempName)
	if err != nil {
		return err
	}

	switch {
	case !live && !tempExists:
		logger.Info("no stats collection to rotate")
		return ensureLiveCollection(ctx, db, logger)
	case tempExists:
		// A previous run already renamed; resume from the merge.
		logger.Infow("temp collection already exists, skipping rename", "temp", tempName)
	default:
		logger.Infow("renaming live stats", "temp", tempName)
		if err := renameCollection(ctx, db, database.UserStatsCollection, tempName); err != nil {
			return fmt.Errorf("rename stats collection: %w", err)
		}
	}

	logger.Infow("merging into lifetime archive", "temp", tempName)
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{}}},
		{{Key: "$merge", Value: bson.M{
			"into":           database.LifetimeStatsCollection,
			"on":             "_id",
			"whenMatched":    "keepExisting",
			"whenNotMatched": "insert",
		}}},
	}
	cursor, err := db.Collection(tempName).Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("merge into lifetime stats: %w", err)
	}
	cursor.Close(ctx)

	logger.Infow("dropping temp collection", "temp", tempName)
	if err := db.Collection(tempName).Drop(ctx); err != nil {
		return fmt.Errorf("drop temp collection: %w", err)
	}

	return ensureLiveCollection(ctx, db, logger)
}

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err != nil {
		return false, fmt.Errorf("list collections: %w", err)
	}
	return len(names) > 0, nil
}

// renameCollection issues the admin renameCollection command; the
// driver has no collection-level rename helper.
func renameCollection(ctx context.Context, db *mongo.Database, from, to string) error {
	admin := db.Client().Database("admin")
	cmd := bson.D{
		{Key: "renameCollection", Value: db.Name() + "." + from},
		{Key: "to", Value: db.Name() + "." + to},
	}
	return admin.RunCommand(ctx, cmd).Err()
}

// ensureLiveCollection recreates an empty User_Stats with its standard
// indexes when it does not exist.
func ensureLiveCollection(ctx context.Context, db *mongo.Database, logger *zap.SugaredLogger) error {
	exists, err := collectionExists(ctx, db, database.UserStatsCollection)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	logger.Info("creating fresh stats collection")
	if err := db.CreateCollection(ctx, database.UserStatsCollection); err != nil {
		return fmt.Errorf("create stats collection: %w", err)
	}

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "submitted_at", Value: 1}}},
		{Keys: bson.D{{Key: "player_name", Value: 1}}},
		{Keys: bson.D{{Key: "discord_id", Value: 1}}},
	}
	if _, err := db.Collection(database.UserStatsCollection).Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create stats indexes: %w", err)
	}
	return nil
}
