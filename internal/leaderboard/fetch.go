package leaderboard

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/database"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/models"
)

// Fetcher computes one scope's leaderboard without enrichment.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (*models.LeaderboardResult, error)
}

// MongoFetcher runs the per-scope aggregation pipelines against the
// stats collections.
type MongoFetcher struct {
	db       *mongo.Database
	archives []string
	now      func() time.Time
}

func NewMongoFetcher(db *mongo.Database, archives []string) *MongoFetcher {
	return &MongoFetcher{db: db, archives: archives, now: time.Now}
}

// collectionFor picks the source collection for a scope. The lifetime
// union also starts from the live stats collection.
func collectionFor(scope Scope) string {
	switch scope {
	case ScopeSolo:
		return database.SoloStatsCollection
	case ScopeSquad:
		return database.SquadStatsCollection
	default:
		return database.UserStatsCollection
	}
}

// Fetch normalizes the query, builds the scope's pipeline, and executes
// it. Query failures propagate to the caller unretried.
func (f *MongoFetcher) Fetch(ctx context.Context, q Query) (*models.LeaderboardResult, error) {
	now := f.now().UTC()
	q = q.Normalize(now)

	var pipe mongo.Pipeline
	switch q.Scope {
	case ScopeDay:
		pipe = DayPipeline(q, now)
	case ScopeWeek:
		pipe = WeekPipeline(q, now)
	case ScopeSolo, ScopeSquad:
		pipe = ModePipeline(q)
	case ScopeLifetime:
		pipe = LifetimePipeline(q, f.archives)
	default:
		pipe = MonthPipeline(q)
	}

	coll := f.db.Collection(collectionFor(q.Scope))
	cursor, err := coll.Aggregate(ctx, pipe, options.Aggregate().SetAllowDiskUse(true))
	if err != nil {
		return nil, fmt.Errorf("aggregate %s leaderboard: %w", q.Scope, err)
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("read %s leaderboard results: %w", q.Scope, err)
	}

	return &models.LeaderboardResult{
		SortBy:  string(q.SortBy),
		SortDir: string(q.SortDir),
		Limit:   q.Limit,
		Results: formatRows(docs),
	}, nil
}

// formatRows turns projected aggregation documents into API rows,
// assigning ranks by array position.
func formatRows(docs []bson.M) []models.LeaderboardRow {
	rows := make([]models.LeaderboardRow, 0, len(docs))
	for i, doc := range docs {
		row := models.LeaderboardRow{
			Rank:            i + 1,
			ID:              asString(doc["_id"]),
			PlayerName:      asString(doc["player_name"]),
			Kills:           asFloat(doc["Kills"]),
			Accuracy:        formatAccuracy(doc),
			ShotsFired:      asFloat(doc["Shots Fired"]),
			ShotsHit:        asFloat(doc["Shots Hit"]),
			Deaths:          asFloat(doc["Deaths"]),
			MeleeKills:      asFloat(doc["MeleeKills"]),
			StimsUsed:       asFloat(doc["StimsUsed"]),
			StratsUsed:      asFloat(doc["StratsUsed"]),
			ClanName:        asString(doc["clan_name"]),
			SubmittedBy:     asString(doc["submitted_by"]),
			SubmittedAt:     asTime(doc["submitted_at"]),
			DiscordID:       asString(doc["discord_id"]),
			DiscordServerID: asString(doc["discord_server_id"]),
			SESTitle:        asString(doc["sesTitle"]),
			AvgKills:        asFloatPtr(doc["avgKills"]),
			AvgShotsFired:   asFloatPtr(doc["avgShotsFired"]),
			AvgShotsHit:     asFloatPtr(doc["avgShotsHit"]),
			AvgDeaths:       asFloatPtr(doc["avgDeaths"]),
		}
		rows = append(rows, row)
	}
	return rows
}

// formatAccuracy renders the derived percentage to one decimal place,
// falling back to the raw stored string when no derived value exists.
func formatAccuracy(doc bson.M) string {
	if v, ok := doc["accuracyPct"]; ok {
		if f, ok := numeric(v); ok {
			return fmt.Sprintf("%.1f%%", f)
		}
	}
	if s, ok := doc["Accuracy"].(string); ok {
		return s
	}
	if v, ok := doc["numericAccuracy"]; ok {
		if f, ok := numeric(v); ok {
			return fmt.Sprintf("%.1f%%", f)
		}
	}
	return ""
}

func numeric(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case primitive.Decimal128:
		// Rare, but archived collections have been hand-edited before.
		var f float64
		_, err := fmt.Sscanf(n.String(), "%g", &f)
		return f, err == nil
	default:
		return 0, false
	}
}

func asFloat(v interface{}) float64 {
	f, _ := numeric(v)
	return f
}

func asFloatPtr(v interface{}) *float64 {
	if f, ok := numeric(v); ok {
		return &f
	}
	return nil
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case int32, int64, float64:
		return fmt.Sprintf("%v", s)
	default:
		return fmt.Sprintf("%v", s)
	}
}

func asTime(v interface{}) *time.Time {
	switch t := v.(type) {
	case time.Time:
		return &t
	case primitive.DateTime:
		tt := t.Time()
		return &tt
	default:
		return nil
	}
}
