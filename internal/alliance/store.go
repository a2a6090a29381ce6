package alliance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/database"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/models"
)

const configSlug = "default"

var (
	ErrNoSelector      = errors.New("a userId, discordId, or name selector is required")
	ErrUnknownAwardKey = errors.New("award key is not configured")
)

// DefaultAwards is the built-in award set used when no config document
// exists or the config collection is unreachable.
var DefaultAwards = []models.AwardDefinition{
	{Key: "valor", Label: "Valor", Order: 1},
	{Key: "tactics", Label: "Tactics", Order: 2},
	{Key: "teamwork", Label: "Teamwork", Order: 3},
	{Key: "logistics", Label: "Logistics", Order: 4},
	{Key: "rescue", Label: "Rescue", Order: 5},
	{Key: "intel", Label: "Intel", Order: 6},
}

// Store reads and writes the alliance award configuration and the
// per-member award profiles.
type Store struct {
	config   *mongo.Collection
	profiles *mongo.Collection
	logger   *zap.SugaredLogger
}

func NewStore(db *mongo.Database, logger *zap.SugaredLogger) *Store {
	return &Store{
		config:   db.Collection(database.AllianceConfigCollection),
		profiles: db.Collection(database.AllianceProfileCollection),
		logger:   logger,
	}
}

// Awards returns the active award definitions sorted by display order,
// falling back to the defaults when no config exists. Lookup failures
// also fall back rather than failing the page.
func (s *Store) Awards(ctx context.Context) []models.AwardDefinition {
	var cfg models.AllianceConfig
	err := s.config.FindOne(ctx, bson.M{"slug": configSlug}).Decode(&cfg)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			s.logger.Warnw("alliance config lookup failed, using defaults", "error", err)
		}
		return DefaultAwards
	}
	if len(cfg.Awards) == 0 {
		return DefaultAwards
	}

	awards := make([]models.AwardDefinition, 0, len(cfg.Awards))
	for _, a := range cfg.Awards {
		if a.IsActive() {
			awards = append(awards, a)
		}
	}
	sort.SliceStable(awards, func(i, j int) bool { return awards[i].Order < awards[j].Order })
	return awards
}

// SaveAwards upserts the award definition list.
func (s *Store) SaveAwards(ctx context.Context, awards []models.AwardDefinition) error {
	_, err := s.config.UpdateOne(ctx,
		bson.M{"slug": configSlug},
		bson.M{"$set": bson.M{"awards": awards}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save alliance config: %w", err)
	}
	return nil
}

// ProfileSelector identifies a member profile by site user id or
// Discord id.
type ProfileSelector struct {
	UserID    primitive.ObjectID
	DiscordID string
}

func (sel ProfileSelector) filter() (bson.M, error) {
	switch {
	case !sel.UserID.IsZero():
		return bson.M{"userId": sel.UserID}, nil
	case sel.DiscordID != "":
		return bson.M{"discordId": sel.DiscordID}, nil
	default:
		return nil, ErrNoSelector
	}
}

// MemberAwards returns a member's award counters. A missing profile is
// an empty counter set, not an error.
func (s *Store) MemberAwards(ctx context.Context, sel ProfileSelector) (map[string]int, *time.Time, error) {
	filter, err := sel.filter()
	if err != nil {
		return nil, nil, err
	}

	var prof models.AllianceProfile
	err = s.profiles.FindOne(ctx, filter).Decode(&prof)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return map[string]int{}, nil, nil
		}
		return nil, nil, fmt.Errorf("load alliance profile: %w", err)
	}

	if prof.Awards == nil {
		prof.Awards = map[string]int{}
	}
	updated := prof.UpdatedAt
	return prof.Awards, &updated, nil
}

// GrantAward increments a member's counter for a configured award key,
// creating the profile on first grant.
func (s *Store) GrantAward(ctx context.Context, sel ProfileSelector, key string) error {
	if !s.isConfiguredKey(ctx, key) {
		return ErrUnknownAwardKey
	}

	filter, err := sel.filter()
	if err != nil {
		return err
	}

	_, err = s.profiles.UpdateOne(ctx,
		filter,
		bson.M{
			"$inc": bson.M{"awards." + key: 1},
			"$set": bson.M{"updatedAt": time.Now().UTC()},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("grant award: %w", err)
	}
	return nil
}

func (s *Store) isConfiguredKey(ctx context.Context, key string) bool {
	for _, a := range s.Awards(ctx) {
		if a.Key == key {
			return true
		}
	}
	return false
}
