package users

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/database"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// Batch size for name lookups; keeps the $or clause bounded.
const nameChunkSize = 40

// Store reads the user-profile collection. The leaderboard core and the
// lookup endpoint only ever read profiles; writes belong to the account
// subsystem.
type Store struct {
	coll *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{coll: db.Collection(database.UsersCollection)}
}

// FindByDiscordIDs fetches profiles whose linked Discord account id is
// in ids.
func (s *Store) FindByDiscordIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := s.coll.Find(ctx, bson.M{"providerAccountId": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find users by discord id: %w", err)
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users by discord id: %w", err)
	}
	return users, nil
}

// FindByNames fetches profiles by exact case-insensitive name match,
// issuing chunked $or queries so a large leaderboard page cannot
// produce an unbounded filter.
func (s *Store) FindByNames(ctx context.Context, names []string) ([]models.User, error) {
	var users []models.User

	for start := 0; start < len(names); start += nameChunkSize {
		end := start + nameChunkSize
		if end > len(names) {
			end = len(names)
		}

		or := make(bson.A, 0, end-start)
		for _, name := range names[start:end] {
			or = append(or, bson.M{"name": caseInsensitiveExact(name)})
		}

		cursor, err := s.coll.Find(ctx, bson.M{"$or": or})
		if err != nil {
			return nil, fmt.Errorf("find users by name: %w", err)
		}

		var chunk []models.User
		if err := cursor.All(ctx, &chunk); err != nil {
			return nil, fmt.Errorf("decode users by name: %w", err)
		}
		users = append(users, chunk...)
	}

	return users, nil
}

// Lookup resolves a single profile by Discord id and/or name.
func (s *Store) Lookup(ctx context.Context, name, discordID string) (*models.User, error) {
	filter := bson.M{}
	if discordID != "" {
		filter["providerAccountId"] = discordID
	}
	if name != "" {
		filter["name"] = caseInsensitiveExact(name)
	}

	var user models.User
	err := s.coll.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return &user, nil
}

// FindByName resolves one profile by exact case-insensitive name.
func (s *Store) FindByName(ctx context.Context, name string) (*models.User, error) {
	return s.Lookup(ctx, name, "")
}

// caseInsensitiveExact builds an anchored case-insensitive regex with
// all metacharacters escaped, so stored names are matched literally.
func caseInsensitiveExact(name string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(name) + "$", Options: "i"}
}
