package applications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/database"
	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/models"
)

// ValidationError reports which required fields were missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %v", e.Fields)
}

// Store persists clan applications.
type Store struct {
	coll   *mongo.Collection
	logger *zap.SugaredLogger
}

func NewStore(db *mongo.Database, logger *zap.SugaredLogger) *Store {
	return &Store{coll: db.Collection(database.ApplicationsCollection), logger: logger}
}

// Validate checks the submission body; type and interest are required.
func Validate(req *models.ApplicationRequest) *ValidationError {
	var missing []string
	if req.Type == "" {
		missing = append(missing, "type")
	}
	if req.Interest == "" {
		missing = append(missing, "interest")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}

// Create stores a new application for the submitting user.
func (s *Store) Create(ctx context.Context, userID, applicant string, req *models.ApplicationRequest) (*models.Application, error) {
	if verr := Validate(req); verr != nil {
		return nil, verr
	}

	app := &models.Application{
		ID:                    uuid.NewString(),
		UserID:                userID,
		Applicant:             applicant,
		Type:                  req.Type,
		Interest:              req.Interest,
		About:                 req.About,
		InterviewAvailability: req.InterviewAvailability,
		CreatedAt:             time.Now().UTC(),
	}

	if _, err := s.coll.InsertOne(ctx, app); err != nil {
		return nil, fmt.Errorf("insert application: %w", err)
	}

	// Notification delivery is handled by the Discord bot out of band;
	// the log line is what operators watch during recruitment drives.
	s.logger.Infow("application submitted",
		"applicant", applicant,
		"type", app.Type,
		"interest", app.Interest,
	)

	return app, nil
}

// ListRecent returns the newest applications first.
func (s *Store) ListRecent(ctx context.Context, limit int64) ([]models.Application, error) {
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	apps := []models.Application{}
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}
	return apps, nil
}
