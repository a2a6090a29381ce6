package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AwardDefinition is one configurable award category.
type AwardDefinition struct {
	Key    string `bson:"key" json:"key"`
	Label  string `bson:"label" json:"label"`
	Order  int    `bson:"order" json:"order"`
	Active *bool  `bson:"active,omitempty" json:"-"`
}

// IsActive treats a missing flag as active.
func (a AwardDefinition) IsActive() bool {
	return a.Active == nil || *a.Active
}

// AllianceConfig holds the award definitions for the site.
type AllianceConfig struct {
	Slug   string            `bson:"slug"`
	Awards []AwardDefinition `bson:"awards"`
}

// AllianceProfile stores per-member award counters, keyed by either the
// site user id or the Discord id.
type AllianceProfile struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId,omitempty"`
	DiscordID string             `bson:"discordId,omitempty"`
	Awards    map[string]int     `bson:"awards"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}
