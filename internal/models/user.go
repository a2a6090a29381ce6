package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is the profile document owned by the account subsystem. The
// leaderboard core only reads it, for enrichment and lookups.
type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Name                string             `bson:"name"`
	ProviderAccountID   string             `bson:"providerAccountId,omitempty"`
	Image               string             `bson:"image,omitempty"`
	CustomAvatarDataURL string             `bson:"customAvatarDataUrl,omitempty"`
	SESName             string             `bson:"sesName,omitempty"`
	Callsign            string             `bson:"callsign,omitempty"`
	RankTitle           string             `bson:"rankTitle,omitempty"`
	Motto               string             `bson:"motto,omitempty"`
}

// AvatarURL prefers a custom uploaded avatar over the provider image.
func (u *User) AvatarURL() string {
	if u.CustomAvatarDataURL != "" {
		return u.CustomAvatarDataURL
	}
	return u.Image
}

// UserLookupResponse is the public shape returned by the lookup endpoint.
type UserLookupResponse struct {
	Name      *string `json:"name"`
	Callsign  *string `json:"callsign"`
	RankTitle *string `json:"rankTitle"`
	Motto     *string `json:"motto"`
	SESName   *string `json:"sesName"`
	AvatarURL *string `json:"avatarUrl"`
}
