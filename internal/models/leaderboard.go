package models

import "time"

// LeaderboardRow is one player's position on a leaderboard. Field names
// mirror the stored stat submissions, which is why several are
// capitalized in JSON.
type LeaderboardRow struct {
	Rank            int        `json:"rank"`
	ID              string     `json:"id"`
	PlayerName      string     `json:"player_name"`
	Kills           float64    `json:"Kills"`
	Accuracy        string     `json:"Accuracy"`
	ShotsFired      float64    `json:"ShotsFired"`
	ShotsHit        float64    `json:"ShotsHit"`
	Deaths          float64    `json:"Deaths"`
	MeleeKills      float64    `json:"MeleeKills"`
	StimsUsed       float64    `json:"StimsUsed"`
	StratsUsed      float64    `json:"StratsUsed"`
	ClanName        string     `json:"clan_name,omitempty"`
	SubmittedBy     string     `json:"submitted_by,omitempty"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	DiscordID       string     `json:"discord_id,omitempty"`
	DiscordServerID string     `json:"discord_server_id,omitempty"`
	SESTitle        string     `json:"sesTitle,omitempty"`
	AvatarURL       string     `json:"_avatarUrl,omitempty"`

	// Per-submission averages, populated for the lifetime scope only.
	AvgKills      *float64 `json:"AvgKills,omitempty"`
	AvgShotsFired *float64 `json:"AvgShotsFired,omitempty"`
	AvgShotsHit   *float64 `json:"AvgShotsHit,omitempty"`
	AvgDeaths     *float64 `json:"AvgDeaths,omitempty"`
}

// LeaderboardResult is the API payload for a single scope.
type LeaderboardResult struct {
	SortBy  string           `json:"sortBy"`
	SortDir string           `json:"sortDir"`
	Limit   int              `json:"limit"`
	Results []LeaderboardRow `json:"results"`
}
