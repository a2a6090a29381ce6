package leaderboard

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/raven-dev-ops/helldivers2-gaming-website/internal/models"
)

type fakeDirectory struct {
	users []models.User
	err   error
}

func (d *fakeDirectory) FindByDiscordIDs(_ context.Context, ids []string) ([]models.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	var out []models.User
	for _, u := range d.users {
		for _, id := range ids {
			if u.ProviderAccountID == id {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (d *fakeDirectory) FindByNames(_ context.Context, names []string) ([]models.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	var out []models.User
	for _, u := range d.users {
		for _, n := range names {
			if strings.EqualFold(u.Name, n) {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func TestEnrichPrefersDiscordIDMatch(t *testing.T) {
	dir := &fakeDirectory{users: []models.User{
		{Name: "Alpha", ProviderAccountID: "123", Image: "https://img/by-id.png", SESName: "SES Wings of Liberty"},
		{Name: "alpha", Image: "https://img/by-name.png"},
	}}
	e := NewEnricher(dir, zap.NewNop().Sugar())

	rows := []models.LeaderboardRow{{Rank: 1, PlayerName: "Alpha", DiscordID: "123"}}
	e.Enrich(context.Background(), rows, false)

	if rows[0].AvatarURL != "https://img/by-id.png" {
		t.Errorf("expected id-based avatar, got %q", rows[0].AvatarURL)
	}
	if rows[0].SESTitle != "SES Wings of Liberty" {
		t.Errorf("expected ses title, got %q", rows[0].SESTitle)
	}
}

func TestEnrichFallsBackToNameMatch(t *testing.T) {
	dir := &fakeDirectory{users: []models.User{
		{Name: "BRAVO", CustomAvatarDataURL: "data:image/png;base64,xyz", Image: "https://img/provider.png"},
	}}
	e := NewEnricher(dir, zap.NewNop().Sugar())

	rows := []models.LeaderboardRow{{Rank: 1, PlayerName: "bravo"}}
	e.Enrich(context.Background(), rows, false)

	// Custom avatar wins over the provider image.
	if rows[0].AvatarURL != "data:image/png;base64,xyz" {
		t.Errorf("expected custom avatar via case-insensitive name match, got %q", rows[0].AvatarURL)
	}
}

func TestEnrichKeepsExistingTitle(t *testing.T) {
	dir := &fakeDirectory{users: []models.User{
		{Name: "Alpha", ProviderAccountID: "123", SESName: "SES Profile Title"},
	}}
	e := NewEnricher(dir, zap.NewNop().Sugar())

	rows := []models.LeaderboardRow{{Rank: 1, PlayerName: "Alpha", DiscordID: "123", SESTitle: "SES From Submission"}}
	e.Enrich(context.Background(), rows, false)

	if rows[0].SESTitle != "SES From Submission" {
		t.Errorf("submission title must not be overwritten, got %q", rows[0].SESTitle)
	}
}

func TestEnrichDefaultAvatar(t *testing.T) {
	e := NewEnricher(&fakeDirectory{}, zap.NewNop().Sugar())

	rows := []models.LeaderboardRow{
		{Rank: 1, PlayerName: "Alpha", DiscordID: "7"},
		{Rank: 2, PlayerName: "Bravo"},
	}
	e.Enrich(context.Background(), rows, true)

	if rows[0].AvatarURL != "https://cdn.discordapp.com/embed/avatars/2.png" {
		t.Errorf("expected stock embed avatar 7 mod 5 = 2, got %q", rows[0].AvatarURL)
	}
	if rows[1].AvatarURL != "" {
		t.Errorf("no default avatar without a discord id, got %q", rows[1].AvatarURL)
	}
}

func TestEnrichSwallowsDirectoryErrors(t *testing.T) {
	e := NewEnricher(&fakeDirectory{err: errors.New("users collection unavailable")}, zap.NewNop().Sugar())

	rows := []models.LeaderboardRow{{Rank: 1, PlayerName: "Alpha", DiscordID: "123"}}
	e.Enrich(context.Background(), rows, false)

	if rows[0].AvatarURL != "" || rows[0].SESTitle != "" {
		t.Error("rows must stay unenriched when lookups fail")
	}
}
