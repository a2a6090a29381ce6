package leaderboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func stageNames(pipe mongo.Pipeline) []string {
	names := make([]string, 0, len(pipe))
	for _, stage := range pipe {
		names = append(names, stage[0].Key)
	}
	return names
}

func findStage(t *testing.T, pipe mongo.Pipeline, name string) bson.D {
	t.Helper()
	for _, stage := range pipe {
		if stage[0].Key == name {
			return stage
		}
	}
	t.Fatalf("stage %s not found in %v", name, stageNames(pipe))
	return nil
}

func normalizedQuery(scope Scope) Query {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	return Query{Scope: scope}.Normalize(now)
}

func TestMonthPipelineShape(t *testing.T) {
	q := normalizedQuery(ScopeMonth)
	pipe := MonthPipeline(q)

	assert.Equal(t,
		[]string{"$addFields", "$match", "$group", "$addFields", "$sort", "$limit", "$project"},
		stageNames(pipe))

	match := findStage(t, pipe, "$match")
	bounds := match[0].Value.(bson.M)["submittedAtDate"].(bson.M)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), bounds["$gte"])
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), bounds["$lt"])

	limit := findStage(t, pipe, "$limit")
	assert.Equal(t, 100, limit[0].Value)
}

func TestWindowPipelinesUseRollingBounds(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	q := Query{Scope: ScopeWeek}.Normalize(now)

	week := findStage(t, WeekPipeline(q, now), "$match")
	wb := week[0].Value.(bson.M)["submittedAtDate"].(bson.M)
	assert.Equal(t, now.AddDate(0, 0, -7), wb["$gte"])
	assert.Equal(t, now, wb["$lt"])

	q.Scope = ScopeDay
	day := findStage(t, DayPipeline(q, now), "$match")
	db := day[0].Value.(bson.M)["submittedAtDate"].(bson.M)
	assert.Equal(t, now.AddDate(0, 0, -1), db["$gte"])
}

func TestGroupingKeyPrefersDiscordID(t *testing.T) {
	pipe := MonthPipeline(normalizedQuery(ScopeMonth))

	group := findStage(t, pipe, "$group")
	fields := group[0].Value.(bson.D)
	require.Equal(t, "_id", fields[0].Key)
	assert.Equal(t, "$memberKey", fields[0].Value)

	addFields := findStage(t, pipe, "$addFields")
	var memberKey interface{}
	for _, f := range addFields[0].Value.(bson.D) {
		if f.Key == "memberKey" {
			memberKey = f.Value
		}
	}
	require.NotNil(t, memberKey)
	ifNull := memberKey.(bson.M)["$toString"].(bson.M)["$ifNull"].(bson.A)
	assert.Equal(t, "$discord_id", ifNull[0])
	assert.Equal(t, "$player_name", ifNull[1])
}

func TestSortKeyMapping(t *testing.T) {
	cases := []struct {
		sortBy   SortField
		lifetime bool
		want     string
	}{
		{SortKills, false, "totalKills"},
		{SortAccuracy, false, "accuracyPct"},
		{SortShotsFired, false, "totalShotsFired"},
		{SortSubmittedAt, false, "lastSubmittedAt"},
		{SortPlayerName, false, "player_name"},
		{SortAvgKills, true, "avgKills"},
		{SortAvgDeaths, true, "avgDeaths"},
		// Average sorts outside the lifetime scope fall back to kills.
		{SortAvgKills, false, "totalKills"},
		{SortField("nonsense"), false, "totalKills"},
	}
	for _, c := range cases {
		if got := sortKeyFor(c.sortBy, c.lifetime); got != c.want {
			t.Errorf("sortKeyFor(%q, lifetime=%v) = %q, want %q", c.sortBy, c.lifetime, got, c.want)
		}
	}
}

func TestSortStageDirection(t *testing.T) {
	desc := sortStage(SortKills, SortDesc, false)
	assert.Equal(t, bson.D{{Key: "totalKills", Value: -1}}, desc[0].Value)

	asc := sortStage(SortKills, SortAsc, false)
	assert.Equal(t, bson.D{{Key: "totalKills", Value: 1}}, asc[0].Value)
}

func TestLifetimePipelineUnionsArchives(t *testing.T) {
	archives := []string{"User_Stats_2025_04", "User_Stats_2025_05", "User_Stats_2025_06"}
	q := normalizedQuery(ScopeLifetime)
	pipe := LifetimePipeline(q, archives)

	assert.Equal(t,
		[]string{"$addFields", "$unionWith", "$unionWith", "$unionWith", "$sort", "$group", "$addFields", "$sort", "$limit", "$project"},
		stageNames(pipe))

	union := pipe[1][0].Value.(bson.M)
	assert.Equal(t, "User_Stats_2025_04", union["coll"])
	// Each union branch applies the same normalization.
	branch := union["pipeline"].(mongo.Pipeline)
	require.Len(t, branch, 1)
	assert.Equal(t, "$addFields", branch[0][0].Key)

	group := findStage(t, pipe[4:], "$group")
	var hasCount bool
	for _, f := range group[0].Value.(bson.D) {
		if f.Key == "submissionsCount" {
			hasCount = true
		}
	}
	assert.True(t, hasCount, "lifetime grouping must count submissions")
}

func TestModePipelineShape(t *testing.T) {
	q := normalizedQuery(ScopeSolo)
	pipe := ModePipeline(q)

	assert.Equal(t,
		[]string{"$addFields", "$sort", "$group", "$addFields", "$sort", "$limit", "$project"},
		stageNames(pipe))

	group := pipe[2][0].Value.(bson.D)
	var hasSubmittedBy bool
	for _, f := range group {
		if f.Key == "submitted_by" {
			hasSubmittedBy = true
		}
	}
	assert.True(t, hasSubmittedBy, "mode grouping must preserve submitted_by")
}

func TestCollectionFor(t *testing.T) {
	assert.Equal(t, "Solo_Stats", collectionFor(ScopeSolo))
	assert.Equal(t, "Squad_Stats", collectionFor(ScopeSquad))
	assert.Equal(t, "User_Stats", collectionFor(ScopeMonth))
	assert.Equal(t, "User_Stats", collectionFor(ScopeLifetime))
}

func TestFormatRowsRanksAndAccuracy(t *testing.T) {
	docs := []bson.M{
		{"_id": "111", "player_name": "Alpha", "Kills": float64(22), "accuracyPct": float64(66.666), "Shots Fired": float64(30), "Shots Hit": float64(20)},
		{"_id": "222", "player_name": "Bravo", "Kills": float64(8), "accuracyPct": float64(0)},
		{"_id": "333", "player_name": "Charlie", "Kills": int32(3), "Accuracy": "42.5%"},
	}

	rows := formatRows(docs)
	require.Len(t, rows, 3)

	for i, r := range rows {
		assert.Equal(t, i+1, r.Rank)
	}
	assert.Equal(t, "66.7%", rows[0].Accuracy)
	assert.Equal(t, "0.0%", rows[1].Accuracy, "zero shots fired renders as 0.0%")
	assert.Equal(t, "42.5%", rows[2].Accuracy, "raw stored string passes through when nothing was derived")
	assert.Equal(t, float64(3), rows[2].Kills)
	assert.Nil(t, rows[0].AvgKills)
}

func TestFormatRowsAverages(t *testing.T) {
	docs := []bson.M{
		{"_id": "111", "player_name": "Alpha", "Kills": float64(30), "submissionsCount": int32(3), "avgKills": float64(10), "avgDeaths": float64(0.5)},
	}
	rows := formatRows(docs)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].AvgKills)
	assert.Equal(t, float64(10), *rows[0].AvgKills)
	require.NotNil(t, rows[0].AvgDeaths)
	assert.Equal(t, 0.5, *rows[0].AvgDeaths)
}
