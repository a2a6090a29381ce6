package leaderboard

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Raw counter fields and the normalized accumulator each one feeds.
// Submissions store these loosely typed: numbers, numeric strings, or
// missing entirely.
var counterFields = []struct {
	src string
	dst string
}{
	{"Kills", "numericKills"},
	{"Deaths", "numericDeaths"},
	{"Shots Fired", "numericShotsFired"},
	{"Shots Hit", "numericShotsHit"},
	{"Melee Kills", "numericMeleeKills"},
	{"Stims Used", "numericStimsUsed"},
	{"Strats Used", "numericStratsUsed"},
}

// toDoubleOrZero coerces expr to a double, treating missing and
// uncoercible values as 0 rather than failing the pipeline.
func toDoubleOrZero(expr interface{}) bson.M {
	return bson.M{"$convert": bson.M{
		"input":   expr,
		"to":      "double",
		"onError": 0,
		"onNull":  0,
	}}
}

// rawField reads a stored field by name; several contain spaces, so
// $getField against $$ROOT is used instead of path syntax.
func rawField(name string) bson.M {
	return bson.M{"$getField": bson.M{"field": name, "input": "$$ROOT"}}
}

// normalizeStage coerces every raw counter to a double, strips the "%"
// suffix from percentage strings, parses the submission timestamp, and
// derives the grouping key (discord id preferred, player name fallback).
func normalizeStage() bson.D {
	fields := bson.D{}
	for _, f := range counterFields {
		fields = append(fields, bson.E{Key: f.dst, Value: toDoubleOrZero(rawField(f.src))})
	}

	fields = append(fields,
		bson.E{Key: "numericAccuracy", Value: toDoubleOrZero(bson.M{
			"$replaceAll": bson.M{
				"input":       bson.M{"$toString": bson.M{"$ifNull": bson.A{rawField("Accuracy"), "0"}}},
				"find":        "%",
				"replacement": "",
			},
		})},
		bson.E{Key: "submittedAtDate", Value: bson.M{"$convert": bson.M{
			"input":   rawField("submitted_at"),
			"to":      "date",
			"onError": nil,
			"onNull":  nil,
		}}},
		bson.E{Key: "memberKey", Value: bson.M{"$toString": bson.M{"$ifNull": bson.A{"$discord_id", "$player_name"}}}},
		bson.E{Key: "sesTitle", Value: bson.M{"$ifNull": bson.A{rawField("SES"), nil}}},
	)

	return bson.D{{Key: "$addFields", Value: fields}}
}

func matchRangeStage(start, end time.Time) bson.D {
	return bson.D{{Key: "$match", Value: bson.M{
		"submittedAtDate": bson.M{"$gte": start, "$lt": end},
	}}}
}

func sumAccumulators() bson.D {
	return bson.D{
		{Key: "totalKills", Value: bson.M{"$sum": "$numericKills"}},
		{Key: "totalDeaths", Value: bson.M{"$sum": "$numericDeaths"}},
		{Key: "totalShotsFired", Value: bson.M{"$sum": "$numericShotsFired"}},
		{Key: "totalShotsHit", Value: bson.M{"$sum": "$numericShotsHit"}},
		{Key: "totalMeleeKills", Value: bson.M{"$sum": "$numericMeleeKills"}},
		{Key: "totalStimsUsed", Value: bson.M{"$sum": "$numericStimsUsed"}},
		{Key: "totalStratsUsed", Value: bson.M{"$sum": "$numericStratsUsed"}},
	}
}

// groupFirstStage merges submissions per member, keeping the first-seen
// identity fields. Used by the date-windowed scopes.
func groupFirstStage() bson.D {
	group := bson.D{
		{Key: "_id", Value: "$memberKey"},
		{Key: "player_name", Value: bson.M{"$first": "$player_name"}},
		{Key: "clan_name", Value: bson.M{"$first": "$clan_name"}},
		{Key: "discord_id", Value: bson.M{"$first": "$discord_id"}},
		{Key: "discord_server_id", Value: bson.M{"$first": "$discord_server_id"}},
		{Key: "lastSubmittedAt", Value: bson.M{"$max": "$submittedAtDate"}},
	}
	group = append(group, sumAccumulators()...)
	group = append(group, bson.E{Key: "sesTitle", Value: bson.M{"$last": "$sesTitle"}})
	return bson.D{{Key: "$group", Value: group}}
}

// groupLastStage merges submissions per member keeping the most recent
// identity fields, and counts submissions for average derivation. The
// caller must sort by submittedAtDate first so $last is meaningful.
func groupLastStage() bson.D {
	group := bson.D{
		{Key: "_id", Value: "$memberKey"},
		{Key: "player_name", Value: bson.M{"$last": "$player_name"}},
		{Key: "clan_name", Value: bson.M{"$last": "$clan_name"}},
		{Key: "discord_id", Value: bson.M{"$last": "$discord_id"}},
		{Key: "discord_server_id", Value: bson.M{"$last": "$discord_server_id"}},
		{Key: "submitted_by", Value: bson.M{"$last": "$submitted_by"}},
		{Key: "lastSubmittedAt", Value: bson.M{"$last": "$submittedAtDate"}},
	}
	group = append(group, sumAccumulators()...)
	group = append(group,
		bson.E{Key: "sesTitle", Value: bson.M{"$last": "$sesTitle"}},
		bson.E{Key: "submissionsCount", Value: bson.M{"$sum": 1}},
	)
	return bson.D{{Key: "$group", Value: group}}
}

func accuracyExpr() bson.M {
	return bson.M{"$cond": bson.A{
		bson.M{"$gt": bson.A{"$totalShotsFired", 0}},
		bson.M{"$multiply": bson.A{
			bson.M{"$divide": bson.A{"$totalShotsHit", "$totalShotsFired"}},
			100,
		}},
		0,
	}}
}

func accuracyStage() bson.D {
	return bson.D{{Key: "$addFields", Value: bson.D{
		{Key: "accuracyPct", Value: accuracyExpr()},
	}}}
}

func avgExpr(total string) bson.M {
	return bson.M{"$cond": bson.A{
		bson.M{"$gt": bson.A{"$submissionsCount", 0}},
		bson.M{"$divide": bson.A{total, "$submissionsCount"}},
		0,
	}}
}

// averagesStage derives lifetime per-submission averages alongside the
// accuracy percentage.
func averagesStage() bson.D {
	return bson.D{{Key: "$addFields", Value: bson.D{
		{Key: "avgKills", Value: avgExpr("$totalKills")},
		{Key: "avgShotsFired", Value: avgExpr("$totalShotsFired")},
		{Key: "avgShotsHit", Value: avgExpr("$totalShotsHit")},
		{Key: "avgDeaths", Value: avgExpr("$totalDeaths")},
		{Key: "accuracyPct", Value: accuracyExpr()},
	}}}
}

// sortKeys maps sortBy values onto grouped document fields.
var sortKeys = map[SortField]string{
	SortKills:       "totalKills",
	SortAccuracy:    "accuracyPct",
	SortShotsFired:  "totalShotsFired",
	SortShotsHit:    "totalShotsHit",
	SortDeaths:      "totalDeaths",
	SortMeleeKills:  "totalMeleeKills",
	SortStimsUsed:   "totalStimsUsed",
	SortStratsUsed:  "totalStratsUsed",
	SortPlayerName:  "player_name",
	SortClanName:    "clan_name",
	SortSubmittedAt: "lastSubmittedAt",
}

var lifetimeSortKeys = map[SortField]string{
	SortAvgKills:      "avgKills",
	SortAvgShotsFired: "avgShotsFired",
	SortAvgShotsHit:   "avgShotsHit",
	SortAvgDeaths:     "avgDeaths",
}

// sortKeyFor resolves the pipeline field for a sortBy value. Average
// fields only exist in the lifetime scope; elsewhere they fall back to
// total kills, like any other unrecognized value.
func sortKeyFor(sortBy SortField, lifetime bool) string {
	if lifetime {
		if k, ok := lifetimeSortKeys[sortBy]; ok {
			return k
		}
	}
	if k, ok := sortKeys[sortBy]; ok {
		return k
	}
	return "totalKills"
}

func sortStage(sortBy SortField, dir SortDir, lifetime bool) bson.D {
	d := -1
	if dir == SortAsc {
		d = 1
	}
	return bson.D{{Key: "$sort", Value: bson.D{{Key: sortKeyFor(sortBy, lifetime), Value: d}}}}
}

func limitStage(n int) bson.D {
	return bson.D{{Key: "$limit", Value: n}}
}

func projectStage(includeModeFields bool) bson.D {
	project := bson.D{
		{Key: "_id", Value: 1},
		{Key: "player_name", Value: 1},
		{Key: "clan_name", Value: 1},
		{Key: "discord_id", Value: 1},
		{Key: "discord_server_id", Value: 1},
		{Key: "submitted_at", Value: "$lastSubmittedAt"},
		{Key: "Kills", Value: "$totalKills"},
		{Key: "Deaths", Value: "$totalDeaths"},
		{Key: "Shots Fired", Value: "$totalShotsFired"},
		{Key: "Shots Hit", Value: "$totalShotsHit"},
		{Key: "MeleeKills", Value: "$totalMeleeKills"},
		{Key: "StimsUsed", Value: "$totalStimsUsed"},
		{Key: "StratsUsed", Value: "$totalStratsUsed"},
		{Key: "accuracyPct", Value: 1},
		{Key: "sesTitle", Value: 1},
	}
	if includeModeFields {
		project = append(project,
			bson.E{Key: "submitted_by", Value: 1},
			bson.E{Key: "submissionsCount", Value: 1},
			bson.E{Key: "avgKills", Value: 1},
			bson.E{Key: "avgShotsFired", Value: 1},
			bson.E{Key: "avgShotsHit", Value: 1},
			bson.E{Key: "avgDeaths", Value: 1},
		)
	}
	return bson.D{{Key: "$project", Value: project}}
}

// windowPipeline is the shared shape for the month/week/day scopes:
// normalize, filter to [start, end), group per member, derive accuracy,
// sort, limit, project.
func windowPipeline(q Query, start, end time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		normalizeStage(),
		matchRangeStage(start, end),
		groupFirstStage(),
		accuracyStage(),
		sortStage(q.SortBy, q.SortDir, false),
		limitStage(q.Limit),
		projectStage(false),
	}
}

// MonthPipeline aggregates the calendar month named by q.Month/q.Year.
func MonthPipeline(q Query) mongo.Pipeline {
	start, end := monthRange(q.Month, q.Year)
	return windowPipeline(q, start, end)
}

// DayPipeline aggregates a rolling 24-hour window ending at now.
func DayPipeline(q Query, now time.Time) mongo.Pipeline {
	return windowPipeline(q, now.AddDate(0, 0, -1), now)
}

// WeekPipeline aggregates a rolling 7-day window ending at now.
func WeekPipeline(q Query, now time.Time) mongo.Pipeline {
	return windowPipeline(q, now.AddDate(0, 0, -7), now)
}

// ModePipeline aggregates a per-mode collection (solo or squad) across
// all time, tracking submission counts and the latest identity fields.
func ModePipeline(q Query) mongo.Pipeline {
	return mongo.Pipeline{
		normalizeStage(),
		bson.D{{Key: "$sort", Value: bson.D{{Key: "submittedAtDate", Value: 1}}}},
		groupLastStage(),
		accuracyStage(),
		sortStage(q.SortBy, q.SortDir, false),
		limitStage(q.Limit),
		projectStage(true),
	}
}

// LifetimePipeline unions the live collection with each archived
// monthly collection, normalizing every branch identically, then groups
// across the full union and derives per-submission averages.
func LifetimePipeline(q Query, archives []string) mongo.Pipeline {
	pipe := mongo.Pipeline{normalizeStage()}

	for _, coll := range archives {
		pipe = append(pipe, bson.D{{Key: "$unionWith", Value: bson.M{
			"coll":     coll,
			"pipeline": mongo.Pipeline{normalizeStage()},
		}}})
	}

	pipe = append(pipe,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "submittedAtDate", Value: 1}}}},
		groupLastStage(),
		averagesStage(),
		sortStage(q.SortBy, q.SortDir, true),
		limitStage(q.Limit),
		projectStage(true),
	)
	return pipe
}
