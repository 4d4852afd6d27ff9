package executor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shipquery/internal/model"
)

func TestCompileFilterDateRange(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	filter := CompileFilter(model.Filter{
		Date: &model.DateRange{Field: "ShipDate", Start: start, End: end},
	})

	require.Contains(t, filter, "ShipDate")
	cond := filter["ShipDate"].(bson.M)
	assert.Equal(t, primitive.NewDateTimeFromTime(start), cond["$gte"])
	assert.Equal(t, primitive.NewDateTimeFromTime(end), cond["$lt"])
}

func TestCompileFilterEqualityIsAnchoredCaseInsensitive(t *testing.T) {
	filter := CompileFilter(model.Filter{
		Equals: []model.Equality{{Field: "Status", Values: []string{"delivered", "in transit"}}},
	})

	cond := filter["Status"].(bson.M)
	values := cond["$in"].(bson.A)
	require.Len(t, values, 2)

	re := values[0].(primitive.Regex)
	assert.Equal(t, "^delivered$", re.Pattern)
	assert.Equal(t, "i", re.Options)
}

func TestCompileFilterEscapesUserText(t *testing.T) {
	filter := CompileFilter(model.Filter{
		Matches: []model.Match{{Field: "Destination", Pattern: "A.C. Corp (NY)"}},
	})

	re := filter["Destination"].(primitive.Regex)
	assert.Equal(t, `A\.C\. Corp \(NY\)`, re.Pattern)
}

func TestCompileFilterComparisonsMergePerField(t *testing.T) {
	filter := CompileFilter(model.Filter{
		Compares: []model.Comparison{
			{Field: "Cost", Op: ">=", Value: 100},
			{Field: "Cost", Op: "<", Value: 500},
		},
	})

	cond := filter["Cost"].(bson.M)
	assert.Equal(t, 100.0, cond["$gte"])
	assert.Equal(t, 500.0, cond["$lt"])
}

func TestCompileFilterEmpty(t *testing.T) {
	assert.Empty(t, CompileFilter(model.Filter{}))
}

func TestCompileCountHasNoPipeline(t *testing.T) {
	assert.Nil(t, Compile(model.Plan{Kind: model.PlanCount}))
}

func TestCompileAggregateWrapsCostInConvert(t *testing.T) {
	pipeline := Compile(model.Plan{Kind: model.PlanAggregate, Op: model.OpSum, ValueField: "Cost"})
	require.Len(t, pipeline, 2)

	group := pipeline[1]["$group"].(bson.M)
	assert.Nil(t, group["_id"])
	sum := group["value"].(bson.M)["$sum"].(bson.M)
	convert := sum["$convert"].(bson.M)
	assert.Equal(t, "$Cost", convert["input"])
	assert.Equal(t, "double", convert["to"])
	assert.Equal(t, 0, convert["onError"])
}

func TestCompileAverageUsesAvgOperator(t *testing.T) {
	pipeline := Compile(model.Plan{Kind: model.PlanAggregate, Op: model.OpAvg, ValueField: "Cost"})
	group := pipeline[1]["$group"].(bson.M)
	assert.Contains(t, group["value"].(bson.M), "$avg")
}

func TestCompileTopN(t *testing.T) {
	pipeline := Compile(model.Plan{Kind: model.PlanTopN, ValueField: "Cost", N: 5})
	// No filter → no $match stage.
	require.Len(t, pipeline, 4)

	assert.Contains(t, pipeline[0], "$addFields")
	assert.Equal(t, bson.M{"__cost_num": -1}, pipeline[1]["$sort"])
	assert.Equal(t, 5, pipeline[2]["$limit"])
	assert.Equal(t, bson.M{"__cost_num": 0}, pipeline[3]["$project"])
}

func TestCompileTopNWithFilterPrependsMatch(t *testing.T) {
	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	pipeline := Compile(model.Plan{
		Kind: model.PlanTopN, ValueField: "Cost", N: 3,
		Filter: model.Filter{Date: &model.DateRange{Field: "ShipDate", Start: start, End: start.AddDate(0, 1, 0)}},
	})
	require.Len(t, pipeline, 5)
	assert.Contains(t, pipeline[0], "$match")
}

func TestCompileGroupedSum(t *testing.T) {
	pipeline := Compile(model.Plan{
		Kind: model.PlanGrouped, GroupBy: "Status", Op: model.OpSum, ValueField: "Cost",
	})
	require.Len(t, pipeline, 3)

	group := pipeline[1]["$group"].(bson.M)
	assert.Equal(t, "$Status", group["_id"])
	assert.Contains(t, group, "value")
	assert.Equal(t, bson.M{"value": -1}, pipeline[2]["$sort"])
}

func TestCompileGroupedCountSortsByCount(t *testing.T) {
	pipeline := Compile(model.Plan{Kind: model.PlanGrouped, GroupBy: "Status", Op: model.OpCnt})
	group := pipeline[1]["$group"].(bson.M)
	assert.NotContains(t, group, "value")
	assert.Equal(t, bson.M{"count": -1}, pipeline[2]["$sort"])
}

func TestCompileDuplicates(t *testing.T) {
	pipeline := Compile(model.Plan{Kind: model.PlanDuplicates, GroupBy: "RefNo", Limit: 10})
	require.Len(t, pipeline, 5)

	assert.Equal(t, "$RefNo", pipeline[1]["$group"].(bson.M)["_id"])
	assert.Equal(t, bson.M{"count": bson.M{"$gt": 1}}, pipeline[2]["$match"])
	assert.Equal(t, 10, pipeline[4]["$limit"])
}
