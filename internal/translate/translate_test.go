package translate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipquery/internal/model"
)

// Fixed clock: Wednesday 2026-03-18.
var testNow = time.Date(2026, time.March, 18, 10, 30, 0, 0, time.UTC)

var testFields = []model.Field{
	{Name: "RefNo", Role: model.RoleIdentifier},
	{Name: "ShipDate", Role: model.RoleDate},
	{Name: "Cost", Role: model.RoleNumeric},
	{Name: "Status", Role: model.RoleText},
	{Name: "Origin", Role: model.RoleText},
	{Name: "Destination", Role: model.RoleText},
}

func newTestTranslator(overrides Overrides) *Translator {
	return New(testFields, overrides,
		WithNow(func() time.Time { return testNow }),
		WithLocation(time.UTC),
	)
}

func TestTranslateCountThisMonth(t *testing.T) {
	plan := newTestTranslator(Overrides{}).Translate("How many shipments were created this month?")

	assert.Equal(t, model.PlanCount, plan.Kind)
	assert.False(t, plan.Unrecognized)
	require.NotNil(t, plan.Filter.Date)
	assert.Equal(t, "ShipDate", plan.Filter.Date.Field)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), plan.Filter.Date.Start)
	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), plan.Filter.Date.End)
}

func TestTranslateTotalCostCurrentMonth(t *testing.T) {
	plan := newTestTranslator(Overrides{}).Translate("Show total shipment cost for the current month.")

	assert.Equal(t, model.PlanAggregate, plan.Kind)
	assert.Equal(t, model.OpSum, plan.Op)
	assert.Equal(t, "Cost", plan.ValueField)
	require.NotNil(t, plan.Filter.Date)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), plan.Filter.Date.Start)
	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), plan.Filter.Date.End)
}

func TestTranslateAverageCost(t *testing.T) {
	plan := newTestTranslator(Overrides{}).Translate("What is the average shipment cost?")

	assert.Equal(t, model.PlanAggregate, plan.Kind)
	assert.Equal(t, model.OpAvg, plan.Op)
	assert.Equal(t, "Cost", plan.ValueField)
	assert.Nil(t, plan.Filter.Date)
}

func TestTranslateTopN(t *testing.T) {
	plan := newTestTranslator(Overrides{}).Translate("List the top 5 most expensive shipments.")
	assert.Equal(t, model.PlanTopN, plan.Kind)
	assert.Equal(t, 5, plan.N)
	assert.Equal(t, "Cost", plan.ValueField)

	plan = newTestTranslator(Overrides{}).Translate("top 3 shipments by cost")
	assert.Equal(t, model.PlanTopN, plan.Kind)
	assert.Equal(t, 3, plan.N)

	// No explicit number defaults to 5.
	plan = newTestTranslator(Overrides{}).Translate("Which are the most expensive shipments?")
	assert.Equal(t, model.PlanTopN, plan.Kind)
	assert.Equal(t, 5, plan.N)
}

func TestTranslateLastSevenDays(t *testing.T) {
	plan := newTestTranslator(Overrides{}).Translate("Show shipments created in the last 7 days.")

	assert.Equal(t, model.PlanCount, plan.Kind)
	require.NotNil(t, plan.Filter.Date)
	assert.Equal(t, testNow.AddDate(0, 0, -7), plan.Filter.Date.Start)
	assert.Equal(t, testNow, plan.Filter.Date.End)
}

func TestTranslateLastWeekDefaultsToSevenDays(t *testing.T) {
	plan := newTestTranslator(Overrides{}).Translate("How many shipments arrived last week?")

	assert.Equal(t, model.PlanCount, plan.Kind)
	assert.False(t, plan.Unrecognized)
	require.NotNil(t, plan.Filter.Date)
	assert.Equal(t, testNow.AddDate(0, 0, -7), plan.Filter.Date.Start)
	assert.Equal(t, testNow, plan.Filter.Date.End)
}

func TestTranslateThisWeekStartsMonday(t *testing.T) {
	plan := newTestTranslator(Overrides{}).Translate("How many shipments this week?")

	require.NotNil(t, plan.Filter.Date)
	assert.Equal(t, time.Date(2026, time.March, 16, 0, 0, 0, 0, time.UTC), plan.Filter.Date.Start)
	assert.Equal(t, time.Date(2026, time.March, 23, 0, 0, 0, 0, time.UTC), plan.Filter.Date.End)
}

func TestTranslateThisYear(t *testing.T) {
	plan := newTestTranslator(Overrides{}).Translate("Count shipments for this year")

	require.NotNil(t, plan.Filter.Date)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), plan.Filter.Date.Start)
	assert.Equal(t, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), plan.Filter.Date.End)
}

func TestTranslateBetweenNormalizesOrder(t *testing.T) {
	plan := newTestTranslator(Overrides{}).Translate("How many shipments between 2026-02-10 and 2026-01-05?")

	require.NotNil(t, plan.Filter.Date)
	assert.Equal(t, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), plan.Filter.Date.Start)
	// The later date is inclusive, so the interval ends one day after it.
	assert.Equal(t, time.Date(2026, time.February, 11, 0, 0, 0, 0, time.UTC), plan.Filter.Date.End)
}

func TestTranslateStatusFilter(t *testing.T) {
	plan := newTestTranslator(Overrides{}).Translate("How many delivered shipments this month?")

	assert.Equal(t, model.PlanCount, plan.Kind)
	require.Len(t, plan.Filter.Equals, 1)
	assert.Equal(t, "Status", plan.Filter.Equals[0].Field)
	assert.Equal(t, []string{"delivered"}, plan.Filter.Equals[0].Values)
	require.NotNil(t, plan.Filter.Date)
}

func TestTranslateOriginDestinationFilter(t *testing.T) {
	plan := newTestTranslator(Overrides{}).Translate("How many shipments from Mumbai to Delhi?")

	require.Len(t, plan.Filter.Matches, 2)
	assert.Equal(t, model.Match{Field: "Origin", Pattern: "Mumbai"}, plan.Filter.Matches[0])
	assert.Equal(t, model.Match{Field: "Destination", Pattern: "Delhi"}, plan.Filter.Matches[1])
}

func TestTranslateComparisonFilter(t *testing.T) {
	plan := newTestTranslator(Overrides{}).Translate("How many shipments with cost > 500?")

	require.Len(t, plan.Filter.Compares, 1)
	assert.Equal(t, "Cost", plan.Filter.Compares[0].Field)
	assert.Equal(t, ">", plan.Filter.Compares[0].Op)
	assert.Equal(t, 500.0, plan.Filter.Compares[0].Value)
}

func TestTranslateGroupedByStatus(t *testing.T) {
	plan := newTestTranslator(Overrides{}).Translate("Show shipment cost grouped by status")

	assert.Equal(t, model.PlanGrouped, plan.Kind)
	assert.Equal(t, "Status", plan.GroupBy)
	assert.Equal(t, model.OpSum, plan.Op)
	assert.Equal(t, "Cost", plan.ValueField)
}

func TestTranslateGroupedCountOnly(t *testing.T) {
	plan := newTestTranslator(Overrides{}).Translate("Breakdown by destination")

	assert.Equal(t, model.PlanGrouped, plan.Kind)
	assert.Equal(t, "Destination", plan.GroupBy)
	assert.Equal(t, model.OpCnt, plan.Op)
	assert.Empty(t, plan.ValueField)
}

func TestTranslateGroupedBeatsTopN(t *testing.T) {
	// Rule order is contractual: grouped-by wins over top-N keywords.
	plan := newTestTranslator(Overrides{}).Translate("Top shipments grouped by status")
	assert.Equal(t, model.PlanGrouped, plan.Kind)
}

func TestTranslateTopBeatsSum(t *testing.T) {
	plan := newTestTranslator(Overrides{}).Translate("Show the total cost of the top shipments")
	assert.Equal(t, model.PlanTopN, plan.Kind)
}

func TestTranslateDuplicates(t *testing.T) {
	plan := newTestTranslator(Overrides{}).Translate("Are there any duplicate shipments?")

	assert.Equal(t, model.PlanDuplicates, plan.Kind)
	assert.Equal(t, "RefNo", plan.GroupBy)
	assert.Equal(t, 10, plan.Limit)
}

func TestTranslateFallbackUnrecognized(t *testing.T) {
	plan := newTestTranslator(Overrides{}).Translate("Tell me something interesting")

	assert.Equal(t, model.PlanCount, plan.Kind)
	assert.True(t, plan.Unrecognized)
	assert.True(t, plan.Filter.IsEmpty())
}

func TestTranslateOverridesWin(t *testing.T) {
	plan := newTestTranslator(Overrides{DateField: "Delivered", CostField: "Freight"}).
		Translate("Show total cost for this month")

	assert.Equal(t, model.PlanAggregate, plan.Kind)
	assert.Equal(t, "Freight", plan.ValueField)
	require.NotNil(t, plan.Filter.Date)
	assert.Equal(t, "Delivered", plan.Filter.Date.Field)
}

func TestTranslateDegradesWithoutCostField(t *testing.T) {
	textOnly := []model.Field{
		{Name: "RefNo", Role: model.RoleIdentifier},
		{Name: "Status", Role: model.RoleText},
	}
	tr := New(textOnly, Overrides{}, WithNow(func() time.Time { return testNow }), WithLocation(time.UTC))

	plan := tr.Translate("Show total shipment cost")
	assert.Equal(t, model.PlanCount, plan.Kind)
	assert.NotEmpty(t, plan.Notes)

	plan = tr.Translate("Top 5 most expensive shipments")
	assert.Equal(t, model.PlanCount, plan.Kind)
	assert.NotEmpty(t, plan.Notes)
}

func TestTranslateNoDateFieldDropsFilter(t *testing.T) {
	noDates := []model.Field{{Name: "Cost", Role: model.RoleNumeric}}
	tr := New(noDates, Overrides{}, WithNow(func() time.Time { return testNow }), WithLocation(time.UTC))

	plan := tr.Translate("How many shipments this month?")
	assert.Equal(t, model.PlanCount, plan.Kind)
	assert.Nil(t, plan.Filter.Date)
	assert.NotEmpty(t, plan.Notes)
}
