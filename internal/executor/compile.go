// Package executor compiles query plans into MongoDB filter and aggregation
// documents and runs them against a store collection.
package executor

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"shipquery/internal/model"
)

// Ingested cost cells can still be strings when coercion failed, so every
// aggregation wraps the cost field in $convert with onError/onNull zero
// instead of trusting the stored type.
func toDouble(field string) bson.M {
	return bson.M{"$convert": bson.M{
		"input":   "$" + field,
		"to":      "double",
		"onError": 0,
		"onNull":  0,
	}}
}

var comparisonOps = map[string]string{
	"=":  "$eq",
	">":  "$gt",
	"<":  "$lt",
	">=": "$gte",
	"<=": "$lte",
}

// CompileFilter turns a plan filter into a MongoDB filter document.
func CompileFilter(f model.Filter) bson.M {
	filter := bson.M{}

	if f.Date != nil {
		filter[f.Date.Field] = bson.M{
			"$gte": primitive.NewDateTimeFromTime(f.Date.Start),
			"$lt":  primitive.NewDateTimeFromTime(f.Date.End),
		}
	}
	for _, eq := range f.Equals {
		values := make(bson.A, len(eq.Values))
		for i, v := range eq.Values {
			values[i] = primitive.Regex{Pattern: "^" + regexQuote(v) + "$", Options: "i"}
		}
		filter[eq.Field] = bson.M{"$in": values}
	}
	for _, m := range f.Matches {
		filter[m.Field] = primitive.Regex{Pattern: regexQuote(m.Pattern), Options: "i"}
	}
	for _, c := range f.Compares {
		cond, _ := filter[c.Field].(bson.M)
		if cond == nil {
			cond = bson.M{}
		}
		cond[comparisonOps[c.Op]] = c.Value
		filter[c.Field] = cond
	}

	return filter
}

// Compile produces the aggregation pipeline for a plan, or nil for plain
// count plans, which run through CountDocuments with the compiled filter.
func Compile(plan model.Plan) []bson.M {
	filter := CompileFilter(plan.Filter)

	switch plan.Kind {
	case model.PlanAggregate:
		op := "$sum"
		if plan.Op == model.OpAvg {
			op = "$avg"
		}
		return []bson.M{
			{"$match": filter},
			{"$group": bson.M{
				"_id":   nil,
				"value": bson.M{op: toDouble(plan.ValueField)},
			}},
		}

	case model.PlanTopN:
		pipeline := []bson.M{}
		if len(filter) > 0 {
			pipeline = append(pipeline, bson.M{"$match": filter})
		}
		// Numeric helper field gives a reliable sort even over mixed types.
		pipeline = append(pipeline,
			bson.M{"$addFields": bson.M{"__cost_num": toDouble(plan.ValueField)}},
			bson.M{"$sort": bson.M{"__cost_num": -1}},
			bson.M{"$limit": plan.N},
			bson.M{"$project": bson.M{"__cost_num": 0}},
		)
		return pipeline

	case model.PlanGrouped:
		group := bson.M{
			"_id":   "$" + plan.GroupBy,
			"count": bson.M{"$sum": 1},
		}
		sortKey := "count"
		if plan.Op != model.OpCnt && plan.ValueField != "" {
			op := "$sum"
			if plan.Op == model.OpAvg {
				op = "$avg"
			}
			group["value"] = bson.M{op: toDouble(plan.ValueField)}
			sortKey = "value"
		}
		return []bson.M{
			{"$match": filter},
			{"$group": group},
			{"$sort": bson.M{sortKey: -1}},
		}

	case model.PlanDuplicates:
		limit := plan.Limit
		if limit <= 0 {
			limit = 10
		}
		return []bson.M{
			{"$match": filter},
			{"$group": bson.M{"_id": "$" + plan.GroupBy, "count": bson.M{"$sum": 1}}},
			{"$match": bson.M{"count": bson.M{"$gt": 1}}},
			{"$sort": bson.M{"count": -1}},
			{"$limit": limit},
		}
	}

	return nil
}

// regexQuote escapes regex metacharacters in user-provided filter text.
func regexQuote(s string) string {
	return regexp.QuoteMeta(s)
}
