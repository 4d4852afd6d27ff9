package executor

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"shipquery/internal/model"
)

// Runner is the slice of the store a plan needs. *store.Collection satisfies
// it; tests substitute a fake.
type Runner interface {
	CountDocuments(ctx context.Context, filter bson.M) (int64, error)
	Aggregate(ctx context.Context, pipeline []bson.M) ([]bson.M, error)
}

// Run executes a compiled plan and shapes the raw store rows into a Result.
// Store failures are surfaced as-is; nothing is retried.
func Run(ctx context.Context, r Runner, plan model.Plan) (*model.Result, error) {
	res := &model.Result{}

	switch plan.Kind {
	case model.PlanCount:
		n, err := r.CountDocuments(ctx, CompileFilter(plan.Filter))
		if err != nil {
			return nil, fmt.Errorf("count query failed: %w", err)
		}
		res.Count = n

	case model.PlanAggregate:
		rows, err := r.Aggregate(ctx, Compile(plan))
		if err != nil {
			return nil, fmt.Errorf("%s aggregation failed: %w", plan.Op, err)
		}
		value := 0.0
		if len(rows) > 0 {
			value = asFloat(rows[0]["value"])
		}
		res.Scalar = &value

	case model.PlanTopN:
		rows, err := r.Aggregate(ctx, Compile(plan))
		if err != nil {
			return nil, fmt.Errorf("top-n query failed: %w", err)
		}
		res.Rows = make([]model.Document, len(rows))
		for i, row := range rows {
			doc := model.Document{}
			for k, v := range row {
				if k == "_id" {
					continue
				}
				doc[k] = v
			}
			res.Rows[i] = doc
		}

	case model.PlanGrouped, model.PlanDuplicates:
		rows, err := r.Aggregate(ctx, Compile(plan))
		if err != nil {
			return nil, fmt.Errorf("grouped query failed: %w", err)
		}
		res.Groups = make([]model.GroupRow, len(rows))
		for i, row := range rows {
			g := model.GroupRow{Key: row["_id"], Count: asInt(row["count"])}
			if v, ok := row["value"]; ok {
				g.Value = asFloat(v)
			} else {
				g.Value = float64(g.Count)
			}
			res.Groups[i] = g
		}

	default:
		return nil, fmt.Errorf("unknown plan kind %q", plan.Kind)
	}

	return res, nil
}

// asFloat reads the numeric types the driver may hand back.
func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	default:
		return 0
	}
}

func asInt(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
