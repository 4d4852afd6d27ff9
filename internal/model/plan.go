package model

import "time"

// PlanKind tags the shape of a translated query plan.
type PlanKind string

const (
	PlanCount      PlanKind = "count"
	PlanAggregate  PlanKind = "aggregate"
	PlanTopN       PlanKind = "top_n"
	PlanGrouped    PlanKind = "grouped_aggregate"
	PlanDuplicates PlanKind = "duplicates"
)

// AggOp is an aggregation operator delegated to the store.
type AggOp string

const (
	OpSum AggOp = "sum"
	OpAvg AggOp = "avg"
	OpCnt AggOp = "count"
)

// DateRange is a resolved half-open interval [Start, End) applied to Field.
// Start <= End always holds; ranges parsed from "between A and B" phrases are
// order-normalized.
type DateRange struct {
	Field string    `json:"field"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Equality restricts Field to one of Values (case-insensitive on execution).
type Equality struct {
	Field  string   `json:"field"`
	Values []string `json:"values"`
}

// Match restricts Field to values containing Pattern (substring, case-insensitive).
type Match struct {
	Field   string `json:"field"`
	Pattern string `json:"pattern"`
}

// Comparison restricts Field numerically. Op is one of = > < >= <=.
type Comparison struct {
	Field string  `json:"field"`
	Op    string  `json:"op"`
	Value float64 `json:"value"`
}

// Filter is the optional constraint set merged into every plan shape.
type Filter struct {
	Date     *DateRange   `json:"date,omitempty"`
	Equals   []Equality   `json:"equals,omitempty"`
	Matches  []Match      `json:"matches,omitempty"`
	Compares []Comparison `json:"compares,omitempty"`
}

// IsEmpty reports whether no constraint is set.
func (f Filter) IsEmpty() bool {
	return f.Date == nil && len(f.Equals) == 0 && len(f.Matches) == 0 && len(f.Compares) == 0
}

// Plan is the translator's output: exactly one Kind, plus the fields that
// shape needs. Plans are created fresh per question and discarded after
// execution and rendering.
type Plan struct {
	Kind PlanKind `json:"kind"`

	Op         AggOp  `json:"op,omitempty"`          // aggregate / grouped
	ValueField string `json:"value_field,omitempty"` // aggregate / top_n / grouped
	GroupBy    string `json:"group_by,omitempty"`    // grouped / duplicates
	N          int    `json:"n,omitempty"`           // top_n
	Limit      int    `json:"limit,omitempty"`       // duplicates cap, defensive limit elsewhere

	Filter Filter `json:"filter"`

	// Unrecognized marks the fallback plan: no intent keyword matched and the
	// caller should show a clarifying hint instead of trusting the count.
	Unrecognized bool `json:"unrecognized,omitempty"`

	// Notes carries soft degradation messages ("no cost field detected", ...).
	// A note never makes translation fail.
	Notes []string `json:"notes,omitempty"`
}

// Note appends a degradation message.
func (p *Plan) Note(msg string) {
	p.Notes = append(p.Notes, msg)
}
