package model

// GroupRow is one (group key, aggregate value) pair from a grouped plan.
type GroupRow struct {
	Key   interface{} `json:"key"`
	Value float64     `json:"value"`
	Count int64       `json:"count"`
}

// Result is the executed form of a plan. Which part is populated depends on
// the plan's Kind: Count for count plans, Scalar for sum/avg aggregates,
// Rows for top-N listings, Groups for grouped aggregates and duplicates.
type Result struct {
	Count  int64      `json:"count,omitempty"`
	Scalar *float64   `json:"scalar,omitempty"`
	Rows   []Document `json:"rows,omitempty"`
	Groups []GroupRow `json:"groups,omitempty"`
}
