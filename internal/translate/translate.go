// Package translate turns a plain-English question about shipments into a
// structured query plan.
//
// The translator is a priority-ordered list of (predicate, plan builder)
// pairs evaluated in order, first match wins. There is no shared grammar, no
// backtracking, and no state kept between questions. Rule order is part of
// the contract: a question containing both "grouped by" and "top" always
// produces a grouped aggregate.
package translate

import (
	"regexp"
	"strings"
	"time"

	"shipquery/internal/model"
	"shipquery/internal/schema"
)

// Overrides lets the caller pin the date and cost fields instead of relying
// on role detection. An explicit override always wins.
type Overrides struct {
	DateField string `json:"date_field,omitempty"`
	CostField string `json:"cost_field,omitempty"`
}

// Translator resolves questions against one dataset's known fields.
type Translator struct {
	fields    []model.Field
	overrides Overrides
	now       func() time.Time
	loc       *time.Location
}

// Option configures a Translator.
type Option func(*Translator)

// WithNow fixes the clock, used by relative date phrases.
func WithNow(now func() time.Time) Option {
	return func(t *Translator) { t.now = now }
}

// WithLocation sets the timezone date phrases resolve in.
func WithLocation(loc *time.Location) Option {
	return func(t *Translator) { t.loc = loc }
}

// New builds a Translator over the known fields of the target collection.
func New(fields []model.Field, overrides Overrides, opts ...Option) *Translator {
	t := &Translator{
		fields:    fields,
		overrides: overrides,
		now:       time.Now,
		loc:       time.Local,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Intent patterns, in rule order.
var (
	duplicateRe = regexp.MustCompile(`(?i)\bduplicates?\b`)
	groupByRe   = regexp.MustCompile(`(?i)(?:group(?:ed)?\s+by|breakdown\s+by)\s+([a-z0-9 _-]+)`)
	topNRe      = regexp.MustCompile(`(?i)top\s+(\d+)`)
	topWordsRe  = regexp.MustCompile(`(?i)\btop\b|\bhighest\b|most expensive`)
	sumRe       = regexp.MustCompile(`(?i)\btotal\b|\bsum\b`)
	avgRe       = regexp.MustCompile(`(?i)\baverage\b|\bavg\b`)
	costNounRe  = regexp.MustCompile(`(?i)cost|amount|charge|price|spend`)
	countRe     = regexp.MustCompile(`(?i)how many|\bcount\b|number of`)
)

const (
	defaultTopN       = 5
	duplicateGroupCap = 10
)

// Translate produces exactly one plan shape for question. It never fails:
// an unrecognized question falls back to a count plan tagged Unrecognized,
// and missing cost/date fields degrade the plan with a note instead of an
// error.
func (t *Translator) Translate(question string) model.Plan {
	question = strings.TrimSpace(question)
	plan := model.Plan{Kind: model.PlanCount}
	plan.Filter = t.extractFilter(question, &plan)

	switch {
	case duplicateRe.MatchString(question):
		t.buildDuplicates(&plan)

	case groupByRe.MatchString(question):
		t.buildGrouped(question, &plan)

	case topWordsRe.MatchString(question):
		t.buildTopN(question, &plan)

	case (sumRe.MatchString(question) || avgRe.MatchString(question)) && costNounRe.MatchString(question):
		t.buildAggregate(question, &plan)

	case countRe.MatchString(question):
		plan.Kind = model.PlanCount

	default:
		plan.Kind = model.PlanCount
		plan.Unrecognized = true
	}

	return plan
}

// buildDuplicates is the fixed duplicate-detection plan: group by the
// identifier field, keep groups with count > 1, order by count descending.
func (t *Translator) buildDuplicates(plan *model.Plan) {
	plan.Kind = model.PlanDuplicates
	plan.Limit = duplicateGroupCap
	plan.GroupBy = schema.IdentifierField(t.fields)
	if plan.GroupBy == "" {
		plan.Note("no identifier field detected; duplicate check runs over the whole record")
	}
}

func (t *Translator) buildGrouped(question string, plan *model.Plan) {
	m := groupByRe.FindStringSubmatch(question)
	token := strings.TrimSpace(m[1])

	groupField := schema.FindField(t.fields, token)
	if groupField == "" {
		// Token may span past the field name ("status for this month");
		// retry word by word.
		for _, word := range strings.Fields(token) {
			if groupField = schema.FindField(t.fields, word); groupField != "" {
				break
			}
		}
	}
	if groupField == "" && strings.Contains(strings.ToLower(question), "by status") {
		groupField = schema.StatusField(t.fields)
	}
	if groupField == "" {
		plan.Kind = model.PlanCount
		plan.Unrecognized = true
		plan.Note("could not match " + token + " to a known field")
		return
	}

	plan.Kind = model.PlanGrouped
	plan.GroupBy = groupField
	plan.Op = model.OpCnt
	if costNounRe.MatchString(question) || sumRe.MatchString(question) {
		plan.Op = model.OpSum
		plan.ValueField = schema.CostField(t.fields, t.overrides.CostField)
		if plan.ValueField == "" {
			plan.Op = model.OpCnt
			plan.Note("no cost field detected; grouping by count only")
		}
	}
}

func (t *Translator) buildTopN(question string, plan *model.Plan) {
	plan.Kind = model.PlanTopN
	plan.N = defaultTopN
	if m := topNRe.FindStringSubmatch(question); m != nil {
		if n := atoiOr(m[1], defaultTopN); n > 0 {
			plan.N = n
		}
	}
	plan.ValueField = schema.CostField(t.fields, t.overrides.CostField)
	if plan.ValueField == "" {
		// Without a cost field there is nothing to sort on; degrade to count.
		plan.Kind = model.PlanCount
		plan.Note("no cost field detected; cannot rank shipments")
	}
}

func (t *Translator) buildAggregate(question string, plan *model.Plan) {
	plan.Kind = model.PlanAggregate
	plan.Op = model.OpSum
	if avgRe.MatchString(question) {
		plan.Op = model.OpAvg
	}
	plan.ValueField = schema.CostField(t.fields, t.overrides.CostField)
	if plan.ValueField == "" {
		plan.Kind = model.PlanCount
		plan.Note("no cost field detected; returning a count instead")
	}
}

func atoiOr(s string, fallback int) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return fallback
		}
		n = n*10 + int(r-'0')
	}
	if n == 0 {
		return fallback
	}
	return n
}
