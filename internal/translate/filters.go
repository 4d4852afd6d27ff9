package translate

import (
	"fmt"
	"regexp"
	"strings"

	"shipquery/internal/model"
	"shipquery/internal/schema"
	"shipquery/pkg/tabular"
)

// Filter extraction runs independently of intent matching; whatever it finds
// is merged into whichever plan shape wins.

var statusWords = []string{
	"delivered", "pending", "in transit", "cancelled", "returned", "booked", "shipped",
}

var (
	fromRe    = regexp.MustCompile(`(?i)\bfrom\s+([a-z0-9\- ,]+?)(?:\s+to\b|[.?!]|$)`)
	toRe      = regexp.MustCompile(`(?i)\bto\s+([a-z0-9\- ,]+?)(?:\s+with\b|[.?!]|$)`)
	compareRe = regexp.MustCompile(`([A-Za-z _#\-]{2,40})\s*(>=|<=|>|<|=)\s*([0-9,.]+)`)
)

// extractFilter builds the full constraint set for a question.
func (t *Translator) extractFilter(question string, plan *model.Plan) model.Filter {
	var filter model.Filter
	lower := strings.ToLower(question)

	if dateField := schema.DateField(t.fields, t.overrides.DateField); dateField != "" {
		filter.Date = t.dateRange(question, dateField)
	} else if mentionsDatePhrase(question) {
		plan.Note("no date field detected; date filter omitted")
	}

	if statuses := matchedStatuses(lower); len(statuses) > 0 {
		if statusField := schema.StatusField(t.fields); statusField != "" {
			filter.Equals = append(filter.Equals, model.Equality{Field: statusField, Values: statuses})
		} else {
			plan.Note("no status field detected; status filter omitted")
		}
	}

	if m := fromRe.FindStringSubmatch(question); m != nil {
		if f := schema.OriginField(t.fields); f != "" {
			filter.Matches = append(filter.Matches, model.Match{Field: f, Pattern: strings.TrimSpace(m[1])})
		}
	}
	if m := toRe.FindStringSubmatch(question); m != nil {
		if f := schema.DestinationField(t.fields); f != "" {
			filter.Matches = append(filter.Matches, model.Match{Field: f, Pattern: strings.TrimSpace(m[1])})
		}
	}

	for _, m := range compareRe.FindAllStringSubmatch(question, -1) {
		name, op, raw := strings.TrimSpace(m[1]), m[2], m[3]
		value, ok := tabular.ParseNumber(raw)
		if !ok {
			continue
		}
		field := schema.FindField(t.fields, name)
		if field == "" {
			field = schema.CostField(t.fields, t.overrides.CostField)
		}
		if field == "" {
			plan.Note(fmt.Sprintf("no field matches %q; comparison omitted", name))
			continue
		}
		filter.Compares = append(filter.Compares, model.Comparison{Field: field, Op: op, Value: value})
	}

	return filter
}

// mentionsDatePhrase reports whether the question contains any recognized
// date phrase, used only to tell the caller a date filter was dropped.
func mentionsDatePhrase(question string) bool {
	lower := strings.ToLower(question)
	return containsAny(lower, monthKeywords) ||
		containsAny(lower, yearKeywords) ||
		containsAny(lower, weekKeywords) ||
		lastNDays.MatchString(question) ||
		lastWeekRe.MatchString(question) ||
		betweenRe.MatchString(question)
}

func matchedStatuses(lower string) []string {
	var out []string
	for _, s := range statusWords {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(s) + `\b`)
		if re.MatchString(lower) {
			out = append(out, s)
		}
	}
	return out
}
