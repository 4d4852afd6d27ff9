package translate

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"shipquery/internal/model"
	"shipquery/pkg/tabular"
)

// Date phrase patterns, checked in order: explicit "between A and B" first,
// then calendar phrases, then relative-day phrases.
var (
	monthKeywords = []string{"this month", "current month"}
	yearKeywords  = []string{"this year", "current year"}
	weekKeywords  = []string{"this week", "current week"}

	betweenRe  = regexp.MustCompile(`(?i)between\s+([0-9a-z/, -]+?)\s+and\s+([0-9a-z/, -]+?)(?:\s|$|[.?!])`)
	lastNDays  = regexp.MustCompile(`(?i)last\s+(\d+)\s+days?`)
	lastWeekRe = regexp.MustCompile(`(?i)\blast week\b|\brecently\b`)
)

// dateRange resolves a date phrase in question to a half-open [start, end)
// interval on field, or nil when no phrase is present.
func (t *Translator) dateRange(question, field string) *model.DateRange {
	lower := strings.ToLower(question)
	now := t.now().In(t.loc)

	if m := betweenRe.FindStringSubmatch(question); m != nil {
		a, okA := tabular.ParseDate(strings.TrimSpace(m[1]), t.loc)
		b, okB := tabular.ParseDate(strings.TrimSpace(m[2]), t.loc)
		if okA && okB {
			if b.Before(a) {
				a, b = b, a
			}
			// Inclusive end date phrase → half-open interval.
			return &model.DateRange{Field: field, Start: a, End: b.AddDate(0, 0, 1)}
		}
	}

	if containsAny(lower, monthKeywords) {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, t.loc)
		return &model.DateRange{Field: field, Start: start, End: start.AddDate(0, 1, 0)}
	}

	if containsAny(lower, yearKeywords) {
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, t.loc)
		return &model.DateRange{Field: field, Start: start, End: start.AddDate(1, 0, 0)}
	}

	if containsAny(lower, weekKeywords) {
		// Week starts Monday.
		offset := (int(now.Weekday()) + 6) % 7
		monday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, t.loc).AddDate(0, 0, -offset)
		return &model.DateRange{Field: field, Start: monday, End: monday.AddDate(0, 0, 7)}
	}

	if m := lastNDays.FindStringSubmatch(question); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 0 {
			n = 7
		}
		return &model.DateRange{Field: field, Start: now.AddDate(0, 0, -n), End: now}
	}

	if lastWeekRe.MatchString(question) {
		return &model.DateRange{Field: field, Start: now.AddDate(0, 0, -7), End: now}
	}

	return nil
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
