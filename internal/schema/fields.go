package schema

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"shipquery/internal/model"
)

// FindField returns the first field whose name contains any of the keywords
// (case-insensitive). Keywords are tried in priority order, so an earlier
// keyword beats a better match on a later one. Empty string when nothing hits.
func FindField(fields []model.Field, keywords ...string) string {
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f.Name), kw) {
				return f.Name
			}
		}
	}
	return ""
}

// firstWithRole returns the first field classified with role.
func firstWithRole(fields []model.Field, role model.FieldRole) string {
	for _, f := range fields {
		if f.Role == role {
			return f.Name
		}
	}
	return ""
}

// CostField resolves the field used for cost aggregation. An explicit
// override always wins; otherwise the first field classified numeric.
func CostField(fields []model.Field, override string) string {
	if override != "" {
		return override
	}
	return firstWithRole(fields, model.RoleNumeric)
}

// DateField resolves the field used for date-range filters. An explicit
// override always wins; otherwise the first field classified date.
func DateField(fields []model.Field, override string) string {
	if override != "" {
		return override
	}
	return firstWithRole(fields, model.RoleDate)
}

// IdentifierField resolves the field duplicate detection groups by.
func IdentifierField(fields []model.Field) string {
	return firstWithRole(fields, model.RoleIdentifier)
}

// StatusField resolves the field status-keyword filters apply to.
func StatusField(fields []model.Field) string {
	return FindField(fields, statusHints...)
}

// OriginField and DestinationField resolve location filters parsed from
// "from X" / "to Y" phrases.
func OriginField(fields []model.Field) string {
	return FindField(fields, originHints...)
}

func DestinationField(fields []model.Field) string {
	return FindField(fields, destinationHints...)
}

// FieldsFromDocuments rebuilds the known-field list from documents sampled
// out of the store. Values already coerced at ingestion keep their type;
// string leftovers are re-classified from their text form.
func FieldsFromDocuments(docs []model.Document) []model.Field {
	if len(docs) == 0 {
		return nil
	}

	samples := make(map[string][]string)
	typed := make(map[string]model.FieldRole)
	order := make([]string, 0)

	for _, doc := range docs {
		for name, v := range doc {
			if name == "_id" {
				continue
			}
			if _, seen := samples[name]; !seen {
				samples[name] = nil
				order = append(order, name)
			}
			switch val := v.(type) {
			case float64, float32, int, int32, int64:
				if typed[name] == "" {
					typed[name] = model.RoleNumeric
				}
			case time.Time:
				typed[name] = model.RoleDate
			case string:
				samples[name] = append(samples[name], val)
			default:
				samples[name] = append(samples[name], fmt.Sprintf("%v", val))
			}
		}
	}
	// Field sets are discovered per dataset, so document iteration order is
	// the only order we have. Sort for a stable result.
	sort.Strings(order)

	fields := make([]model.Field, 0, len(order))
	for _, name := range order {
		role := Classify(name, samples[name])
		if role == model.RoleText {
			if t, ok := typed[name]; ok {
				role = t
			}
		}
		fields = append(fields, model.Field{Name: name, Role: role})
	}
	return fields
}
