// Package schema infers the role of data columns and resolves the default
// cost/date/identifier fields used by query translation.
//
// Classification is a pure function of column name and sampled content:
// name keywords are checked first, then sample parseability (date before
// number), and anything unclassifiable falls back to text. No error paths.
package schema

import (
	"strings"
	"time"

	"shipquery/internal/model"
	"shipquery/pkg/tabular"
)

// Name keyword tables, tried in order. First table that matches the lowered
// column name decides the role, regardless of content.
var (
	costKeywords       = []string{"cost", "amount", "charge", "price"}
	identifierKeywords = []string{"ref", "tracking", "awb"}
)

// Hints for locating filter fields that have no dedicated role.
var (
	statusHints      = []string{"status", "delivery status", "shipment type"}
	originHints      = []string{"origin", "from", "location"}
	destinationHints = []string{"destination", "to company", "to id", "to"}
)

// MaxSamples caps how many non-empty cells per column are inspected.
const MaxSamples = 25

// Classify decides the role of a column from its name and sampled values.
func Classify(name string, samples []string) model.FieldRole {
	lower := strings.ToLower(name)
	for _, kw := range costKeywords {
		if strings.Contains(lower, kw) {
			return model.RoleNumeric
		}
	}
	for _, kw := range identifierKeywords {
		if strings.Contains(lower, kw) {
			return model.RoleIdentifier
		}
	}

	nonEmpty := make([]string, 0, MaxSamples)
	for _, s := range samples {
		if strings.TrimSpace(s) == "" {
			continue
		}
		nonEmpty = append(nonEmpty, s)
		if len(nonEmpty) == MaxSamples {
			break
		}
	}
	if len(nonEmpty) == 0 {
		return model.RoleText
	}

	if majority(nonEmpty, func(s string) bool {
		_, ok := tabular.ParseDate(s, time.UTC)
		return ok
	}) {
		return model.RoleDate
	}
	if majority(nonEmpty, func(s string) bool {
		_, ok := tabular.ParseNumber(s)
		return ok
	}) {
		return model.RoleNumeric
	}
	return model.RoleText
}

// majority reports whether more than half the values satisfy ok.
func majority(values []string, ok func(string) bool) bool {
	hits := 0
	for _, v := range values {
		if ok(v) {
			hits++
		}
	}
	return hits*2 > len(values)
}

// ClassifyColumns classifies every column of a header+rows table.
func ClassifyColumns(headers []string, rows [][]string) []model.Field {
	fields := make([]model.Field, len(headers))
	for i, h := range headers {
		samples := make([]string, 0, MaxSamples)
		for _, row := range rows {
			if i < len(row) {
				samples = append(samples, row[i])
			}
			if len(samples) == MaxSamples {
				break
			}
		}
		fields[i] = model.Field{Name: h, Role: Classify(h, samples)}
	}
	return fields
}
