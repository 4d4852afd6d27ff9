// Package render formats executed query results for display. Rendering is a
// pure function of (plan, result): calling it twice on the same pair yields
// identical output, and it has no error paths of its own.
package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"shipquery/internal/model"
)

const noMatches = "No matching shipments."

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// Render formats a result based on the plan's shape. Empty tables render an
// explicit no-match indicator instead of a bare header row.
func Render(plan model.Plan, res model.Result) string {
	switch plan.Kind {
	case model.PlanCount:
		return fmt.Sprintf("Matching shipments: %d", res.Count)

	case model.PlanAggregate:
		value := 0.0
		if res.Scalar != nil {
			value = *res.Scalar
		}
		label := "Total"
		if plan.Op == model.OpAvg {
			label = "Average"
		}
		return fmt.Sprintf("%s %s: %.2f", label, plan.ValueField, value)

	case model.PlanTopN:
		return renderRows(res.Rows)

	case model.PlanGrouped:
		return renderGroups(plan, res.Groups)

	case model.PlanDuplicates:
		return renderDuplicates(plan, res.Groups)
	}

	return noMatches
}

// Hint returns the clarifying message for degraded or unrecognized plans,
// empty when there is nothing to say.
func Hint(plan model.Plan) string {
	var lines []string
	if plan.Unrecognized {
		lines = append(lines, "I could not recognize a specific question; showing a shipment count. "+
			"Try phrases like \"total cost this month\" or \"top 5 most expensive shipments\".")
	}
	for _, n := range plan.Notes {
		lines = append(lines, "Note: "+n)
	}
	return strings.Join(lines, "\n")
}

func renderRows(rows []model.Document) string {
	if len(rows) == 0 {
		return noMatches
	}

	// Column order: union of keys across rows, sorted for stable output.
	seen := map[string]bool{}
	var headers []string
	for _, row := range rows {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}
	sort.Strings(headers)

	tbl := newTable(headers)
	for _, row := range rows {
		cells := make([]string, len(headers))
		for i, h := range headers {
			cells[i] = formatValue(row[h])
		}
		tbl.Row(cells...)
	}
	return tbl.Render()
}

func renderGroups(plan model.Plan, groups []model.GroupRow) string {
	if len(groups) == 0 {
		return noMatches
	}

	// Pipelines already sort, but the contract is descending by aggregate
	// value, so enforce it here too.
	sorted := make([]model.GroupRow, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })

	valueLabel := "Count"
	if plan.Op == model.OpSum {
		valueLabel = "Total " + plan.ValueField
	} else if plan.Op == model.OpAvg {
		valueLabel = "Average " + plan.ValueField
	}

	tbl := newTable([]string{plan.GroupBy, valueLabel, "Shipments"})
	for _, g := range sorted {
		tbl.Row(formatValue(g.Key), fmt.Sprintf("%.2f", g.Value), fmt.Sprintf("%d", g.Count))
	}
	return tbl.Render()
}

func renderDuplicates(plan model.Plan, groups []model.GroupRow) string {
	if len(groups) == 0 {
		return "No duplicate shipments found."
	}

	tbl := newTable([]string{plan.GroupBy, "Occurrences"})
	for _, g := range groups {
		tbl.Row(formatValue(g.Key), fmt.Sprintf("%d", g.Count))
	}
	return tbl.Render()
}

func newTable(headers []string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		})
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case time.Time:
		return val.Format("2006-01-02")
	case float64:
		return fmt.Sprintf("%.2f", val)
	case float32:
		return fmt.Sprintf("%.2f", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
