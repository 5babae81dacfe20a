package store

import (
	"fmt"
	"strings"

	"github.com/strcomply/strcomply/internal/model"
)

// SearchColumns maps the filter dimensions onto a record table's columns.
// The two record kinds share the composition algorithm but differ in their
// body and level columns.
type SearchColumns struct {
	Table    string
	Title    string
	Location string
	Body     string
	Juris    string
	Category string
	Level    string
	Date     string
}

// RegulationColumns returns the column mapping for the regulations table.
func RegulationColumns() SearchColumns {
	return SearchColumns{
		Table:    "regulations",
		Title:    "title",
		Location: "location",
		Body:     "requirements",
		Juris:    "jurisdiction_level",
		Category: "category",
		Level:    "compliance_level",
		Date:     "last_updated",
	}
}

// UpdateColumns returns the column mapping for the updates table.
func UpdateColumns() SearchColumns {
	return SearchColumns{
		Table:    "updates",
		Title:    "title",
		Location: "location",
		Body:     "description",
		Juris:    "jurisdiction_level",
		Category: "category",
		Level:    "impact_level",
		Date:     "update_date",
	}
}

// Placeholder renders the n-th bind parameter (1-based) in a driver's dialect.
type Placeholder func(n int) string

// QuestionMark is the placeholder style used by the sqlite driver.
func QuestionMark(int) string { return "?" }

// Dollar is the placeholder style used by the pgx driver.
func Dollar(n int) string { return fmt.Sprintf("$%d", n) }

// BuildSearchQuery composes the WHERE and ORDER BY clauses for a filter
// request into a complete statement. Values within a dimension are
// OR-combined (IN lists), distinct dimensions are AND-combined, the text
// query is a case-insensitive substring match across title, location and the
// body column, and date bounds are inclusive. Empty criteria produce an
// unfiltered statement. Ordering is always date descending, id ascending.
func BuildSearchQuery(selectList string, cols SearchColumns, c model.FilterCriteria, ph Placeholder) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	next := func(v interface{}) string {
		args = append(args, v)
		return ph(len(args))
	}

	if q := strings.TrimSpace(c.Query); q != "" {
		pat := "%" + strings.ToLower(q) + "%"
		p := next(pat)
		conds = append(conds, fmt.Sprintf("(LOWER(%s) LIKE %s OR LOWER(%s) LIKE %s OR LOWER(%s) LIKE %s)",
			cols.Title, p, cols.Location, next(pat), cols.Body, next(pat)))
	}
	if len(c.Locations) > 0 {
		conds = append(conds, inClause(cols.Location, c.Locations, next))
	}
	if len(c.Jurisdictions) > 0 {
		conds = append(conds, inClause(cols.Juris, c.Jurisdictions, next))
	}
	if len(c.Categories) > 0 {
		conds = append(conds, inClause(cols.Category, c.Categories, next))
	}
	if len(c.ComplianceLevels) > 0 {
		conds = append(conds, inClause(cols.Level, c.ComplianceLevels, next))
	}
	// Bounds are normalized to UTC so drivers that store timestamps as text
	// compare them consistently.
	if c.DateFrom != nil {
		conds = append(conds, fmt.Sprintf("%s >= %s", cols.Date, next(c.DateFrom.UTC())))
	}
	if c.DateTo != nil {
		conds = append(conds, fmt.Sprintf("%s <= %s", cols.Date, next(c.DateTo.UTC())))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", selectList, cols.Table)
	if len(conds) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}
	fmt.Fprintf(&b, " ORDER BY %s DESC, id ASC", cols.Date)
	return b.String(), args
}

func inClause(col string, values []string, next func(interface{}) string) string {
	phs := make([]string, len(values))
	for i, v := range values {
		phs[i] = next(v)
	}
	return fmt.Sprintf("%s IN (%s)", col, strings.Join(phs, ","))
}
