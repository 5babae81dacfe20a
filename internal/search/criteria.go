package search

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/strcomply/strcomply/internal/model"
)

// CriteriaRequest is the transport shape of a filter request before
// normalization: every field is optional and dates arrive as strings.
type CriteriaRequest struct {
	Query            string   `json:"q"`
	Locations        []string `json:"locations"`
	Jurisdictions    []string `json:"jurisdictions"`
	Categories       []string `json:"categories"`
	ComplianceLevels []string `json:"complianceLevels"`
	DateFrom         string   `json:"dateFrom"`
	DateTo           string   `json:"dateTo"`
	DateRangeDays    int      `json:"dateRangeDays"`
}

// dateLayouts accepted for the optional date bounds.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Normalize converts a raw request into FilterCriteria. Malformed optional
// input never fails the request: unparseable dates and blank values are
// dropped with a warning, per the fail-open contract for read-only browsing.
//
// When both absolute bounds and a relative window are supplied, the absolute
// bounds win; dateRangeDays only fills a missing lower bound.
func (r CriteriaRequest) Normalize(now time.Time) model.FilterCriteria {
	c := model.FilterCriteria{
		Query:            strings.TrimSpace(r.Query),
		Locations:        cleanSet(r.Locations),
		Jurisdictions:    cleanSet(r.Jurisdictions),
		Categories:       cleanSet(r.Categories),
		ComplianceLevels: cleanSet(r.ComplianceLevels),
	}

	c.DateFrom = parseBound(r.DateFrom, "dateFrom", false)
	c.DateTo = parseBound(r.DateTo, "dateTo", true)

	if c.DateFrom == nil && r.DateRangeDays > 0 {
		from := now.UTC().AddDate(0, 0, -r.DateRangeDays).Truncate(24 * time.Hour)
		c.DateFrom = &from
	}
	return c
}

// parseBound parses an optional date string. Date-only upper bounds are
// pushed to the end of the day so the interval stays inclusive.
func parseBound(v, field string, endOfDay bool) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, v)
		if err != nil {
			continue
		}
		t = t.UTC()
		if endOfDay && layout == "2006-01-02" {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t
	}
	log.Warn().Str("field", field).Str("value", v).Msg("ignoring unparseable date bound")
	return nil
}

// cleanSet trims values, drops blanks and deduplicates preserving order.
func cleanSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
