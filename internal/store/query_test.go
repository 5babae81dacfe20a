package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/strcomply/strcomply/internal/model"
)

func TestBuildSearchQuery_EmptyCriteria(t *testing.T) {
	sql, args := BuildSearchQuery("id", RegulationColumns(), model.FilterCriteria{}, QuestionMark)
	assert.Equal(t, "SELECT id FROM regulations ORDER BY last_updated DESC, id ASC", sql)
	assert.Empty(t, args)
}

func TestBuildSearchQuery_TextQueryCoversThreeColumns(t *testing.T) {
	sql, args := BuildSearchQuery("id", RegulationColumns(), model.FilterCriteria{Query: "  Tax  "}, QuestionMark)
	assert.Contains(t, sql, "LOWER(title) LIKE ?")
	assert.Contains(t, sql, "LOWER(location) LIKE ?")
	assert.Contains(t, sql, "LOWER(requirements) LIKE ?")
	assert.Equal(t, []interface{}{"%tax%", "%tax%", "%tax%"}, args)
}

func TestBuildSearchQuery_DimensionsAreANDed(t *testing.T) {
	c := model.FilterCriteria{
		Locations:  []string{"Tampa", "Austin"},
		Categories: []string{"Zoning"},
	}
	sql, args := BuildSearchQuery("id", RegulationColumns(), c, QuestionMark)
	assert.Contains(t, sql, "location IN (?,?) AND category IN (?)")
	assert.Equal(t, []interface{}{"Tampa", "Austin", "Zoning"}, args)
}

func TestBuildSearchQuery_DollarPlaceholdersNumberSequentially(t *testing.T) {
	c := model.FilterCriteria{Query: "tax", Locations: []string{"Tampa"}}
	sql, args := BuildSearchQuery("id", UpdateColumns(), c, Dollar)
	assert.Contains(t, sql, "LOWER(description) LIKE $3")
	assert.Contains(t, sql, "location IN ($4)")
	assert.Len(t, args, 4)
}

func TestBuildSearchQuery_DateBoundsInclusive(t *testing.T) {
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	sql, args := BuildSearchQuery("id", UpdateColumns(), model.FilterCriteria{DateFrom: &from, DateTo: &to}, QuestionMark)
	assert.Contains(t, sql, "update_date >= ?")
	assert.Contains(t, sql, "update_date <= ?")
	assert.Equal(t, []interface{}{from, to}, args)
}

func TestBuildSearchQuery_LevelColumnPerKind(t *testing.T) {
	c := model.FilterCriteria{ComplianceLevels: []string{"High"}}
	regSQL, _ := BuildSearchQuery("id", RegulationColumns(), c, QuestionMark)
	updSQL, _ := BuildSearchQuery("id", UpdateColumns(), c, QuestionMark)
	assert.Contains(t, regSQL, "compliance_level IN (?)")
	assert.Contains(t, updSQL, "impact_level IN (?)")
}
