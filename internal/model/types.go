package model

import "time"

// Jurisdiction levels a record can apply to.
const (
	JurisdictionNational = "National"
	JurisdictionState    = "State"
	JurisdictionLocal    = "Local"
)

// Compliance levels attached to regulations.
const (
	ComplianceMandatory   = "Mandatory"
	ComplianceRecommended = "Recommended"
	ComplianceOptional    = "Optional"
)

// Impact levels attached to regulatory updates.
const (
	ImpactHigh   = "High"
	ImpactMedium = "Medium"
	ImpactLow    = "Low"
)

// Regulation is a compliance requirement tracked for a jurisdiction.
type Regulation struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	JurisdictionLevel string    `json:"jurisdictionLevel"`
	Location          string    `json:"location"`
	Category          string    `json:"category"`
	ComplianceLevel   string    `json:"complianceLevel"`
	Requirements      string    `json:"requirements"`
	SourceURL         *string   `json:"sourceUrl,omitempty"`
	LastUpdated       time.Time `json:"lastUpdated"`
}

// Update is a dated change notice about the regulatory landscape.
type Update struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	JurisdictionLevel string    `json:"jurisdictionLevel"`
	Location          string    `json:"location"`
	Category          string    `json:"category"`
	ImpactLevel       string    `json:"impactLevel"`
	Description       string    `json:"description"`
	SourceURL         *string   `json:"sourceUrl,omitempty"`
	UpdateDate        time.Time `json:"updateDate"`
}

// RecordKind selects which record vocabulary a search runs against.
type RecordKind string

const (
	KindRegulation RecordKind = "regulation"
	KindUpdate     RecordKind = "update"
)

// FilterCriteria is the structured representation of a search request.
// Every field is optional; empty criteria match all records. Values within a
// field are OR-combined, distinct fields are AND-combined.
//
// The struct is also the persisted snapshot format for saved searches, so a
// snapshot written by an older field set must decode with the missing fields
// as their zero value rather than fail.
type FilterCriteria struct {
	Query            string     `json:"q,omitempty"`
	Locations        []string   `json:"locations,omitempty"`
	Jurisdictions    []string   `json:"jurisdictions,omitempty"`
	Categories       []string   `json:"categories,omitempty"`
	ComplianceLevels []string   `json:"complianceLevels,omitempty"`
	DateFrom         *time.Time `json:"dateFrom,omitempty"`
	DateTo           *time.Time `json:"dateTo,omitempty"`
}

// IsZero reports whether no filter dimension is set.
func (c FilterCriteria) IsZero() bool {
	return c.Query == "" &&
		len(c.Locations) == 0 &&
		len(c.Jurisdictions) == 0 &&
		len(c.Categories) == 0 &&
		len(c.ComplianceLevels) == 0 &&
		c.DateFrom == nil &&
		c.DateTo == nil
}

// SavedSearch is a persisted, named FilterCriteria snapshot with usage tracking.
type SavedSearch struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Criteria    FilterCriteria `json:"criteria"`
	IsPublic    bool           `json:"isPublic"`
	CreatedAt   time.Time      `json:"createdAt"`
	LastUsedAt  *time.Time     `json:"lastUsedAt,omitempty"`
}

// Suggestion is a completion candidate mined from record data or the static
// domain vocabulary. Category labels the source: "location", "category" or
// "keyword".
type Suggestion struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// Notification frequencies.
const (
	FrequencyImmediate = "immediate"
	FrequencyDaily     = "daily"
	FrequencyWeekly    = "weekly"
)

// NotificationPreference stores a subscriber's notification settings, keyed
// by email.
type NotificationPreference struct {
	Email      string    `json:"email"`
	Locations  []string  `json:"locations,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	Frequency  string    `json:"frequency"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
