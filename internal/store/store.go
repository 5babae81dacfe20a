package store

import (
	"context"
	"time"

	"github.com/strcomply/strcomply/internal/model"
)

// Distinct-value fields exposed for suggestion mining.
const (
	FieldLocation = "location"
	FieldCategory = "category"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (e.g., postgres, sqlite).
type Store interface {
	Regulations() Regulations
	Updates() Updates
	SavedSearches() SavedSearches
	Preferences() Preferences

	// DistinctValues returns the distinct values of a categorical field
	// across both record kinds, most frequent first. field must be one of
	// FieldLocation or FieldCategory.
	DistinctValues(ctx context.Context, field string) ([]string, error)
}

type Regulations interface {
	Create(ctx context.Context, r *model.Regulation) (*model.Regulation, error)
	GetByID(ctx context.Context, id string) (*model.Regulation, error)
	Update(ctx context.Context, r *model.Regulation) (*model.Regulation, error)
	Delete(ctx context.Context, id string) error
	// Search returns regulations matching the criteria, ordered by
	// last_updated descending with id ascending as the tie-break.
	Search(ctx context.Context, c model.FilterCriteria) ([]*model.Regulation, error)
}

type Updates interface {
	Create(ctx context.Context, u *model.Update) (*model.Update, error)
	GetByID(ctx context.Context, id string) (*model.Update, error)
	Update(ctx context.Context, u *model.Update) (*model.Update, error)
	Delete(ctx context.Context, id string) error
	// Search returns updates matching the criteria, ordered by update_date
	// descending with id ascending as the tie-break. ComplianceLevels in the
	// criteria filter the impact_level column for this kind.
	Search(ctx context.Context, c model.FilterCriteria) ([]*model.Update, error)
}

type SavedSearches interface {
	Create(ctx context.Context, s *model.SavedSearch) (*model.SavedSearch, error)
	GetByID(ctx context.Context, id string) (*model.SavedSearch, error)
	// List returns saved searches ordered most-recently-used first, then by
	// creation time descending for never-used entries. publicOnly restricts
	// the listing to public entries.
	List(ctx context.Context, publicOnly bool) ([]*model.SavedSearch, error)
	// TouchLastUsed records a use of the saved search. Last write wins under
	// concurrent touches.
	TouchLastUsed(ctx context.Context, id string, usedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

type Preferences interface {
	Upsert(ctx context.Context, p *model.NotificationPreference) (*model.NotificationPreference, error)
	GetByEmail(ctx context.Context, email string) (*model.NotificationPreference, error)
}
