package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/strcomply/strcomply/internal/model"
	"github.com/strcomply/strcomply/internal/store"
)

var frequencies = map[string]struct{}{
	model.FrequencyImmediate: {},
	model.FrequencyDaily:     {},
	model.FrequencyWeekly:    {},
}

// PreferenceService manages notification subscriptions, keyed by email.
type PreferenceService struct {
	store store.Store
}

func NewPreferenceService(s store.Store) *PreferenceService {
	return &PreferenceService{store: s}
}

// Put creates or replaces the preference for p.Email. Frequency defaults to
// weekly when omitted.
func (s *PreferenceService) Put(ctx context.Context, p *model.NotificationPreference) (*model.NotificationPreference, error) {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", model.ErrValidation)
	}
	if p.Frequency == "" {
		p.Frequency = model.FrequencyWeekly
	}
	if _, ok := frequencies[p.Frequency]; !ok {
		return nil, fmt.Errorf("%w: invalid frequency %q", model.ErrValidation, p.Frequency)
	}
	return s.store.Preferences().Upsert(ctx, p)
}

func (s *PreferenceService) Get(ctx context.Context, email string) (*model.NotificationPreference, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return s.store.Preferences().GetByEmail(ctx, email)
}
