package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/strcomply/strcomply/internal/model"
	"github.com/strcomply/strcomply/internal/store"
)

var complianceLevels = map[string]struct{}{
	model.ComplianceMandatory:   {},
	model.ComplianceRecommended: {},
	model.ComplianceOptional:    {},
}

var impactLevels = map[string]struct{}{
	model.ImpactHigh:   {},
	model.ImpactMedium: {},
	model.ImpactLow:    {},
}

var jurisdictionLevels = map[string]struct{}{
	model.JurisdictionNational: {},
	model.JurisdictionState:    {},
	model.JurisdictionLocal:    {},
}

// RecordService owns CRUD for the two record kinds. Search goes through the
// engine, not through here.
type RecordService struct {
	store store.Store
}

func NewRecordService(s store.Store) *RecordService {
	return &RecordService{store: s}
}

func (s *RecordService) CreateRegulation(ctx context.Context, r *model.Regulation) (*model.Regulation, error) {
	if err := validateRegulation(r); err != nil {
		return nil, err
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.LastUpdated.IsZero() {
		r.LastUpdated = time.Now().UTC()
	}
	return s.store.Regulations().Create(ctx, r)
}

func (s *RecordService) GetRegulation(ctx context.Context, id string) (*model.Regulation, error) {
	return s.store.Regulations().GetByID(ctx, id)
}

func (s *RecordService) UpdateRegulation(ctx context.Context, r *model.Regulation) (*model.Regulation, error) {
	if err := validateRegulation(r); err != nil {
		return nil, err
	}
	if r.LastUpdated.IsZero() {
		r.LastUpdated = time.Now().UTC()
	}
	return s.store.Regulations().Update(ctx, r)
}

func (s *RecordService) DeleteRegulation(ctx context.Context, id string) error {
	return s.store.Regulations().Delete(ctx, id)
}

func (s *RecordService) CreateUpdate(ctx context.Context, u *model.Update) (*model.Update, error) {
	if err := validateUpdate(u); err != nil {
		return nil, err
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.UpdateDate.IsZero() {
		u.UpdateDate = time.Now().UTC()
	}
	return s.store.Updates().Create(ctx, u)
}

func (s *RecordService) GetUpdate(ctx context.Context, id string) (*model.Update, error) {
	return s.store.Updates().GetByID(ctx, id)
}

func (s *RecordService) UpdateUpdate(ctx context.Context, u *model.Update) (*model.Update, error) {
	if err := validateUpdate(u); err != nil {
		return nil, err
	}
	if u.UpdateDate.IsZero() {
		u.UpdateDate = time.Now().UTC()
	}
	return s.store.Updates().Update(ctx, u)
}

func (s *RecordService) DeleteUpdate(ctx context.Context, id string) error {
	return s.store.Updates().Delete(ctx, id)
}

func validateRegulation(r *model.Regulation) error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if r.Location == "" {
		return fmt.Errorf("%w: location is required", model.ErrValidation)
	}
	if _, ok := jurisdictionLevels[r.JurisdictionLevel]; !ok {
		return fmt.Errorf("%w: invalid jurisdiction level %q", model.ErrValidation, r.JurisdictionLevel)
	}
	if _, ok := complianceLevels[r.ComplianceLevel]; !ok {
		return fmt.Errorf("%w: invalid compliance level %q", model.ErrValidation, r.ComplianceLevel)
	}
	return nil
}

func validateUpdate(u *model.Update) error {
	u.Title = strings.TrimSpace(u.Title)
	if u.Title == "" {
		return fmt.Errorf("%w: title is required", model.ErrValidation)
	}
	if u.Location == "" {
		return fmt.Errorf("%w: location is required", model.ErrValidation)
	}
	if _, ok := jurisdictionLevels[u.JurisdictionLevel]; !ok {
		return fmt.Errorf("%w: invalid jurisdiction level %q", model.ErrValidation, u.JurisdictionLevel)
	}
	if _, ok := impactLevels[u.ImpactLevel]; !ok {
		return fmt.Errorf("%w: invalid impact level %q", model.ErrValidation, u.ImpactLevel)
	}
	return nil
}
