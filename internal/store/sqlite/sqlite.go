package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/strcomply/strcomply/internal/model"
	"github.com/strcomply/strcomply/internal/store"
)

// New opens (or creates) a SQLite-backed store at the given path.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB constructs a SQLite store from an existing connection.
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Regulations() store.Regulations     { return &regulations{db: s.db} }
func (s *sqliteStore) Updates() store.Updates             { return &updates{db: s.db} }
func (s *sqliteStore) SavedSearches() store.SavedSearches { return &savedSearches{db: s.db} }
func (s *sqliteStore) Preferences() store.Preferences     { return &preferences{db: s.db} }

// HealthPing implements health.HealthPinger for the SQLite-backed store.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqliteStore) DistinctValues(ctx context.Context, field string) ([]string, error) {
	col, err := distinctColumn(field)
	if err != nil {
		return nil, err
	}
	return queryDistinct(ctx, s.db, col)
}

func distinctColumn(field string) (string, error) {
	switch field {
	case store.FieldLocation:
		return "location", nil
	case store.FieldCategory:
		return "category", nil
	}
	return "", fmt.Errorf("unsupported distinct field: %s", field)
}

func queryDistinct(ctx context.Context, db *sql.DB, col string) ([]string, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`
        SELECT v FROM (
            SELECT %s AS v FROM regulations
            UNION ALL
            SELECT %s AS v FROM updates
        ) WHERE v <> '' GROUP BY v ORDER BY COUNT(*) DESC, v ASC
    `, col, col))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// --- Regulations ---
type regulations struct{ db *sql.DB }

const regulationCols = "id, title, jurisdiction_level, location, category, compliance_level, requirements, source_url, last_updated"

func (r *regulations) Create(ctx context.Context, m *model.Regulation) (*model.Regulation, error) {
	out := *m
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	if out.LastUpdated.IsZero() {
		out.LastUpdated = time.Now()
	}
	out.LastUpdated = out.LastUpdated.UTC()
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO regulations (`+regulationCols+`)
        VALUES (?,?,?,?,?,?,?,?,?)
    `, out.ID, out.Title, out.JurisdictionLevel, out.Location, out.Category, out.ComplianceLevel, out.Requirements, out.SourceURL, out.LastUpdated)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *regulations) GetByID(ctx context.Context, id string) (*model.Regulation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+regulationCols+` FROM regulations WHERE id=?`, id)
	return scanRegulation(row)
}

func (r *regulations) Update(ctx context.Context, m *model.Regulation) (*model.Regulation, error) {
	out := *m
	if out.LastUpdated.IsZero() {
		out.LastUpdated = time.Now()
	}
	out.LastUpdated = out.LastUpdated.UTC()
	res, err := r.db.ExecContext(ctx, `
        UPDATE regulations SET title=?, jurisdiction_level=?, location=?, category=?,
            compliance_level=?, requirements=?, source_url=?, last_updated=?
        WHERE id=?
    `, out.Title, out.JurisdictionLevel, out.Location, out.Category, out.ComplianceLevel, out.Requirements, out.SourceURL, out.LastUpdated, out.ID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return &out, nil
}

func (r *regulations) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM regulations WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *regulations) Search(ctx context.Context, c model.FilterCriteria) ([]*model.Regulation, error) {
	query, args := store.BuildSearchQuery(regulationCols, store.RegulationColumns(), c, store.QuestionMark)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Regulation
	for rows.Next() {
		var m model.Regulation
		if err := rows.Scan(&m.ID, &m.Title, &m.JurisdictionLevel, &m.Location, &m.Category, &m.ComplianceLevel, &m.Requirements, &m.SourceURL, &m.LastUpdated); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func scanRegulation(row *sql.Row) (*model.Regulation, error) {
	var m model.Regulation
	if err := row.Scan(&m.ID, &m.Title, &m.JurisdictionLevel, &m.Location, &m.Category, &m.ComplianceLevel, &m.Requirements, &m.SourceURL, &m.LastUpdated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// --- Updates ---
type updates struct{ db *sql.DB }

const updateCols = "id, title, jurisdiction_level, location, category, impact_level, description, source_url, update_date"

func (u *updates) Create(ctx context.Context, m *model.Update) (*model.Update, error) {
	out := *m
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	if out.UpdateDate.IsZero() {
		out.UpdateDate = time.Now()
	}
	out.UpdateDate = out.UpdateDate.UTC()
	_, err := u.db.ExecContext(ctx, `
        INSERT INTO updates (`+updateCols+`)
        VALUES (?,?,?,?,?,?,?,?,?)
    `, out.ID, out.Title, out.JurisdictionLevel, out.Location, out.Category, out.ImpactLevel, out.Description, out.SourceURL, out.UpdateDate)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *updates) GetByID(ctx context.Context, id string) (*model.Update, error) {
	row := u.db.QueryRowContext(ctx, `SELECT `+updateCols+` FROM updates WHERE id=?`, id)
	return scanUpdate(row)
}

func (u *updates) Update(ctx context.Context, m *model.Update) (*model.Update, error) {
	out := *m
	if out.UpdateDate.IsZero() {
		out.UpdateDate = time.Now()
	}
	out.UpdateDate = out.UpdateDate.UTC()
	res, err := u.db.ExecContext(ctx, `
        UPDATE updates SET title=?, jurisdiction_level=?, location=?, category=?,
            impact_level=?, description=?, source_url=?, update_date=?
        WHERE id=?
    `, out.Title, out.JurisdictionLevel, out.Location, out.Category, out.ImpactLevel, out.Description, out.SourceURL, out.UpdateDate, out.ID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	return &out, nil
}

func (u *updates) Delete(ctx context.Context, id string) error {
	res, err := u.db.ExecContext(ctx, `DELETE FROM updates WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (u *updates) Search(ctx context.Context, c model.FilterCriteria) ([]*model.Update, error) {
	query, args := store.BuildSearchQuery(updateCols, store.UpdateColumns(), c, store.QuestionMark)
	rows, err := u.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Update
	for rows.Next() {
		var m model.Update
		if err := rows.Scan(&m.ID, &m.Title, &m.JurisdictionLevel, &m.Location, &m.Category, &m.ImpactLevel, &m.Description, &m.SourceURL, &m.UpdateDate); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func scanUpdate(row *sql.Row) (*model.Update, error) {
	var m model.Update
	if err := row.Scan(&m.ID, &m.Title, &m.JurisdictionLevel, &m.Location, &m.Category, &m.ImpactLevel, &m.Description, &m.SourceURL, &m.UpdateDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// --- SavedSearches ---
type savedSearches struct{ db *sql.DB }

func (s *savedSearches) Create(ctx context.Context, m *model.SavedSearch) (*model.SavedSearch, error) {
	out := *m
	if out.ID == "" {
		out.ID = uuid.New().String()
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now()
	}
	out.CreatedAt = out.CreatedAt.UTC()
	criteriaJSON, err := json.Marshal(out.Criteria)
	if err != nil {
		return nil, err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO saved_searches (id, name, description, criteria, is_public, created_at, last_used_at)
        VALUES (?,?,?,?,?,?,NULL)
    `, out.ID, out.Name, out.Description, string(criteriaJSON), out.IsPublic, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	out.LastUsedAt = nil
	return &out, nil
}

func (s *savedSearches) GetByID(ctx context.Context, id string) (*model.SavedSearch, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, name, description, criteria, is_public, created_at, last_used_at
        FROM saved_searches WHERE id=?
    `, id)
	return scanSavedSearch(row.Scan)
}

func (s *savedSearches) List(ctx context.Context, publicOnly bool) ([]*model.SavedSearch, error) {
	query := `SELECT id, name, description, criteria, is_public, created_at, last_used_at FROM saved_searches`
	if publicOnly {
		query += ` WHERE is_public`
	}
	query += ` ORDER BY last_used_at DESC NULLS LAST, created_at DESC, id ASC`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []*model.SavedSearch
	for rows.Next() {
		m, err := scanSavedSearch(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *savedSearches) TouchLastUsed(ctx context.Context, id string, usedAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `UPDATE saved_searches SET last_used_at=? WHERE id=?`, usedAt.UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *savedSearches) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_searches WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanSavedSearch(scan func(...interface{}) error) (*model.SavedSearch, error) {
	var (
		m            model.SavedSearch
		criteriaJSON string
		desc         sql.NullString
		lastUsed     sql.NullTime
	)
	if err := scan(&m.ID, &m.Name, &desc, &criteriaJSON, &m.IsPublic, &m.CreatedAt, &lastUsed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	if desc.Valid {
		m.Description = desc.String
	}
	if lastUsed.Valid {
		t := lastUsed.Time
		m.LastUsedAt = &t
	}
	// Unknown or missing snapshot fields decode as "not set".
	if err := json.Unmarshal([]byte(criteriaJSON), &m.Criteria); err != nil {
		return nil, fmt.Errorf("saved search %s: bad criteria snapshot: %w", m.ID, err)
	}
	return &m, nil
}

// --- Preferences ---
type preferences struct{ db *sql.DB }

func (p *preferences) Upsert(ctx context.Context, m *model.NotificationPreference) (*model.NotificationPreference, error) {
	out := *m
	now := time.Now().UTC()
	if out.Frequency == "" {
		out.Frequency = model.FrequencyWeekly
	}
	locJSON, _ := json.Marshal(out.Locations)
	catJSON, _ := json.Marshal(out.Categories)
	out.UpdatedAt = now
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO notification_preferences (email, locations, categories, frequency, created_at, updated_at)
        VALUES (?,?,?,?,?,?)
        ON CONFLICT(email) DO UPDATE SET
            locations=excluded.locations,
            categories=excluded.categories,
            frequency=excluded.frequency,
            updated_at=excluded.updated_at
    `, out.Email, string(locJSON), string(catJSON), out.Frequency, now, now)
	if err != nil {
		return nil, err
	}
	return p.GetByEmail(ctx, out.Email)
}

func (p *preferences) GetByEmail(ctx context.Context, email string) (*model.NotificationPreference, error) {
	var (
		m       model.NotificationPreference
		locJSON sql.NullString
		catJSON sql.NullString
	)
	row := p.db.QueryRowContext(ctx, `
        SELECT email, locations, categories, frequency, created_at, updated_at
        FROM notification_preferences WHERE email=?
    `, email)
	if err := row.Scan(&m.Email, &locJSON, &catJSON, &m.Frequency, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	if locJSON.Valid {
		_ = json.Unmarshal([]byte(locJSON.String), &m.Locations)
	}
	if catJSON.Valid {
		_ = json.Unmarshal([]byte(catJSON.String), &m.Categories)
	}
	return &m, nil
}
