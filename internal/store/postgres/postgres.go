package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/strcomply/strcomply/internal/model"
	"github.com/strcomply/strcomply/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Regulations() store.Regulations     { return &regulations{db: s.db} }
func (s *pgStore) Updates() store.Updates             { return &updates{db: s.db} }
func (s *pgStore) SavedSearches() store.SavedSearches { return &savedSearches{db: s.db} }
func (s *pgStore) Preferences() store.Preferences     { return &preferences{db: s.db} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Bootstrap verifies connectivity and creates the catalog tables if they do
// not exist. Deployments that run their own migrations get no-op DDL here.
func Bootstrap(ctx context.Context, dsn string) error {
	if dsn == "" {
		return nil // No DSN configured, skip bootstrap
	}

	db, err := Open(dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return EnsureSchema(ctx, db)
}

// EnsureSchema creates the catalog tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS regulations (
            id UUID PRIMARY KEY,
            title TEXT NOT NULL,
            jurisdiction_level TEXT NOT NULL,
            location TEXT NOT NULL,
            category TEXT NOT NULL,
            compliance_level TEXT NOT NULL,
            requirements TEXT NOT NULL,
            source_url TEXT,
            last_updated TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS regulations_last_updated_idx ON regulations(last_updated)`,
		`CREATE TABLE IF NOT EXISTS updates (
            id UUID PRIMARY KEY,
            title TEXT NOT NULL,
            jurisdiction_level TEXT NOT NULL,
            location TEXT NOT NULL,
            category TEXT NOT NULL,
            impact_level TEXT NOT NULL,
            description TEXT NOT NULL,
            source_url TEXT,
            update_date TIMESTAMPTZ NOT NULL
        )`,
		`CREATE INDEX IF NOT EXISTS updates_update_date_idx ON updates(update_date)`,
		`CREATE TABLE IF NOT EXISTS saved_searches (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT,
            criteria JSONB NOT NULL,
            is_public BOOLEAN NOT NULL DEFAULT FALSE,
            created_at TIMESTAMPTZ NOT NULL,
            last_used_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS notification_preferences (
            email TEXT PRIMARY KEY,
            locations JSONB,
            categories JSONB,
            frequency TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL
        )`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (s *pgStore) DistinctValues(ctx context.Context, field string) ([]string, error) {
	var col string
	switch field {
	case store.FieldLocation:
		col = "location"
	case store.FieldCategory:
		col = "category"
	default:
		return nil, fmt.Errorf("unsupported distinct field: %s", field)
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
        SELECT v FROM (
            SELECT %s AS v FROM regulations
            UNION ALL
            SELECT %s AS v FROM updates
        ) vals WHERE v <> '' GROUP BY v ORDER BY COUNT(*) DESC, v ASC
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
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    `, out.ID, out.Title, out.JurisdictionLevel, out.Location, out.Category, out.ComplianceLevel, out.Requirements, out.SourceURL, out.LastUpdated)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *regulations) GetByID(ctx context.Context, id string) (*model.Regulation, error) {
	var m model.Regulation
	row := r.db.QueryRowContext(ctx, `SELECT `+regulationCols+` FROM regulations WHERE id=$1`, id)
	if err := row.Scan(&m.ID, &m.Title, &m.JurisdictionLevel, &m.Location, &m.Category, &m.ComplianceLevel, &m.Requirements, &m.SourceURL, &m.LastUpdated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *regulations) Update(ctx context.Context, m *model.Regulation) (*model.Regulation, error) {
	out := *m
	if out.LastUpdated.IsZero() {
		out.LastUpdated = time.Now()
	}
	out.LastUpdated = out.LastUpdated.UTC()
	res, err := r.db.ExecContext(ctx, `
        UPDATE regulations SET title=$1, jurisdiction_level=$2, location=$3, category=$4,
            compliance_level=$5, requirements=$6, source_url=$7, last_updated=$8
        WHERE id=$9
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM regulations WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *regulations) Search(ctx context.Context, c model.FilterCriteria) ([]*model.Regulation, error) {
	query, args := store.BuildSearchQuery(regulationCols, store.RegulationColumns(), c, store.Dollar)
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
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    `, out.ID, out.Title, out.JurisdictionLevel, out.Location, out.Category, out.ImpactLevel, out.Description, out.SourceURL, out.UpdateDate)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *updates) GetByID(ctx context.Context, id string) (*model.Update, error) {
	var m model.Update
	row := u.db.QueryRowContext(ctx, `SELECT `+updateCols+` FROM updates WHERE id=$1`, id)
	if err := row.Scan(&m.ID, &m.Title, &m.JurisdictionLevel, &m.Location, &m.Category, &m.ImpactLevel, &m.Description, &m.SourceURL, &m.UpdateDate); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (u *updates) Update(ctx context.Context, m *model.Update) (*model.Update, error) {
	out := *m
	if out.UpdateDate.IsZero() {
		out.UpdateDate = time.Now()
	}
	out.UpdateDate = out.UpdateDate.UTC()
	res, err := u.db.ExecContext(ctx, `
        UPDATE updates SET title=$1, jurisdiction_level=$2, location=$3, category=$4,
            impact_level=$5, description=$6, source_url=$7, update_date=$8
        WHERE id=$9
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
	res, err := u.db.ExecContext(ctx, `DELETE FROM updates WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (u *updates) Search(ctx context.Context, c model.FilterCriteria) ([]*model.Update, error) {
	query, args := store.BuildSearchQuery(updateCols, store.UpdateColumns(), c, store.Dollar)
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
        VALUES ($1,$2,$3,$4,$5,$6,NULL)
    `, out.ID, out.Name, out.Description, criteriaJSON, out.IsPublic, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	out.LastUsedAt = nil
	return &out, nil
}

func (s *savedSearches) GetByID(ctx context.Context, id string) (*model.SavedSearch, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, name, description, criteria, is_public, created_at, last_used_at
        FROM saved_searches WHERE id=$1
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
	res, err := s.db.ExecContext(ctx, `UPDATE saved_searches SET last_used_at=$1 WHERE id=$2`, usedAt.UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *savedSearches) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_searches WHERE id=$1`, id)
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
		criteriaJSON []byte
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
	if err := json.Unmarshal(criteriaJSON, &m.Criteria); err != nil {
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
	_, err := p.db.ExecContext(ctx, `
        INSERT INTO notification_preferences (email, locations, categories, frequency, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$5)
        ON CONFLICT (email) DO UPDATE SET
            locations=EXCLUDED.locations,
            categories=EXCLUDED.categories,
            frequency=EXCLUDED.frequency,
            updated_at=EXCLUDED.updated_at
    `, out.Email, locJSON, catJSON, out.Frequency, now)
	if err != nil {
		return nil, err
	}
	return p.GetByEmail(ctx, out.Email)
}

func (p *preferences) GetByEmail(ctx context.Context, email string) (*model.NotificationPreference, error) {
	var (
		m       model.NotificationPreference
		locJSON []byte
		catJSON []byte
	)
	row := p.db.QueryRowContext(ctx, `
        SELECT email, locations, categories, frequency, created_at, updated_at
        FROM notification_preferences WHERE email=$1
    `, email)
	if err := row.Scan(&m.Email, &locJSON, &catJSON, &m.Frequency, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, err
	}
	if len(locJSON) > 0 {
		_ = json.Unmarshal(locJSON, &m.Locations)
	}
	if len(catJSON) > 0 {
		_ = json.Unmarshal(catJSON, &m.Categories)
	}
	return &m, nil
}
