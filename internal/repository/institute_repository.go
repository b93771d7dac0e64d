package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campushq/institute-portal-api/internal/models"
	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
)

// InstituteRepository persists institute documents as JSONB blobs keyed by code.
type InstituteRepository struct {
	db *sqlx.DB
}

// NewInstituteRepository creates a new repository instance.
func NewInstituteRepository(db *sqlx.DB) *InstituteRepository {
	return &InstituteRepository{db: db}
}

// EnsureSchema creates the institutes table when it does not exist yet.
func (r *InstituteRepository) EnsureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS institutes (
			code       TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure institutes schema: %w", err)
	}
	return nil
}

type instituteRow struct {
	Code      string    `db:"code"`
	Data      []byte    `db:"data"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Load fetches the full institute document for a code.
func (r *InstituteRepository) Load(ctx context.Context, code string) (*models.Institute, error) {
	const query = `SELECT code, data, updated_at FROM institutes WHERE code = $1`
	var row instituteRow
	if err := r.db.GetContext(ctx, &row, query, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.ErrNotFound
		}
		return nil, fmt.Errorf("load institute %s: %w", code, err)
	}

	var institute models.Institute
	if err := json.Unmarshal(row.Data, &institute); err != nil {
		return nil, fmt.Errorf("decode institute %s: %w", code, err)
	}
	institute.Code = row.Code
	return &institute, nil
}

// Save upserts the full institute document. Last write wins.
func (r *InstituteRepository) Save(ctx context.Context, institute *models.Institute) error {
	payload, err := json.Marshal(institute)
	if err != nil {
		return fmt.Errorf("encode institute %s: %w", institute.Code, err)
	}

	const query = `
		INSERT INTO institutes (code, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (code) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, institute.Code, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("save institute %s: %w", institute.Code, err)
	}
	return nil
}

// Delete removes an institute document.
func (r *InstituteRepository) Delete(ctx context.Context, code string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM institutes WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("delete institute %s: %w", code, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return appErrors.ErrNotFound
	}
	return nil
}

// Exists checks whether an institute code is already registered.
func (r *InstituteRepository) Exists(ctx context.Context, code string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM institutes WHERE code = $1 LIMIT 1`, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check institute %s: %w", code, err)
	}
	return true, nil
}

// ListCodes returns all registered institute codes in insertion order.
func (r *InstituteRepository) ListCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.SelectContext(ctx, &codes, `SELECT code FROM institutes ORDER BY updated_at ASC, code ASC`); err != nil {
		return nil, fmt.Errorf("list institutes: %w", err)
	}
	return codes, nil
}
