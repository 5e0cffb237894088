package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/target-saas/study-tracker-api/internal/models"
)

// LicenseRepository manages persistence for licenses.
type LicenseRepository struct {
	db *sqlx.DB
}

// NewLicenseRepository constructs a LicenseRepository.
func NewLicenseRepository(db *sqlx.DB) *LicenseRepository {
	return &LicenseRepository{db: db}
}

// Create inserts a new license.
func (r *LicenseRepository) Create(ctx context.Context, license *models.License) error {
	if license.ID == "" {
		license.ID = uuid.NewString()
	}
	if license.CreatedAt.IsZero() {
		license.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO licenses (id, license_key, student_limit, valid_until, created_at)
        VALUES (:id, :license_key, :student_limit, :valid_until, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, license); err != nil {
		return fmt.Errorf("create license: %w", err)
	}
	return nil
}

// List returns every license, newest first.
func (r *LicenseRepository) List(ctx context.Context) ([]models.License, error) {
	const query = `SELECT id, license_key, student_limit, valid_until, created_at FROM licenses ORDER BY created_at DESC`
	var licenses []models.License
	if err := r.db.SelectContext(ctx, &licenses, query); err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}
	return licenses, nil
}
