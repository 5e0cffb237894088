package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/target-saas/study-tracker-api/internal/models"
	"github.com/target-saas/study-tracker-api/pkg/config"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
)

// LicenseRepository describes the persistence of licenses.
type LicenseRepository interface {
	Create(ctx context.Context, license *models.License) error
	List(ctx context.Context) ([]models.License, error)
}

// LicenseService implements institutional license issuance.
type LicenseService struct {
	repo     LicenseRepository
	cfg      config.AdminConfig
	validate *validator.Validate
	logger   *zap.Logger
}

// NewLicenseService constructs a LicenseService.
func NewLicenseService(repo LicenseRepository, cfg config.AdminConfig, logger *zap.Logger) *LicenseService {
	return &LicenseService{
		repo:     repo,
		cfg:      cfg,
		validate: validator.New(),
		logger:   logger,
	}
}

// Issue creates a license with a generated key valid for the configured
// period. The key is the first eight characters of a UUID, uppercased.
func (s *LicenseService) Issue(ctx context.Context, req models.IssueLicenseRequest) (*models.License, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	license := &models.License{
		LicenseKey:   strings.ToUpper(uuid.NewString()[:8]),
		StudentLimit: req.StudentLimit,
		ValidUntil:   time.Now().UTC().Add(s.cfg.LicenseValidity),
	}
	if err := s.repo.Create(ctx, license); err != nil {
		return nil, err
	}

	s.logger.Info("license issued",
		zap.String("license_id", license.ID),
		zap.Int("student_limit", license.StudentLimit))
	return license, nil
}

// List returns every issued license, newest first.
func (s *LicenseService) List(ctx context.Context) ([]models.License, error) {
	return s.repo.List(ctx)
}
