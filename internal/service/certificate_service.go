package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/target-saas/study-tracker-api/internal/models"
	"github.com/target-saas/study-tracker-api/pkg/config"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
	"github.com/target-saas/study-tracker-api/pkg/export"
)

// CertificateRepository describes the persistence of the certificate ledger.
type CertificateRepository interface {
	Create(ctx context.Context, cert *models.Certificate) error
	FindByCode(ctx context.Context, code string) (*models.Certificate, error)
	FindByID(ctx context.Context, id string) (*models.Certificate, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Certificate, error)
}

// UserLookup resolves account identity for certificate rendering.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// HoursProvider supplies a student's accumulated hours at issue time.
type HoursProvider interface {
	TotalHours(ctx context.Context, studentID string) (float64, error)
}

// CertificateStorage persists rendered PDFs.
type CertificateStorage interface {
	Save(filename string, data []byte) (string, error)
	Path(filename string) string
}

// CertificateService issues, registers and verifies certificates.
type CertificateService struct {
	repo     CertificateRepository
	users    UserLookup
	hours    HoursProvider
	storage  CertificateStorage
	renderer *export.CertificateRenderer
	cfg      config.CertificatesConfig
	metrics  *MetricsService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCertificateService constructs a CertificateService.
func NewCertificateService(repo CertificateRepository, users UserLookup, hours HoursProvider, storage CertificateStorage, renderer *export.CertificateRenderer, cfg config.CertificatesConfig, metrics *MetricsService, logger *zap.Logger) *CertificateService {
	return &CertificateService{
		repo:     repo,
		users:    users,
		hours:    hours,
		storage:  storage,
		renderer: renderer,
		cfg:      cfg,
		metrics:  metrics,
		validate: validator.New(),
		logger:   logger,
	}
}

// Generate issues a platform certificate snapshotting the student's current
// total hours. Students below one full hour are ineligible.
func (s *CertificateService) Generate(ctx context.Context, studentID string) (*models.Certificate, error) {
	user, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}

	hours, err := s.hours.TotalHours(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if hours < 1.0 {
		return nil, appErrors.ErrIneligible
	}

	code := uuid.NewString()
	objective := ""
	if user.StudyObjective != nil {
		objective = *user.StudyObjective
	}

	pdf, err := s.renderer.Render(export.CertificateData{
		StudentName:      user.Name,
		TotalHours:       hours,
		Objective:        objective,
		VerificationCode: code,
		VerifyURL:        fmt.Sprintf("%s/%s", s.cfg.VerifyBaseURL, code),
		IssuerName:       s.cfg.IssuerName,
	})
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("certificate_%s.pdf", code)
	if _, err := s.storage.Save(filename, pdf); err != nil {
		return nil, err
	}

	cert := &models.Certificate{
		StudentID:        studentID,
		VerificationCode: code,
		TotalHours:       hours,
		PDFPath:          &filename,
	}
	if err := s.repo.Create(ctx, cert); err != nil {
		return nil, err
	}

	s.metrics.CertificateIssued()
	s.logger.Info("certificate issued",
		zap.String("certificate_id", cert.ID),
		zap.String("student_id", studentID),
		zap.Float64("total_hours", hours))
	return cert, nil
}

// RegisterExternal records a certificate earned outside the platform. No PDF
// is rendered; the record is still publicly verifiable.
func (s *CertificateService) RegisterExternal(ctx context.Context, studentID string, req models.ExternalCertificateRequest) (*models.Certificate, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	issuer := req.Issuer
	cert := &models.Certificate{
		StudentID:        studentID,
		VerificationCode: uuid.NewString(),
		TotalHours:       math.Round(req.TotalHours*10) / 10,
		IsExternal:       true,
		ExternalIssuer:   &issuer,
	}
	if err := s.repo.Create(ctx, cert); err != nil {
		return nil, err
	}

	s.metrics.CertificateIssued()
	s.logger.Info("external certificate registered",
		zap.String("certificate_id", cert.ID),
		zap.String("student_id", studentID))
	return cert, nil
}

// Verify resolves a verification code into the public certificate view.
// This endpoint is unauthenticated; it exposes no account identifiers.
func (s *CertificateService) Verify(ctx context.Context, code string) (*models.CertificateVerification, error) {
	cert, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
		}
		return nil, err
	}

	user, err := s.users.FindByID(ctx, cert.StudentID)
	if err != nil {
		return nil, err
	}

	return &models.CertificateVerification{
		VerificationCode: cert.VerificationCode,
		StudentName:      user.Name,
		TotalHours:       cert.TotalHours,
		IssueDate:        cert.IssueDate,
		IsExternal:       cert.IsExternal,
		ExternalIssuer:   cert.ExternalIssuer,
	}, nil
}

// Download returns the on-disk path of the certificate PDF. Only the owner
// may download.
func (s *CertificateService) Download(ctx context.Context, studentID, certificateID string) (string, error) {
	cert, err := s.repo.FindByID(ctx, certificateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.ErrNotFound
		}
		return "", err
	}
	if cert.StudentID != studentID {
		return "", appErrors.ErrForbidden
	}
	if cert.PDFPath == nil {
		return "", appErrors.Clone(appErrors.ErrNotFound, "certificate has no stored document")
	}
	return s.storage.Path(*cert.PDFPath), nil
}

// ListForStudent returns the student's certificates, newest first.
func (s *CertificateService) ListForStudent(ctx context.Context, studentID string) ([]models.Certificate, error) {
	return s.repo.ListByStudent(ctx, studentID)
}
