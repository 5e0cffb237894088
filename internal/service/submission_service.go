package service

import (
	"context"
	"io"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/target-saas/study-tracker-api/internal/models"
	"github.com/target-saas/study-tracker-api/pkg/config"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
	"github.com/target-saas/study-tracker-api/pkg/storage"
)

// SubmissionRepository describes the persistence operations for submissions.
type SubmissionRepository interface {
	Create(ctx context.Context, sub *models.Submission) error
	ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error)
}

// UploadStorage persists uploaded submission files.
type UploadStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Path(filename string) string
}

// SubmissionService implements study-evidence submissions.
type SubmissionService struct {
	repo     SubmissionRepository
	storage  UploadStorage
	cfg      config.UploadsConfig
	validate *validator.Validate
	logger   *zap.Logger
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(repo SubmissionRepository, store UploadStorage, cfg config.UploadsConfig, logger *zap.Logger) *SubmissionService {
	return &SubmissionService{
		repo:     repo,
		storage:  store,
		cfg:      cfg,
		validate: validator.New(),
		logger:   logger,
	}
}

// SubmitFile validates and stores an uploaded file as study evidence. The
// extension allow-list and the size cap both gate the upload.
func (s *SubmissionService) SubmitFile(ctx context.Context, studentID, originalName string, size int64, r io.Reader, description *string) (*models.Submission, error) {
	if !storage.ExtensionAllowed(originalName, s.cfg.AllowedExtensions) {
		return nil, appErrors.ErrFileType
	}
	if size > s.cfg.MaxFileSizeBytes {
		return nil, appErrors.ErrFileTooLarge
	}

	stored, err := s.storage.SaveStream(storage.UploadName(studentID, originalName), r)
	if err != nil {
		return nil, err
	}

	sub := &models.Submission{
		StudentID:   studentID,
		Type:        models.SubmissionFile,
		Content:     stored,
		Description: description,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("file submitted",
		zap.String("submission_id", sub.ID),
		zap.String("student_id", studentID))
	return sub, nil
}

// SubmitLink records an external URL as study evidence.
func (s *SubmissionService) SubmitLink(ctx context.Context, studentID string, req models.LinkSubmissionRequest) (*models.Submission, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	sub := &models.Submission{
		StudentID:   studentID,
		Type:        models.SubmissionLink,
		Content:     req.URL,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("link submitted",
		zap.String("submission_id", sub.ID),
		zap.String("student_id", studentID))
	return sub, nil
}

// ListForStudent returns the student's submissions, newest first.
func (s *SubmissionService) ListForStudent(ctx context.Context, studentID string) ([]models.Submission, error) {
	return s.repo.ListByStudent(ctx, studentID)
}
