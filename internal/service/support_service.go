package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/target-saas/study-tracker-api/internal/models"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
)

// SupportRepository describes the persistence of support messages.
type SupportRepository interface {
	Create(ctx context.Context, msg *models.SupportMessage) error
	List(ctx context.Context) ([]models.SupportMessageDetail, error)
	MarkRead(ctx context.Context, id string) error
}

// SupportService implements the user-to-admin inbox.
type SupportService struct {
	repo     SupportRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewSupportService constructs a SupportService.
func NewSupportService(repo SupportRepository, logger *zap.Logger) *SupportService {
	return &SupportService{
		repo:     repo,
		validate: validator.New(),
		logger:   logger,
	}
}

// Send records a message in the admin inbox.
func (s *SupportService) Send(ctx context.Context, userID string, req models.SupportMessageRequest) (*models.SupportMessage, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	msg := &models.SupportMessage{
		UserID:  userID,
		Content: req.Content,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.logger.Info("support message sent", zap.String("message_id", msg.ID))
	return msg, nil
}

// List returns the full inbox with sender identities, newest first.
func (s *SupportService) List(ctx context.Context) ([]models.SupportMessageDetail, error) {
	return s.repo.List(ctx)
}

// MarkRead flags a message as handled.
func (s *SupportService) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}
