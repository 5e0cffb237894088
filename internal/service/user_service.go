package service

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/target-saas/study-tracker-api/internal/models"
	"github.com/target-saas/study-tracker-api/pkg/config"
	appErrors "github.com/target-saas/study-tracker-api/pkg/errors"
)

// UserAdminRepository describes the persistence operations the user service needs.
type UserAdminRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	ListApprovedTeachers(ctx context.Context) ([]models.User, error)
	Approve(ctx context.Context, id string) error
	UpdatePassword(ctx context.Context, id, passwordHash string, needsChange bool) error
	RevokeUserRefreshTokens(ctx context.Context, userID string) error
}

// OverviewRepository exposes the aggregates the admin dashboard needs.
type OverviewRepository interface {
	PlatformTotalMinutes(ctx context.Context) (int, error)
}

// ActiveSessionLister exposes the open-session monitoring query.
type ActiveSessionLister interface {
	ListActive(ctx context.Context) ([]models.ActiveSessionDetail, error)
}

// UserService implements the admin-facing account operations.
type UserService struct {
	repo      UserAdminRepository
	overview  OverviewRepository
	sessions  ActiveSessionLister
	adminCfg  config.AdminConfig
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(repo UserAdminRepository, overview OverviewRepository, sessions ActiveSessionLister, adminCfg config.AdminConfig, logger *zap.Logger) *UserService {
	return &UserService{
		repo:     repo,
		overview: overview,
		sessions: sessions,
		adminCfg: adminCfg,
		logger:   logger,
	}
}

// List returns users matching the filter, with pagination metadata.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return users, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Approve marks a pending account as approved. Approving an already
// approved account is a no-op.
func (s *UserService) Approve(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	if !user.IsApproved {
		if err := s.repo.Approve(ctx, userID); err != nil {
			return nil, err
		}
		user.IsApproved = true
		s.logger.Info("user approved", zap.String("user_id", userID))
	}
	return user, nil
}

// ResetPassword sets the account back to the configured default password and
// forces a change on next login. Every refresh token is revoked.
func (s *UserService) ResetPassword(ctx context.Context, userID string) error {
	if _, err := s.repo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(s.adminCfg.ResetPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, userID, string(hash), true); err != nil {
		return err
	}
	if err := s.repo.RevokeUserRefreshTokens(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("password reset by admin", zap.String("user_id", userID))
	return nil
}

// ListTeachers returns approved teachers a student can request mentorship from.
func (s *UserService) ListTeachers(ctx context.Context) ([]models.User, error) {
	return s.repo.ListApprovedTeachers(ctx)
}

// Overview assembles the admin dashboard counters.
func (s *UserService) Overview(ctx context.Context) (*models.AdminOverview, error) {
	_, total, err := s.repo.List(ctx, models.UserFilter{Page: 1, PageSize: 1})
	if err != nil {
		return nil, err
	}

	pendingFlag := false
	_, pending, err := s.repo.List(ctx, models.UserFilter{Approved: &pendingFlag, Page: 1, PageSize: 1})
	if err != nil {
		return nil, err
	}

	active, err := s.sessions.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	minutes, err := s.overview.PlatformTotalMinutes(ctx)
	if err != nil {
		return nil, err
	}

	return &models.AdminOverview{
		TotalUsers:         total,
		PendingApprovals:   pending,
		ActiveSessions:     len(active),
		PlatformTotalHours: math.Round(float64(minutes)/60*10) / 10,
	}, nil
}

// MonitorActiveSessions lists every open session with its owner.
func (s *UserService) MonitorActiveSessions(ctx context.Context) ([]models.ActiveSessionDetail, error) {
	return s.sessions.ListActive(ctx)
}
