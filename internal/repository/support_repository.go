package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/target-saas/study-tracker-api/internal/models"
)

// SupportRepository manages persistence for support messages.
type SupportRepository struct {
	db *sqlx.DB
}

// NewSupportRepository constructs a SupportRepository.
func NewSupportRepository(db *sqlx.DB) *SupportRepository {
	return &SupportRepository{db: db}
}

// Create inserts a new support message.
func (r *SupportRepository) Create(ctx context.Context, msg *models.SupportMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO support_messages (id, user_id, content, is_read, created_at)
        VALUES (:id, :user_id, :content, :is_read, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, msg); err != nil {
		return fmt.Errorf("create support message: %w", err)
	}
	return nil
}

// List returns every support message with sender identity, newest first.
func (r *SupportRepository) List(ctx context.Context) ([]models.SupportMessageDetail, error) {
	const query = `SELECT sm.id, sm.user_id, sm.content, sm.is_read, sm.created_at,
        u.name AS user_name, u.email AS user_email
        FROM support_messages sm
        JOIN users u ON u.id = sm.user_id
        ORDER BY sm.created_at DESC`
	var messages []models.SupportMessageDetail
	if err := r.db.SelectContext(ctx, &messages, query); err != nil {
		return nil, fmt.Errorf("list support messages: %w", err)
	}
	return messages, nil
}

// MarkRead flips the read flag on one message.
func (r *SupportRepository) MarkRead(ctx context.Context, id string) error {
	const query = `UPDATE support_messages SET is_read = TRUE WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("mark support message read: %w", err)
	}
	return nil
}
