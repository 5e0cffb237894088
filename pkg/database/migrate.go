package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Migration is a single schema change identified by a monotonically
// increasing version. Each migration runs in its own transaction; a failure
// aborts startup rather than being swallowed.
type Migration struct {
	Version int
	Name    string
	Up      string
}

// Migrations is the ordered schema history of the application.
var Migrations = []Migration{
	{
		Version: 1,
		Name:    "create_users_and_refresh_tokens",
		Up: `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    email VARCHAR(120) NOT NULL UNIQUE,
    password_hash VARCHAR(255) NOT NULL,
    role VARCHAR(20) NOT NULL,
    photo_url VARCHAR(255),
    study_objective VARCHAR(100),
    search_intent TEXT,
    is_approved BOOLEAN NOT NULL DEFAULT FALSE,
    needs_password_change BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS refresh_tokens (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id),
    token VARCHAR(64) NOT NULL UNIQUE,
    expires_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    revoked BOOLEAN NOT NULL DEFAULT FALSE,
    revoked_at TIMESTAMPTZ,
    ip_address VARCHAR(64),
    user_agent VARCHAR(255)
);`,
	},
	{
		Version: 2,
		Name:    "create_mentorships_and_tasks",
		Up: `
CREATE TABLE IF NOT EXISTS mentorships (
    id UUID PRIMARY KEY,
    student_id UUID NOT NULL REFERENCES users(id),
    teacher_id UUID NOT NULL REFERENCES users(id),
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS assigned_tasks (
    id UUID PRIMARY KEY,
    teacher_id UUID NOT NULL REFERENCES users(id),
    student_id UUID REFERENCES users(id),
    title VARCHAR(200) NOT NULL,
    description TEXT,
    external_link VARCHAR(255),
    attachment_path VARCHAR(255),
    is_completed BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	},
	{
		Version: 3,
		Name:    "create_sessions_and_plans",
		Up: `
CREATE TABLE IF NOT EXISTS study_sessions (
    id UUID PRIMARY KEY,
    student_id UUID NOT NULL REFERENCES users(id),
    task_id UUID REFERENCES assigned_tasks(id),
    subject VARCHAR(100) NOT NULL,
    subtitle VARCHAR(100),
    date DATE NOT NULL,
    start_time TIMESTAMPTZ NOT NULL,
    end_time TIMESTAMPTZ,
    duration_minutes INTEGER NOT NULL DEFAULT 0,
    type VARCHAR(20) NOT NULL,
    is_validated BOOLEAN NOT NULL DEFAULT FALSE,
    completion_comment TEXT,
    completion_file VARCHAR(255),
    completion_link VARCHAR(255),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_study_sessions_student ON study_sessions(student_id);
CREATE TABLE IF NOT EXISTS study_plans (
    id UUID PRIMARY KEY,
    student_id UUID NOT NULL REFERENCES users(id),
    mentor_id UUID NOT NULL REFERENCES users(id),
    target_subject VARCHAR(100) NOT NULL,
    target_hours DOUBLE PRECISION NOT NULL,
    completed_hours DOUBLE PRECISION NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'active',
    deadline TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	},
	{
		Version: 4,
		Name:    "one_active_session_per_student",
		Up: `
CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_session_per_student
    ON study_sessions(student_id) WHERE end_time IS NULL;`,
	},
	{
		Version: 5,
		Name:    "create_certificates_licenses_submissions_support",
		Up: `
CREATE TABLE IF NOT EXISTS certificates (
    id UUID PRIMARY KEY,
    student_id UUID NOT NULL REFERENCES users(id),
    verification_code VARCHAR(36) NOT NULL UNIQUE,
    total_hours DOUBLE PRECISION NOT NULL,
    issue_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    pdf_path VARCHAR(255),
    is_external BOOLEAN NOT NULL DEFAULT FALSE,
    external_issuer VARCHAR(100)
);
CREATE TABLE IF NOT EXISTS licenses (
    id UUID PRIMARY KEY,
    license_key VARCHAR(50) NOT NULL UNIQUE,
    student_limit INTEGER NOT NULL,
    valid_until TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS submissions (
    id UUID PRIMARY KEY,
    student_id UUID NOT NULL REFERENCES users(id),
    type VARCHAR(10) NOT NULL,
    content VARCHAR(255) NOT NULL,
    description VARCHAR(200),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS support_messages (
    id UUID PRIMARY KEY,
    user_id UUID NOT NULL REFERENCES users(id),
    content TEXT NOT NULL,
    is_read BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`,
	},
}

// Migrate applies every pending migration in order. It is idempotent: applied
// versions are recorded in schema_migrations and skipped on the next run.
func Migrate(ctx context.Context, db *sqlx.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	const ledger = `CREATE TABLE IF NOT EXISTS schema_migrations (
        version INTEGER PRIMARY KEY,
        name VARCHAR(100) NOT NULL,
        applied_at TIMESTAMPTZ NOT NULL
    )`
	if _, err := db.ExecContext(ctx, ledger); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range Migrations {
		applied, err := migrationApplied(ctx, db, m.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		logger.Info("migration applied", zap.Int("version", m.Version), zap.String("name", m.Name))
	}

	return nil
}

func migrationApplied(ctx context.Context, db *sqlx.DB, version int) (bool, error) {
	var found int
	err := db.GetContext(ctx, &found, "SELECT version FROM schema_migrations WHERE version = $1", version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check migration %d: %w", version, err)
	}
	return true, nil
}

func applyMigration(ctx context.Context, db *sqlx.DB, m Migration) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, m.Up); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, name, applied_at) VALUES ($1, $2, $3)",
		m.Version, m.Name, time.Now().UTC()); err != nil {
		return err
	}

	return tx.Commit()
}
