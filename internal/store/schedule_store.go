package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/darkmailhq/darkmail/internal/model"
)

// CreateScheduledEmail inserts a new scheduled email.
func (s *SQLiteStore) CreateScheduledEmail(ctx context.Context, se model.ScheduledEmail) error {
	if se.ID == "" {
		se.ID = uuid.NewString()
	}
	if se.CreatedAt.IsZero() {
		se.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scheduled_emails (id, recipient, subject, body, cadence, day, time, enabled, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		se.ID, se.To, se.Subject, se.Body,
		string(se.Cadence), se.Day, se.Time,
		boolToInt(se.Enabled), se.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating scheduled email %q: %w", se.Subject, err)
	}
	return nil
}

// UpdateScheduledEmail replaces a stored scheduled email's fields.
func (s *SQLiteStore) UpdateScheduledEmail(ctx context.Context, se model.ScheduledEmail) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE scheduled_emails SET
			recipient = ?, subject = ?, body = ?,
			cadence = ?, day = ?, time = ?, enabled = ?
		WHERE id = ?`,
		se.To, se.Subject, se.Body,
		string(se.Cadence), se.Day, se.Time, boolToInt(se.Enabled),
		se.ID,
	)
	if err != nil {
		return fmt.Errorf("updating scheduled email %s: %w", se.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update of scheduled email %s: %w", se.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("scheduled email %s: %w", se.ID, ErrNotFound)
	}
	return nil
}

// DeleteScheduledEmail removes a scheduled email by ID.
func (s *SQLiteStore) DeleteScheduledEmail(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM scheduled_emails WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting scheduled email %s: %w", id, err)
	}
	return nil
}

// GetScheduledEmails retrieves all scheduled emails, oldest first.
func (s *SQLiteStore) GetScheduledEmails(ctx context.Context) ([]model.ScheduledEmail, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT * FROM scheduled_emails ORDER BY created_at",
	)
	if err != nil {
		return nil, fmt.Errorf("querying scheduled emails: %w", err)
	}
	defer rows.Close()

	var scheduled []model.ScheduledEmail
	for rows.Next() {
		se, err := scanScheduledEmail(rows)
		if err != nil {
			return nil, err
		}
		scheduled = append(scheduled, se)
	}

	return scheduled, rows.Err()
}

// scanScheduledEmail scans a scheduled email row.
func scanScheduledEmail(rows *sqlx.Rows) (model.ScheduledEmail, error) {
	var (
		se         model.ScheduledEmail
		cadence    string
		enabledInt int
		createdAt  time.Time
	)

	err := rows.Scan(
		&se.ID, &se.To, &se.Subject, &se.Body,
		&cadence, &se.Day, &se.Time, &enabledInt, &createdAt,
	)
	if err != nil {
		return model.ScheduledEmail{}, fmt.Errorf("scanning scheduled email row: %w", err)
	}

	se.Cadence = model.Cadence(cadence)
	se.Enabled = enabledInt != 0
	se.CreatedAt = createdAt.Local()

	return se, nil
}
