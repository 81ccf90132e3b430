package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/darkmailhq/darkmail/internal/model"
)

// UpsertEvent inserts or replaces a calendar event. Extraction relies
// on this being a replace: re-extracting a message rewrites the same
// event row instead of duplicating it.
func (s *SQLiteStore) UpsertEvent(ctx context.Context, ev model.CalendarEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO events (
			id, title, description, date, time, is_all_day,
			reminder_minutes, category, source_message_id, source_subject, completed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Title, ev.Description, ev.Date.UTC(), ev.Time,
		boolToInt(ev.IsAllDay), ev.ReminderMinutes, string(ev.Category),
		ev.SourceMessageID, ev.SourceSubject, boolToInt(ev.Completed),
	)
	if err != nil {
		return fmt.Errorf("upserting event %s: %w", ev.ID, err)
	}
	return nil
}

// GetEvents retrieves events matching the filter, ordered by date.
func (s *SQLiteStore) GetEvents(
	ctx context.Context,
	filter EventFilter,
) ([]model.CalendarEvent, error) {
	var conditions []string
	var args []interface{}

	if filter.Category != nil {
		conditions = append(conditions, "category = ?")
		args = append(args, string(*filter.Category))
	}
	if filter.From != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.From.UTC())
	}
	if filter.To != nil {
		conditions = append(conditions, "date < ?")
		args = append(args, filter.To.UTC())
	}
	if !filter.IncludeCompleted {
		conditions = append(conditions, "completed = 0")
	}

	query := "SELECT * FROM events"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date, time"

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []model.CalendarEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}

// GetEventByID retrieves a single event by its ID.
func (s *SQLiteStore) GetEventByID(
	ctx context.Context,
	id string,
) (*model.CalendarEvent, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM events WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("getting event %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("getting event %s: %w", id, err)
		}
		return nil, fmt.Errorf("event %s: %w", id, ErrNotFound)
	}

	ev, err := scanEvent(rows)
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// DeleteEvent removes an event by ID.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting event %s: %w", id, err)
	}
	return nil
}

// ToggleEventCompleted flips an event's completed flag.
func (s *SQLiteStore) ToggleEventCompleted(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE events SET completed = 1 - completed WHERE id = ?", id,
	)
	if err != nil {
		return fmt.Errorf("toggling event %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking toggle of event %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("event %s: %w", id, ErrNotFound)
	}
	return nil
}

// scanEvent scans an event row from a sqlx.Rows result set.
func scanEvent(rows *sqlx.Rows) (model.CalendarEvent, error) {
	var (
		ev           model.CalendarEvent
		date         time.Time
		allDayInt    int
		category     string
		completedInt int
	)

	err := rows.Scan(
		&ev.ID, &ev.Title, &ev.Description, &date, &ev.Time, &allDayInt,
		&ev.ReminderMinutes, &category, &ev.SourceMessageID,
		&ev.SourceSubject, &completedInt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.CalendarEvent{}, err
		}
		return model.CalendarEvent{}, fmt.Errorf("scanning event row: %w", err)
	}

	ev.Date = date.Local()
	ev.IsAllDay = allDayInt != 0
	ev.Category = model.Category(category)
	ev.Completed = completedInt != 0

	return ev, nil
}
