package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/darkmailhq/darkmail/internal/model"
)

// CreateRule validates and inserts a new automation rule. It is
// appended after the existing rules so evaluation order is stable.
func (s *SQLiteStore) CreateRule(ctx context.Context, rule model.Rule) error {
	if err := rule.Validate(); err != nil {
		return fmt.Errorf("invalid rule: %w", err)
	}
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now()
	}

	var maxOrder int
	if err := s.db.GetContext(ctx, &maxOrder,
		"SELECT COALESCE(MAX(sort_order), 0) FROM rules"); err != nil {
		return fmt.Errorf("reading rule order: %w", err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rules (id, name, condition, value, action, action_value, enabled, created_at, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rule.ID, rule.Name, string(rule.Condition), rule.Value,
		string(rule.Action), rule.ActionValue,
		boolToInt(rule.Enabled), rule.CreatedAt.UTC(), maxOrder+1,
	)
	if err != nil {
		return fmt.Errorf("creating rule %q: %w", rule.Name, err)
	}
	return nil
}

// UpdateRule replaces a stored rule's fields, keeping its position in
// the evaluation order.
func (s *SQLiteStore) UpdateRule(ctx context.Context, rule model.Rule) error {
	if err := rule.Validate(); err != nil {
		return fmt.Errorf("invalid rule: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE rules SET
			name = ?, condition = ?, value = ?,
			action = ?, action_value = ?, enabled = ?
		WHERE id = ?`,
		rule.Name, string(rule.Condition), rule.Value,
		string(rule.Action), rule.ActionValue, boolToInt(rule.Enabled),
		rule.ID,
	)
	if err != nil {
		return fmt.Errorf("updating rule %s: %w", rule.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update of rule %s: %w", rule.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("rule %s: %w", rule.ID, ErrNotFound)
	}
	return nil
}

// DeleteRule removes a rule by ID.
func (s *SQLiteStore) DeleteRule(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM rules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting rule %s: %w", id, err)
	}
	return nil
}

// GetRules retrieves all rules in evaluation order.
func (s *SQLiteStore) GetRules(ctx context.Context) ([]model.Rule, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT id, name, condition, value, action, action_value, enabled, created_at FROM rules ORDER BY sort_order, created_at",
	)
	if err != nil {
		return nil, fmt.Errorf("querying rules: %w", err)
	}
	defer rows.Close()

	var rules []model.Rule
	for rows.Next() {
		r, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}

	return rules, rows.Err()
}

// scanRule scans a rule row from a sqlx.Rows result set.
func scanRule(rows *sqlx.Rows) (model.Rule, error) {
	var (
		r          model.Rule
		condition  string
		action     string
		enabledInt int
		createdAt  time.Time
	)

	err := rows.Scan(
		&r.ID, &r.Name, &condition, &r.Value,
		&action, &r.ActionValue, &enabledInt, &createdAt,
	)
	if err != nil {
		return model.Rule{}, fmt.Errorf("scanning rule row: %w", err)
	}

	r.Condition = model.RuleCondition(condition)
	r.Action = model.RuleAction(action)
	r.Enabled = enabledInt != 0
	r.CreatedAt = createdAt.Local()

	return r, nil
}
