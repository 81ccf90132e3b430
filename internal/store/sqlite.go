package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/darkmailhq/darkmail/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SaveMessage inserts or replaces a single message.
func (s *SQLiteStore) SaveMessage(ctx context.Context, msg model.Message) error {
	return s.SaveMessages(ctx, []model.Message{msg})
}

// SaveMessages inserts or replaces a batch of messages in one
// transaction.
func (s *SQLiteStore) SaveMessages(ctx context.Context, msgs []model.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO messages (
			id, from_name, from_email, to_addrs,
			subject, body, date,
			read, starred, labels, folder, raw
		) VALUES (
			?, ?, ?, ?,
			?, ?, ?,
			?, ?, ?, ?, ?
		)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing message upsert: %w", err)
	}
	defer stmt.Close()

	for _, m := range msgs {
		toJSON, err := json.Marshal(m.To)
		if err != nil {
			return fmt.Errorf("marshaling recipients for message %s: %w", m.ID, err)
		}
		labelsJSON, err := json.Marshal(m.Labels)
		if err != nil {
			return fmt.Errorf("marshaling labels for message %s: %w", m.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			m.ID, m.From.Name, m.From.Email, string(toJSON),
			m.Subject, m.Body, m.Date.UTC(),
			boolToInt(m.Read), boolToInt(m.Starred),
			string(labelsJSON), string(m.Folder), m.Raw,
		)
		if err != nil {
			return fmt.Errorf("saving message %s: %w", m.ID, err)
		}
	}

	return tx.Commit()
}

// messageQuery builds the WHERE clause and args for a MessageFilter.
func messageQuery(filter MessageFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.Folder != nil {
		conditions = append(conditions, "folder = ?")
		args = append(args, string(*filter.Folder))
	}
	if filter.Label != nil {
		// Labels are a JSON array of strings; match the quoted form.
		conditions = append(conditions, "labels LIKE ?")
		args = append(args, `%"`+*filter.Label+`"%`)
	}
	if filter.Unread != nil {
		conditions = append(conditions, "read = ?")
		args = append(args, boolToInt(!*filter.Unread))
	}
	if filter.Starred != nil {
		conditions = append(conditions, "starred = ?")
		args = append(args, boolToInt(*filter.Starred))
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions,
			"(subject LIKE ? OR body LIKE ? OR from_name LIKE ? OR from_email LIKE ?)")
		q := "%" + *filter.Query + "%"
		args = append(args, q, q, q, q)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}
	return where, args
}

// GetMessages retrieves messages matching the provided filter.
func (s *SQLiteStore) GetMessages(
	ctx context.Context,
	filter MessageFilter,
) ([]model.Message, error) {
	where, args := messageQuery(filter)

	direction := "DESC"
	if filter.SortAsc {
		direction = "ASC"
	}
	query := "SELECT * FROM messages" + where + " ORDER BY date " + direction

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var msgs []model.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}

	return msgs, rows.Err()
}

// AllMessages returns every stored message, newest first.
func (s *SQLiteStore) AllMessages(ctx context.Context) ([]model.Message, error) {
	return s.GetMessages(ctx, MessageFilter{})
}

// CountMessages returns the number of messages matching the filter.
func (s *SQLiteStore) CountMessages(
	ctx context.Context,
	filter MessageFilter,
) (int, error) {
	where, args := messageQuery(filter)

	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM messages"+where, args...)
	if err != nil {
		return 0, fmt.Errorf("counting messages: %w", err)
	}
	return count, nil
}

// GetMessageByID retrieves a single message by its ID.
func (s *SQLiteStore) GetMessageByID(
	ctx context.Context,
	id string,
) (*model.Message, error) {
	row := s.db.QueryRowxContext(ctx, "SELECT * FROM messages WHERE id = ?", id)

	m, err := scanMessageRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("message %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("getting message %s: %w", id, err)
	}

	return &m, nil
}

// UpdateMessage replaces a stored message. The message must exist.
func (s *SQLiteStore) UpdateMessage(ctx context.Context, msg model.Message) error {
	toJSON, err := json.Marshal(msg.To)
	if err != nil {
		return fmt.Errorf("marshaling recipients: %w", err)
	}
	labelsJSON, err := json.Marshal(msg.Labels)
	if err != nil {
		return fmt.Errorf("marshaling labels: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE messages SET
			from_name = ?, from_email = ?, to_addrs = ?,
			subject = ?, body = ?, date = ?,
			read = ?, starred = ?, labels = ?, folder = ?, raw = ?
		WHERE id = ?`,
		msg.From.Name, msg.From.Email, string(toJSON),
		msg.Subject, msg.Body, msg.Date.UTC(),
		boolToInt(msg.Read), boolToInt(msg.Starred),
		string(labelsJSON), string(msg.Folder), msg.Raw,
		msg.ID,
	)
	if err != nil {
		return fmt.Errorf("updating message %s: %w", msg.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update of message %s: %w", msg.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("message %s: %w", msg.ID, ErrNotFound)
	}
	return nil
}

// DeleteMessage removes a message by ID.
func (s *SQLiteStore) DeleteMessage(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM messages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting message %s: %w", id, err)
	}
	return nil
}

// rowScanner abstracts sqlx.Rows and sqlx.Row for the scan helpers.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanMessage scans a message row from a sqlx.Rows result set.
func scanMessage(rows *sqlx.Rows) (model.Message, error) {
	return scanMessageFields(rows)
}

// scanMessageRow scans a single message row from a sqlx.Row.
func scanMessageRow(row *sqlx.Row) (model.Message, error) {
	return scanMessageFields(row)
}

func scanMessageFields(r rowScanner) (model.Message, error) {
	var (
		m          model.Message
		toJSON     string
		labelsJSON string
		readInt    int
		starredInt int
		folder     string
	)

	err := r.Scan(
		&m.ID, &m.From.Name, &m.From.Email, &toJSON,
		&m.Subject, &m.Body, &m.Date,
		&readInt, &starredInt, &labelsJSON, &folder, &m.Raw,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Message{}, err
		}
		return model.Message{}, fmt.Errorf("scanning message row: %w", err)
	}

	m.Read = readInt != 0
	m.Starred = starredInt != 0
	m.Folder = model.Folder(folder)
	m.Date = m.Date.Local()

	if err := json.Unmarshal([]byte(toJSON), &m.To); err != nil {
		return model.Message{}, fmt.Errorf("unmarshaling recipients: %w", err)
	}
	if err := json.Unmarshal([]byte(labelsJSON), &m.Labels); err != nil {
		return model.Message{}, fmt.Errorf("unmarshaling labels: %w", err)
	}

	return m, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
