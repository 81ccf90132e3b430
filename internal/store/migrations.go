package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY,
	from_name  TEXT NOT NULL DEFAULT '',
	from_email TEXT NOT NULL DEFAULT '',
	to_addrs   TEXT NOT NULL DEFAULT '[]',
	subject    TEXT NOT NULL DEFAULT '',
	body       TEXT NOT NULL DEFAULT '',
	date       DATETIME NOT NULL,
	read       INTEGER NOT NULL DEFAULT 0 CHECK(read IN (0, 1)),
	starred    INTEGER NOT NULL DEFAULT 0 CHECK(starred IN (0, 1)),
	labels     TEXT NOT NULL DEFAULT '[]',
	folder     TEXT NOT NULL DEFAULT 'inbox' CHECK(folder IN ('inbox', 'sent', 'archive')),
	raw        TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS rules (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	condition    TEXT NOT NULL CHECK(condition IN ('from', 'to', 'subject', 'body')),
	value        TEXT NOT NULL,
	action       TEXT NOT NULL CHECK(action IN ('label', 'move', 'forward', 'reply')),
	action_value TEXT NOT NULL,
	enabled      INTEGER NOT NULL DEFAULT 1 CHECK(enabled IN (0, 1)),
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	sort_order   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS events (
	id                TEXT PRIMARY KEY,
	title             TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	date              DATETIME NOT NULL,
	time              TEXT NOT NULL DEFAULT '',
	is_all_day        INTEGER NOT NULL DEFAULT 0 CHECK(is_all_day IN (0, 1)),
	reminder_minutes  INTEGER NOT NULL DEFAULT 30,
	category          TEXT NOT NULL DEFAULT 'other',
	source_message_id TEXT NOT NULL DEFAULT '',
	source_subject    TEXT NOT NULL DEFAULT '',
	completed         INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1))
);

CREATE TABLE IF NOT EXISTS scheduled_emails (
	id         TEXT PRIMARY KEY,
	recipient  TEXT NOT NULL,
	subject    TEXT NOT NULL,
	body       TEXT NOT NULL,
	cadence    TEXT NOT NULL CHECK(cadence IN ('once', 'daily', 'weekly', 'monthly')),
	day        TEXT NOT NULL DEFAULT '',
	time       TEXT NOT NULL DEFAULT '',
	enabled    INTEGER NOT NULL DEFAULT 1 CHECK(enabled IN (0, 1)),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	kind       TEXT NOT NULL,
	message_id TEXT NOT NULL DEFAULT '',
	text       TEXT NOT NULL,
	read       INTEGER NOT NULL DEFAULT 0 CHECK(read IN (0, 1)),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_messages_folder ON messages(folder);
CREATE INDEX IF NOT EXISTS idx_messages_date ON messages(date);
CREATE INDEX IF NOT EXISTS idx_messages_read ON messages(read);
CREATE INDEX IF NOT EXISTS idx_events_date ON events(date);
CREATE INDEX IF NOT EXISTS idx_events_source ON events(source_message_id);
CREATE INDEX IF NOT EXISTS idx_notifications_read ON notifications(read);
CREATE INDEX IF NOT EXISTS idx_notifications_created ON notifications(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_messages_folder_date ON messages(folder, date);
CREATE INDEX IF NOT EXISTS idx_rules_sort ON rules(sort_order, created_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
