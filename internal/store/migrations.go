package store

// migration pairs a schema version with the SQL that brings the
// database up to that version.
type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY
			);

			CREATE TABLE IF NOT EXISTS seen_clips (
				clip_id TEXT PRIMARY KEY,
				seen_at TIMESTAMP NOT NULL
			);

			CREATE TABLE IF NOT EXISTS ui_state (
				key   TEXT PRIMARY KEY,
				value TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS notifications (
				id         TEXT PRIMARY KEY,
				kind       TEXT NOT NULL,
				message    TEXT NOT NULL,
				read       INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL
			);

			INSERT INTO schema_version (version) VALUES (1);
		`,
	},
}
