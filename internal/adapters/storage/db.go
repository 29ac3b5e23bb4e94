package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// migration is one forward-only schema step.
type migration struct {
	version int
	name    string
	sql     string
}

// migrations are applied in order; never edit a released step, append a new one.
var migrations = []migration{
	{1, "identity_and_profiles", `
	CREATE TABLE IF NOT EXISTS credential (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS profile (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		full_name TEXT NOT NULL,
		avatar TEXT NOT NULL DEFAULT '',
		birth_date TEXT NOT NULL DEFAULT '',
		nationality TEXT NOT NULL DEFAULT '',
		has_experience INTEGER NOT NULL DEFAULT 0,
		how_found TEXT NOT NULL DEFAULT '',
		health_info TEXT NOT NULL DEFAULT '',
		underage INTEGER NOT NULL DEFAULT 0,
		parent_name TEXT NOT NULL DEFAULT '',
		parent_phone TEXT NOT NULL DEFAULT '',
		address TEXT NOT NULL DEFAULT '',
		join_date TEXT NOT NULL DEFAULT '',
		next_payment TEXT,
		classes TEXT NOT NULL DEFAULT '[]',
		class_progress TEXT NOT NULL DEFAULT '[]',
		streak INTEGER NOT NULL DEFAULT 0,
		training TEXT NOT NULL DEFAULT '{}',
		role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'admin')),
		belt_level TEXT NOT NULL DEFAULT '',
		student_notes TEXT NOT NULL DEFAULT '',
		waiver_signed INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_profile_role_join ON profile(role, join_date);
	`},
	{2, "memberships", `
	CREATE TABLE IF NOT EXISTS membership_plan (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		price REAL NOT NULL DEFAULT 0,
		duration_days INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS membership_assignment (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		membership_id TEXT,
		type TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL,
		end_date TEXT,
		active INTEGER NOT NULL DEFAULT 1,
		total_paid REAL NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES profile(id) ON DELETE CASCADE,
		FOREIGN KEY (membership_id) REFERENCES membership_plan(id) ON DELETE SET NULL
	);
	CREATE INDEX IF NOT EXISTS idx_assignment_active_end ON membership_assignment(active, end_date);
	`},
	{3, "training", `
	CREATE TABLE IF NOT EXISTS hours_log (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		class_name TEXT NOT NULL,
		date TEXT NOT NULL,
		hours REAL NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES profile(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_hours_log_user_date ON hours_log(user_id, date);

	CREATE TABLE IF NOT EXISTS gym_class (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		coach TEXT NOT NULL,
		schedule TEXT NOT NULL DEFAULT '',
		capacity INTEGER NOT NULL,
		enrolled INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS class_log (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		class_name TEXT NOT NULL,
		instructor TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES profile(id) ON DELETE CASCADE
	);
	`},
	{4, "waivers_children_audit", `
	CREATE TABLE IF NOT EXISTS waiver (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'signed',
		revoked INTEGER NOT NULL DEFAULT 0,
		participant_name TEXT NOT NULL,
		participant_email TEXT NOT NULL DEFAULT '',
		participant_age INTEGER,
		is_minor INTEGER NOT NULL DEFAULT 0,
		guardian_name TEXT NOT NULL DEFAULT '',
		guardian_relation TEXT NOT NULL DEFAULT '',
		signature_url TEXT NOT NULL,
		gym_owner_1 TEXT NOT NULL DEFAULT '',
		gym_owner_2 TEXT NOT NULL DEFAULT '',
		accepted_esign_law INTEGER NOT NULL DEFAULT 0,
		allowed_marketing INTEGER NOT NULL DEFAULT 0,
		signed_at TEXT NOT NULL,
		FOREIGN KEY (user_id) REFERENCES profile(id) ON DELETE CASCADE
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_waiver_one_active ON waiver(user_id) WHERE status = 'signed' AND revoked = 0;

	CREATE TABLE IF NOT EXISTS child_profile (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		birth_date TEXT NOT NULL DEFAULT '',
		health_info TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS parent_link (
		id TEXT PRIMARY KEY,
		parent_id TEXT NOT NULL,
		child_id TEXT NOT NULL,
		relation TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (parent_id) REFERENCES profile(id) ON DELETE CASCADE,
		FOREIGN KEY (child_id) REFERENCES child_profile(id) ON DELETE CASCADE,
		UNIQUE (parent_id, child_id)
	);

	CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		user_id TEXT NOT NULL DEFAULT '',
		user_email TEXT NOT NULL DEFAULT '',
		action TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		level TEXT NOT NULL DEFAULT 'info',
		source TEXT NOT NULL DEFAULT 'server',
		message TEXT NOT NULL DEFAULT '',
		stacktrace TEXT NOT NULL DEFAULT '',
		context TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_audit_log_created ON audit_log(created_at);
	`},
	{5, "plan_duration_label", `
	ALTER TABLE membership_plan ADD COLUMN duration TEXT NOT NULL DEFAULT '';
	UPDATE membership_plan SET duration = duration_days || ' días' WHERE duration = '';
	`},
}

// LatestSchemaVersion returns the version the schema reaches after MigrateDB.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// MigrateDB brings the schema up to LatestSchemaVersion. Each pending
// migration runs in its own transaction together with its version row.
// PRE: db is a valid database connection with foreign keys enabled
// POST: All migrations up to LatestSchemaVersion are applied exactly once
func MigrateDB(db *sql.DB) error {
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := CurrentSchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(ctx, db, m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		slog.Info("schema_migrated", "version", m.version, "name", m.name)
	}
	return nil
}

// CurrentSchemaVersion returns the highest applied migration version, or 0.
func CurrentSchemaVersion(db *sql.DB) (int, error) {
	var v sql.NullInt64
	if err := db.QueryRow("SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(v.Int64), nil
}

func applyMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_version (version, name, applied_at) VALUES (?, ?, ?)",
		m.version, m.name, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	return tx.Commit()
}
